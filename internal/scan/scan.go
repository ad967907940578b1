// Package scan drives the node ID walk: fetch every ID in the enabled
// ranges, render the articles that survive extraction, and account for the
// rest by reason. A failed ID never aborts the run.
package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/logger"
	"mechanicape-archief/internal/models"
	"mechanicape-archief/internal/render"
	"mechanicape-archief/pkg/utils"
)

// NodeFetcher fetches a single node page and classifies the outcome.
type NodeFetcher interface {
	FetchNode(id int) *models.FetchOutcome
}

// Options control a single scan run.
type Options struct {
	Resume bool
	DryRun bool
}

// Scanner walks the configured ID ranges and writes the archive.
type Scanner struct {
	cfg          *config.Config
	fetcher      NodeFetcher
	renderer     *render.Renderer
	strhelper    *utils.StringHelper
	log          *logger.Logger
	cursorWarned bool
}

// NewScanner creates a scanner over the given fetcher and renderer.
func NewScanner(cfg *config.Config, fetcher NodeFetcher, renderer *render.Renderer, log *logger.Logger) *Scanner {
	return &Scanner{
		cfg:       cfg,
		fetcher:   fetcher,
		renderer:  renderer,
		strhelper: utils.NewStringHelper(),
		log:       log,
	}
}

// Run scans every enabled range ID by ID and returns the report. With
// Options.Resume it continues from the cursor of an interrupted run; with
// Options.DryRun it fetches and classifies but writes nothing at all, not
// even cursor or report files.
func (s *Scanner) Run(opts Options) (*models.ScanReport, error) {
	ranges := s.cfg.EnabledRanges()

	report := &models.ScanReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	var cursor *Cursor
	if opts.Resume && !opts.DryRun {
		cursor = s.loadValidCursor(ranges)
		report.Resumed = cursor != nil
	}

	if !opts.DryRun {
		if err := os.MkdirAll(s.cfg.Archive.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	delay := s.cfg.Scan.GetDelay()

	for ri, rng := range ranges {
		result := models.RangeResult{Label: rng.Label(), Start: rng.Start, End: rng.End}

		startID := rng.Start
		if cursor != nil {
			if ri < cursor.RangeIndex {
				report.Ranges = append(report.Ranges, result)
				continue
			}

			if ri == cursor.RangeIndex && cursor.NextID > startID {
				startID = cursor.NextID
			}
		}

		if startID > rng.End {
			report.Ranges = append(report.Ranges, result)
			continue
		}

		if s.cfg.Logging.ShowProgress {
			fmt.Printf("\n📦 Range %s: %d IDs to scan\n", result.Label, rng.End-startID+1)
		}

		for id := startID; id <= rng.End; id++ {
			outcome := s.fetcher.FetchNode(id)
			result.Record(outcome.Reason)

			if outcome.OK() {
				s.handleArticle(opts, outcome.Article, &result, report)
			}

			if s.cfg.Logging.ShowProgress && s.cfg.Scan.ProgressEvery > 0 && result.Scanned%s.cfg.Scan.ProgressEvery == 0 {
				fmt.Printf("⏳ %s: %d scanned, %d saved\n", result.Label, result.Scanned, result.Saved)
			}

			if !opts.DryRun {
				s.persistCursor(&Cursor{RangeIndex: ri, RangeStart: rng.Start, NextID: id + 1})
			}

			if delay > 0 {
				time.Sleep(delay)
			}
		}

		report.Ranges = append(report.Ranges, result)

		if s.cfg.Logging.ShowProgress {
			if result.Saved > 0 {
				fmt.Printf("✅ Range %s: %d articles saved\n", result.Label, result.Saved)
			} else {
				fmt.Printf("   Range %s: no articles\n", result.Label)
			}
		}
	}

	report.FinishedAt = time.Now().UTC()

	if !opts.DryRun {
		ClearCursor(s.cfg.Scan.CursorFile)

		if err := s.writeReport(report); err != nil {
			s.log.Error("Failed to write scan report", "error", err)
		}
	}

	return report, nil
}

func (s *Scanner) handleArticle(opts Options, article *models.Article, result *models.RangeResult, report *models.ScanReport) {
	filename := s.renderer.Filename(article)

	if opts.DryRun {
		result.Saved++
		report.SavedFiles = append(report.SavedFiles, filename)

		if s.cfg.Logging.ShowProgress {
			fmt.Printf("📝 %d: %s (dry run)\n", article.NodeID, filename)
		}

		return
	}

	page, err := s.renderer.RenderArticle(article)
	if err != nil {
		s.log.Error("Render failed", "node", article.NodeID, "error", err)
		result.WriteFailed++

		return
	}

	path := filepath.Join(s.cfg.Archive.OutputDir, filename)
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		s.log.Error("Write failed", "node", article.NodeID, "file", path, "error", err)

		if s.cfg.Logging.ShowProgress {
			fmt.Printf("❌ %d: could not write %s: %v\n", article.NodeID, filename, err)
		}

		result.WriteFailed++

		return
	}

	result.Saved++
	report.SavedFiles = append(report.SavedFiles, filename)

	if s.cfg.Logging.ShowProgress {
		fmt.Printf("✅ %d: %s\n", article.NodeID, s.strhelper.TruncateString(article.Title, 60))
		fmt.Printf("   → %s (%d tekens, %d afbeeldingen, %d links, %d bestanden)\n",
			filename, article.ContentLength(), len(article.Images), len(article.Links), len(article.Attachments))
	}
}

// loadValidCursor returns the stored cursor when it matches the current
// range layout. A cursor written under different ranges would resume at the
// wrong place, so it is discarded with a warning.
func (s *Scanner) loadValidCursor(ranges []config.RangeConfig) *Cursor {
	cursor := LoadCursor(s.cfg.Scan.CursorFile)
	if cursor == nil {
		return nil
	}

	if cursor.RangeIndex < 0 || cursor.RangeIndex >= len(ranges) || ranges[cursor.RangeIndex].Start != cursor.RangeStart {
		s.log.Warn("Cursor does not match configured ranges, starting over", "file", s.cfg.Scan.CursorFile)
		return nil
	}

	return cursor
}

func (s *Scanner) persistCursor(cursor *Cursor) {
	if s.cfg.Scan.CursorFile == "" {
		return
	}

	if err := saveCursor(s.cfg.Scan.CursorFile, cursor); err != nil && !s.cursorWarned {
		s.cursorWarned = true
		s.log.Warn("Could not persist scan cursor", "file", s.cfg.Scan.CursorFile, "error", err)
	}
}

func (s *Scanner) writeReport(report *models.ScanReport) error {
	if s.cfg.Scan.ReportFile == "" {
		return nil
	}

	if dir := filepath.Dir(s.cfg.Scan.ReportFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(s.cfg.Scan.ReportFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
