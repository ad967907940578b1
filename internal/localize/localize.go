// Package localize rewrites archived pages to reference local media copies.
// It scans every page for media URLs on the legacy host, downloads each one
// once into the images directory, and replaces the remote references.
package localize

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/logger"
	"mechanicape-archief/pkg/assetname"
)

// ErrUnexpectedStatusCode indicates a media download returned a non-200
// response.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Localizer downloads remote media and rewrites page references.
type Localizer struct {
	cfg        *config.Config
	client     *http.Client
	refPattern *regexp.Regexp
	log        *logger.Logger
}

// NewLocalizer creates a localizer for the configured remote prefix.
func NewLocalizer(cfg *config.Config, log *logger.Logger) *Localizer {
	pattern := regexp.MustCompile(`(?:src|href)="(` + regexp.QuoteMeta(cfg.Localize.RemotePrefix) + `[^"]+)"`)

	return &Localizer{
		cfg:        cfg,
		client:     &http.Client{Timeout: cfg.Localize.GetTimeout()},
		refPattern: pattern,
		log:        log,
	}
}

// FileResult describes what happened to one page.
type FileResult struct {
	File       string
	Refs       int
	Downloaded int
	Reused     int
	Failed     int
	Changed    bool
}

// Summary aggregates a localization run.
type Summary struct {
	Files      int
	Updated    int
	Downloaded int
	Failed     int
	Errors     int
}

// Run processes every archived page except the index. Download failures are
// counted and leave the remote reference in place; only read or write errors
// on the page itself skip a file.
func (l *Localizer) Run() (*Summary, error) {
	outputDir := l.cfg.Archive.OutputDir

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	if err := os.MkdirAll(l.cfg.Archive.ImagesPath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".html") || name == l.cfg.Archive.IndexFile {
			continue
		}

		files = append(files, name)
	}
	sort.Strings(files)

	summary := &Summary{}

	for _, name := range files {
		result, err := l.ProcessFile(filepath.Join(outputDir, name))
		if err != nil {
			l.log.Error("Failed to process page", "file", name, "error", err)
			summary.Errors++

			continue
		}

		summary.Files++
		summary.Downloaded += result.Downloaded
		summary.Failed += result.Failed

		if result.Changed {
			summary.Updated++
		}

		if l.cfg.Logging.ShowProgress && result.Refs > 0 {
			fmt.Printf("📄 %s: %d refs, %d downloaded, %d cached, %d failed\n",
				name, result.Refs, result.Downloaded, result.Reused, result.Failed)
		}
	}

	return summary, nil
}

// ProcessFile localizes the media references of a single page. The page is
// rewritten only when at least one reference changed.
func (l *Localizer) ProcessFile(path string) (*FileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(data)
	original := content

	urls := l.collectRefs(content)
	result := &FileResult{File: filepath.Base(path), Refs: len(urls)}

	log := l.log.With("file", result.File)

	for _, rawURL := range urls {
		name := assetname.ForURL(rawURL)
		localPath := filepath.Join(l.cfg.Archive.ImagesPath(), name)

		if _, err := os.Stat(localPath); err != nil {
			if err := l.download(rawURL, localPath); err != nil {
				log.Warn("Download failed, reference left remote", "url", rawURL, "error", err)
				result.Failed++

				continue
			}

			result.Downloaded++
			log.Debug("Downloaded media", "url", rawURL, "local", name)

			if delay := l.cfg.Localize.GetDelay(); delay > 0 {
				time.Sleep(delay)
			}
		} else {
			result.Reused++
		}

		content = strings.ReplaceAll(content, rawURL, l.cfg.Archive.ImagesDir+"/"+name)
	}

	if content != original {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}

		result.Changed = true
	}

	return result, nil
}

// collectRefs returns the distinct remote media URLs in the page, longest
// first. The replacement is a literal string substitution, so a URL that
// extends another (the query-string variant of the same path) must be
// rewritten before its prefix.
func (l *Localizer) collectRefs(content string) []string {
	seen := make(map[string]bool)

	var urls []string
	for _, match := range l.refPattern.FindAllStringSubmatch(content, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			urls = append(urls, match[1])
		}
	}

	sort.Slice(urls, func(i, j int) bool {
		if len(urls[i]) != len(urls[j]) {
			return len(urls[i]) > len(urls[j])
		}

		return urls[i] < urls[j]
	})

	return urls
}

// download fetches one media file to localPath. A partial file left by a
// failed copy is removed so the next run retries the download.
func (l *Localizer) download(rawURL, localPath string) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", l.cfg.Site.UserAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(localPath)

		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	return out.Close()
}
