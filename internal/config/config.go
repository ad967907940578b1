// Package config provides configuration management for the archive tools.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL         = errors.New("site.base_url is required")
	ErrInvalidTimeout         = errors.New("timeout_sec must be at least 1")
	ErrNoRanges               = errors.New("at least one scan range is required")
	ErrNoEnabledRanges        = errors.New("at least one scan range must be enabled")
	ErrInvalidRange           = errors.New("range start must be at least 1 and end must not be below start")
	ErrInvalidDelay           = errors.New("delay_ms must be non-negative")
	ErrNoSelectors            = errors.New("extract.selectors requires at least one selector")
	ErrInvalidParagraphLength = errors.New("extract.min_paragraph_len must be at least 1")
	ErrInvalidContentLength   = errors.New("extract.min_content_len must be at least 1")
	ErrInvalidDedupPrefix     = errors.New("extract.dedup_prefix_len must be at least 1")
	ErrInvalidMaxImages       = errors.New("extract.max_images must be at least 1")
	ErrMissingOutputDir       = errors.New("archive.output_dir is required")
	ErrMissingImagesDir       = errors.New("archive.images_dir is required")
	ErrMissingRemotePrefix    = errors.New("localize.remote_prefix is required")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete archive toolset configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Scan     ScanConfig     `yaml:"scan"`
	Extract  ExtractConfig  `yaml:"extract"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Localize LocalizeConfig `yaml:"localize"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SiteConfig describes the site being archived and how to reach it.
type SiteConfig struct {
	BaseURL    string `yaml:"base_url"`
	UserAgent  string `yaml:"user_agent"`
	TimeoutSec int    `yaml:"timeout_sec"`
	MaxBodyKb  int    `yaml:"max_body_kb"`
}

// RangeConfig describes one node ID range to scan. Bounds are inclusive.
type RangeConfig struct {
	Name    string `yaml:"name"`
	Start   int    `yaml:"start"`
	End     int    `yaml:"end"`
	Enabled bool   `yaml:"enabled"`
}

// Label returns the range name, or "start-end" when no name is set.
func (r *RangeConfig) Label() string {
	if r.Name != "" {
		return r.Name
	}

	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Count returns the number of IDs covered by the range.
func (r *RangeConfig) Count() int {
	return r.End - r.Start + 1
}

// ScanConfig defines range scanner behavior.
type ScanConfig struct {
	Ranges        []RangeConfig `yaml:"ranges"`
	DelayMs       int           `yaml:"delay_ms"`
	CursorFile    string        `yaml:"cursor_file"`
	ReportFile    string        `yaml:"report_file"`
	ProgressEvery int           `yaml:"progress_every"`
}

// ExtractConfig holds the content extraction policy. All term lists are
// ordered and matched case-sensitively unless noted otherwise.
type ExtractConfig struct {
	Selectors        []string `yaml:"selectors"`
	StripElements    []string `yaml:"strip_elements"`
	BoilerplateTerms []string `yaml:"boilerplate_terms"`
	TitleSkipWords   []string `yaml:"title_skip_words"`
	AuthorNames      []string `yaml:"author_names"`
	AttachmentExts   []string `yaml:"attachment_exts"`
	ImagePathMarker  string   `yaml:"image_path_marker"`
	ImageSkipTerms   []string `yaml:"image_skip_terms"`
	DefaultDate      string   `yaml:"default_date"`
	MinParagraphLen  int      `yaml:"min_paragraph_len"`
	MinContentLen    int      `yaml:"min_content_len"`
	DedupPrefixLen   int      `yaml:"dedup_prefix_len"`
	MinLinkText      int      `yaml:"min_link_text"`
	MaxParagraphs    int      `yaml:"max_paragraphs"`
	MaxImages        int      `yaml:"max_images"`
	MaxLinks         int      `yaml:"max_links"`
}

// ArchiveConfig defines where rendered pages are written.
type ArchiveConfig struct {
	OutputDir string `yaml:"output_dir"`
	ImagesDir string `yaml:"images_dir"`
	IndexFile string `yaml:"index_file"`
	SiteTitle string `yaml:"site_title"`
}

// LocalizeConfig defines media localization behavior.
type LocalizeConfig struct {
	RemotePrefix string `yaml:"remote_prefix"`
	TimeoutSec   int    `yaml:"timeout_sec"`
	DelayMs      int    `yaml:"delay_ms"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level          string `yaml:"level"`
	ShowProgress   bool   `yaml:"show_progress"`
	SampleArticles int    `yaml:"sample_articles"`
}

// LoadConfig loads configuration from YAML file.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Check site config
	if c.Site.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if c.Site.TimeoutSec < 1 {
		return fmt.Errorf("%w: site", ErrInvalidTimeout)
	}

	// Validate scan ranges
	if len(c.Scan.Ranges) == 0 {
		return ErrNoRanges
	}

	enabledCount := 0

	for i, rng := range c.Scan.Ranges {
		if rng.Start < 1 || rng.End < rng.Start {
			return fmt.Errorf("%w: ranges[%d]", ErrInvalidRange, i)
		}

		if rng.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledRanges
	}

	if c.Scan.DelayMs < 0 {
		return fmt.Errorf("%w: scan", ErrInvalidDelay)
	}

	// Validate extraction policy
	if len(c.Extract.Selectors) == 0 {
		return ErrNoSelectors
	}

	if c.Extract.MinParagraphLen < 1 {
		return ErrInvalidParagraphLength
	}

	if c.Extract.MinContentLen < 1 {
		return ErrInvalidContentLength
	}

	if c.Extract.DedupPrefixLen < 1 {
		return ErrInvalidDedupPrefix
	}

	if c.Extract.MaxImages < 1 {
		return ErrInvalidMaxImages
	}

	// Validate archive output config
	if c.Archive.OutputDir == "" {
		return ErrMissingOutputDir
	}

	if c.Archive.ImagesDir == "" {
		return ErrMissingImagesDir
	}

	// Validate localizer config
	if c.Localize.RemotePrefix == "" {
		return ErrMissingRemotePrefix
	}

	if c.Localize.TimeoutSec < 1 {
		return fmt.Errorf("%w: localize", ErrInvalidTimeout)
	}

	if c.Localize.DelayMs < 0 {
		return fmt.Errorf("%w: localize", ErrInvalidDelay)
	}

	// Validate logging config
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// EnabledRanges returns only enabled scan ranges, in configured order.
func (c *Config) EnabledRanges() []RangeConfig {
	var enabled []RangeConfig

	for _, rng := range c.Scan.Ranges {
		if rng.Enabled {
			enabled = append(enabled, rng)
		}
	}

	return enabled
}

// NodeURL returns the fetch URL for a node ID.
func (s *SiteConfig) NodeURL(id int) string {
	return fmt.Sprintf("%s/node/%d", strings.TrimRight(s.BaseURL, "/"), id)
}

// GetTimeout returns the fetch timeout duration.
func (s *SiteConfig) GetTimeout() time.Duration {
	return time.Duration(s.TimeoutSec) * time.Second
}

// GetDelay returns the pause applied after every fetch attempt.
func (sc *ScanConfig) GetDelay() time.Duration {
	return time.Duration(sc.DelayMs) * time.Millisecond
}

// GetTimeout returns the media download timeout duration.
func (lc *LocalizeConfig) GetTimeout() time.Duration {
	return time.Duration(lc.TimeoutSec) * time.Second
}

// GetDelay returns the pause applied after every media download.
func (lc *LocalizeConfig) GetDelay() time.Duration {
	return time.Duration(lc.DelayMs) * time.Millisecond
}

// ImagesPath returns the media directory under the output directory.
func (a *ArchiveConfig) ImagesPath() string {
	return filepath.Join(a.OutputDir, a.ImagesDir)
}

// IndexPath returns the full path of the archive index page.
func (a *ArchiveConfig) IndexPath() string {
	return filepath.Join(a.OutputDir, a.IndexFile)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Site: %s, Ranges: %d, Output: %s}",
		c.Site.BaseURL,
		len(c.Scan.Ranges),
		c.Archive.OutputDir,
	)
}

// DefaultConfig returns the configuration the tools run with when no config
// file is given. The lists mirror the markup quirks of mechanicape.nl; a
// different site needs its own config file, not code changes.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			BaseURL:    "https://mechanicape.nl",
			UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			TimeoutSec: 10,
			MaxBodyKb:  2048,
		},
		Scan: ScanConfig{
			Ranges: []RangeConfig{
				{Start: 2800, End: 2899, Enabled: true},
				{Start: 2700, End: 2799, Enabled: true},
				{Start: 2600, End: 2699, Enabled: true},
				{Start: 2500, End: 2599, Enabled: true},
				{Start: 2400, End: 2499, Enabled: true},
				{Start: 2300, End: 2399, Enabled: true},
				{Start: 2200, End: 2299, Enabled: true},
				{Start: 2100, End: 2199, Enabled: true},
				{Start: 2000, End: 2099, Enabled: true},
				{Start: 1900, End: 1999, Enabled: true},
				{Start: 1800, End: 1899, Enabled: true},
				{Start: 1, End: 499, Enabled: true},
				{Start: 500, End: 999, Enabled: true},
				{Start: 1000, End: 1499, Enabled: true},
				{Start: 1500, End: 1999, Enabled: true},
			},
			DelayMs:       50,
			CursorFile:    "archief/scan-cursor.json",
			ReportFile:    "archief/scan-report.json",
			ProgressEvery: 25,
		},
		Extract: ExtractConfig{
			Selectors: []string{
				"div.field-item",
				"section#main-content",
				"main",
				"article",
				"div.content",
			},
			StripElements: []string{"script", "style", "nav", "header", "footer"},
			BoilerplateTerms: []string{
				"Zoeken",
				"Zoekveld",
				"Skip to",
				"Home »",
				"Blogs »",
				"Projecten",
				"Deprecated",
				"session_set_save",
				"blog van rein",
				"Error message",
				"ma,", "di,", "wo,", "do,", "vr,", "za,", "zo,",
			},
			TitleSkipWords: []string{
				"Error",
				"Zoeken",
				"Zoekveld",
				"Home",
				"Projecten",
				"Menu",
				"Page not found",
			},
			AuthorNames:     []string{"rein", "theo", "admin"},
			AttachmentExts:  []string{".pdf", ".zip", ".tar", ".gz", ".doc", ".xls"},
			ImagePathMarker: "sites/default/files",
			ImageSkipTerms:  []string{"apekoplogo", "logo"},
			DefaultDate:     "2015-01-01",
			MinParagraphLen: 30,
			MinContentLen:   150,
			DedupPrefixLen:  100,
			MinLinkText:     4,
			MaxParagraphs:   15,
			MaxImages:       8,
			MaxLinks:        10,
		},
		Archive: ArchiveConfig{
			OutputDir: "archief",
			ImagesDir: "images",
			IndexFile: "index.html",
			SiteTitle: "Theo's Mechanische Aap",
		},
		Localize: LocalizeConfig{
			RemotePrefix: "https://mechanicape.nl/",
			TimeoutSec:   10,
			DelayMs:      100,
		},
		Logging: LoggingConfig{
			Level:          "info",
			ShowProgress:   true,
			SampleArticles: 3,
		},
	}
}
