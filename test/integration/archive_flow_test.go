package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/fetch"
	"mechanicape-archief/internal/logger"
	"mechanicape-archief/internal/models"
	"mechanicape-archief/internal/render"
	"mechanicape-archief/internal/scan"
)

const articleFilename = "2014-05-24-restauratie-van-het-uurwerk.html"

// serveFixtures runs a test server that answers node requests with the
// fixture pages: 2815 is a real article, 2816 a search page, 2818 a stub,
// and everything else a 404.
func serveFixtures(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"/node/2815": filepath.Join("..", "fixtures", "node_2815.html"),
		"/node/2816": filepath.Join("..", "fixtures", "node_2816.html"),
		"/node/2818": filepath.Join("..", "fixtures", "node_2818.html"),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fixture, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)

			return
		}

		data, err := os.ReadFile(fixture)
		if err != nil {
			t.Errorf("Failed to read fixture %s: %v", fixture, err)
			w.WriteHeader(http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	}))
	t.Cleanup(server.Close)

	return server
}

func newArchiveConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()

	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Site.BaseURL = baseURL
	cfg.Logging.ShowProgress = false
	cfg.Scan.DelayMs = 0
	cfg.Scan.Ranges = []config.RangeConfig{{Start: 2815, End: 2818, Enabled: true}}
	cfg.Scan.CursorFile = filepath.Join(dir, "scan-cursor.json")
	cfg.Scan.ReportFile = filepath.Join(dir, "scan-report.json")
	cfg.Archive.OutputDir = filepath.Join(dir, "archief")

	return cfg
}

func TestArchiveFlow_ScanRange(t *testing.T) {
	server := serveFixtures(t)
	cfg := newArchiveConfig(t, server.URL)
	lg := logger.NewLogger("error")

	// 1. Scan (simulating what the archiver cmd does)
	fetcher := fetch.NewFetcher(cfg, lg)
	scanner := scan.NewScanner(cfg, fetcher, render.NewRenderer(cfg), lg)

	report, err := scanner.Run(scan.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 2. One real article among an error page, a stub, and a 404
	if len(report.Ranges) != 1 {
		t.Fatalf("Expected 1 range result, got %d", len(report.Ranges))
	}

	result := report.Ranges[0]

	if result.Scanned != 4 {
		t.Errorf("Expected 4 scanned IDs, got %d", result.Scanned)
	}

	if result.Saved != 1 || result.NotFound != 1 || result.Malformed != 1 || result.TooShort != 1 {
		t.Errorf("Expected counts 1/1/1/1, got saved=%d notFound=%d malformed=%d tooShort=%d",
			result.Saved, result.NotFound, result.Malformed, result.TooShort)
	}

	// 3. The rendered page carries the extracted content
	data, err := os.ReadFile(filepath.Join(cfg.Archive.OutputDir, articleFilename))
	if err != nil {
		t.Fatalf("Failed to read rendered article: %v", err)
	}

	page := string(data)

	checks := []string{
		"<h1>Restauratie van het uurwerk</h1>",
		"2014-05-24",
		"gangwerk",
		server.URL + "/sites/default/files/uurwerk_open.jpg",
		"Gerelateerde links",
		"het handboek uurwerken",
		"Bestanden",
		"Berekening van de veerspanning",
	}
	for _, want := range checks {
		if !strings.Contains(page, want) {
			t.Errorf("Expected rendered page to contain %q", want)
		}
	}

	if strings.Contains(page, "Skip to main content") || strings.Contains(page, "apekoplogo") {
		t.Error("Expected site chrome to be stripped from the rendered page")
	}

	// 4. The page parses back into index data
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("Failed to parse rendered page: %v", err)
	}

	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "Restauratie van het uurwerk" {
		t.Errorf("Expected parsed title, got %q", title)
	}

	if got := doc.Find("article p").Length(); got != 4 {
		t.Errorf("Expected 4 content paragraphs, got %d", got)
	}

	// 5. Report written, cursor cleaned up
	reportData, err := os.ReadFile(cfg.Scan.ReportFile)
	if err != nil {
		t.Fatalf("Failed to read scan report: %v", err)
	}

	var saved models.ScanReport
	if err := json.Unmarshal(reportData, &saved); err != nil {
		t.Fatalf("Failed to parse scan report: %v", err)
	}

	if saved.RunID == "" {
		t.Error("Expected a run ID in the report")
	}

	if len(saved.SavedFiles) != 1 || saved.SavedFiles[0] != articleFilename {
		t.Errorf("Expected saved files [%s], got %v", articleFilename, saved.SavedFiles)
	}

	if _, err := os.Stat(cfg.Scan.CursorFile); !os.IsNotExist(err) {
		t.Error("Expected cursor file to be removed after the run")
	}
}

func TestArchiveFlow_IndexFromRenderedPages(t *testing.T) {
	server := serveFixtures(t)
	cfg := newArchiveConfig(t, server.URL)
	lg := logger.NewLogger("error")

	fetcher := fetch.NewFetcher(cfg, lg)
	renderer := render.NewRenderer(cfg)
	scanner := scan.NewScanner(cfg, fetcher, renderer, lg)

	report, err := scanner.Run(scan.Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Build the index from the scan results the way the indexer does from disk
	var entries []render.IndexEntry
	for _, name := range report.SavedFiles {
		entries = append(entries, render.IndexEntry{
			Title:      "Restauratie van het uurwerk",
			Date:       "2014-05-24",
			Filename:   name,
			Paragraphs: 4,
		})
	}

	index, err := renderer.RenderIndex(entries)
	if err != nil {
		t.Fatalf("RenderIndex failed: %v", err)
	}

	if err := os.WriteFile(cfg.Archive.IndexPath(), []byte(index), 0644); err != nil {
		t.Fatalf("Failed to write index: %v", err)
	}

	if !strings.Contains(index, `<a href="`+articleFilename+`"`) {
		t.Error("Expected the index to link the rendered article")
	}

	if !strings.Contains(index, "<h2>2014</h2>") {
		t.Error("Expected a 2014 year heading in the index")
	}

	if !strings.Contains(index, "1 gearchiveerde artikelen") {
		t.Error("Expected the article count in the index header")
	}
}
