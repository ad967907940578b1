package localize

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/logger"
	"mechanicape-archief/pkg/assetname"
)

func newMediaServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}

		switch r.URL.Path {
		case "/sites/default/files/foto.jpg":
			fmt.Fprint(w, "JPEGDATA")
		case "/sites/default/files/stuk.pdf":
			fmt.Fprint(w, "PDFDATA")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestLocalizer(t *testing.T, archiveDir, remotePrefix string) *Localizer {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Logging.ShowProgress = false
	cfg.Archive.OutputDir = archiveDir
	cfg.Localize.RemotePrefix = remotePrefix
	cfg.Localize.DelayMs = 0

	return NewLocalizer(cfg, logger.NewLogger("error"))
}

func writePage(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Expected page write to succeed, got error: %v", err)
	}

	return path
}

func TestLocalizer_Run_DownloadsAndRewrites(t *testing.T) {
	server := newMediaServer(t, nil)
	dir := t.TempDir()

	imgURL := server.URL + "/sites/default/files/foto.jpg"
	pdfURL := server.URL + "/sites/default/files/stuk.pdf"

	page := fmt.Sprintf(`<img src="%s" alt="Project afbeelding"><a href="%s">stuk.pdf</a>`, imgURL, pdfURL)
	path := writePage(t, dir, "2014-11-10-de-aap.html", page)

	loc := newTestLocalizer(t, dir, server.URL+"/")

	summary, err := loc.Run()
	if err != nil {
		t.Fatalf("Expected run to succeed, got error: %v", err)
	}

	if summary.Files != 1 || summary.Updated != 1 || summary.Downloaded != 2 || summary.Failed != 0 {
		t.Errorf("Expected summary 1/1/2/0, got %+v", summary)
	}

	imgName := assetname.ForURL(imgURL)

	data, err := os.ReadFile(filepath.Join(dir, "images", imgName))
	if err != nil {
		t.Fatalf("Expected downloaded media file, got error: %v", err)
	}

	if string(data) != "JPEGDATA" {
		t.Errorf("Expected media body to be stored, got %q", data)
	}

	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected page read to succeed, got error: %v", err)
	}

	if !strings.Contains(string(rewritten), `src="images/`+imgName+`"`) {
		t.Error("Expected image reference rewritten to the local copy")
	}

	if strings.Contains(string(rewritten), server.URL) {
		t.Error("Expected no remote references to remain")
	}
}

func TestLocalizer_Run_SecondPassIdempotent(t *testing.T) {
	server := newMediaServer(t, nil)
	dir := t.TempDir()

	imgURL := server.URL + "/sites/default/files/foto.jpg"
	path := writePage(t, dir, "2014-11-10-de-aap.html", fmt.Sprintf(`<img src="%s">`, imgURL))

	loc := newTestLocalizer(t, dir, server.URL+"/")

	if _, err := loc.Run(); err != nil {
		t.Fatalf("Expected first run to succeed, got error: %v", err)
	}

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatalf("Expected chtimes to succeed, got error: %v", err)
	}

	summary, err := loc.Run()
	if err != nil {
		t.Fatalf("Expected second run to succeed, got error: %v", err)
	}

	if summary.Downloaded != 0 || summary.Updated != 0 {
		t.Errorf("Expected nothing to change on the second pass, got %+v", summary)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Expected stat to succeed, got error: %v", err)
	}

	if !info.ModTime().Equal(past) {
		t.Error("Expected an unchanged page to not be rewritten")
	}
}

func TestLocalizer_Run_SkipsIndex(t *testing.T) {
	server := newMediaServer(t, nil)
	dir := t.TempDir()

	imgURL := server.URL + "/sites/default/files/foto.jpg"
	page := fmt.Sprintf(`<img src="%s">`, imgURL)
	indexPath := writePage(t, dir, "index.html", page)

	loc := newTestLocalizer(t, dir, server.URL+"/")

	summary, err := loc.Run()
	if err != nil {
		t.Fatalf("Expected run to succeed, got error: %v", err)
	}

	if summary.Files != 0 {
		t.Errorf("Expected the index to be skipped, got %d files", summary.Files)
	}

	data, err := os.ReadFile(indexPath)
	if err != nil {
		t.Fatalf("Expected index read to succeed, got error: %v", err)
	}

	if string(data) != page {
		t.Error("Expected the index page to stay untouched")
	}
}

func TestLocalizer_Run_FailedDownload(t *testing.T) {
	server := newMediaServer(t, nil)
	dir := t.TempDir()

	okURL := server.URL + "/sites/default/files/foto.jpg"
	brokenURL := server.URL + "/sites/default/files/kapot.jpg"

	page := fmt.Sprintf(`<img src="%s"><img src="%s">`, okURL, brokenURL)
	path := writePage(t, dir, "2014-11-10-de-aap.html", page)

	loc := newTestLocalizer(t, dir, server.URL+"/")

	summary, err := loc.Run()
	if err != nil {
		t.Fatalf("Expected run to succeed, got error: %v", err)
	}

	if summary.Downloaded != 1 || summary.Failed != 1 {
		t.Errorf("Expected 1 download and 1 failure, got %+v", summary)
	}

	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected page read to succeed, got error: %v", err)
	}

	if !strings.Contains(string(rewritten), brokenURL) {
		t.Error("Expected the failed reference to stay remote")
	}

	if !strings.Contains(string(rewritten), "images/"+assetname.ForURL(okURL)) {
		t.Error("Expected the successful reference to be rewritten")
	}

	if _, err := os.Stat(filepath.Join(dir, "images", assetname.ForURL(brokenURL))); !os.IsNotExist(err) {
		t.Error("Expected no local file for a failed download")
	}
}

func TestLocalizer_Run_SharedAsset(t *testing.T) {
	var hits atomic.Int64
	server := newMediaServer(t, &hits)
	dir := t.TempDir()

	imgURL := server.URL + "/sites/default/files/foto.jpg"

	first := writePage(t, dir, "2014-11-10-eerste.html", fmt.Sprintf(`<img src="%s">`, imgURL))
	second := writePage(t, dir, "2014-12-01-tweede.html", fmt.Sprintf(`<img src="%s">`, imgURL))

	loc := newTestLocalizer(t, dir, server.URL+"/")

	summary, err := loc.Run()
	if err != nil {
		t.Fatalf("Expected run to succeed, got error: %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("Expected 1 download request, got %d", got)
	}

	if summary.Downloaded != 1 || summary.Updated != 2 {
		t.Errorf("Expected 1 download across 2 updated pages, got %+v", summary)
	}

	name := assetname.ForURL(imgURL)
	for _, path := range []string{first, second} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Expected page read to succeed, got error: %v", err)
		}

		if !strings.Contains(string(data), "images/"+name) {
			t.Errorf("Expected %s to reference the shared local copy", filepath.Base(path))
		}
	}
}

func TestLocalizer_Run_QueryVariantRefs(t *testing.T) {
	server := newMediaServer(t, nil)
	dir := t.TempDir()

	bareURL := server.URL + "/sites/default/files/foto.jpg"
	styledURL := bareURL + "?itok=Xy12Ab"

	// The bare URL is a prefix of the styled one; replacing it first would
	// leave a half-rewritten hybrid behind.
	page := fmt.Sprintf(`<img src="%s"><img src="%s">`, bareURL, styledURL)
	path := writePage(t, dir, "2014-11-10-de-aap.html", page)

	loc := newTestLocalizer(t, dir, server.URL+"/")

	summary, err := loc.Run()
	if err != nil {
		t.Fatalf("Expected run to succeed, got error: %v", err)
	}

	if summary.Downloaded != 2 || summary.Failed != 0 {
		t.Errorf("Expected both variants downloaded, got %+v", summary)
	}

	rewritten, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected page read to succeed, got error: %v", err)
	}

	for _, u := range []string{bareURL, styledURL} {
		if !strings.Contains(string(rewritten), `src="images/`+assetname.ForURL(u)+`"`) {
			t.Errorf("Expected %q rewritten to its own local copy", u)
		}
	}

	if strings.Contains(string(rewritten), "itok") {
		t.Errorf("Expected no query remnants after rewriting, got %q", rewritten)
	}

	if strings.Contains(string(rewritten), server.URL) {
		t.Error("Expected no remote references to remain")
	}
}

func TestCollectRefs(t *testing.T) {
	loc := newTestLocalizer(t, t.TempDir(), "https://mechanicape.nl/")

	content := `<img src="https://mechanicape.nl/sites/default/files/b.jpg">
<a href="https://mechanicape.nl/sites/default/files/a.pdf">a</a>
<img src="https://mechanicape.nl/sites/default/files/b.jpg">
<img src="https://mechanicape.nl/sites/default/files/b.jpg?itok=groot">
<a href="https://elders.nl/c.jpg">extern</a>`

	refs := loc.collectRefs(content)

	expected := []string{
		"https://mechanicape.nl/sites/default/files/b.jpg?itok=groot",
		"https://mechanicape.nl/sites/default/files/a.pdf",
		"https://mechanicape.nl/sites/default/files/b.jpg",
	}

	if len(refs) != len(expected) {
		t.Fatalf("Expected %d distinct refs, got %v", len(expected), refs)
	}

	for i, want := range expected {
		if refs[i] != want {
			t.Errorf("Expected ref %d to be %q, got %q", i, want, refs[i])
		}
	}
}
