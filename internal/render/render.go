// Package render turns article records into the static archive pages. The
// page layout reproduces the serif single-column look of the legacy site so
// the archived pieces read like the originals.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"sort"
	"strings"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/models"
)

// MaxSlugLen bounds the slug part of article filenames, in characters.
const MaxSlugLen = 50

var (
	slugStrip   = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	slugHyphens = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a title to a filename-safe slug: lowercase, everything
// outside letters, digits and underscores stripped, whitespace and hyphen
// runs collapsed to single hyphens, cut at MaxSlugLen without leaving a
// trailing hyphen. Accented letters stay, so "café" slugs as café, not caf.
// Idempotent.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")

	if runes := []rune(s); len(runes) > MaxSlugLen {
		s = string(runes[:MaxSlugLen])
	}

	return strings.Trim(s, "-")
}

// Renderer produces article and index pages from the configured archive
// settings.
type Renderer struct {
	cfg     *config.Config
	article *template.Template
	index   *template.Template
}

// NewRenderer creates a renderer for the given configuration.
func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{
		cfg:     cfg,
		article: template.Must(template.New("article").Parse(articleTemplate)),
		index:   template.Must(template.New("index").Parse(indexTemplate)),
	}
}

// Filename returns the stable output name for an article: date plus slug.
// Distinct node IDs can collide on the same name; the last write wins.
func (r *Renderer) Filename(a *models.Article) string {
	return fmt.Sprintf("%s-%s.html", a.Date, Slugify(a.Title))
}

// articlePage is the data handed to the article template.
type articlePage struct {
	Title       string
	Date        string
	SiteTitle   string
	IndexFile   string
	Paragraphs  []string
	Images      []string
	Links       []models.Link
	Attachments []models.Link
}

// RenderArticle produces the complete HTML document for one article. The
// image grid is bounded to the configured maximum; links and attachments
// blocks are omitted when empty.
func (r *Renderer) RenderArticle(a *models.Article) (string, error) {
	images := a.Images
	if limit := r.cfg.Extract.MaxImages; limit > 0 && len(images) > limit {
		images = images[:limit]
	}

	data := articlePage{
		Title:       a.Title,
		Date:        a.Date,
		SiteTitle:   r.cfg.Archive.SiteTitle,
		IndexFile:   r.cfg.Archive.IndexFile,
		Paragraphs:  a.Paragraphs,
		Images:      images,
		Links:       a.Links,
		Attachments: a.Attachments,
	}

	var buf bytes.Buffer
	if err := r.article.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render article %d: %w", a.NodeID, err)
	}

	return buf.String(), nil
}

// IndexEntry describes one archived article on the index page.
type IndexEntry struct {
	Title      string
	Date       string
	Filename   string
	Paragraphs int
}

// EntryFor builds the index entry for an article saved under filename.
func EntryFor(a *models.Article, filename string) IndexEntry {
	return IndexEntry{
		Title:      a.Title,
		Date:       a.Date,
		Filename:   filename,
		Paragraphs: len(a.Paragraphs),
	}
}

type yearGroup struct {
	Year    string
	Entries []IndexEntry
}

type indexPage struct {
	SiteTitle string
	Count     int
	Years     []yearGroup
}

// RenderIndex produces the archive index page. Entries are sorted newest
// first and grouped by year.
func (r *Renderer) RenderIndex(entries []IndexEntry) (string, error) {
	sorted := make([]IndexEntry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date != sorted[j].Date {
			return sorted[i].Date > sorted[j].Date
		}

		return sorted[i].Filename < sorted[j].Filename
	})

	var years []yearGroup

	for _, entry := range sorted {
		year := "onbekend"
		if len(entry.Date) >= 4 {
			year = entry.Date[:4]
		}

		if len(years) == 0 || years[len(years)-1].Year != year {
			years = append(years, yearGroup{Year: year})
		}

		years[len(years)-1].Entries = append(years[len(years)-1].Entries, entry)
	}

	data := indexPage{
		SiteTitle: r.cfg.Archive.SiteTitle,
		Count:     len(sorted),
		Years:     years,
	}

	var buf bytes.Buffer
	if err := r.index.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render index: %w", err)
	}

	return buf.String(), nil
}
