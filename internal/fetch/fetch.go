// Package fetch retrieves content nodes from the legacy site and classifies
// every attempt with an explicit outcome reason.
package fetch

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/extract"
	"mechanicape-archief/internal/logger"
	"mechanicape-archief/internal/models"
	"mechanicape-archief/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Fetcher retrieves node pages over HTTP and turns them into articles.
type Fetcher struct {
	client    *http.Client
	cfg       *config.Config
	extractor *extract.Extractor
	strhelper *utils.StringHelper
	baseURL   *url.URL
	log       *logger.Logger
}

// NewFetcher creates a fetcher using the site settings from cfg.
func NewFetcher(cfg *config.Config, log *logger.Logger) *Fetcher {
	base, _ := url.Parse(cfg.Site.BaseURL)

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Site.GetTimeout(),
		},
		cfg:       cfg,
		extractor: extract.NewExtractor(&cfg.Extract),
		strhelper: utils.NewStringHelper(),
		baseURL:   base,
		log:       log,
	}
}

// FetchNode retrieves one node page and classifies the result. The returned
// outcome always has a reason; the article is present only on ReasonOK.
func (f *Fetcher) FetchNode(id int) *models.FetchOutcome {
	nodeURL := f.cfg.Site.NodeURL(id)

	rawHTML, status, err := f.get(nodeURL)
	if err != nil {
		f.log.Debug("fetch failed", "node", id, "error", err)

		detail := err.Error()
		if status != 0 {
			detail = fmt.Sprintf("status %d", status)
		}

		return &models.FetchOutcome{NodeID: id, Reason: models.ReasonNotFound, Detail: detail}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return &models.FetchOutcome{NodeID: id, Reason: models.ReasonMalformed, Detail: "unparseable document"}
	}

	title := f.strhelper.NormalizeWhitespace(doc.Find("h1").First().Text())
	if title == "" {
		return &models.FetchOutcome{NodeID: id, Reason: models.ReasonMalformed, Detail: "no heading"}
	}

	for _, word := range f.cfg.Extract.TitleSkipWords {
		if strings.Contains(title, word) {
			return &models.FetchOutcome{NodeID: id, Reason: models.ReasonMalformed, Detail: "skipped title: " + title}
		}
	}

	// Date first: extraction strips the byline elements it would come from.
	date := f.resolveDate(doc, rawHTML)

	result := f.extractor.Extract(doc)
	if contentLen := utf8.RuneCountInString(result.Body()); contentLen < f.cfg.Extract.MinContentLen {
		return &models.FetchOutcome{
			NodeID: id,
			Reason: models.ReasonTooShort,
			Detail: fmt.Sprintf("content length %d below %d", contentLen, f.cfg.Extract.MinContentLen),
		}
	}

	links := result.Links
	for i := range links {
		links[i].URL = f.resolveURL(links[i].URL)
	}

	article := &models.Article{
		NodeID:      id,
		Title:       title,
		Date:        date,
		Paragraphs:  result.Paragraphs,
		Links:       links,
		Images:      f.collectImages(doc),
		Attachments: f.collectAttachments(doc),
	}

	return &models.FetchOutcome{NodeID: id, Reason: models.ReasonOK, Article: article}
}

// get performs one GET and returns the body decoded to UTF-8.
func (f *Fetcher) get(rawURL string) (string, int, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.cfg.Site.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if f.cfg.Site.MaxBodyKb > 0 {
		reader = io.LimitReader(resp.Body, int64(f.cfg.Site.MaxBodyKb)*1024)
	}

	decoded, err := charset.NewReader(reader, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to decode body: %w", err)
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	return string(body), resp.StatusCode, nil
}

// collectImages gathers file-storage images, skipping site logos. URLs are
// resolved absolute and deduplicated in insertion order.
func (f *Fetcher) collectImages(doc *goquery.Document) []string {
	var images []string

	seen := make(map[string]bool)

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || !strings.Contains(src, f.cfg.Extract.ImagePathMarker) {
			return
		}

		lower := strings.ToLower(src)
		for _, term := range f.cfg.Extract.ImageSkipTerms {
			if strings.Contains(lower, term) {
				return
			}
		}

		full := f.resolveURL(src)
		if !seen[full] {
			seen[full] = true

			images = append(images, full)
		}
	})

	return images
}

// collectAttachments gathers links whose target looks like a downloadable
// file, matching on the configured extensions.
func (f *Fetcher) collectAttachments(doc *goquery.Document) []models.Link {
	var attachments []models.Link

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")

		lower := strings.ToLower(href)
		matched := false

		for _, ext := range f.cfg.Extract.AttachmentExts {
			if strings.Contains(lower, ext) {
				matched = true

				break
			}
		}

		if !matched {
			return
		}

		text := f.strhelper.NormalizeWhitespace(s.Text())
		if text == "" {
			text = path.Base(href)
		}

		attachments = append(attachments, models.Link{Text: text, URL: f.resolveURL(href)})
	})

	return attachments
}

// resolveURL makes ref absolute against the site base URL.
func (f *Fetcher) resolveURL(ref string) string {
	if f.baseURL == nil {
		return ref
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}

	return f.baseURL.ResolveReference(refURL).String()
}
