// Package extract implements the content extraction policy for legacy Drupal
// pages: chrome and boilerplate removal, content container selection via
// ordered fallbacks, paragraph filtering with dedup, and in-content link
// collection. The policy lists live in the extract section of the config.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"mechanicape-archief/internal/config"
	"mechanicape-archief/internal/models"
	"mechanicape-archief/pkg/utils"
)

// paragraphElements selects the descendants treated as paragraph-like.
const paragraphElements = "p, div, li, h2, h3, h4"

// skipHrefFragments marks hrefs that never count as content links.
var skipHrefFragments = []string{"javascript:", "#", "mailto:"}

// Result holds the cleaned content pulled from one document.
type Result struct {
	Paragraphs []string
	Links      []models.Link
}

// Body returns the paragraphs joined with blank lines.
func (r *Result) Body() string {
	return strings.Join(r.Paragraphs, "\n\n")
}

// Extractor applies the configured extraction policy to parsed documents.
type Extractor struct {
	cfg          *config.ExtractConfig
	strhelper    *utils.StringHelper
	datePrefix   *regexp.Regexp
	authorPrefix *regexp.Regexp
}

// NewExtractor creates an extractor for the given extraction policy.
func NewExtractor(cfg *config.ExtractConfig) *Extractor {
	e := &Extractor{
		cfg:        cfg,
		strhelper:  utils.NewStringHelper(),
		datePrefix: regexp.MustCompile(`^.*?\d{2}/\d{2}/\d{4}\s*-\s*\d{2}:\d{2}`),
	}

	if len(cfg.AuthorNames) > 0 {
		names := make([]string, len(cfg.AuthorNames))
		for i, n := range cfg.AuthorNames {
			names[i] = regexp.QuoteMeta(n)
		}

		e.authorPrefix = regexp.MustCompile(`(?i)^(` + strings.Join(names, "|") + `)\s+`)
	}

	return e
}

// Extract strips boilerplate from doc and returns cleaned paragraphs plus
// in-content links. The document is modified in place: script/style elements,
// navigation chrome and boilerplate-bearing elements are removed, so queries
// that run after Extract do not see them.
func (e *Extractor) Extract(doc *goquery.Document) *Result {
	e.stripChrome(doc)

	container := e.findContainer(doc)
	if container == nil {
		return &Result{}
	}

	result := &Result{}
	seen := make(map[string]bool)

	container.Find(paragraphElements).Each(func(_ int, s *goquery.Selection) {
		if e.cfg.MaxParagraphs > 0 && len(result.Paragraphs) >= e.cfg.MaxParagraphs {
			return
		}

		text := e.strhelper.NormalizeWhitespace(s.Text())
		if utf8.RuneCountInString(text) < e.cfg.MinParagraphLen {
			return
		}

		if e.containsBoilerplate(text) {
			return
		}

		text = e.stripBylinePrefix(text)

		key := prefixKey(text, e.cfg.DedupPrefixLen)
		if seen[key] {
			return
		}

		if utf8.RuneCountInString(text) >= e.cfg.MinParagraphLen {
			seen[key] = true
			result.Paragraphs = append(result.Paragraphs, text)
		}
	})

	result.Links = e.collectLinks(container)

	return result
}

// stripChrome removes the configured chrome elements and any element whose
// own text carries a boilerplate phrase.
func (e *Extractor) stripChrome(doc *goquery.Document) {
	if len(e.cfg.StripElements) > 0 {
		doc.Find(strings.Join(e.cfg.StripElements, ", ")).Remove()
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode && e.containsBoilerplate(c.Data) {
					s.Remove()

					return
				}
			}
		}
	})
}

// findContainer returns the first match of the ordered selector fallbacks.
func (e *Extractor) findContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range e.cfg.Selectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}

	return nil
}

// collectLinks gathers in-content hyperlinks from the container.
func (e *Extractor) collectLinks(container *goquery.Selection) []models.Link {
	var links []models.Link

	container.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if e.cfg.MaxLinks > 0 && len(links) >= e.cfg.MaxLinks {
			return
		}

		href, _ := s.Attr("href")
		text := e.strhelper.NormalizeWhitespace(s.Text())

		if href == "" || utf8.RuneCountInString(text) < e.cfg.MinLinkText {
			return
		}

		for _, skip := range skipHrefFragments {
			if strings.Contains(href, skip) {
				return
			}
		}

		links = append(links, models.Link{Text: text, URL: href})
	})

	return links
}

func (e *Extractor) containsBoilerplate(text string) bool {
	for _, term := range e.cfg.BoilerplateTerms {
		if strings.Contains(text, term) {
			return true
		}
	}

	return false
}

// stripBylinePrefix removes the "author  ma, 11/10/2014 - 09:31" style byline
// that Drupal prepends to node bodies.
func (e *Extractor) stripBylinePrefix(text string) string {
	text = strings.TrimSpace(e.datePrefix.ReplaceAllString(text, ""))

	if e.authorPrefix != nil {
		text = strings.TrimSpace(e.authorPrefix.ReplaceAllString(text, ""))
	}

	return text
}

// prefixKey builds the case-insensitive dedup key from the first n runes.
func prefixKey(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}

	return strings.ToLower(string(runes))
}
