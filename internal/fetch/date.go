package fetch

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// dateElementSelectors are tried in order before falling back to raw-text
// scanning. Drupal themes put the publish date in a <time> element or in the
// "Ingediend door ..." byline span.
var dateElementSelectors = []string{"time", "span.submitted"}

// dateElementLayouts are the formats seen in date-bearing elements.
var dateElementLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006"}

var (
	slashDatePattern = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	isoDatePattern   = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// resolveDate extracts the publish date as YYYY-MM-DD. It must run before
// extraction, which removes the byline elements the date usually lives in.
// Fallback order: date-bearing element, slash date anywhere in the raw page
// (read month-first, the order the site's Drupal install printed), ISO date
// anywhere in the raw page, configured default.
func (f *Fetcher) resolveDate(doc *goquery.Document, rawHTML string) string {
	for _, selector := range dateElementSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		fields := strings.Fields(sel.Text())
		if len(fields) == 0 {
			continue
		}

		for _, layout := range dateElementLayouts {
			if t, err := time.Parse(layout, fields[0]); err == nil {
				return t.Format("2006-01-02")
			}
		}
	}

	if m := slashDatePattern.FindString(rawHTML); m != "" {
		if t, err := time.Parse("01/02/2006", m); err == nil {
			return t.Format("2006-01-02")
		}
	}

	if m := isoDatePattern.FindString(rawHTML); m != "" {
		return m
	}

	return f.cfg.Extract.DefaultDate
}
