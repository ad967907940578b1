// Package models defines data structures shared by the archive tools.
package models

import (
	"strings"
	"unicode/utf8"
)

// Link is a hyperlink or attachment reference extracted from article content.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Article represents one archived content node. Records are immutable once
// built: the fetcher constructs them and the renderer only reads them.
type Article struct {
	NodeID      int      `json:"nodeId"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Paragraphs  []string `json:"paragraphs"`
	Images      []string `json:"images"`
	Links       []Link   `json:"links"`
	Attachments []Link   `json:"attachments"`
}

// Body returns the article text joined with blank lines, the form used for
// minimum-content validation.
func (a *Article) Body() string {
	return strings.Join(a.Paragraphs, "\n\n")
}

// ContentLength returns the length of the joined body text in characters,
// the count the minimum-content check is applied to.
func (a *Article) ContentLength() int {
	return utf8.RuneCountInString(a.Body())
}
