// Package assetname maps remote asset URLs to deterministic local filenames.
//
// The mapping is a pure function of the URL: the sanitized basename keeps the
// file recognizable, and a short hash of the full URL keeps two assets with
// the same basename from colliding.
package assetname

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// HashLen is the number of hex characters appended for uniqueness.
const HashLen = 8

// unsafeChars matches everything not safe in a local filename.
var unsafeChars = regexp.MustCompile(`[^\w.-]`)

// Hash returns the short hex digest of the full URL, query string included.
func Hash(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))

	return hex.EncodeToString(sum[:])[:HashLen]
}

// ForURL returns the local filename for a remote asset URL, of the form
// <sanitized-basename>_<hash><ext>. The query string never appears in the
// basename but does feed the hash.
func ForURL(rawURL string) string {
	base := ""

	if u, err := url.Parse(rawURL); err == nil {
		base = path.Base(u.Path)
	} else {
		trimmed := rawURL
		if i := strings.IndexByte(trimmed, '?'); i >= 0 {
			trimmed = trimmed[:i]
		}

		base = path.Base(trimmed)
	}

	if base == "" || base == "." || base == "/" {
		base = "file"
	}

	base = unsafeChars.ReplaceAllString(base, "_")

	ext := path.Ext(base)

	name := strings.TrimSuffix(base, ext)
	if name == "" {
		// Dotfile-style basename: keep it as the name
		name = ext
		ext = ""
	}

	return name + "_" + Hash(rawURL) + ext
}
