package fetch

import (
	"io"
	"net/http"
	"strings"

	"github.com/temoto/robotstxt"
)

// maxRobotsBytes caps the robots.txt read.
const maxRobotsBytes = 64 * 1024

// CheckRobots fetches and evaluates the site's robots.txt for the node path
// with the configured user agent. The check is advisory: any failure to fetch
// or parse counts as allowed, and callers are expected to log the verdict
// rather than abort on it.
func (f *Fetcher) CheckRobots() bool {
	robotsURL := strings.TrimRight(f.cfg.Site.BaseURL, "/") + "/robots.txt"

	req, err := http.NewRequest(http.MethodGet, robotsURL, http.NoBody)
	if err != nil {
		return true
	}

	req.Header.Set("User-Agent", f.cfg.Site.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Debug("robots.txt not reachable", "url", robotsURL, "error", err)

		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.log.Debug("robots.txt not present", "status", resp.StatusCode)

		return true
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return true
	}

	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		f.log.Warn("robots.txt unparseable", "error", err)

		return true
	}

	allowed := robots.TestAgent("/node/", f.cfg.Site.UserAgent)
	if !allowed {
		f.log.Warn("robots.txt disallows /node/ for the configured agent")
	}

	return allowed
}
