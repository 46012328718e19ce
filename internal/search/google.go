package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"

	"github.com/hyperifyio/gowebsearch/internal/fetch"
)

const googleBaseURL = "https://www.google.com/search"

// Browser User-Agents rotated across scrape requests; Google serves the
// classic result markup to these.
var googleUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15",
}

var googleUAIndex atomic.Uint32

func nextUserAgent() string {
	i := googleUAIndex.Add(1)
	return googleUserAgents[int(i)%len(googleUserAgents)]
}

// Google scrapes the primary engine's HTML results. It is keyless, throttles
// itself between page fetches via Options.SleepInterval, and is the only
// adapter honoring a per-request proxy override.
type Google struct {
	HTTPClient *http.Client
	// UserAgent disables rotation when set.
	UserAgent string
	// BaseURL overrides the search endpoint, mainly for tests.
	BaseURL string

	retry retrier
}

func (g *Google) Name() string { return "google" }

func (g *Google) Search(ctx context.Context, opts Options) ([]Result, error) {
	opts = opts.WithDefaults()
	if opts.Query == "" {
		return nil, configError(g.Name(), "empty query")
	}
	hc := g.HTTPClient
	if opts.Proxy != "" {
		c, err := fetch.NewHTTPClient(opts.Proxy, 0)
		if err != nil {
			return nil, configError(g.Name(), fmt.Sprintf("proxy: %v", err))
		}
		hc = c
	}
	if hc == nil {
		hc = http.DefaultClient
	}

	seen := make(map[string]bool, opts.NumResults)
	out := make([]Result, 0, opts.NumResults)
	start := 0
	for len(out) < opts.NumResults {
		page, err := g.retry.run(ctx, g.Name(), func(ctx context.Context) ([]Result, error) {
			return g.fetchPage(ctx, hc, opts, start, opts.NumResults-len(out))
		})
		if err != nil {
			return nil, err
		}
		added := 0
		for _, r := range page {
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			out = append(out, r)
			added++
			if len(out) >= opts.NumResults {
				break
			}
		}
		// A page with nothing new means the result set is exhausted.
		if added == 0 {
			break
		}
		if len(out) >= opts.NumResults {
			break
		}
		start += len(page)
		if err := sleepCtx(ctx, opts.SleepInterval); err != nil {
			return nil, backendError(g.Name(), err)
		}
	}
	return out, nil
}

func (g *Google) fetchPage(ctx context.Context, hc *http.Client, opts Options, start, want int) ([]Result, error) {
	base := g.BaseURL
	if base == "" {
		base = googleBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, configError(g.Name(), fmt.Sprintf("base url: %v", err))
	}
	q := u.Query()
	q.Set("q", opts.Query)
	// Overfetch slightly; navigation blocks get filtered out below.
	q.Set("num", strconv.Itoa(want+2))
	q.Set("hl", opts.Lang)
	q.Set("gl", opts.Country)
	q.Set("safe", "active")
	if start > 0 {
		q.Set("start", strconv.Itoa(start))
	}
	if opts.TBS != "" {
		q.Set("tbs", opts.TBS)
	}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, backendError(g.Name(), err)
	}
	ua := g.UserAgent
	if ua == "" {
		ua = nextUserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", opts.Lang)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, backendError(g.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(g.Name(), resp.StatusCode, errBody(resp.Body))
	}
	body, err := fetch.DecodeHTML(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, backendError(g.Name(), err)
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, backendError(g.Name(), err)
	}
	results := parseGooglePage(doc, opts.Advanced)
	// Challenge interstitials sometimes arrive with a 200; they carry no
	// organic blocks, so only probe when parsing yielded nothing.
	if len(results) == 0 && isChallengePage(doc) {
		return nil, &Error{Provider: g.Name(), Kind: KindRateLimited, Message: "challenge page served"}
	}
	return results, nil
}

func parseGooglePage(doc *goquery.Document, advanced bool) []Result {
	blocks := doc.Find("div.g")
	if blocks.Length() == 0 {
		blocks = doc.Find("div.MjjYud")
	}
	var out []Result
	blocks.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		link := resolveGoogleHref(href)
		if link == "" || isGoogleInternal(link) {
			return
		}
		if !advanced {
			out = append(out, Result{URL: link})
			return
		}
		title := strings.TrimSpace(s.Find("h3").First().Text())
		desc := strings.TrimSpace(s.Find("div.VwiC3b, div.IsZvec, span.aCOpRe").First().Text())
		out = append(out, Result{URL: link, Title: title, Description: desc})
	})
	return out
}

// resolveGoogleHref unwraps /url?q= redirect hrefs and rejects anything that
// is not plain http(s).
func resolveGoogleHref(href string) string {
	if strings.HasPrefix(href, "/url?") {
		u, err := url.Parse(href)
		if err != nil {
			return ""
		}
		q := u.Query().Get("q")
		if q == "" {
			q = u.Query().Get("url")
		}
		href = q
	}
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return href
	}
	return ""
}

// isGoogleInternal filters cache, translate and account links that appear
// inside organic blocks.
func isGoogleInternal(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return true
	}
	switch strings.ToLower(u.Host) {
	case "webcache.googleusercontent.com", "translate.google.com",
		"accounts.google.com", "support.google.com",
		"policies.google.com", "maps.google.com":
		return true
	}
	return false
}

func isChallengePage(doc *goquery.Document) bool {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").First().Text()))
	if strings.HasPrefix(title, "sorry") {
		return true
	}
	body := strings.ToLower(doc.Find("body").Text())
	return strings.Contains(body, "unusual traffic") || strings.Contains(body, "recaptcha")
}
