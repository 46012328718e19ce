package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

const duckDuckGoBaseURL = "https://api.duckduckgo.com/"

// DuckDuckGo implements Provider against the DuckDuckGo Instant Answer
// API. The API is keyless and returns an abstract plus related topics
// rather than a conventional result page, so Search merges those
// sections into ordinary results.
type DuckDuckGo struct {
	BaseURL    string // defaults to duckDuckGoBaseURL
	HTTPClient *http.Client
	UserAgent  string

	retry retrier
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	Results       []ddgTopic `json:"Results"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

func (d *DuckDuckGo) Search(ctx context.Context, opts Options) ([]Result, error) {
	opts = opts.WithDefaults()
	if opts.Query == "" {
		return nil, configError(d.Name(), "empty query")
	}
	return d.retry.run(ctx, d.Name(), func(ctx context.Context) ([]Result, error) {
		return d.attempt(ctx, opts)
	})
}

func (d *DuckDuckGo) attempt(ctx context.Context, opts Options) ([]Result, error) {
	base := d.BaseURL
	if base == "" {
		base = duckDuckGoBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, configError(d.Name(), "bad base url")
	}
	q := u.Query()
	q.Set("q", opts.Query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")
	q.Set("kl", opts.Country+"-"+opts.Lang)
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, backendError(d.Name(), err)
	}
	req.Header.Set("Accept", "application/json")
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	hc := d.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, backendError(d.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(d.Name(), resp.StatusCode, errBody(resp.Body))
	}
	var dr ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, backendError(d.Name(), err)
	}

	out := make([]Result, 0, opts.NumResults)
	if dr.AbstractURL != "" && dr.AbstractText != "" {
		out = append(out, Result{
			URL:         dr.AbstractURL,
			Title:       dr.Heading,
			Description: dr.AbstractText,
		})
	}
	out = appendTopics(out, dr.Results)
	out = appendTopics(out, dr.RelatedTopics)
	if len(out) > opts.NumResults {
		out = out[:opts.NumResults]
	}
	return out, nil
}

// appendTopics flattens instant-answer topic entries into results.
// Entries that carry nested Topics are category headers without a
// destination of their own and are skipped.
func appendTopics(out []Result, topics []ddgTopic) []Result {
	for _, t := range topics {
		if len(t.Topics) > 0 {
			continue
		}
		if t.FirstURL == "" {
			continue
		}
		title, desc := splitTopicText(t.Text)
		out = append(out, Result{URL: t.FirstURL, Title: title, Description: desc})
	}
	return out
}

// splitTopicText divides a topic's "Name - summary" text into a title
// and a description. Text without the separator serves as both.
func splitTopicText(text string) (string, string) {
	parts := strings.SplitN(text, " - ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	text = strings.TrimSpace(text)
	return text, text
}
