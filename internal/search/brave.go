package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const braveBaseURL = "https://api.search.brave.com/res/v1/web/search"

// Brave implements Provider against the Brave Search API.
type Brave struct {
	APIKey     string
	BaseURL    string // defaults to braveBaseURL
	HTTPClient *http.Client
	UserAgent  string

	retry retrier
}

func (b *Brave) Name() string { return "brave" }

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func (b *Brave) Search(ctx context.Context, opts Options) ([]Result, error) {
	opts = opts.WithDefaults()
	if strings.TrimSpace(b.APIKey) == "" {
		return nil, configError(b.Name(), "missing api key")
	}
	return b.retry.run(ctx, b.Name(), func(ctx context.Context) ([]Result, error) {
		return b.attempt(ctx, opts)
	})
}

func (b *Brave) attempt(ctx context.Context, opts Options) ([]Result, error) {
	base := b.BaseURL
	if base == "" {
		base = braveBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, configError(b.Name(), "bad base url")
	}
	q := u.Query()
	q.Set("q", opts.Query)
	q.Set("count", strconv.Itoa(opts.NumResults))
	q.Set("search_lang", opts.Lang)
	q.Set("country", opts.Country)
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, backendError(b.Name(), err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	hc := b.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, backendError(b.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(b.Name(), resp.StatusCode, errBody(resp.Body))
	}
	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, backendError(b.Name(), err)
	}
	// Zero matches is a valid outcome, not a failure.
	if len(br.Web.Results) == 0 {
		log.Info().Str("provider", b.Name()).Str("query", opts.Query).Msg("no results")
		return []Result{}, nil
	}
	out := make([]Result, 0, len(br.Web.Results))
	for _, r := range br.Web.Results {
		if r.URL == "" {
			continue
		}
		out = append(out, Result{
			URL:         strings.TrimSpace(r.URL),
			Title:       strings.TrimSpace(r.Title),
			Description: strings.TrimSpace(r.Description),
		})
		if len(out) >= opts.NumResults {
			break
		}
	}
	return out, nil
}
