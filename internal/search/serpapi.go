package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const serpAPIBaseURL = "https://serpapi.com/search"

// SerpAPI implements Provider against the serpapi.com JSON API. The key
// travels as a query parameter per that service's convention.
type SerpAPI struct {
	APIKey     string
	BaseURL    string // defaults to serpAPIBaseURL
	HTTPClient *http.Client
	UserAgent  string

	retry retrier
}

func (s *SerpAPI) Name() string { return "serpapi" }

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
}

func (s *SerpAPI) Search(ctx context.Context, opts Options) ([]Result, error) {
	opts = opts.WithDefaults()
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, configError(s.Name(), "missing api key")
	}
	return s.retry.run(ctx, s.Name(), func(ctx context.Context) ([]Result, error) {
		return s.attempt(ctx, opts)
	})
}

func (s *SerpAPI) attempt(ctx context.Context, opts Options) ([]Result, error) {
	base := s.BaseURL
	if base == "" {
		base = serpAPIBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, configError(s.Name(), "bad base url")
	}
	q := u.Query()
	q.Set("engine", "google")
	q.Set("api_key", s.APIKey)
	q.Set("q", opts.Query)
	q.Set("num", strconv.Itoa(opts.NumResults))
	q.Set("hl", opts.Lang)
	q.Set("gl", opts.Country)
	if opts.TBS != "" {
		q.Set("tbs", opts.TBS)
	}
	if opts.Location != "" {
		q.Set("location", opts.Location)
	}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, backendError(s.Name(), err)
	}
	req.Header.Set("Accept", "application/json")
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	hc := s.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, backendError(s.Name(), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(s.Name(), resp.StatusCode, errBody(resp.Body))
	}
	var sr serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, backendError(s.Name(), err)
	}
	out := make([]Result, 0, len(sr.OrganicResults))
	for _, r := range sr.OrganicResults {
		if r.Link == "" {
			continue
		}
		out = append(out, Result{
			URL:         strings.TrimSpace(r.Link),
			Title:       strings.TrimSpace(r.Title),
			Description: strings.TrimSpace(r.Snippet),
		})
		if len(out) >= opts.NumResults {
			break
		}
	}
	return out, nil
}
