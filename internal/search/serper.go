package search

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

const serperBaseURL = "https://google.serper.dev/search"

// Serper implements Provider against the serper.dev JSON API.
type Serper struct {
	APIKey     string
	BaseURL    string // defaults to serperBaseURL
	HTTPClient *http.Client
	UserAgent  string

	retry retrier
}

func (s *Serper) Name() string { return "serper" }

type serperRequest struct {
	Q        string `json:"q"`
	Num      int    `json:"num,omitempty"`
	HL       string `json:"hl,omitempty"`
	GL       string `json:"gl,omitempty"`
	TBS      string `json:"tbs,omitempty"`
	Location string `json:"location,omitempty"`
	Filter   string `json:"filter,omitempty"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (s *Serper) Search(ctx context.Context, opts Options) ([]Result, error) {
	opts = opts.WithDefaults()
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, configError(s.Name(), "missing api key")
	}
	return s.retry.run(ctx, s.Name(), func(ctx context.Context) ([]Result, error) {
		return s.attempt(ctx, opts)
	})
}

func (s *Serper) attempt(ctx context.Context, opts Options) ([]Result, error) {
	base := s.BaseURL
	if base == "" {
		base = serperBaseURL
	}
	payload, err := json.Marshal(serperRequest{
		Q:        opts.Query,
		Num:      opts.NumResults,
		HL:       opts.Lang,
		GL:       opts.Country,
		TBS:      opts.TBS,
		Location: opts.Location,
		Filter:   opts.Filter,
	})
	if err != nil {
		return nil, backendError(s.Name(), err)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base, bytes.NewReader(payload))
	if err != nil {
		return nil, backendError(s.Name(), err)
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")
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
	var sr serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, backendError(s.Name(), err)
	}
	out := make([]Result, 0, len(sr.Organic))
	for _, r := range sr.Organic {
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
