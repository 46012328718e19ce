package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gowebsearch/internal/failover"
	"github.com/hyperifyio/gowebsearch/internal/fetch"
	"github.com/hyperifyio/gowebsearch/internal/search"
)

// App runs searches through a failover router built from Config.
type App struct {
	cfg    Config
	router *failover.Router
}

// ErrNoResults is returned when every provider failed or answered with an
// empty result list. The CLI maps it to its own exit code so scripts can
// tell an empty answer from a broken run.
var ErrNoResults = fmt.Errorf("no results")

// BuildProviders constructs the provider set the configuration enables. The
// primary needs no credentials and is always present; each alternative joins
// only when its key (or, for DuckDuckGo, its toggle) is configured.
func BuildProviders(cfg Config) (map[failover.Identity]search.Provider, error) {
	hc, err := fetch.NewHTTPClient(cfg.Proxy, 0)
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	providers := map[failover.Identity]search.Provider{
		failover.Google: &search.Google{HTTPClient: hc, UserAgent: cfg.UserAgent},
	}
	if strings.TrimSpace(cfg.SerperKey) != "" {
		providers[failover.Serper] = &search.Serper{APIKey: cfg.SerperKey, HTTPClient: hc, UserAgent: cfg.UserAgent}
	}
	if strings.TrimSpace(cfg.SearchAPIKey) != "" {
		providers[failover.SearchAPI] = &search.SearchAPI{APIKey: cfg.SearchAPIKey, HTTPClient: hc, UserAgent: cfg.UserAgent}
	}
	if strings.TrimSpace(cfg.SerpAPIKey) != "" {
		providers[failover.SerpAPI] = &search.SerpAPI{APIKey: cfg.SerpAPIKey, HTTPClient: hc, UserAgent: cfg.UserAgent}
	}
	if strings.TrimSpace(cfg.BraveKey) != "" {
		providers[failover.Brave] = &search.Brave{APIKey: cfg.BraveKey, HTTPClient: hc, UserAgent: cfg.UserAgent}
	}
	if cfg.DuckDuckGoEnabled {
		providers[failover.DuckDuckGo] = &search.DuckDuckGo{HTTPClient: hc, UserAgent: cfg.UserAgent}
	}
	return providers, nil
}

// NewRouter wires the configured providers into a failover router. A nil
// tracker is fine; pass one to share a failure streak across routers.
func NewRouter(cfg Config, tracker *failover.Tracker) (*failover.Router, error) {
	providers, err := BuildProviders(cfg)
	if err != nil {
		return nil, err
	}
	var order []failover.Identity
	if len(cfg.Priority) > 0 {
		order = failover.ParseOrder(cfg.Priority)
	}
	return failover.NewRouter(providers, order, tracker), nil
}

func New(cfg Config) (*App, error) {
	router, err := NewRouter(cfg, nil)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("priority", strings.Join(cfg.Priority, ",")).
		Str("selected", string(router.SelectProvider())).
		Msg("app initialized")
	return &App{cfg: cfg, router: router}, nil
}

// Run executes the configured query once and writes the results to w.
func (a *App) Run(ctx context.Context, w io.Writer) error {
	results := a.router.Search(ctx, a.options())
	if len(results) == 0 {
		return ErrNoResults
	}
	return writeResults(w, results, a.cfg.JSON)
}

func (a *App) options() search.Options {
	return search.Options{
		Query:         a.cfg.Query,
		Advanced:      a.cfg.Advanced,
		NumResults:    a.cfg.NumResults,
		TBS:           a.cfg.TBS,
		Filter:        a.cfg.Filter,
		Lang:          a.cfg.Lang,
		Country:       a.cfg.Country,
		Location:      a.cfg.Location,
		SleepInterval: a.cfg.SleepInterval,
		Timeout:       a.cfg.Timeout,
	}
}

// writeResults renders results either as indented JSON or as a numbered
// plain-text list. Basic results may carry only a URL; those print as the
// numbered line itself.
func writeResults(w io.Writer, results []search.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for i, r := range results {
		if r.Title == "" {
			if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, r.URL); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, r.Title, r.URL); err != nil {
			return err
		}
		if r.Description != "" {
			if _, err := fmt.Fprintf(w, "   %s\n", r.Description); err != nil {
				return err
			}
		}
	}
	return nil
}
