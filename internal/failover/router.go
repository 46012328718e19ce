package failover

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gowebsearch/internal/search"
)

// Identity names a provider slot in the failover order.
type Identity string

const (
	Google     Identity = "google"
	Serper     Identity = "serper"
	SearchAPI  Identity = "searchapi"
	SerpAPI    Identity = "serpapi"
	Brave      Identity = "brave"
	DuckDuckGo Identity = "duckduckgo"
)

const (
	// MaxConsecutiveFailures is the streak length at which the primary
	// is considered down rather than merely throttled.
	MaxConsecutiveFailures = 5
	// FailureCooldown is how long after the last recorded failure the
	// streak is forgiven.
	FailureCooldown = 30 * time.Minute
)

// DefaultOrder is the fallback chain walked when the primary is rate
// limited, most preferred first.
var DefaultOrder = []Identity{Serper, SearchAPI, SerpAPI, Brave, DuckDuckGo}

// ParseOrder converts provider names into a fallback order. Unknown
// names and duplicates are dropped; an empty outcome yields
// DefaultOrder so a bad priority setting never disables failover.
func ParseOrder(names []string) []Identity {
	known := map[Identity]bool{
		Serper:     true,
		SearchAPI:  true,
		SerpAPI:    true,
		Brave:      true,
		DuckDuckGo: true,
	}
	seen := make(map[Identity]bool, len(names))
	out := make([]Identity, 0, len(names))
	for _, n := range names {
		id := Identity(n)
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return DefaultOrder
	}
	return out
}

// Router owns provider selection and the rate-limit fallback walk.
type Router struct {
	providers map[Identity]search.Provider
	order     []Identity
	tracker   *Tracker

	now     func() time.Time
	resolve func(now time.Time) Identity
}

// NewRouter builds a Router over the configured providers. order lists
// the alternatives most preferred first; nil means DefaultOrder. A nil
// tracker gets a fresh one, so callers only pass their own when they
// need to share or inspect the streak.
func NewRouter(providers map[Identity]search.Provider, order []Identity, tracker *Tracker) *Router {
	if order == nil {
		order = DefaultOrder
	}
	if tracker == nil {
		tracker = &Tracker{}
	}
	r := &Router{
		providers: providers,
		order:     order,
		tracker:   tracker,
		now:       time.Now,
	}
	r.resolve = r.selectProvider
	return r
}

// Tracker exposes the failure tracker, chiefly for status reporting.
func (r *Router) Tracker() *Tracker { return r.tracker }

// SelectProvider reports which provider the next Search call will use.
func (r *Router) SelectProvider() Identity {
	return r.resolve(r.now())
}

// selectProvider applies the failover policy at a given instant. The
// primary is used only when no alternative is configured; a configured
// alternative always wins. A failure streak older than the cooldown is
// forgiven, and a streak at the ceiling clears itself once there is no
// alternative left to absorb the traffic.
func (r *Router) selectProvider(now time.Time) Identity {
	if r.tracker.Failures() > 0 {
		if last := r.tracker.LastFailure(); !last.IsZero() && now.Sub(last) > FailureCooldown {
			r.tracker.Reset()
		}
	}
	alt, ok := r.firstAlternative()
	if r.tracker.Failures() >= MaxConsecutiveFailures {
		if ok {
			return alt
		}
		r.tracker.Reset()
		return Google
	}
	if ok {
		return alt
	}
	return Google
}

// firstAlternative finds the most preferred configured alternative.
func (r *Router) firstAlternative() (Identity, bool) {
	for _, id := range r.order {
		if id == Google {
			continue
		}
		if _, ok := r.providers[id]; ok {
			return id, true
		}
	}
	return "", false
}

// Search runs one query through the selected provider. It never
// returns an error: every failure is logged with the provider identity
// and degrades to an empty result list. Only a rate-limited primary
// triggers the fallback walk; any other failure, on any provider, ends
// the attempt.
func (r *Router) Search(ctx context.Context, opts search.Options) []search.Result {
	opts = opts.WithDefaults()
	if opts.Query == "" {
		log.Warn().Msg("search: empty query")
		return []search.Result{}
	}

	id := r.resolve(r.now())
	p, ok := r.providers[id]
	if !ok {
		log.Error().Str("provider", string(id)).Msg("search: provider not configured")
		return []search.Result{}
	}

	results, err := p.Search(ctx, opts)
	if err == nil {
		log.Info().Str("provider", string(id)).Int("results", len(results)).Str("query", opts.Query).Msg("search succeeded")
		return results
	}

	if id == Google && search.IsRateLimit(err) {
		r.tracker.Record(r.now())
		log.Warn().Err(err).Str("provider", string(id)).Int("failures", r.tracker.Failures()).Msg("primary rate limited; trying alternatives")
		return r.searchAlternatives(ctx, opts)
	}

	log.Error().Err(err).Str("provider", string(id)).Str("query", opts.Query).Msg("search failed")
	return []search.Result{}
}

// searchAlternatives walks the fallback order until one configured
// alternative answers.
func (r *Router) searchAlternatives(ctx context.Context, opts search.Options) []search.Result {
	for _, id := range r.order {
		if id == Google {
			continue
		}
		p, ok := r.providers[id]
		if !ok {
			continue
		}
		results, err := p.Search(ctx, opts)
		if err != nil {
			log.Warn().Err(err).Str("provider", string(id)).Msg("alternative failed")
			continue
		}
		log.Info().Str("provider", string(id)).Int("results", len(results)).Str("query", opts.Query).Msg("search succeeded")
		return results
	}
	log.Error().Str("query", opts.Query).Msg("search: all providers exhausted")
	return []search.Result{}
}
