package search

import (
	"context"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Result is a single normalized hit in the shape every provider converges to.
type Result struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Options carries the per-request settings recognized across providers.
// Fields a backend does not accept are ignored by its adapter.
type Options struct {
	Query string

	// Advanced asks the primary engine to scrape full records; when false it
	// returns URL-only results. Keyed backends always return full records.
	Advanced bool

	// NumResults caps the returned list length.
	NumResults int

	// TBS is the time-based filter in the primary engine's syntax, carried
	// verbatim to keyed backends that accept it.
	TBS      string
	Filter   string
	Lang     string
	Country  string
	Location string

	// Proxy overrides the outbound proxy for this request only. Only the
	// primary engine honors the per-request form; keyed backends use the
	// client they were constructed with.
	Proxy string

	// SleepInterval throttles successive page fetches on the primary engine.
	SleepInterval time.Duration

	// Timeout bounds each backend request.
	Timeout time.Duration
}

const (
	DefaultNumResults    = 5
	DefaultLang          = "en"
	DefaultCountry       = "us"
	DefaultSleepInterval = 2 * time.Second
	DefaultTimeout       = 5000 * time.Millisecond
)

// WithDefaults returns a copy of o with unset fields filled in and language
// and country canonicalized to lowercase ISO codes.
func (o Options) WithDefaults() Options {
	o.Query = strings.TrimSpace(o.Query)
	if o.NumResults <= 0 {
		o.NumResults = DefaultNumResults
	}
	if o.Lang == "" {
		o.Lang = DefaultLang
	} else if tag, err := language.Parse(o.Lang); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			o.Lang = base.String()
		}
	}
	if o.Country == "" {
		o.Country = DefaultCountry
	} else if reg, err := language.ParseRegion(o.Country); err == nil {
		o.Country = strings.ToLower(reg.String())
	}
	if o.SleepInterval <= 0 {
		o.SleepInterval = DefaultSleepInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Provider is the single capability interface every backend adapter
// implements. Search returns normalized results or a typed *Error.
type Provider interface {
	Search(ctx context.Context, opts Options) ([]Result, error)
	Name() string
}
