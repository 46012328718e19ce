package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	Query string

	// Provider credentials. An empty key leaves that provider out of
	// the failover chain.
	SerperKey    string
	SearchAPIKey string
	SerpAPIKey   string
	BraveKey     string

	// DuckDuckGo is keyless and joins only when explicitly enabled.
	DuckDuckGoEnabled bool

	// Network
	Proxy     string
	UserAgent string

	// Failover order, most preferred alternative first.
	Priority []string

	// Query shaping
	NumResults    int
	TBS           string
	Filter        string
	Lang          string
	Country       string
	Location      string
	SleepInterval time.Duration
	Timeout       time.Duration

	// Behavior
	Advanced bool
	JSON     bool
	Verbose  bool
}
