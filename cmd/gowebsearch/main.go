package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/gowebsearch/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Dotenv must load before flag registration because flag defaults read env.
	if err := app.LoadEnvFiles(".env"); err != nil {
		log.Warn().Err(err).Msg("load .env")
	}

	var (
		configPath   string
		query        string
		serperKey    string
		searchAPIKey string
		serpAPIKey   string
		braveKey     string
		duckduckgo   bool
		proxy        string
		ua           string
		priority     string
		num          int
		tbs          string
		filter       string
		lang         string
		country      string
		location     string
		sleep        time.Duration
		timeout      time.Duration
		advanced     bool
		jsonOut      bool
		verbose      bool
		showVersion  bool
	)

	flag.StringVar(&configPath, "config", "", "Path to YAML or JSON config file")
	flag.StringVar(&query, "query", "", "Search query (positional arguments are joined when unset)")
	flag.StringVar(&serperKey, "serper.key", os.Getenv("SERPER_API_KEY"), "Serper API key")
	flag.StringVar(&searchAPIKey, "searchapi.key", os.Getenv("SEARCHAPI_API_KEY"), "SearchApi API key")
	flag.StringVar(&serpAPIKey, "serpapi.key", os.Getenv("SERPAPI_API_KEY"), "SerpApi API key")
	flag.StringVar(&braveKey, "brave.key", os.Getenv("BRAVE_API_KEY"), "Brave Search API key")
	flag.BoolVar(&duckduckgo, "duckduckgo", envBool("DUCKDUCKGO_ENABLED"), "Enable the keyless DuckDuckGo alternative")
	flag.StringVar(&proxy, "proxy", os.Getenv("SEARCH_PROXY"), "Proxy URL for outbound requests (http, https or socks5)")
	flag.StringVar(&ua, "ua", "gowebsearch/1.0 (+https://github.com/hyperifyio/gowebsearch)", "Custom User-Agent for API requests")
	flag.StringVar(&priority, "priority", os.Getenv("SEARCH_PRIORITY"), "Comma-separated fallback order, e.g. 'brave,serper'")
	flag.IntVar(&num, "num", 5, "Number of results to return")
	flag.StringVar(&tbs, "tbs", "", "Time-based search filter, e.g. 'qdr:d' for past day")
	flag.StringVar(&filter, "filter", "", "Duplicate content filter passed to API backends")
	flag.StringVar(&lang, "lang", "en", "Result language, e.g. 'en' or 'fi'")
	flag.StringVar(&country, "country", "us", "Result country/region, e.g. 'us'")
	flag.StringVar(&location, "location", "", "Optional location bias for API backends")
	flag.DurationVar(&sleep, "sleep", 2*time.Second, "Pause between paginated scrape requests")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "Per-request timeout")
	flag.BoolVar(&advanced, "advanced", true, "Return titles and descriptions, not bare URLs")
	flag.BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(app.Version())
		return
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if query == "" {
		query = strings.Join(flag.Args(), " ")
	}

	cfg := app.Config{
		Query:             query,
		SerperKey:         serperKey,
		SearchAPIKey:      searchAPIKey,
		SerpAPIKey:        serpAPIKey,
		BraveKey:          braveKey,
		DuckDuckGoEnabled: duckduckgo,
		Proxy:             proxy,
		UserAgent:         ua,
		NumResults:        num,
		TBS:               tbs,
		Filter:            filter,
		Lang:              lang,
		Country:           country,
		Location:          location,
		SleepInterval:     sleep,
		Timeout:           timeout,
		Advanced:          advanced,
		JSON:              jsonOut,
		Verbose:           verbose,
	}

	// Parse fallback priority into slice
	if s := strings.TrimSpace(priority); s != "" {
		parts := strings.Split(s, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if v := strings.TrimSpace(p); v != "" { list = append(list, v) }
		}
		cfg.Priority = list
	}

	// Config file supplies defaults for anything flags and env left unset.
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config file")
			os.Exit(1)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvToConfig(&cfg)

	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		// Exit code policy: 2 when the search completed without results,
		// 1 for configuration and startup failures.
		if err == app.ErrNoResults {
			log.Warn().Str("query", cfg.Query).Msg("no results")
			os.Exit(2)
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	return a.Run(ctx, os.Stdout)
}

// envBool reads a boolean-ish environment variable for a flag default.
func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
