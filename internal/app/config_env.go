package app

import (
    "strconv"
    "strings"
    "time"
    "os"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
    if cfg == nil { return }

    if cfg.SerperKey == "" {
        cfg.SerperKey = os.Getenv("SERPER_API_KEY")
    }
    if cfg.SearchAPIKey == "" {
        cfg.SearchAPIKey = os.Getenv("SEARCHAPI_API_KEY")
    }
    if cfg.SerpAPIKey == "" {
        cfg.SerpAPIKey = os.Getenv("SERPAPI_API_KEY")
    }
    if cfg.BraveKey == "" {
        cfg.BraveKey = os.Getenv("BRAVE_API_KEY")
    }

    if cfg.Proxy == "" {
        cfg.Proxy = os.Getenv("SEARCH_PROXY")
    }
    if cfg.UserAgent == "" {
        cfg.UserAgent = os.Getenv("SEARCH_UA")
    }
    if cfg.Lang == "" {
        cfg.Lang = os.Getenv("SEARCH_LANG")
    }
    if cfg.Country == "" {
        cfg.Country = os.Getenv("SEARCH_COUNTRY")
    }
    if cfg.Location == "" {
        cfg.Location = os.Getenv("SEARCH_LOCATION")
    }

    // SEARCH_PRIORITY is a comma-separated provider list
    if len(cfg.Priority) == 0 {
        if v := strings.TrimSpace(os.Getenv("SEARCH_PRIORITY")); v != "" {
            cfg.Priority = splitList(v)
        }
    }

    if cfg.NumResults == 0 {
        if s := os.Getenv("SEARCH_NUM"); s != "" {
            if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
                cfg.NumResults = n
            }
        }
    }

    // Optional durations
    if cfg.Timeout == 0 {
        if s := os.Getenv("SEARCH_TIMEOUT"); s != "" {
            if d, err := time.ParseDuration(s); err == nil {
                cfg.Timeout = d
            }
        }
    }
    if cfg.SleepInterval == 0 {
        if s := os.Getenv("SEARCH_SLEEP"); s != "" {
            if d, err := time.ParseDuration(s); err == nil {
                cfg.SleepInterval = d
            }
        }
    }

    // Booleans
    setBool := func(dst *bool, envKey string) {
        if *dst { return }
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            if s == "1" || s == "true" || s == "yes" || s == "on" {
                *dst = true
            }
        }
    }
    setBool(&cfg.DuckDuckGoEnabled, "DUCKDUCKGO_ENABLED")
    setBool(&cfg.Verbose, "VERBOSE")
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when the corresponding env vars are set. This is used to let env take
// precedence over values coming from a config file while still allowing flags
// to remain highest precedence.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    if v := os.Getenv("SERPER_API_KEY"); v != "" { cfg.SerperKey = v }
    if v := os.Getenv("SEARCHAPI_API_KEY"); v != "" { cfg.SearchAPIKey = v }
    if v := os.Getenv("SERPAPI_API_KEY"); v != "" { cfg.SerpAPIKey = v }
    if v := os.Getenv("BRAVE_API_KEY"); v != "" { cfg.BraveKey = v }

    if v := os.Getenv("SEARCH_PROXY"); v != "" { cfg.Proxy = v }
    if v := os.Getenv("SEARCH_UA"); v != "" { cfg.UserAgent = v }
    if v := os.Getenv("SEARCH_LANG"); v != "" { cfg.Lang = v }
    if v := os.Getenv("SEARCH_COUNTRY"); v != "" { cfg.Country = v }
    if v := os.Getenv("SEARCH_LOCATION"); v != "" { cfg.Location = v }

    if v := strings.TrimSpace(os.Getenv("SEARCH_PRIORITY")); v != "" {
        cfg.Priority = splitList(v)
    }

    if s := os.Getenv("SEARCH_NUM"); s != "" {
        if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n > 0 {
            cfg.NumResults = n
        }
    }
    if s := os.Getenv("SEARCH_TIMEOUT"); s != "" {
        if d, err := time.ParseDuration(s); err == nil {
            cfg.Timeout = d
        }
    }
    if s := os.Getenv("SEARCH_SLEEP"); s != "" {
        if d, err := time.ParseDuration(s); err == nil {
            cfg.SleepInterval = d
        }
    }

    // Booleans override when env present and truthy/falsey
    setBool := func(dst *bool, envKey string) {
        if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
            switch s {
            case "1", "true", "yes", "on":
                *dst = true
            case "0", "false", "no", "off":
                *dst = false
            }
        }
    }
    setBool(&cfg.DuckDuckGoEnabled, "DUCKDUCKGO_ENABLED")
    setBool(&cfg.Verbose, "VERBOSE")
}

// splitList splits a comma-separated value, dropping empty entries.
func splitList(v string) []string {
    parts := strings.Split(v, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        if s := strings.TrimSpace(p); s != "" { out = append(out, s) }
    }
    return out
}
