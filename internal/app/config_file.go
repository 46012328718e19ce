package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections improve readability and map naturally to flags/env.
type FileConfig struct {
    Providers struct {
        Serper struct {
            Key string `yaml:"key" json:"key"`
        } `yaml:"serper" json:"serper"`
        SearchAPI struct {
            Key string `yaml:"key" json:"key"`
        } `yaml:"searchapi" json:"searchapi"`
        SerpAPI struct {
            Key string `yaml:"key" json:"key"`
        } `yaml:"serpapi" json:"serpapi"`
        Brave struct {
            Key string `yaml:"key" json:"key"`
        } `yaml:"brave" json:"brave"`
        DuckDuckGo struct {
            Enable bool `yaml:"enable" json:"enable"`
        } `yaml:"duckduckgo" json:"duckduckgo"`
    } `yaml:"providers" json:"providers"`

    Proxy    string   `yaml:"proxy" json:"proxy"`
    UA       string   `yaml:"ua" json:"ua"`
    Priority []string `yaml:"priority" json:"priority"`

    Defaults struct {
        Num      int           `yaml:"num" json:"num"`
        TBS      string        `yaml:"tbs" json:"tbs"`
        Filter   string        `yaml:"filter" json:"filter"`
        Lang     string        `yaml:"lang" json:"lang"`
        Country  string        `yaml:"country" json:"country"`
        Location string        `yaml:"location" json:"location"`
        Sleep    time.Duration `yaml:"sleep" json:"sleep"`
        Timeout  time.Duration `yaml:"timeout" json:"timeout"`
    } `yaml:"defaults" json:"defaults"`

    Advanced bool `yaml:"advanced" json:"advanced"`
    JSON     bool `yaml:"json" json:"json"`
    Verbose  bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags should already have been parsed; this
// function lets file config supply defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }
    // Defaults from flag parsing that file config may override when flags not set
    const (
        uaDefault      = "gowebsearch/1.0 (+https://github.com/hyperifyio/gowebsearch)"
        numDefault     = 5
        langDefault    = "en"
        countryDefault = "us"
        sleepDefault   = 2 * time.Second
        timeoutDefault = 5 * time.Second
    )

    if cfg.SerperKey == "" && fc.Providers.Serper.Key != "" { cfg.SerperKey = fc.Providers.Serper.Key }
    if cfg.SearchAPIKey == "" && fc.Providers.SearchAPI.Key != "" { cfg.SearchAPIKey = fc.Providers.SearchAPI.Key }
    if cfg.SerpAPIKey == "" && fc.Providers.SerpAPI.Key != "" { cfg.SerpAPIKey = fc.Providers.SerpAPI.Key }
    if cfg.BraveKey == "" && fc.Providers.Brave.Key != "" { cfg.BraveKey = fc.Providers.Brave.Key }
    if !cfg.DuckDuckGoEnabled && fc.Providers.DuckDuckGo.Enable { cfg.DuckDuckGoEnabled = true }

    if cfg.Proxy == "" && fc.Proxy != "" { cfg.Proxy = fc.Proxy }
    if (cfg.UserAgent == "" || cfg.UserAgent == uaDefault) && fc.UA != "" { cfg.UserAgent = fc.UA }
    if len(cfg.Priority) == 0 && len(fc.Priority) > 0 { cfg.Priority = append([]string{}, fc.Priority...) }

    if (cfg.NumResults == 0 || cfg.NumResults == numDefault) && fc.Defaults.Num > 0 { cfg.NumResults = fc.Defaults.Num }
    if cfg.TBS == "" && fc.Defaults.TBS != "" { cfg.TBS = fc.Defaults.TBS }
    if cfg.Filter == "" && fc.Defaults.Filter != "" { cfg.Filter = fc.Defaults.Filter }
    if (cfg.Lang == "" || cfg.Lang == langDefault) && fc.Defaults.Lang != "" { cfg.Lang = fc.Defaults.Lang }
    if (cfg.Country == "" || cfg.Country == countryDefault) && fc.Defaults.Country != "" { cfg.Country = fc.Defaults.Country }
    if cfg.Location == "" && fc.Defaults.Location != "" { cfg.Location = fc.Defaults.Location }
    if (cfg.SleepInterval == 0 || cfg.SleepInterval == sleepDefault) && fc.Defaults.Sleep > 0 { cfg.SleepInterval = fc.Defaults.Sleep }
    if (cfg.Timeout == 0 || cfg.Timeout == timeoutDefault) && fc.Defaults.Timeout > 0 { cfg.Timeout = fc.Defaults.Timeout }

    if !cfg.Advanced && fc.Advanced { cfg.Advanced = true }
    if !cfg.JSON && fc.JSON { cfg.JSON = true }
    if !cfg.Verbose && fc.Verbose { cfg.Verbose = true }
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
    if trim(cfg.Query) == "" {
        return errors.New("config: query is required")
    }
    if cfg.NumResults < 0 {
        return errors.New("config: negative result count is not allowed")
    }
    if cfg.Timeout < 0 || cfg.SleepInterval < 0 {
        return errors.New("config: negative durations are not allowed")
    }
    return nil
}

func trim(s string) string {
    i := 0
    j := len(s)
    for i < j && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') { i++ }
    for j > i && (s[j-1] == ' ' || s[j-1] == '\t' || s[j-1] == '\n' || s[j-1] == '\r') { j-- }
    return s[i:j]
}
