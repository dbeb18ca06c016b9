package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Notion configuration
	NotionToken string `long:"notion-token" env:"NOTION_TOKEN" description:"Notion integration token"`
	DatabaseID  string `long:"database-id" env:"NOTION_DATABASE_ID" description:"Notion database ID to render"`

	// Application configuration
	Port        string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl     string `long:"base-url" env:"BASE_URL" description:"Public base URL for the service (e.g., https://grid.example.com)"`
	AliasesFile string `long:"aliases-file" env:"ALIASES_FILE" description:"Optional YAML file overriding column alias lists"`

	// Normalization configuration
	StrictUntitled bool `long:"strict-untitled" env:"STRICT_UNTITLED" description:"Drop records without a resolvable title instead of defaulting to 'Untitled'"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123 Safari/537.36" description:"User agent string for outbound HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Europe/Paris)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		NotionToken:    raw.NotionToken,
		DatabaseID:     raw.DatabaseID,
		Port:           raw.Port,
		BaseUrl:        raw.BaseUrl,
		AliasesFile:    raw.AliasesFile,
		StrictUntitled: raw.StrictUntitled,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Used by tests.
func Set(c *Cfg) {
	globalCfg = c
}

// IsConfigured reports whether the upstream credentials needed for a grid
// request are present. Checked per request rather than at startup so the
// service boots and reports a clear error instead of crash-looping.
func (c *Cfg) IsConfigured() bool {
	return c.NotionToken != "" && c.DatabaseID != ""
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
