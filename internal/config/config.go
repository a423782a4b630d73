// Package config loads CLI settings from flags, environment and the
// optional .ecourts.yaml file through viper.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/ecourts/internal/browser"
	"github.com/jmylchreest/ecourts/internal/causelist"
	"github.com/jmylchreest/ecourts/internal/portal"
)

// EnvPrefix prefixes environment overrides, e.g. ECOURTS_CAUSELIST_URL.
const EnvPrefix = "ECOURTS"

// Cause-list fetch modes.
const (
	FetchStatic  = "static"
	FetchBrowser = "browser"
)

// Config is the resolved runtime configuration.
type Config struct {
	Debug   bool `mapstructure:"debug"`
	Quiet   bool `mapstructure:"quiet"`
	LogJSON bool `mapstructure:"log_json"`

	Headless         bool          `mapstructure:"headless"`
	Stealth          bool          `mapstructure:"stealth"`
	ChromePath       string        `mapstructure:"chrome_path" validate:"omitempty,file"`
	UserAgent        string        `mapstructure:"user_agent"`
	PageLoadTimeout  time.Duration `mapstructure:"page_load_timeout" validate:"gt=0"`
	ElementTimeout   time.Duration `mapstructure:"element_timeout" validate:"gt=0"`
	DebugScreenshots bool          `mapstructure:"debug_screenshots"`

	CaseStatusURL   string        `mapstructure:"case_status_url" validate:"required,url"`
	SettleDelay     time.Duration `mapstructure:"settle_delay" validate:"gte=0"`
	ModeSelectDelay time.Duration `mapstructure:"mode_select_delay" validate:"gte=0"`
	ResultsTimeout  time.Duration `mapstructure:"results_timeout" validate:"gt=0"`

	// CauseListURL enables real listing checks. Empty keeps the stub resolver.
	CauseListURL   string  `mapstructure:"causelist_url" validate:"omitempty,url"`
	CauseListFetch string  `mapstructure:"causelist_fetch" validate:"oneof=static browser"`
	CourtComplex   string  `mapstructure:"court_complex"`
	PartyThreshold float64 `mapstructure:"party_threshold" validate:"gt=0,lte=1"`

	DataDir string `mapstructure:"data_dir" validate:"required"`
}

var validate = validator.New()

// SetDefaults registers every key with its default so environment
// variables are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	b := browser.DefaultConfig()
	p := portal.DefaultConfig()

	v.SetDefault("debug", false)
	v.SetDefault("quiet", false)
	v.SetDefault("log_json", false)

	v.SetDefault("headless", b.Headless)
	v.SetDefault("stealth", b.Stealth)
	v.SetDefault("chrome_path", "")
	v.SetDefault("user_agent", b.UserAgent)
	v.SetDefault("page_load_timeout", b.PageLoadTimeout)
	v.SetDefault("element_timeout", b.ElementTimeout)
	v.SetDefault("debug_screenshots", false)

	v.SetDefault("case_status_url", p.CaseStatusURL)
	v.SetDefault("settle_delay", p.SettleDelay)
	v.SetDefault("mode_select_delay", p.ModeSelectDelay)
	v.SetDefault("results_timeout", p.ResultsTimeout)

	v.SetDefault("causelist_url", "")
	v.SetDefault("causelist_fetch", FetchStatic)
	v.SetDefault("court_complex", "")
	v.SetDefault("party_threshold", causelist.DefaultPartyThreshold)

	v.SetDefault("data_dir", "data/json")
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Browser returns the browser driver settings.
func (c Config) Browser() browser.Config {
	return browser.Config{
		UserAgent:        c.UserAgent,
		Headless:         c.Headless,
		PageLoadTimeout:  c.PageLoadTimeout,
		ElementTimeout:   c.ElementTimeout,
		WindowWidth:      browser.DefaultConfig().WindowWidth,
		WindowHeight:     browser.DefaultConfig().WindowHeight,
		ExecPath:         c.ChromePath,
		Stealth:          c.Stealth,
		DebugScreenshots: c.DebugScreenshots,
	}
}

// Portal returns the search workflow settings.
func (c Config) Portal() portal.Config {
	p := portal.DefaultConfig()
	p.CaseStatusURL = c.CaseStatusURL
	p.SettleDelay = c.SettleDelay
	p.ModeSelectDelay = c.ModeSelectDelay
	p.ResultsTimeout = c.ResultsTimeout
	return p
}

// ListingEnabled reports whether a real cause-list source is configured.
func (c Config) ListingEnabled() bool {
	return c.CauseListURL != ""
}
