// Package config loads the daemon configuration from a TOML file and
// environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Log         LogConfig
	Marketplace MarketplaceConfig
	Ebay        EbayConfig
	Labels      LabelsConfig
	Printer     PrinterConfig
	Poller      PollerConfig
	State       StateConfig
	Documents   DocumentsConfig
	Journal     JournalConfig
	Status      StatusConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// MarketplaceConfig selects the order source
type MarketplaceConfig struct {
	// Provider is the order source: ebay or static
	Provider string
	// StaticOrdersPath is the orders file read by the static provider
	StaticOrdersPath string
}

// EbayConfig holds eBay API credentials and endpoints
type EbayConfig struct {
	ClientID       string
	ClientSecret   string
	RefreshToken   string
	Environment    string // production or sandbox
	PageSize       int
	TimeoutSeconds int
}

// LabelsConfig selects the shipping label acquirer
type LabelsConfig struct {
	// Provider is the label acquirer: ebay or stub
	Provider string
}

// PrinterConfig holds CUPS settings
type PrinterConfig struct {
	// Name is the CUPS queue labels and slips are sent to
	Name string
	// ServerHost is the CUPS server, host or host:port
	ServerHost string
	// DryRun logs intended prints instead of submitting jobs
	DryRun bool
	// JobTimeout bounds one lp invocation
	JobTimeout time.Duration
}

// PollerConfig holds polling loop settings
type PollerConfig struct {
	// Interval between pass starts
	Interval time.Duration
	// Lookback is the order discovery window
	Lookback time.Duration
	// PassTimeout bounds one full pass
	PassTimeout time.Duration
	// StepTimeout bounds one pipeline step
	StepTimeout time.Duration
}

// StateConfig holds seen-order store settings
type StateConfig struct {
	// SeenOrdersPath is the JSON file holding processed order IDs
	SeenOrdersPath string
}

// DocumentsConfig holds document storage settings
type DocumentsConfig struct {
	// BasePath is the root directory for labels and packing slips
	BasePath string
}

// JournalConfig holds pass journal settings
type JournalConfig struct {
	// Path is the SQLite file; ":memory:" keeps the journal ephemeral
	Path string
	// LogLevel is the GORM log level: silent, error, warn, info
	LogLevel string
}

// StatusConfig holds the status HTTP server settings
type StatusConfig struct {
	// Enabled turns the status server on
	Enabled bool
	// Port the status server listens on
	Port string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with FULFILLER_ prefix (e.g. FULFILLER_EBAY_CLIENT_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/fulfiller")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FULFILLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Marketplace: MarketplaceConfig{
			Provider:         v.GetString("marketplace.provider"),
			StaticOrdersPath: v.GetString("marketplace.static_orders_path"),
		},
		Ebay: EbayConfig{
			ClientID:       v.GetString("ebay.client_id"),
			ClientSecret:   v.GetString("ebay.client_secret"),
			RefreshToken:   v.GetString("ebay.refresh_token"),
			Environment:    v.GetString("ebay.environment"),
			PageSize:       v.GetInt("ebay.page_size"),
			TimeoutSeconds: v.GetInt("ebay.timeout_seconds"),
		},
		Labels: LabelsConfig{
			Provider: v.GetString("labels.provider"),
		},
		Printer: PrinterConfig{
			Name:       v.GetString("printer.name"),
			ServerHost: v.GetString("printer.server_host"),
			DryRun:     v.GetBool("printer.dry_run"),
			JobTimeout: v.GetDuration("printer.job_timeout"),
		},
		Poller: PollerConfig{
			Interval:    v.GetDuration("poller.interval"),
			Lookback:    v.GetDuration("poller.lookback"),
			PassTimeout: v.GetDuration("poller.pass_timeout"),
			StepTimeout: v.GetDuration("poller.step_timeout"),
		},
		State: StateConfig{
			SeenOrdersPath: v.GetString("state.seen_orders_path"),
		},
		Documents: DocumentsConfig{
			BasePath: v.GetString("documents.base_path"),
		},
		Journal: JournalConfig{
			Path:     v.GetString("journal.path"),
			LogLevel: v.GetString("journal.log_level"),
		},
		Status: StatusConfig{
			Enabled: v.GetBool("status.enabled"),
			Port:    v.GetString("status.port"),
		},
	}

	applyDefaults(cfg, v)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config, v *viper.Viper) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fulfiller"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Marketplace.Provider == "" {
		cfg.Marketplace.Provider = "ebay"
	}
	if cfg.Marketplace.StaticOrdersPath == "" {
		cfg.Marketplace.StaticOrdersPath = "orders.json"
	}
	if cfg.Ebay.Environment == "" {
		cfg.Ebay.Environment = "production"
	}
	if cfg.Ebay.PageSize == 0 {
		cfg.Ebay.PageSize = 50
	}
	if cfg.Ebay.TimeoutSeconds == 0 {
		cfg.Ebay.TimeoutSeconds = 30
	}
	if cfg.Labels.Provider == "" {
		cfg.Labels.Provider = "ebay"
	}
	if cfg.Printer.JobTimeout == 0 {
		cfg.Printer.JobTimeout = 30 * time.Second
	}
	if cfg.Poller.Interval == 0 {
		cfg.Poller.Interval = 5 * time.Minute
	}
	if cfg.Poller.Lookback == 0 {
		cfg.Poller.Lookback = 168 * time.Hour
	}
	if cfg.Poller.PassTimeout == 0 {
		cfg.Poller.PassTimeout = 10 * time.Minute
	}
	if cfg.Poller.StepTimeout == 0 {
		cfg.Poller.StepTimeout = 2 * time.Minute
	}
	if cfg.State.SeenOrdersPath == "" {
		cfg.State.SeenOrdersPath = "seen_order_ids.json"
	}
	if cfg.Documents.BasePath == "" {
		cfg.Documents.BasePath = "data"
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "journal.db"
	}
	if cfg.Journal.LogLevel == "" {
		cfg.Journal.LogLevel = "warn"
	}
	// The status server is on unless explicitly disabled
	if !v.IsSet("status.enabled") {
		cfg.Status.Enabled = true
	}
	if cfg.Status.Port == "" {
		cfg.Status.Port = "8085"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Marketplace.Provider {
	case "ebay":
		if c.Ebay.ClientID == "" || c.Ebay.ClientSecret == "" || c.Ebay.RefreshToken == "" {
			return fmt.Errorf("ebay.client_id, ebay.client_secret and ebay.refresh_token are required when marketplace.provider is ebay")
		}
		if c.Ebay.Environment != "production" && c.Ebay.Environment != "sandbox" {
			return fmt.Errorf("ebay.environment must be production or sandbox, got %q", c.Ebay.Environment)
		}
	case "static":
		// No credentials needed
	default:
		return fmt.Errorf("marketplace.provider must be ebay or static, got %q", c.Marketplace.Provider)
	}

	switch c.Labels.Provider {
	case "ebay", "stub":
	default:
		return fmt.Errorf("labels.provider must be ebay or stub, got %q", c.Labels.Provider)
	}

	if !c.Printer.DryRun && c.Printer.Name == "" {
		return fmt.Errorf("printer.name is required unless printer.dry_run is set")
	}

	if c.Poller.Interval < time.Second {
		return fmt.Errorf("poller.interval must be at least 1s, got %v", c.Poller.Interval)
	}
	if c.Poller.Lookback < time.Minute {
		return fmt.Errorf("poller.lookback must be at least 1m, got %v", c.Poller.Lookback)
	}

	return nil
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
