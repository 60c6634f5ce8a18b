package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/vitalis/internal/rubric"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig   `yaml:"app"`
	Scenarios ScenariosConfig     `yaml:"scenarios"`
	Report    ReportConfig        `yaml:"report"`
	History   HistoryConfig       `yaml:"history"`
	Rubric    rubric.Config       `yaml:"rubric"`
	Synonyms  map[string][]string `yaml:"tag_synonyms"`
	Auth      AuthConfig          `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Scenarios.Validate(); err != nil {
		return err
	}
	if err := c.History.Validate(); err != nil {
		return err
	}
	if err := c.Rubric.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level  `yaml:"log_level"`
	HTTP     HTTPConfig  `yaml:"http"`
	Watch    WatchConfig `yaml:"watch"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// WatchConfig controls fixture watching in serve mode.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}

// ScenariosConfig holds the path to the scenario fixture directory.
type ScenariosConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the scenarios configuration.
func (c *ScenariosConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ReportConfig holds the report output directory. Empty disables report
// files (the CI summary still prints).
type ReportConfig struct {
	Dir string `yaml:"dir"`
}

// HistoryConfig holds the run-history database path.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the history configuration.
func (c *HistoryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
			Watch: WatchConfig{
				Enabled:    true,
				DebounceMs: 500,
			},
		},
		Scenarios: ScenariosConfig{
			Path: "./scenarios",
		},
		Report: ReportConfig{
			Dir: "./reports",
		},
		History: HistoryConfig{
			Path: "./vitalis.db",
		},
		Rubric: rubric.DefaultConfig(),
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
