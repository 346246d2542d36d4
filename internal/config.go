package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/bfloydd/coalesce/internal/blocks"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
	Blocks BlocksConfig      `yaml:"blocks"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Blocks.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
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

// VaultConfig holds the path to the Markdown vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
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

// BlocksConfig holds the defaults for backlink block extraction.
//
// Strategy selects the boundary strategy used when a request does not name
// one. SortOrder orders source files in the backlink view. HeaderStyle is the
// HTML heading level used when rendering block titles.
type BlocksConfig struct {
	Strategy          string `yaml:"strategy"`
	Sort              string `yaml:"sort"`
	SortOrder         string `yaml:"sort_order"`
	OnlyBacklinkLines bool   `yaml:"only_backlink_lines"`
	Collapsed         bool   `yaml:"collapsed"`
	HeaderStyle       int    `yaml:"header_style"`
}

// Validate validates the blocks configuration.
func (c *BlocksConfig) Validate() error {
	if c.Strategy == "" {
		c.Strategy = blocks.StrategyDefault
	}
	if c.Sort == "" {
		c.Sort = "path"
	}
	if c.SortOrder == "" {
		c.SortOrder = "asc"
	}
	if c.HeaderStyle == 0 {
		c.HeaderStyle = 4
	}
	names := blocks.StrategyNames()
	strategies := make([]interface{}, len(names))
	for i, n := range names {
		strategies[i] = n
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Strategy, validation.Required, validation.In(strategies...)),
		validation.Field(&c.Sort, validation.Required, validation.In("path", "lines")),
		validation.Field(&c.SortOrder, validation.Required, validation.In("asc", "desc")),
		validation.Field(&c.HeaderStyle, validation.Required, validation.Min(1), validation.Max(6)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path: "./vault",
		},
		SQLite: SQLiteConfig{
			Path: "./coalesce.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Blocks: BlocksConfig{
			Strategy:    blocks.StrategyDefault,
			Sort:        "path",
			SortOrder:   "asc",
			HeaderStyle: 4,
		},
	}
}
