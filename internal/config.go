package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Oracle providers.
const (
	OracleProviderGemini = "gemini"
	OracleProviderOpenAI = "openai"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Library LibraryConfig     `yaml:"library"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Oracle  OracleConfig      `yaml:"oracle"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Library.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Oracle.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// UnmarshalYAML accepts symbolic level names (DEBUG, INFO, WARN, ERROR)
// for log_level, which yaml.v3 cannot decode into slog.Level on its own.
func (c *ApplicationConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		LogLevel string     `yaml:"log_level"`
		HTTP     HTTPConfig `yaml:"http"`
	}
	raw.HTTP = c.HTTP
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.HTTP = raw.HTTP
	if raw.LogLevel != "" {
		if err := c.LogLevel.UnmarshalText([]byte(raw.LogLevel)); err != nil {
			return fmt.Errorf("app: invalid log_level %q: %w", raw.LogLevel, err)
		}
	}
	return nil
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

// LibraryConfig holds the image library directories.
//
// Path is where imported screenshot bytes live. Inbox, when AutoIndex is
// enabled, is watched for dropped-in images that get analyzed and imported
// in the background.
type LibraryConfig struct {
	Path      string `yaml:"path"`
	Inbox     string `yaml:"inbox"`
	AutoIndex bool   `yaml:"auto_index"`
}

// Validate validates the library configuration.
func (c *LibraryConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	); err != nil {
		return err
	}
	if c.AutoIndex && c.Inbox == "" {
		return fmt.Errorf("library: auto_index is enabled but inbox is empty")
	}
	return nil
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

// OracleConfig holds the external generative-model settings used for image
// analysis, contextual chat, and semantic matching.
type OracleConfig struct {
	Provider string        `yaml:"provider"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// UnmarshalYAML accepts Go duration strings ("60s", "2m") for timeout.
// Fields omitted from the file keep their defaults.
func (c *OracleConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"api_key"`
		Model    string `yaml:"model"`
		Timeout  string `yaml:"timeout"`
	}
	raw.Provider, raw.APIKey, raw.Model = c.Provider, c.APIKey, c.Model
	if err := value.Decode(&raw); err != nil {
		return err
	}
	c.Provider, c.APIKey, c.Model = raw.Provider, raw.APIKey, raw.Model
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("oracle: invalid timeout %q: %w", raw.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate validates the oracle configuration.
func (c *OracleConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(OracleProviderGemini, OracleProviderOpenAI)),
		validation.Field(&c.Model, validation.Required),
	); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("oracle: api_key is required for provider %q", c.Provider)
	}
	return nil
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
		Library: LibraryConfig{
			Path: "./library",
		},
		SQLite: SQLiteConfig{
			Path: "./snapmind.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
		Oracle: OracleConfig{
			Provider: OracleProviderGemini,
			Model:    "gemini-2.0-flash",
			Timeout:  60 * time.Second,
		},
	}
}
