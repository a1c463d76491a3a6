package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/teemow/notion-mcp/internal/notion"
)

const (
	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "NOTION"

	// ConfigFileName is the name of the config file
	ConfigFileName = "config"
	// ConfigFileType is the type of the config file
	ConfigFileType = "toml"

	// DefaultEnvFile is the dotenv file loaded from the working directory
	DefaultEnvFile = ".env"
)

// Environment variable names. Error messages shown to tool callers refer to
// settings by these names.
const (
	EnvAPIToken         = "NOTION_API_TOKEN"
	EnvCalendarDBID     = "NOTION_CALENDAR_DB_ID"
	EnvListDBID         = "NOTION_LIST_DB_ID"
	EnvTitleProperty    = "NOTION_TITLE_PROPERTY"
	EnvDateProperty     = "NOTION_DATE_PROPERTY"
	EnvStatusProperty   = "NOTION_STATUS_PROPERTY"
	EnvPriorityProperty = "NOTION_PRIORITY_PROPERTY"
	EnvAPIBaseURL       = "NOTION_API_BASE_URL"
	EnvAPIVersion       = "NOTION_API_VERSION"
	EnvHTTPTimeout      = "NOTION_HTTP_TIMEOUT"
)

// ErrMissingToken is returned by Validate when no API token is configured.
var ErrMissingToken = errors.New(EnvAPIToken + " environment variable is required")

// Config holds the process-wide configuration. It is loaded once at startup
// and treated as read-only afterwards.
type Config struct {
	APIToken         string        `mapstructure:"api_token"`
	CalendarDBID     string        `mapstructure:"calendar_db_id"`
	ListDBID         string        `mapstructure:"list_db_id"`
	TitleProperty    string        `mapstructure:"title_property"`
	DateProperty     string        `mapstructure:"date_property"`
	StatusProperty   string        `mapstructure:"status_property"`
	PriorityProperty string        `mapstructure:"priority_property"`
	APIBaseURL       string        `mapstructure:"api_base_url"`
	APIVersion       string        `mapstructure:"api_version"`
	HTTPTimeout      time.Duration `mapstructure:"http_timeout"`
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// EnvFile is a dotenv file loaded before reading the environment.
	// A missing file is ignored. Defaults to DefaultEnvFile.
	EnvFile string

	// ConfigFile is an explicit TOML config file. When empty the default
	// config directory is searched and a missing file is ignored.
	ConfigFile string
}

// bindings maps config keys to their environment variables and defaults.
var bindings = []struct {
	key    string
	env    string
	defval any
}{
	{"api_token", EnvAPIToken, ""},
	{"calendar_db_id", EnvCalendarDBID, ""},
	{"list_db_id", EnvListDBID, ""},
	{"title_property", EnvTitleProperty, notion.DefaultTitleProperty},
	{"date_property", EnvDateProperty, notion.DefaultDateProperty},
	{"status_property", EnvStatusProperty, ""},
	{"priority_property", EnvPriorityProperty, ""},
	{"api_base_url", EnvAPIBaseURL, notion.DefaultBaseURL},
	{"api_version", EnvAPIVersion, notion.DefaultVersion},
	{"http_timeout", EnvHTTPTimeout, time.Duration(0)},
}

// Load loads configuration from a dotenv file, the environment and an
// optional config file. Environment variables take precedence over the file.
// Load does not validate; call Validate before using the config to serve.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := loadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, b := range bindings {
		v.SetDefault(b.key, b.defval)
		if err := v.BindEnv(b.key, b.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", b.env, err)
		}
	}

	if err := readConfigFile(v, opts.ConfigFile); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}

	configDir, err := GetConfigDir()
	if err != nil {
		// No home directory: environment only
		return nil
	}

	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
// Variables already present in the environment are not overridden.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "notion-mcp"), nil
}

// Validate checks the settings required to start the server.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return ErrMissingToken
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%s must not be negative, got %s", EnvHTTPTimeout, c.HTTPTimeout)
	}
	return nil
}

// Schema returns the property names used to build page requests.
func (c *Config) Schema() notion.Schema {
	return notion.Schema{
		TitleProperty:    c.TitleProperty,
		DateProperty:     c.DateProperty,
		StatusProperty:   c.StatusProperty,
		PriorityProperty: c.PriorityProperty,
	}
}

// ClientOptions returns the Notion client options derived from the config.
func (c *Config) ClientOptions() []notion.ClientOption {
	return []notion.ClientOption{
		notion.WithBaseURL(c.APIBaseURL),
		notion.WithVersion(c.APIVersion),
		notion.WithTimeout(c.HTTPTimeout),
	}
}
