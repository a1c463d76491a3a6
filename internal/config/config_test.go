package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/notion-mcp/internal/notion"
)

// isolate points HOME at an empty directory and clears all NOTION_* settings
// so tests never read the developer's real configuration.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, b := range bindings {
		t.Setenv(b.env, "")
		require.NoError(t, os.Unsetenv(b.env))
	}
	return home
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	assert.Empty(t, cfg.APIToken)
	assert.Empty(t, cfg.CalendarDBID)
	assert.Empty(t, cfg.ListDBID)
	assert.Equal(t, notion.DefaultTitleProperty, cfg.TitleProperty)
	assert.Equal(t, notion.DefaultDateProperty, cfg.DateProperty)
	assert.Empty(t, cfg.StatusProperty)
	assert.Empty(t, cfg.PriorityProperty)
	assert.Equal(t, notion.DefaultBaseURL, cfg.APIBaseURL)
	assert.Equal(t, notion.DefaultVersion, cfg.APIVersion)
	assert.Zero(t, cfg.HTTPTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIToken, "secret_abc")
	t.Setenv(EnvCalendarDBID, "cal-db")
	t.Setenv(EnvListDBID, "list-db")
	t.Setenv(EnvTitleProperty, "Name")
	t.Setenv(EnvStatusProperty, "Status")
	t.Setenv(EnvHTTPTimeout, "30s")

	cfg, err := Load(LoadOptions{EnvFile: missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "secret_abc", cfg.APIToken)
	assert.Equal(t, "cal-db", cfg.CalendarDBID)
	assert.Equal(t, "list-db", cfg.ListDBID)
	assert.Equal(t, "Name", cfg.TitleProperty)
	assert.Equal(t, "Status", cfg.StatusProperty)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoad_FromDotEnv(t *testing.T) {
	isolate(t)
	t.Cleanup(func() {
		_ = os.Unsetenv(EnvAPIToken)
		_ = os.Unsetenv(EnvListDBID)
	})

	envFile := filepath.Join(t.TempDir(), ".env")
	content := EnvAPIToken + "=from-dotenv\n" + EnvListDBID + "=list-from-dotenv\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0600))

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv", cfg.APIToken)
	assert.Equal(t, "list-from-dotenv", cfg.ListDBID)
	assert.Empty(t, cfg.CalendarDBID)
}

func TestLoad_FromConfigFile(t *testing.T) {
	isolate(t)
	t.Setenv(EnvListDBID, "list-from-env")

	configFile := filepath.Join(t.TempDir(), "notion.toml")
	content := `api_token = "file-token"
calendar_db_id = "cal-from-file"
list_db_id = "list-from-file"
date_property = "When"
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))

	cfg, err := Load(LoadOptions{EnvFile: missingEnvFile(t), ConfigFile: configFile})
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.APIToken)
	assert.Equal(t, "cal-from-file", cfg.CalendarDBID)
	assert.Equal(t, "list-from-env", cfg.ListDBID, "environment takes precedence over the file")
	assert.Equal(t, "When", cfg.DateProperty)
}

func TestLoad_DefaultConfigDir(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, ".config", "notion-mcp")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`calendar_db_id = "cal"`), 0600))

	cfg, err := Load(LoadOptions{EnvFile: missingEnvFile(t)})
	require.NoError(t, err)
	assert.Equal(t, "cal", cfg.CalendarDBID)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	isolate(t)

	_, err := Load(LoadOptions{
		EnvFile:    missingEnvFile(t),
		ConfigFile: filepath.Join(t.TempDir(), "nope.toml"),
	})
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
		errText string
	}{
		{
			name:    "missing token",
			cfg:     Config{CalendarDBID: "cal"},
			wantErr: ErrMissingToken,
		},
		{
			name: "token only is valid",
			cfg:  Config{APIToken: "t"},
		},
		{
			name:    "negative timeout",
			cfg:     Config{APIToken: "t", HTTPTimeout: -time.Second},
			errText: EnvHTTPTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errText != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errText)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrMissingToken_NamesVariable(t *testing.T) {
	assert.Contains(t, ErrMissingToken.Error(), "NOTION_API_TOKEN")
}

func TestConfig_Schema(t *testing.T) {
	cfg := Config{
		TitleProperty:    "Name",
		DateProperty:     "When",
		StatusProperty:   "Status",
		PriorityProperty: "Priority",
	}

	assert.Equal(t, notion.Schema{
		TitleProperty:    "Name",
		DateProperty:     "When",
		StatusProperty:   "Status",
		PriorityProperty: "Priority",
	}, cfg.Schema())
}

func TestConfig_ClientOptions(t *testing.T) {
	cfg := Config{APIToken: "t", APIBaseURL: "http://localhost:1234"}

	client, err := notion.NewClient(cfg.APIToken, cfg.ClientOptions()...)
	require.NoError(t, err)
	assert.NotNil(t, client)
}
