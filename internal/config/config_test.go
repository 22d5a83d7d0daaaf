package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requiredEnv = map[string]string{
	"WEBSITE_URL":                     "https://example.com",
	"LOGIN_BUTTON_XPATH":              "//button[@id='login']",
	"EMAIL_INPUT_XPATH":               "//input[@name='email']",
	"PASSWORD_INPUT_XPATH":            "//input[@name='password']",
	"SIGN_IN_BUTTON_XPATH":            "//button[@type='submit']",
	"TEST_EMAIL":                      "qa@example.com",
	"TEST_PASSWORD":                   "secret",
	"SPREADSHEET_ID":                  "sheet-123",
	"GOOGLE_SERVICE_ACCOUNT_KEY_PATH": "/tmp/key.json",
	"CRONITOR_MONITOR_ID":             "login-check",
}

var optionalKeys = []string{
	"HEADLESS", "RESULT_ROW", "RESULT_COLUMN", "SHEET_NAME", "DOWNLOAD_PATH",
	"BROWSER_BIN", "CRONITOR_API_KEY", "CRONITOR_ENV", "CRONITOR_PING_URL",
	"WATCH_SCHEDULE", "START_DELAY", "SITE_TIMEOUT", "ELEMENT_TIMEOUT",
	"CLICK_DELAY", "SETTLE_DELAY",
}

// setEnv exports the required keys and clears every optional one so the
// host environment does not leak into assertions.
func setEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	for _, k := range optionalKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	for k, v := range requiredEnv {
		t.Setenv(k, v)
	}
	for k, v := range overrides {
		t.Setenv(k, v)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setEnv(t, nil)

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com", cfg.WebsiteURL)
	assert.Equal(t, "//button[@id='login']", cfg.Locators.LoginButton)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "downloads", cfg.DownloadPath)
	assert.Equal(t, "Automatedtest", cfg.SheetName)
	assert.Equal(t, "A", cfg.ResultColumn)
	assert.Equal(t, 2, cfg.ResultRow)
	assert.Equal(t, "https://cronitor.link", cfg.CronitorURL)
	assert.Equal(t, "@every 15m", cfg.WatchSchedule)

	assert.Equal(t, Timeouts{
		StartDelay:  3 * time.Second,
		Site:        10 * time.Second,
		Element:     30 * time.Second,
		ClickDelay:  1 * time.Second,
		SettleDelay: 2 * time.Second,
	}, cfg.Timeouts)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setEnv(t, map[string]string{
		"HEADLESS":        "false",
		"RESULT_ROW":      "7",
		"RESULT_COLUMN":   "c",
		"ELEMENT_TIMEOUT": "5",
		"SETTLE_DELAY":    "500ms",
	})

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	assert.False(t, cfg.Headless)
	assert.Equal(t, 7, cfg.ResultRow)
	assert.Equal(t, "C", cfg.ResultColumn)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Element)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeouts.SettleDelay)
}

func TestLoadConfig_FromEnvFile(t *testing.T) {
	setEnv(t, nil)
	require.NoError(t, os.Unsetenv("WEBSITE_URL"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WEBSITE_URL=https://from-file.example\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("WEBSITE_URL") })

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-file.example", cfg.WebsiteURL)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setEnv(t, map[string]string{
		"WEBSITE_URL":   "",
		"TEST_PASSWORD": " ",
	})

	_, err := LoadConfig(missingEnvFile(t))
	require.ErrorIs(t, err, ErrMissingRequired)
	assert.Contains(t, err.Error(), "WEBSITE_URL")
	assert.Contains(t, err.Error(), "TEST_PASSWORD")
	assert.NotContains(t, err.Error(), "TEST_EMAIL")
}

func TestLoadBrowserConfig_SkipsReportingKeys(t *testing.T) {
	setEnv(t, map[string]string{
		"SPREADSHEET_ID":                  "",
		"GOOGLE_SERVICE_ACCOUNT_KEY_PATH": "",
		"CRONITOR_MONITOR_ID":             "",
	})

	_, err := LoadConfig(missingEnvFile(t))
	require.ErrorIs(t, err, ErrMissingRequired)

	cfg, err := LoadBrowserConfig(missingEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.WebsiteURL)
	assert.Equal(t, "//button[@type='submit']", cfg.Locators.SignInButton)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.Element)
}

func TestLoadBrowserConfig_MissingLocator(t *testing.T) {
	setEnv(t, map[string]string{"EMAIL_INPUT_XPATH": ""})

	_, err := LoadBrowserConfig(missingEnvFile(t))
	require.ErrorIs(t, err, ErrMissingRequired)
	assert.Contains(t, err.Error(), "EMAIL_INPUT_XPATH")
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bool":     {"HEADLESS": "maybe"},
		"int":      {"RESULT_ROW": "two"},
		"duration": {"SITE_TIMEOUT": "soon"},
		"row":      {"RESULT_ROW": "0"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setEnv(t, env)
			_, err := LoadConfig(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}
