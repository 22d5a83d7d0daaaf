package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingRequired is returned when one or more required keys are not set.
var ErrMissingRequired = errors.New("required configuration is missing")

// Locators holds the XPath selectors of the login form.
type Locators struct {
	LoginButton   string
	EmailInput    string
	PasswordInput string
	SignInButton  string
}

// Timeouts holds the fixed waits of the check.
type Timeouts struct {
	StartDelay  time.Duration // pause before the site check
	Site        time.Duration // wait for <body> during the site check
	Element     time.Duration // wait for each login form element
	ClickDelay  time.Duration // pause after clicking the login button
	SettleDelay time.Duration // pause after submitting the form
}

// Config holds the application configuration
type Config struct {
	WebsiteURL string
	Email      string
	Password   string
	Locators   Locators
	Timeouts   Timeouts

	BrowserBin   string
	DownloadPath string
	Headless     bool

	SpreadsheetID  string
	ServiceKeyPath string
	SheetName      string
	ResultColumn   string
	ResultRow      int

	CronitorAPIKey  string
	CronitorMonitor string
	CronitorEnv     string
	CronitorURL     string

	WatchSchedule string
}

// LoadConfig loads configuration from the given .env file and environment variables.
// An empty path means ".env".
func LoadConfig(envFile string) (*Config, error) {
	config, err := load(envFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadBrowserConfig is LoadConfig for tools that only drive the browser:
// the sheet and Cronitor keys may be absent.
func LoadBrowserConfig(envFile string) (*Config, error) {
	config, err := load(envFile)
	if err != nil {
		return nil, err
	}
	if err := config.ValidateLocators(); err != nil {
		return nil, err
	}
	return config, nil
}

func load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	// Load .env file if it exists
	if err := godotenv.Load(envFile); err != nil {
		// If .env file doesn't exist, that's fine, we'll use environment variables
		fmt.Printf("Warning: could not load %s: %v\n", envFile, err)
	}

	headless, err := getBoolOrDefault("HEADLESS", true)
	if err != nil {
		return nil, err
	}
	row, err := getIntOrDefault("RESULT_ROW", 2)
	if err != nil {
		return nil, err
	}
	timeouts, err := loadTimeouts()
	if err != nil {
		return nil, err
	}

	config := &Config{
		WebsiteURL: getEnvOrDefault("WEBSITE_URL", ""),
		Email:      getEnvOrDefault("TEST_EMAIL", ""),
		Password:   getEnvOrDefault("TEST_PASSWORD", ""),
		Locators: Locators{
			LoginButton:   getEnvOrDefault("LOGIN_BUTTON_XPATH", ""),
			EmailInput:    getEnvOrDefault("EMAIL_INPUT_XPATH", ""),
			PasswordInput: getEnvOrDefault("PASSWORD_INPUT_XPATH", ""),
			SignInButton:  getEnvOrDefault("SIGN_IN_BUTTON_XPATH", ""),
		},
		Timeouts: timeouts,

		BrowserBin:   getEnvOrDefault("BROWSER_BIN", ""),
		DownloadPath: getEnvOrDefault("DOWNLOAD_PATH", "downloads"),
		Headless:     headless,

		SpreadsheetID:  getEnvOrDefault("SPREADSHEET_ID", ""),
		ServiceKeyPath: getEnvOrDefault("GOOGLE_SERVICE_ACCOUNT_KEY_PATH", ""),
		SheetName:      getEnvOrDefault("SHEET_NAME", "Automatedtest"),
		ResultColumn:   strings.ToUpper(getEnvOrDefault("RESULT_COLUMN", "A")),
		ResultRow:      row,

		CronitorAPIKey:  getEnvOrDefault("CRONITOR_API_KEY", ""),
		CronitorMonitor: getEnvOrDefault("CRONITOR_MONITOR_ID", ""),
		CronitorEnv:     getEnvOrDefault("CRONITOR_ENV", ""),
		CronitorURL:     getEnvOrDefault("CRONITOR_PING_URL", "https://cronitor.link"),

		WatchSchedule: getEnvOrDefault("WATCH_SCHEDULE", "@every 15m"),
	}

	return config, nil
}

type requiredKey struct {
	key   string
	value string
}

func (c *Config) locatorKeys() []requiredKey {
	return []requiredKey{
		{"WEBSITE_URL", c.WebsiteURL},
		{"LOGIN_BUTTON_XPATH", c.Locators.LoginButton},
		{"EMAIL_INPUT_XPATH", c.Locators.EmailInput},
		{"PASSWORD_INPUT_XPATH", c.Locators.PasswordInput},
		{"SIGN_IN_BUTTON_XPATH", c.Locators.SignInButton},
		{"TEST_EMAIL", c.Email},
		{"TEST_PASSWORD", c.Password},
	}
}

func checkRequired(keys []requiredKey) error {
	var missing []string
	for _, r := range keys {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateLocators checks only what the browser needs: the site, the
// form XPaths and the test account.
func (c *Config) ValidateLocators() error {
	return checkRequired(c.locatorKeys())
}

// Validate reports every required key that is empty in a single error.
func (c *Config) Validate() error {
	required := append(c.locatorKeys(),
		requiredKey{"SPREADSHEET_ID", c.SpreadsheetID},
		requiredKey{"GOOGLE_SERVICE_ACCOUNT_KEY_PATH", c.ServiceKeyPath},
		requiredKey{"CRONITOR_MONITOR_ID", c.CronitorMonitor},
	)
	if err := checkRequired(required); err != nil {
		return err
	}

	if c.ResultRow < 1 {
		return fmt.Errorf("RESULT_ROW must be >= 1, got %d", c.ResultRow)
	}
	if c.ResultColumn == "" {
		return fmt.Errorf("RESULT_COLUMN must not be empty")
	}
	return nil
}

func loadTimeouts() (Timeouts, error) {
	var t Timeouts
	var err error
	fields := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"START_DELAY", 3 * time.Second, &t.StartDelay},
		{"SITE_TIMEOUT", 10 * time.Second, &t.Site},
		{"ELEMENT_TIMEOUT", 30 * time.Second, &t.Element},
		{"CLICK_DELAY", 1 * time.Second, &t.ClickDelay},
		{"SETTLE_DELAY", 2 * time.Second, &t.SettleDelay},
	}
	for _, f := range fields {
		if *f.dst, err = getDurationOrDefault(f.key, f.def); err != nil {
			return Timeouts{}, err
		}
	}
	return t, nil
}

// getEnvOrDefault retrieves an environment variable or returns a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q: %w", key, value, err)
	}
	return b, nil
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q: %w", key, value, err)
	}
	return i, nil
}

// getDurationOrDefault accepts Go durations ("30s") and bare seconds ("30").
func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, value, err)
	}
	return d, nil
}
