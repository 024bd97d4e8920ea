package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Raahin414/fpl-autonomous-bot/internal/common"

	"gopkg.in/yaml.v3"
)

// Settings is the fully resolved runtime configuration. Credentials are
// loaded exactly once here and passed explicitly; nothing else in the
// process reads them from the environment.
type Settings struct {
	Email            string
	Password         string
	TeamID           int
	BaseURL          string
	LoginURL         string
	LexiconURL       string
	LexiconPath      string
	NewsSources      []string
	DataPath         string
	RunHour          int
	MetricsPort      int
	DashboardPort    int
	DryRun           bool
	RESTTimeout      time.Duration
	BudgetTenths     int
	MaxPerClub       int
	TransferWindow   float64 // hours before deadline in which transfers act
	SentimentEnabled bool
	ChipsEnabled     bool
}

type ConfigFile struct {
	Account struct {
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		TeamID   int    `yaml:"teamID"`
	} `yaml:"account"`

	API struct {
		BaseURL     string `yaml:"baseURL"`
		LoginURL    string `yaml:"loginURL"`
		RESTTimeout string `yaml:"restTimeout"`
	} `yaml:"api"`

	Squad struct {
		BudgetTenths   int     `yaml:"budgetTenths"`
		MaxPerClub     int     `yaml:"maxPerClub"`
		TransferWindow float64 `yaml:"transferWindow"`
		ChipsEnabled   bool    `yaml:"chipsEnabled"`
		DryRun         bool    `yaml:"dryRun"`
	} `yaml:"squad"`

	Sentiment struct {
		Enabled     bool     `yaml:"enabled"`
		LexiconURL  string   `yaml:"lexiconURL"`
		LexiconPath string   `yaml:"lexiconPath"`
		NewsSources []string `yaml:"newsSources"`
	} `yaml:"sentiment"`

	System struct {
		DataPath      string `yaml:"dataPath"`
		RunHour       *int   `yaml:"runHour"`
		MetricsPort   int    `yaml:"metricsPort"`
		DashboardPort int    `yaml:"dashboardPort"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	// Try to load from YAML file first
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromYAML(configPath)
	}

	// Fallback to environment variables
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	restTimeout, err := time.ParseDuration(config.API.RESTTimeout)
	if err != nil {
		restTimeout = 30 * time.Second
	}

	// Secrets always win from the environment when present
	email := getEnvOrDefault(common.EnvFPLEmail, config.Account.Email)
	password := getEnvOrDefault(common.EnvFPLPassword, config.Account.Password)
	teamID := getIntFromEnvOrConfig(common.EnvFPLTeamID, config.Account.TeamID)

	runHour := common.DefaultRunHour
	if config.System.RunHour != nil {
		runHour = *config.System.RunHour
	}
	if v := os.Getenv(common.EnvRunHour); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			runHour = h
		}
	}

	settings := Settings{
		Email:            email,
		Password:         password,
		TeamID:           teamID,
		BaseURL:          getEnvOrDefault(common.EnvBaseURL, orDefault(config.API.BaseURL, common.DefaultBaseURL)),
		LoginURL:         getEnvOrDefault(common.EnvLoginURL, orDefault(config.API.LoginURL, common.DefaultLoginURL)),
		LexiconURL:       getEnvOrDefault(common.EnvLexiconURL, orDefault(config.Sentiment.LexiconURL, common.DefaultLexiconURL)),
		LexiconPath:      getEnvOrDefault(common.EnvLexiconPath, orDefault(config.Sentiment.LexiconPath, common.DefaultLexiconPath)),
		NewsSources:      getSourcesFromEnvOrConfig(config.Sentiment.NewsSources),
		DataPath:         getEnvOrDefault(common.EnvDataPath, orDefault(config.System.DataPath, common.DefaultDataPath)),
		RunHour:          runHour,
		MetricsPort:      getIntFromEnvOrConfig(common.EnvMetricsPort, config.System.MetricsPort),
		DashboardPort:    getIntFromEnvOrConfig(common.EnvDashboardPort, config.System.DashboardPort),
		DryRun:           getBoolFromEnvOrConfig(common.EnvDryRun, config.Squad.DryRun),
		RESTTimeout:      restTimeout,
		BudgetTenths:     getIntFromEnvOrConfig(common.EnvBudgetTenths, config.Squad.BudgetTenths),
		MaxPerClub:       getIntFromEnvOrConfig(common.EnvMaxPerClub, config.Squad.MaxPerClub),
		TransferWindow:   getFloatFromEnvOrConfig(common.EnvTransferWindow, config.Squad.TransferWindow),
		SentimentEnabled: getBoolFromEnvOrConfig(common.EnvSentimentEnabled, config.Sentiment.Enabled),
		ChipsEnabled:     getBoolFromEnvOrConfig(common.EnvChipsEnabled, config.Squad.ChipsEnabled),
	}
	applyDefaults(&settings)

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	email, err := getEnvRequired(common.EnvFPLEmail)
	if err != nil {
		return Settings{}, err
	}

	password, err := getEnvRequired(common.EnvFPLPassword)
	if err != nil {
		return Settings{}, err
	}

	teamRaw, err := getEnvRequired(common.EnvFPLTeamID)
	if err != nil {
		return Settings{}, err
	}
	teamID, err := strconv.Atoi(strings.TrimSpace(teamRaw))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", common.ErrMsgTeamIDNumeric, err)
	}

	settings := Settings{
		Email:            email,
		Password:         password,
		TeamID:           teamID,
		BaseURL:          getEnvOrDefault(common.EnvBaseURL, common.DefaultBaseURL),
		LoginURL:         getEnvOrDefault(common.EnvLoginURL, common.DefaultLoginURL),
		LexiconURL:       getEnvOrDefault(common.EnvLexiconURL, common.DefaultLexiconURL),
		LexiconPath:      getEnvOrDefault(common.EnvLexiconPath, common.DefaultLexiconPath),
		NewsSources:      splitOrDefault(os.Getenv(common.EnvNewsSources), strings.Split(common.DefaultNewsSources, ",")),
		DataPath:         getEnvOrDefault(common.EnvDataPath, common.DefaultDataPath),
		RunHour:          getIntOrDefault(common.EnvRunHour, common.DefaultRunHour),
		MetricsPort:      getIntOrDefault(common.EnvMetricsPort, common.DefaultMetricsPort),
		DashboardPort:    getIntOrDefault(common.EnvDashboardPort, common.DefaultDashboardPort),
		DryRun:           getBoolOrDefault(common.EnvDryRun, false),
		RESTTimeout:      getDurationOrDefault(common.EnvRESTTimeout, 30*time.Second),
		BudgetTenths:     getIntOrDefault(common.EnvBudgetTenths, common.DefaultBudgetTenths),
		MaxPerClub:       getIntOrDefault(common.EnvMaxPerClub, common.DefaultMaxPerClub),
		TransferWindow:   getFloatOrDefault(common.EnvTransferWindow, common.DefaultTransferWindow),
		SentimentEnabled: getBoolOrDefault(common.EnvSentimentEnabled, true),
		ChipsEnabled:     getBoolOrDefault(common.EnvChipsEnabled, false),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

// applyDefaults fills zero values the YAML path may leave behind.
func applyDefaults(s *Settings) {
	if s.MetricsPort == 0 {
		s.MetricsPort = common.DefaultMetricsPort
	}
	if s.DashboardPort == 0 {
		s.DashboardPort = common.DefaultDashboardPort
	}
	if s.BudgetTenths == 0 {
		s.BudgetTenths = common.DefaultBudgetTenths
	}
	if s.MaxPerClub == 0 {
		s.MaxPerClub = common.DefaultMaxPerClub
	}
	if s.TransferWindow == 0 {
		s.TransferWindow = common.DefaultTransferWindow
	}
}

func getEnvRequired(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is missing", key)
	}
	return v, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func splitOrDefault(v string, def []string) []string {
	if v == "" {
		return def
	}
	return strings.Split(v, ",")
}

func getSourcesFromEnvOrConfig(configSources []string) []string {
	if env := os.Getenv(common.EnvNewsSources); env != "" {
		return strings.Split(env, ",")
	}
	if len(configSources) > 0 {
		return configSources
	}
	return strings.Split(common.DefaultNewsSources, ",")
}

func getIntFromEnvOrConfig(key string, configValue int) int {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.Atoi(env); err == nil {
			return val
		}
	}
	return configValue
}

func getFloatFromEnvOrConfig(key string, configValue float64) float64 {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseFloat(env, 64); err == nil {
			return val
		}
	}
	return configValue
}

func getBoolFromEnvOrConfig(key string, configValue bool) bool {
	if env := os.Getenv(key); env != "" {
		if val, err := strconv.ParseBool(env); err == nil {
			return val
		}
	}
	return configValue
}

// validateSettings performs comprehensive validation of configuration values
func validateSettings(settings *Settings) error {
	if settings.Email == "" || settings.Password == "" || settings.TeamID == 0 {
		return fmt.Errorf("%s", common.ErrMsgCredentialsRequired)
	}
	if settings.TeamID < 0 {
		return fmt.Errorf("%s", common.ErrMsgTeamIDNumeric)
	}

	if settings.BaseURL == "" {
		return fmt.Errorf("%s", common.ErrMsgBaseURLRequired)
	}
	if settings.LoginURL == "" {
		return fmt.Errorf("login URL cannot be empty")
	}
	if settings.LexiconURL == "" || settings.LexiconPath == "" {
		return fmt.Errorf("lexicon URL and path cannot be empty")
	}

	if settings.RunHour < 0 || settings.RunHour > 23 {
		return fmt.Errorf("run hour must be between 0 and 23, got %d", settings.RunHour)
	}
	if settings.RESTTimeout < time.Second || settings.RESTTimeout > 2*time.Minute {
		return fmt.Errorf("REST timeout must be between 1s and 2m, got %v", settings.RESTTimeout)
	}

	if settings.MetricsPort < 1024 || settings.MetricsPort > 65535 {
		return fmt.Errorf("metrics port must be between 1024 and 65535, got %d", settings.MetricsPort)
	}
	if settings.DashboardPort < 1024 || settings.DashboardPort > 65535 {
		return fmt.Errorf("dashboard port must be between 1024 and 65535, got %d", settings.DashboardPort)
	}
	if settings.MetricsPort == settings.DashboardPort {
		return fmt.Errorf("metrics and dashboard ports must differ, both are %d", settings.MetricsPort)
	}

	if settings.BudgetTenths < 500 || settings.BudgetTenths > 2000 {
		return fmt.Errorf("budget must be between 500 and 2000 tenths, got %d", settings.BudgetTenths)
	}
	if settings.MaxPerClub < 1 || settings.MaxPerClub > 15 {
		return fmt.Errorf("max per club must be between 1 and 15, got %d", settings.MaxPerClub)
	}
	if settings.TransferWindow <= 0 || settings.TransferWindow > 168 {
		return fmt.Errorf("free transfer window must be between 0 and 168 hours, got %f", settings.TransferWindow)
	}

	if settings.SentimentEnabled && len(settings.NewsSources) == 0 {
		return fmt.Errorf("sentiment enabled but no news sources configured")
	}

	return nil
}
