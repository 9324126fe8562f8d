package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from environment
// variables, .env files, and command-line flags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Pipeline inputs
	SettingsFile string
	SheetID      string
	Worksheet    string
	Token        string
	RepoPath     string
	DryRun       bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration in order of precedence:
//  1. Command-line flags (applied later by cobra)
//  2. Environment variables
//  3. .env files
//  4. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	bindSecrets()

	config := &Config{
		SettingsFile: viper.GetString("TEAM_SETTINGS_FILE"),
		SheetID:      viper.GetString("TEAM_SHEET_ID"),
		Worksheet:    viper.GetString("TEAM_WORKSHEET_NAME"),
		Token:        viper.GetString("WEBSITE_REPOSITORY_TOKEN"),
		RepoPath:     viper.GetString("TEAM_REPO_PATH"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if config.SettingsFile == "" {
		config.SettingsFile = "config.yml"
	}
	if config.RepoPath == "" {
		config.RepoPath = "website"
	}

	return config, nil
}

// UpdateFromFlags applies parsed command flags, which take precedence
// over environment values.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// bindSecrets explicitly binds the environment variables the pipeline
// needs, so they resolve even without the AutomaticEnv prefix rules.
func bindSecrets() {
	keys := []string{
		"TEAM_SETTINGS_FILE",
		"TEAM_SHEET_ID",
		"TEAM_WORKSHEET_NAME",
		"TEAM_REPO_PATH",
		"WEBSITE_REPOSITORY_TOKEN",
	}
	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default
// if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
