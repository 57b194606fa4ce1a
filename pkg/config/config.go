package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"pagebridge/pkg/bus"
)

const (
	envPageAccessToken = "FACEBOOK_PAGE_ACCESS_TOKEN"
	envVerifyToken     = "FACEBOOK_VERIFY_TOKEN"
	envAPIVersion      = "FACEBOOK_API_VERSION"
	envAllowFrom       = "FACEBOOK_ALLOW_FROM"
)

// DefaultAPIVersion is the Graph API version used when services.yml and the
// environment stay silent.
const DefaultAPIVersion = "3.2"

// Config is the root runtime configuration loaded from services.yml.
type Config struct {
	Facebook FacebookConfig `yaml:"facebook"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format string `yaml:"format,omitempty"`
	Level  string `yaml:"level,omitempty"`
}

// FacebookConfig holds Messenger platform credentials and adapter settings.
type FacebookConfig struct {
	PageAccessToken string        `yaml:"page_access_token"`
	VerifyToken     string        `yaml:"verify_token"`
	PageID          string        `yaml:"page_id"`
	AppID           string        `yaml:"app_id"`
	APIVersion      string        `yaml:"api_version,omitempty"`
	AllowFrom       []string      `yaml:"allow_from,omitempty"`
	Webhook         WebhookConfig `yaml:"webhook,omitempty"`
	Setup           *SetupConfig  `yaml:"setup,omitempty"`
}

// WebhookConfig configures webhook server bind settings.
type WebhookConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// SetupConfig declares the static Messenger profile: conversation entry
// points pushed to the platform once, not per message.
type SetupConfig struct {
	Greeting       []Greeting   `yaml:"greeting,omitempty"`
	PersistentMenu []MenuLocale `yaml:"persistent_menu,omitempty"`
	GetStarted     *GetStarted  `yaml:"get_started,omitempty"`
}

// Greeting is one localized greeting line.
type Greeting struct {
	Locale string `yaml:"locale" json:"locale"`
	Text   string `yaml:"text" json:"text"`
}

// MenuLocale is the persistent menu for one locale.
type MenuLocale struct {
	Locale                string       `yaml:"locale"`
	ComposerInputDisabled bool         `yaml:"composer_input_disabled,omitempty"`
	CallToActions         []bus.Button `yaml:"call_to_actions"`
}

// GetStarted carries the postback payload sent when a user taps Get Started.
type GetStarted struct {
	Payload string `yaml:"payload" json:"payload"`
}

// OptionNames lists which profile options this setup declares, in the order
// the platform documents them.
func (s *SetupConfig) OptionNames() []string {
	if s == nil {
		return nil
	}

	var names []string
	if len(s.Greeting) > 0 {
		names = append(names, "greeting")
	}
	if len(s.PersistentMenu) > 0 {
		names = append(names, "persistent_menu")
	}
	if s.GetStarted != nil {
		names = append(names, "get_started")
	}

	return names
}

// LoadConfig resolves services.yml, unmarshals it, and applies environment
// overrides and defaults.
func LoadConfig() (*Config, error) {
	configPath, err := findConfigPath()
	if err != nil {
		return nil, err
	}

	return loadConfigFile(configPath)
}

func loadConfigFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if strings.TrimSpace(cfg.Facebook.APIVersion) == "" {
		cfg.Facebook.APIVersion = DefaultAPIVersion
	}

	return &cfg, nil
}

// applyEnvOverrides injects selected env-driven settings on top of file config.
func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if token := strings.TrimSpace(os.Getenv(envPageAccessToken)); token != "" {
		cfg.Facebook.PageAccessToken = token
	}

	if token := strings.TrimSpace(os.Getenv(envVerifyToken)); token != "" {
		cfg.Facebook.VerifyToken = token
	}

	if version := strings.TrimSpace(os.Getenv(envAPIVersion)); version != "" {
		cfg.Facebook.APIVersion = version
	}

	if rawAllowFrom := strings.TrimSpace(os.Getenv(envAllowFrom)); rawAllowFrom != "" {
		cfg.Facebook.AllowFrom = parseCSV(rawAllowFrom)
	}
}

// parseCSV splits comma-separated values and returns a trimmed compact slice.
func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		clean = append(clean, trimmed)
	}

	return slices.Clip(clean)
}

// findConfigPath resolves the active config file location.
//
// Precedence is PAGEBRIDGE_CONFIG first, then cwd-local fallback paths.
func findConfigPath() (string, error) {
	if value := strings.TrimSpace(os.Getenv("PAGEBRIDGE_CONFIG")); value != "" {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
		return "", fmt.Errorf("PAGEBRIDGE_CONFIG does not point to a file: %s", value)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current working directory: %w", err)
	}

	candidates := []string{
		filepath.Join(cwd, "services.yml"),
		filepath.Join(cwd, "config", "services.yml"),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("services.yml not found (searched %s)", strings.Join(candidates, ", "))
}
