// Package config provides hierarchical configuration management for autochangelog using koanf.
// Configuration is loaded with priority: environment variables (AUTOCHANGELOG_*) > project config
// (.autochangelog/config.yml or config.json) > user config (~/.config/autochangelog/config.yml) > defaults.
// Credentials are not part of the configuration; it only names the environment variables that hold them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "AUTOCHANGELOG_"

// sections are the nested config tables; AUTOCHANGELOG_<SECTION>_<KEY> maps to section.key.
var sections = []string{"llm", "github", "telemetry", "output"}

// Configuration represents the autochangelog CLI configuration.
type Configuration struct {
	LLM       LLMConfig       `koanf:"llm" yaml:"llm"`
	GitHub    GitHubConfig    `koanf:"github" yaml:"github"`
	Telemetry TelemetryConfig `koanf:"telemetry" yaml:"telemetry"`
	Output    OutputConfig    `koanf:"output" yaml:"output"`
	LogLevel  string          `koanf:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`

	// Sources lists the config files that were loaded, lowest priority first.
	Sources []string `koanf:"-" yaml:"-"`
}

// LLMConfig selects and tunes the language-model backend.
type LLMConfig struct {
	// Provider is one of openai, anthropic, ollama, googleai.
	Provider string `koanf:"provider" yaml:"provider" validate:"oneof=openai anthropic ollama googleai"`
	Model    string `koanf:"model" yaml:"model" validate:"required"`
	// BaseURL points openai at a compatible proxy (e.g. LiteLLM) or ollama at its server.
	BaseURL string `koanf:"base_url" yaml:"base_url"`
	// APIKeyEnv names the environment variable holding the provider key.
	APIKeyEnv     string  `koanf:"api_key_env" yaml:"api_key_env" validate:"required"`
	Temperature   float64 `koanf:"temperature" yaml:"temperature" validate:"min=0,max=2"`
	MaxIterations int     `koanf:"max_iterations" yaml:"max_iterations" validate:"min=1,max=100"`
}

// GitHubConfig configures the REST client.
type GitHubConfig struct {
	APIURL     string `koanf:"api_url" yaml:"api_url" validate:"required,url"`
	APIVersion string `koanf:"api_version" yaml:"api_version" validate:"required"`
	// TokenEnv names the environment variable holding the GitHub token.
	TokenEnv          string        `koanf:"token_env" yaml:"token_env" validate:"required"`
	Timeout           time.Duration `koanf:"timeout" yaml:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second" yaml:"requests_per_second" validate:"min=0"`
}

// MarshalYAML writes Timeout as a duration string ("30s") so the output of
// `config show` loads back unchanged.
func (c GitHubConfig) MarshalYAML() (any, error) {
	return struct {
		APIURL            string  `yaml:"api_url"`
		APIVersion        string  `yaml:"api_version"`
		TokenEnv          string  `yaml:"token_env"`
		Timeout           string  `yaml:"timeout"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	}{
		APIURL:            c.APIURL,
		APIVersion:        c.APIVersion,
		TokenEnv:          c.TokenEnv,
		Timeout:           c.Timeout.String(),
		RequestsPerSecond: c.RequestsPerSecond,
	}, nil
}

// TelemetryConfig configures the optional conversation tracing.
type TelemetryConfig struct {
	Enabled   bool   `koanf:"enabled" yaml:"enabled"`
	Endpoint  string `koanf:"endpoint" yaml:"endpoint"`
	APIKeyEnv string `koanf:"api_key_env" yaml:"api_key_env"`
	AppName   string `koanf:"app_name" yaml:"app_name"`
	TenantID  string `koanf:"tenant_id" yaml:"tenant_id"`
}

// OutputConfig controls terminal rendering.
type OutputConfig struct {
	Plain bool `koanf:"plain" yaml:"plain"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .autochangelog/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG config dir)
	UserConfigPath string
}

// Load loads configuration from user, project, and environment sources.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	var sources []string

	loadDefaults(k)

	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath, _ = UserConfigPath()
	}
	loaded, err := loadConfigFile(k, userPath, "user")
	if err != nil {
		return nil, err
	}
	if loaded {
		sources = append(sources, userPath)
	}

	projectPath, err := resolveProjectConfigPath(opts.ProjectConfigPath)
	if err != nil {
		return nil, err
	}
	loaded, err = loadConfigFile(k, projectPath, "project")
	if err != nil {
		return nil, err
	}
	if loaded {
		sources = append(sources, projectPath)
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources
	return cfg, nil
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// resolveProjectConfigPath returns the explicit path when given (which must
// exist), otherwise the YAML project config, falling back to JSON.
func resolveProjectConfigPath(customPath string) (string, error) {
	if customPath != "" {
		if !fileExists(customPath) {
			return "", fmt.Errorf("config file not found: %s", customPath)
		}
		return customPath, nil
	}
	if fileExists(ProjectConfigPath()) {
		return ProjectConfigPath(), nil
	}
	return ProjectJSONConfigPath(), nil
}

// loadConfigFile loads a YAML or JSON config file, chosen by extension.
// A missing file is not an error.
func loadConfigFile(k *koanf.Koanf, path, configType string) (bool, error) {
	if !fileExists(path) {
		return false, nil
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return false, fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return true, nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return false, fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return false, fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return true, nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// levels are case-insensitive; validation sees the normalized form
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.GitHub.APIURL = strings.TrimRight(cfg.GitHub.APIURL, "/")
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: AUTOCHANGELOG_LLM_MAX_ITERATIONS -> llm.max_iterations,
// AUTOCHANGELOG_LOG_LEVEL -> log_level
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}
