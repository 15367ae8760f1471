package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	clierrors "github.com/netrach/autochangelog/internal/errors"
)

// Credentials holds the secrets resolved at startup. They are read once and
// never written to disk or logged.
type Credentials struct {
	LLMAPIKey       string
	GitHubToken     string
	TelemetryAPIKey string
}

// LookupFunc reports the value of a named credential variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a LookupFunc backed by the process environment, falling
// back to the given .env file. A missing .env file is not an error.
func EnvLookup(dotEnvPath string) (LookupFunc, error) {
	k := koanf.New(".")
	if fileExists(dotEnvPath) {
		if err := k.Load(file.Provider(dotEnvPath), dotenv.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", dotEnvPath, err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		if k.Exists(key) {
			v := k.String(key)
			return v, v != ""
		}
		return "", false
	}, nil
}

// ResolveCredentials reads every credential the configuration needs and fails
// on the first missing one, naming the variable to set.
func ResolveCredentials(cfg *Configuration, lookup LookupFunc) (*Credentials, error) {
	creds := &Credentials{}

	if cfg.LLM.Provider != "ollama" {
		key, ok := lookup(cfg.LLM.APIKeyEnv)
		if !ok {
			return nil, clierrors.MissingCredential(cfg.LLM.APIKeyEnv, "your-llm-api-key")
		}
		creds.LLMAPIKey = key
	}

	token, ok := lookup(cfg.GitHub.TokenEnv)
	if !ok {
		return nil, clierrors.MissingCredential(cfg.GitHub.TokenEnv, "your-github-token")
	}
	creds.GitHubToken = token

	if cfg.Telemetry.Enabled {
		var missing []string
		if strings.TrimSpace(cfg.Telemetry.Endpoint) == "" {
			missing = append(missing, "telemetry.endpoint")
		}
		key, ok := lookup(cfg.Telemetry.APIKeyEnv)
		if !ok {
			missing = append(missing, cfg.Telemetry.APIKeyEnv)
		}
		if len(missing) > 0 {
			return nil, clierrors.MissingTelemetrySetting(missing...)
		}
		creds.TelemetryAPIKey = key
	}

	return creds, nil
}
