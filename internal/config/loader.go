package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read outside the WORDBOARD_ key space.
const (
	envPrefix     = "WORDBOARD_"
	envConfigFile = "WORDBOARD_CONFIG"
	envDotEnvFile = "WORDBOARD_ENV_FILE"
	envGeminiKey  = "GEMINI_API_KEY"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if WORDBOARD_CONFIG is set
//  3. env (prefix WORDBOARD_), after .env has been merged into the process
//     environment without overriding variables already set
//
// GEMINI_API_KEY is used when no gemini_api_key was configured.
func Load(_ context.Context) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// WORDBOARD_DB_DSN -> db_dsn. Keys are flat, so underscores stay.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = os.Getenv(envGeminiKey)
	}
	if strings.TrimSpace(cfg.DefaultInstruction) == "" {
		cfg.DefaultInstruction = DefaultInstruction
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv merges a dotenv file into the environment. A missing default
// .env is fine; a missing explicitly named file is not.
func loadDotEnv() error {
	path, explicit := os.LookupEnv(envDotEnvFile)
	if !explicit || path == "" {
		path, explicit = ".env", false
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: dotenv %s: %v", ErrLoadConfig, path, err)
	}
	return nil
}
