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

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FBMETRICS_"

// EnvConfigFile names the YAML config file when no path is passed to Load.
const EnvConfigFile = EnvPrefix + "CONFIG"

// LoadDotEnv loads KEY=VALUE files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %v", ErrLoadConfig, p, err)
		}
	}
	return nil
}

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file at path, or at $FBMETRICS_CONFIG when path is empty
//  3. env (prefix FBMETRICS_), e.g. FBMETRICS_DB_PATH -> db_path
func Load(ctx context.Context, path string) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
