package polyjson

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfigFromEnvironment reads configuration from POLYJSON_*
// environment variables, falling back to defaults for anything unset.
// A .env file in the working directory is loaded first if present,
// following the 12-factor convention.
func LoadConfigFromEnvironment() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	var err error
	if cfg.Lenient, err = boolEnv(EnvLenient, cfg.Lenient); err != nil {
		return Config{}, err
	}
	if cfg.HTMLSafe, err = boolEnv(EnvHTMLSafe, cfg.HTMLSafe); err != nil {
		return Config{}, err
	}
	if cfg.SerializeNulls, err = boolEnv(EnvSerializeNulls, cfg.SerializeNulls); err != nil {
		return Config{}, err
	}
	if cfg.UseNumber, err = boolEnv(EnvUseNumber, cfg.UseNumber); err != nil {
		return Config{}, err
	}
	if cfg.Envelope, err = boolEnv(EnvEnvelope, cfg.Envelope); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(EnvTypeField); v != "" {
		cfg.TypeField = v
	}
	if v := os.Getenv(EnvDataField); v != "" {
		cfg.DataField = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromFile reads a YAML configuration file. Fields absent
// from the file keep their defaults.
func LoadConfigFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
