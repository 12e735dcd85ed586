package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvClassifierAPIKey is the environment variable that overrides the
// classifier API key from the config file. Secrets should be supplied this
// way rather than committed to configuration.
const EnvClassifierAPIKey = "AEGIS_CLASSIFIER_API_KEY"

// Load reads a YAML configuration file, applies defaults for unset fields,
// applies environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides for secrets.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv(EnvClassifierAPIKey); key != "" {
		c.Classifier.APIKey = key
	}
}
