// Package config loads engine settings from an optional YAML file plus
// INTAKE_-prefixed environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/intakeflow/intakeflow/policy"
	"github.com/intakeflow/intakeflow/schema"
	"github.com/intakeflow/intakeflow/types"
)

type Config struct {
	Mode              string       `koanf:"mode"`
	MaxClarifications int          `koanf:"max_clarifications"`
	Policy            PolicyConfig `koanf:"policy"`
	Model             ModelConfig  `koanf:"model"`
	Output            OutputConfig `koanf:"output"`
}

type PolicyConfig struct {
	ConfidenceThreshold float64  `koanf:"confidence_threshold"`
	DescriptionLength   int      `koanf:"description_length"`
	ComplexTypes        []string `koanf:"complex_types"`
	ResponseLength      int      `koanf:"response_length"`
	ResponseWords       int      `koanf:"response_words"`
}

type ModelConfig struct {
	APIKey         string  `koanf:"api_key"`
	BaseURL        string  `koanf:"base_url"`
	Model          string  `koanf:"model"`
	TimeoutSeconds float64 `koanf:"timeout_seconds"`
}

type OutputConfig struct {
	Dir        string `koanf:"dir"`
	CSVPath    string `koanf:"csv_path"`
	SQLitePath string `koanf:"sqlite_path"`
	WebhookURL string `koanf:"webhook_url"`
}

// Load reads path (skipped when empty) and then applies INTAKE_ environment
// variables; double underscore nests, e.g. INTAKE_MODEL__API_KEY ->
// model.api_key.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"mode":                        string(types.ModeHybrid),
		"max_clarifications":          3,
		"policy.confidence_threshold": 0.7,
		"policy.description_length":   50,
		"policy.complex_types":        []string{"address", "text"},
		"policy.response_length":      100,
		"policy.response_words":       20,
		"model.model":                 "gpt-4o-mini",
		"model.timeout_seconds":       5.0,
		"output.dir":                  "output",
	}
	for key, value := range defaults {
		_ = k.Set(key, value)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("INTAKE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "INTAKE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// PolicyConfig converts the loaded thresholds into the selector's config.
func (c *Config) PolicyConfig() policy.Config {
	complexTypes := make([]schema.FieldType, 0, len(c.Policy.ComplexTypes))
	for _, t := range c.Policy.ComplexTypes {
		complexTypes = append(complexTypes, schema.FieldType(t))
	}
	return policy.Config{
		ConfidenceThreshold: c.Policy.ConfidenceThreshold,
		DescriptionLength:   c.Policy.DescriptionLength,
		ComplexTypes:        complexTypes,
		ResponseLength:      c.Policy.ResponseLength,
		ResponseWords:       c.Policy.ResponseWords,
	}
}

func (c *Config) SessionMode() types.Mode {
	return types.Mode(c.Mode)
}

func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds * float64(time.Second))
}
