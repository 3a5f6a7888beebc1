// Package config 提供配置加载和校验。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full application configuration. Generation fields form the
// immutable snapshot handed to a run; the rest configures the process itself.
type Config struct {
	// Generation profile.
	Domain     string `yaml:"domain" mapstructure:"domain"`
	SkillLevel string `yaml:"skill_level" mapstructure:"skill_level"`
	Focus      string `yaml:"focus" mapstructure:"focus"`
	Constraint string `yaml:"constraint" mapstructure:"constraint"`
	Languages  string `yaml:"languages" mapstructure:"languages"`

	// Loop policy.
	MaxRecords             int           `yaml:"max_records" mapstructure:"max_records"`
	MaxConsecutiveFailures int           `yaml:"max_consecutive_failures" mapstructure:"max_consecutive_failures"`
	Delay                  time.Duration `yaml:"delay" mapstructure:"delay"`

	// Model endpoints. Model X generates intents, Model Y solutions.
	Provider       string        `yaml:"provider" mapstructure:"provider"`
	Model          string        `yaml:"model" mapstructure:"model"`
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	ModelXURL      string        `yaml:"model_x_url" mapstructure:"model_x_url"`
	ModelYURL      string        `yaml:"model_y_url" mapstructure:"model_y_url"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`

	// Output.
	WebFormat bool   `yaml:"web_format" mapstructure:"web_format"`
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`

	// Process.
	ServerAddr string `yaml:"server_addr" mapstructure:"server_addr"`
	LogLevel   string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat  string `yaml:"log_format" mapstructure:"log_format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("domain", "PHP 8 and HTML5")
	v.SetDefault("skill_level", "senior architect")
	v.SetDefault("focus", "security and performance")
	v.SetDefault("constraint", "proprietary library constraint (e.g., 'use the `Sanitizer::filter()` class')")
	v.SetDefault("languages", "PHP and/or HTML")
	v.SetDefault("max_records", 1000)
	v.SetDefault("max_consecutive_failures", 3)
	v.SetDefault("delay", time.Second)
	v.SetDefault("provider", "openai")
	v.SetDefault("model", "local-model")
	v.SetDefault("model_x_url", "http://127.0.0.1:8081")
	v.SetDefault("model_y_url", "http://127.0.0.1:8080")
	v.SetDefault("request_timeout", 120*time.Second)
	v.SetDefault("web_format", false)
	v.SetDefault("output_dir", "rag_data")
	v.SetDefault("server_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads configuration from the given YAML file, applying defaults and
// RAGGEN_* environment overrides. An empty path loads defaults plus env only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RAGGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants a run must never start without.
func (c Config) Validate() error {
	if c.MaxRecords <= 0 {
		return errors.New("config: max_records must be greater than 0")
	}
	if c.MaxConsecutiveFailures < 1 {
		return errors.New("config: max_consecutive_failures must be at least 1")
	}
	if c.Delay < 0 {
		return errors.New("config: delay must not be negative")
	}
	if c.ModelXURL == "" || c.ModelYURL == "" {
		return errors.New("config: model_x_url and model_y_url are required")
	}
	if c.OutputDir == "" {
		return errors.New("config: output_dir is required")
	}
	switch c.Provider {
	case "openai", "mock":
	default:
		return fmt.Errorf("config: provider %s not supported", c.Provider)
	}
	return nil
}

// Overlay carries per-run overrides supplied by the control surface. Nil
// fields fall back to the file configuration.
type Overlay struct {
	Domain                 *string        `json:"domain,omitempty"`
	SkillLevel             *string        `json:"skill_level,omitempty"`
	Focus                  *string        `json:"focus,omitempty"`
	Constraint             *string        `json:"constraint,omitempty"`
	Languages              *string        `json:"languages,omitempty"`
	MaxRecords             *int           `json:"max_records,omitempty"`
	MaxConsecutiveFailures *int           `json:"max_consecutive_failures,omitempty"`
	DelaySeconds           *float64       `json:"delay_seconds,omitempty"`
	ModelXURL              *string        `json:"model_x_url,omitempty"`
	ModelYURL              *string        `json:"model_y_url,omitempty"`
	WebFormat              *bool          `json:"web_format,omitempty"`
	OutputDir              *string        `json:"output_dir,omitempty"`
}

// Apply returns a copy of base with the overlay's non-nil fields applied.
func (o Overlay) Apply(base Config) Config {
	cfg := base
	if o.Domain != nil {
		cfg.Domain = *o.Domain
	}
	if o.SkillLevel != nil {
		cfg.SkillLevel = *o.SkillLevel
	}
	if o.Focus != nil {
		cfg.Focus = *o.Focus
	}
	if o.Constraint != nil {
		cfg.Constraint = *o.Constraint
	}
	if o.Languages != nil {
		cfg.Languages = *o.Languages
	}
	if o.MaxRecords != nil {
		cfg.MaxRecords = *o.MaxRecords
	}
	if o.MaxConsecutiveFailures != nil {
		cfg.MaxConsecutiveFailures = *o.MaxConsecutiveFailures
	}
	if o.DelaySeconds != nil {
		cfg.Delay = time.Duration(*o.DelaySeconds * float64(time.Second))
	}
	if o.ModelXURL != nil {
		cfg.ModelXURL = *o.ModelXURL
	}
	if o.ModelYURL != nil {
		cfg.ModelYURL = *o.ModelYURL
	}
	if o.WebFormat != nil {
		cfg.WebFormat = *o.WebFormat
	}
	if o.OutputDir != nil {
		cfg.OutputDir = *o.OutputDir
	}
	return cfg
}
