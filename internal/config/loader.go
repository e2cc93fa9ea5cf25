package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)

	if cfg.Source.IsSQL() && cfg.Source.Port == 0 {
		cfg.Source.Port = DefaultPort(cfg.Source.Type)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) {
	cfg.Source.Path = expandEnvVar(cfg.Source.Path)
	cfg.Source.Host = expandEnvVar(cfg.Source.Host)
	cfg.Source.User = expandEnvVar(cfg.Source.User)
	cfg.Source.Password = expandEnvVar(cfg.Source.Password)
	cfg.Source.Database = expandEnvVar(cfg.Source.Database)
	cfg.Source.S3.Endpoint = expandEnvVar(cfg.Source.S3.Endpoint)
	cfg.Source.S3.AccessKey = expandEnvVar(cfg.Source.S3.AccessKey)
	cfg.Source.S3.SecretKey = expandEnvVar(cfg.Source.S3.SecretKey)

	cfg.Report.Output = expandEnvVar(cfg.Report.Output)
	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// Overrides contains command-line values that take precedence over the file.
// Zero values leave the configured setting untouched.
type Overrides struct {
	LogLevel       string
	LogFormat      string
	MaxKeyLen      int
	Workers        int
	Format         string
	NoColor        bool
	KeysOnly       bool
	TimeoutSeconds int
	SourcePath     string
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
	if o.MaxKeyLen > 0 {
		c.Discovery.MaxKeyLen = o.MaxKeyLen
	}
	if o.Workers > 0 {
		c.Discovery.Workers = o.Workers
	}
	if o.Format != "" {
		c.Report.Format = o.Format
	}
	if o.NoColor {
		c.Report.Color = false
	}
	if o.KeysOnly {
		c.Report.KeysOnly = true
	}
	if o.TimeoutSeconds > 0 {
		c.Discovery.TimeoutSeconds = o.TimeoutSeconds
	}
	if o.SourcePath != "" {
		c.Source.Type = SourceCSV
		c.Source.Path = o.SourcePath
	}
}
