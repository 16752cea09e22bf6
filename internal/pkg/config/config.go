package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MANAGED_OPENSSL_NATIVE_BACKEND.
const EnvPrefix = "MANAGED_OPENSSL"

// Config aggregates all settings of the façade and its CLI
type Config struct {
	Logger LoggerSettings `mapstructure:"logger"`
	Native NativeSettings `mapstructure:"native"`
	Stream StreamSettings `mapstructure:"stream"`
}

// DefaultConfig returns the configuration used when no file or environment overrides exist
func DefaultConfig() *Config {
	return &Config{
		Logger: *DefaultLoggerSettings(),
		Native: NativeSettings{Backend: BackendSim},
		Stream: *DefaultStreamSettings(),
	}
}

// Validate checks every nested settings struct
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if err := c.Native.Validate(); err != nil {
		return err
	}
	return c.Stream.Validate()
}

// InitializeConfig loads configuration from an optional YAML file at path and from
// environment variables, then validates it. An empty path skips the file.
func InitializeConfig(path string) (*Config, error) {
	v := viper.NewWithOptions(
		viper.KeyDelimiter("."),
		viper.EnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")),
	)

	v.SetEnvPrefix(EnvPrefix)
	v.AllowEmptyEnv(false)
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("logger.log_level", defaults.Logger.LogLevel)
	v.SetDefault("logger.log_type", defaults.Logger.LogType)
	v.SetDefault("logger.file_path", "")
	v.SetDefault("logger.max_size", 0)
	v.SetDefault("logger.max_backups", 0)
	v.SetDefault("logger.max_age", 0)
	v.SetDefault("native.backend", defaults.Native.Backend)
	v.SetDefault("stream.line_chunk_size", defaults.Stream.LineChunkSize)
	v.SetDefault("stream.max_line_length", defaults.Stream.MaxLineLength)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
