// Package config provides configuration loading and validation for inkwell.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/inkwell/pkg/decorator"
	"github.com/Sumatoshi-tech/inkwell/pkg/document"
	"github.com/Sumatoshi-tech/inkwell/pkg/raw"
)

// Sentinel validation errors.
var (
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidPoolSize    = errors.New("invalid intern pool size")
	ErrInvalidCacheSize   = errors.New("tree cache size must be positive")
	ErrInvalidIndent      = errors.New("indent must not be negative")
	ErrInvalidDecorator   = errors.New("invalid decorator")
	ErrUnknownCodec       = errors.New("unknown codec")
	ErrDuplicateDecorator = errors.New("duplicate decorator name")
)

// Default configuration values.
const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultInternPoolSize = "64k"
	DefaultTreeCacheSize  = 1024
	DefaultCodec          = raw.CodecJSON
	DefaultIndent         = 2
	DefaultValidateSchema = true

	envPrefix = "INKWELL"
)

// Config holds all configuration for inkwell.
type Config struct {
	Logging    LoggingConfig     `mapstructure:"logging"`
	Document   DocumentConfig    `mapstructure:"document"`
	Encoding   EncodingConfig    `mapstructure:"encoding"`
	Decorators []DecoratorConfig `mapstructure:"decorators"`
	Telemetry  TelemetryConfig   `mapstructure:"telemetry"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DocumentConfig holds document model tuning.
type DocumentConfig struct {
	// InternPoolSize is the metadata intern pool capacity in entries.
	// Humanized values such as "64k" are accepted.
	InternPoolSize string `mapstructure:"intern_pool_size"`
	TreeCacheSize  int    `mapstructure:"tree_cache_size"`
}

// EncodingConfig holds raw document encoding options.
type EncodingConfig struct {
	Codec          string `mapstructure:"codec"`
	ValidateSchema bool   `mapstructure:"validate_schema"`
	Indent         int    `mapstructure:"indent"`
}

// DecoratorConfig declares one decorator component. Exactly one of Pattern
// and EntityType is set.
type DecoratorConfig struct {
	Name       string `json:"name"                  mapstructure:"name"`
	Pattern    string `json:"pattern,omitempty"     mapstructure:"pattern"`
	EntityType string `json:"entity_type,omitempty" mapstructure:"entity_type"`
	WrapLevel  int    `json:"wrap_level,omitempty"  mapstructure:"wrap_level"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	Environment  string `mapstructure:"environment"`
}

// LoadConfig loads configuration from file and environment variables. An
// empty path searches the working directory and the user config directory
// for .inkwell.yaml; not finding one is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".inkwell")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/inkwell")
	}

	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Logging:  LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Document: DocumentConfig{InternPoolSize: DefaultInternPoolSize, TreeCacheSize: DefaultTreeCacheSize},
		Encoding: EncodingConfig{Codec: DefaultCodec, ValidateSchema: DefaultValidateSchema, Indent: DefaultIndent},
	}
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("document.intern_pool_size", DefaultInternPoolSize)
	viperCfg.SetDefault("document.tree_cache_size", DefaultTreeCacheSize)

	viperCfg.SetDefault("encoding.codec", DefaultCodec)
	viperCfg.SetDefault("encoding.validate_schema", DefaultValidateSchema)
	viperCfg.SetDefault("encoding.indent", DefaultIndent)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.environment", "")
}

func validateConfig(config *Config) error {
	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch config.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if _, err := config.Document.PoolEntries(); err != nil {
		return err
	}

	if config.Document.TreeCacheSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, config.Document.TreeCacheSize)
	}

	if _, err := raw.NewCodec(config.Encoding.Codec); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownCodec, config.Encoding.Codec)
	}

	if config.Encoding.Indent < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIndent, config.Encoding.Indent)
	}

	_, err := config.Decorator()

	return err
}

// PoolEntries parses InternPoolSize.
func (d DocumentConfig) PoolEntries() (int, error) {
	n, err := humanize.ParseBytes(d.InternPoolSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidPoolSize, err)
	}

	if n == 0 || n > uint64(maxPoolEntries) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPoolSize, d.InternPoolSize)
	}

	return int(n), nil
}

const maxPoolEntries = 1 << 30

// Apply installs process-wide document settings.
func (d DocumentConfig) Apply() error {
	n, err := d.PoolEntries()
	if err != nil {
		return err
	}

	document.SetInternPoolSize(n)

	return nil
}

// Decorator builds the composite decorator described by Decorators. An
// empty list yields a composite with no components.
func (c *Config) Decorator() (*decorator.Composite, error) {
	components := make([]decorator.Component, 0, len(c.Decorators))
	seen := make(map[string]struct{}, len(c.Decorators))

	for i, dc := range c.Decorators {
		if dc.Name == "" {
			return nil, fmt.Errorf("%w: decorator %d has no name", ErrInvalidDecorator, i)
		}

		if _, dup := seen[dc.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDecorator, dc.Name)
		}

		seen[dc.Name] = struct{}{}

		var strategy decorator.Strategy

		switch {
		case dc.Pattern != "" && dc.EntityType != "":
			return nil, fmt.Errorf("%w: %q sets both pattern and entity_type", ErrInvalidDecorator, dc.Name)
		case dc.Pattern != "":
			re, err := regexp.Compile(dc.Pattern)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidDecorator, dc.Name, err)
			}

			strategy = decorator.RegexpStrategy(re)
		case dc.EntityType != "":
			strategy = decorator.EntityTypeStrategy(dc.EntityType)
		default:
			return nil, fmt.Errorf("%w: %q needs a pattern or entity_type", ErrInvalidDecorator, dc.Name)
		}

		components = append(components, decorator.Component{
			Name:      dc.Name,
			Strategy:  strategy,
			WrapLevel: dc.WrapLevel,
		})
	}

	return decorator.NewComposite(components...), nil
}
