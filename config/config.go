package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/comixd/comixd"
	"github.com/comixd/comixd/archive"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for comixd.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Library  LibraryConfig  `mapstructure:"library"`
	Encoding EncodingConfig `mapstructure:"encoding"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration. An empty host binds all
// interfaces, same as the 0.0.0.0 default.
type ServerConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	ChunkSize int    `mapstructure:"chunk_size" validate:"min=1"`
	Debug     bool   `mapstructure:"debug"`
}

// LibraryConfig holds collection configuration.
type LibraryConfig struct {
	Root           string   `mapstructure:"root" validate:"required"`
	HiddenNames    []string `mapstructure:"hidden_names"`
	HiddenPatterns []string `mapstructure:"hidden_patterns"`
	ImageExts      []string `mapstructure:"image_exts" validate:"min=1"`
	ArchiveExts    []string `mapstructure:"archive_exts" validate:"min=1"`
	Banner         string   `mapstructure:"banner"`
}

// EncodingConfig holds legacy entry-name decoding configuration.
type EncodingConfig struct {
	Candidates []string `mapstructure:"candidates" validate:"min=1"`
}

// AuthConfig holds authentication configuration. An empty password disables
// authentication.
type AuthConfig struct {
	Password string `mapstructure:"password"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// Rules builds the visibility and format rules from the library section.
func (c *Config) Rules() comixd.Rules {
	return comixd.Rules{
		HiddenNames:    c.Library.HiddenNames,
		HiddenPatterns: c.Library.HiddenPatterns,
		ImageExts:      c.Library.ImageExts,
		ArchiveExts:    c.Library.ArchiveExts,
	}
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"root":     "library.root",
	"host":     "server.host",
	"port":     "server.port",
	"debug":    "server.debug",
	"password": "auth.password",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	rules := comixd.DefaultRules()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 31257)
	v.SetDefault("server.chunk_size", 8192)
	v.SetDefault("server.debug", false)

	v.SetDefault("library.root", "/manga")
	v.SetDefault("library.hidden_names", rules.HiddenNames)
	v.SetDefault("library.hidden_patterns", rules.HiddenPatterns)
	v.SetDefault("library.image_exts", rules.ImageExts)
	v.SetDefault("library.archive_exts", rules.ArchiveExts)
	v.SetDefault("library.banner", "comixd")

	v.SetDefault("encoding.candidates", archive.DefaultEncodings())

	v.SetDefault("auth.password", "")

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("COMIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
