// Package config loads run settings from, in increasing priority: built-in
// defaults, a config file, a .env file, REWIND_* environment variables and
// command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jasperwreed/chat-rewind/internal/rewind"
)

const (
	envPrefix       = "REWIND"
	configName      = "rewind"
	dotEnvFile      = ".env"
	referenceLayout = "2006-01-02"
)

// Config mirrors the keys accepted in the config file and environment.
type Config struct {
	Timezone        string        `mapstructure:"timezone" validate:"required"`
	Year            int           `mapstructure:"year" validate:"omitempty,min=1970,max=9999"`
	ReferenceDate   string        `mapstructure:"reference_date" validate:"omitempty,datetime=2006-01-02"`
	TopDomains      int           `mapstructure:"top_domains" validate:"min=1,max=50"`
	ReplyWindow     time.Duration `mapstructure:"reply_window" validate:"gt=0"`
	InternalDomains []string      `mapstructure:"internal_domains" validate:"dive,required"`
	Progress        bool          `mapstructure:"progress"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "Local")
	v.SetDefault("year", 0)
	v.SetDefault("reference_date", "")
	v.SetDefault("top_domains", rewind.DefaultTopDomainLimit)
	v.SetDefault("reply_window", rewind.DefaultReplyWindow)
	v.SetDefault("internal_domains", rewind.DefaultInternalDomains)
	v.SetDefault("progress", true)
}

// Load reads the configuration. An empty path searches the working
// directory and the user config directory for rewind.{yaml,json,toml};
// a missing file is not an error there, but an explicit path must exist.
// Flags that share a key name override everything else once set.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/rewind")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if flags != nil {
		for _, key := range []string{"timezone", "year", "reference-date", "top-domains", "progress"} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(strings.ReplaceAll(key, "-", "_"), f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and reports every offending key at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		if _, lerr := time.LoadLocation(c.Timezone); lerr != nil {
			return fmt.Errorf("invalid config: timezone %q is not a known zone", c.Timezone)
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid config: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, ", "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date like %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Options converts the config into processing options. The progress
// reporter and logger are left for the caller.
func (c *Config) Options() (rewind.Options, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return rewind.Options{}, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	opts := rewind.Options{
		Location:        loc,
		Year:            c.Year,
		InternalDomains: c.InternalDomains,
		TopDomainLimit:  c.TopDomains,
		ReplyWindow:     c.ReplyWindow,
	}

	if c.ReferenceDate != "" {
		ref, err := time.ParseInLocation(referenceLayout, c.ReferenceDate, loc)
		if err != nil {
			return rewind.Options{}, fmt.Errorf("invalid reference_date %q: %w", c.ReferenceDate, err)
		}
		opts.ReferenceDate = ref
	}

	return opts, nil
}
