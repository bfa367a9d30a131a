package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration. It is built once at startup
// and handed to the components that need it; nothing mutates it afterwards.
type Config struct {
	EnvVars EnvVars  `json:"env"`
	Options *Options `json:"-"`
}

// EnvVars holds environment variables required by the application.
// Fields tagged `optional:"true"` are skipped by CheckConfigEnvFields.
type EnvVars struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	SpoonacularURL    string        `env:"SPOONACULAR_BASE_URL" envDefault:"https://api.spoonacular.com"`
	SpoonacularAPIKey string        `env:"SPOONACULAR_API_KEY"`
	HTTPTimeout       time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	TopNutrients      int           `env:"TOP_NUTRIENTS" envDefault:"8"`
	OptionsFile       string        `env:"OPTIONS_FILE" optional:"true"`
	LogLevel          string        `env:"LOG_LEVEL" optional:"true"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envSeparator:"," optional:"true"`
}

// LoadConfig parses environment variables into the Config struct and loads
// the filter options, falling back to the built-in lists when no options
// file is configured.
func LoadConfig() (*Config, error) {
	var config Config
	if err := env.Parse(&config.EnvVars); err != nil {
		return nil, err
	}

	if config.EnvVars.OptionsFile != "" {
		opts, err := LoadOptions(config.EnvVars.OptionsFile)
		if err != nil {
			return nil, err
		}
		config.Options = opts
	} else {
		config.Options = DefaultOptions()
	}

	return &config, nil
}

// CheckConfigEnvFields validates that all required EnvVars fields are set
// and that the remote base URL is usable.
func (c *Config) CheckConfigEnvFields() error {
	if err := checkFieldsRecursive(reflect.ValueOf(c.EnvVars)); err != nil {
		return err
	}
	if c.EnvVars.TopNutrients < 1 {
		return fmt.Errorf("$TopNutrients must be positive, got %d", c.EnvVars.TopNutrients)
	}
	return ValidateBaseURL(c.EnvVars.SpoonacularURL)
}

// ValidateBaseURL checks that u is an absolute http(s) URL.
func ValidateBaseURL(u string) error {
	if !govalidator.IsRequestURL(u) {
		return fmt.Errorf("invalid base URL %q", u)
	}
	return nil
}

// TopK returns the configured number of nutrients to rank, or def when unset.
func (c *Config) TopK(def int) int {
	if c == nil || c.EnvVars.TopNutrients < 1 {
		return def
	}
	return c.EnvVars.TopNutrients
}

func checkFieldsRecursive(v reflect.Value) error {
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := v.Type().Field(i)
		if fieldType.Tag.Get("optional") == "true" {
			continue
		}
		if isZeroValue(field) {
			return fmt.Errorf("$%s must be set", fieldType.Name)
		}
		if field.Kind() == reflect.Struct {
			if err := checkFieldsRecursive(field); err != nil {
				return err
			}
		}
	}
	return nil
}

func isZeroValue(v reflect.Value) bool {
	return v.IsZero()
}
