package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/byxorna/shipwright/pkg/entity"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

const (
	XDGName = "shipwright"
	// EnvPrefix is prepended to every environment override
	EnvPrefix = "SHIPWRIGHT_"
)

var (
	// Default is the configuration used when ~/.shipwright.yaml is missing,
	// and the base every file is merged over
	Default = Config{
		API: API{
			Timeout:   15 * time.Second,
			UserAgent: "shipwright-admin",
		},
		PageSize: 12,
		Upload: Upload{
			Endpoint: "/api/upload",
			MaxBytes: 8 << 20,
		},
		Demo: Demo{
			Latency: 150 * time.Millisecond,
		},
		Site: Site{
			CacheTTL: 5 * time.Minute,
		},
		Sections: entity.Names,
		Log: Log{
			Level: "info",
		},
	}
)

type Config struct {
	API      API      `yaml:"api"`
	PageSize int      `yaml:"pageSize" env:"PAGE_SIZE" validate:"min=1,max=200"`
	Upload   Upload   `yaml:"upload"`
	Demo     Demo     `yaml:"demo"`
	Site     Site     `yaml:"site"`
	Sections []string `yaml:"sections" validate:"required,unique,dive,section"`
	Log      Log      `yaml:"log"`
}

// API is where the admin collections live. An empty BaseURL means demo mode.
type API struct {
	BaseURL           string        `yaml:"baseURL" env:"API_URL" validate:"omitempty,url"`
	Token             string        `yaml:"token,omitempty" env:"API_TOKEN"`
	SessionCookie     string        `yaml:"sessionCookie,omitempty" env:"SESSION_COOKIE"`
	Timeout           time.Duration `yaml:"timeout" env:"API_TIMEOUT" validate:"min=0"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond" env:"API_RPS" validate:"min=0"`
	UserAgent         string        `yaml:"userAgent" validate:"required"`
}

type Upload struct {
	Endpoint string `yaml:"endpoint" validate:"required,startswith=/"`
	MaxBytes int64  `yaml:"maxBytes" validate:"min=1"`
}

type Demo struct {
	Enabled bool          `yaml:"enabled" env:"DEMO"`
	Latency time.Duration `yaml:"latency" validate:"min=0"`
	// DataFile replaces the built in demo records
	DataFile string `yaml:"dataFile,omitempty" env:"DEMO_DATA"`
}

type Site struct {
	CacheTTL time.Duration `yaml:"cacheTTL" validate:"min=0"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	// File defaults to shipwright.log in the XDG state directory
	File string `yaml:"file,omitempty" env:"LOG_FILE"`
}

// UseDemo reports whether collections are served from memory
func (c Config) UseDemo() bool {
	return c.Demo.Enabled || c.API.BaseURL == ""
}

// Load reads the config file at path, which may be missing, then applies
// .env and SHIPWRIGHT_* overrides and validates the result.
func Load(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	var c *Config
	f, err := os.Open(expanded)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// no file is fine; the defaults stand
		d := Default
		c = &d
	case err != nil:
		return nil, fmt.Errorf("unable to open config: %w", err)
	default:
		defer f.Close()
		if c, err = decode(f); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewFromReader decodes and validates a config file without looking at the
// environment
func NewFromReader(r io.Reader) (*Config, error) {
	c, err := decode(r)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func decode(r io.Reader) (*Config, error) {
	c := Default
	c.Sections = append([]string(nil), Default.Sections...)

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.RegisterValidation("section", func(fl validator.FieldLevel) bool {
		_, ok := entity.Lookup(fl.Field().String())
		return ok
	}); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	return nil
}
