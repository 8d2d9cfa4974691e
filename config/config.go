package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"gopkg.in/yaml.v3"

	"github.com/thundertrack/frameapi/frame"
	"github.com/thundertrack/frameapi/internal/id"
)

// Config represents the complete service configuration
type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	Frame  FrameConfig  `json:"frame" yaml:"frame"`
	Image  ImageConfig  `json:"image" yaml:"image"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// ServerConfig contains HTTP listener parameters
type ServerConfig struct {
	Port        int    `json:"port" yaml:"port"`
	PublicURL   string `json:"public_url,omitempty" yaml:"public_url,omitempty"` // overrides the request origin
	Environment string `json:"environment" yaml:"environment"`
	CacheMaxAge int    `json:"cache_max_age" yaml:"cache_max_age"` // seconds, image responses
	Variant     string `json:"variant" yaml:"variant"`             // "redirect" or "card"
}

// FrameConfig contains the mini app embed settings
type FrameConfig struct {
	AppTitle              string `json:"app_title" yaml:"app_title"`
	AppName               string `json:"app_name" yaml:"app_name"`
	AppBaseURL            string `json:"app_base_url" yaml:"app_base_url"`
	SplashImageURL        string `json:"splash_image_url" yaml:"splash_image_url"`
	SplashBackgroundColor string `json:"splash_background_color" yaml:"splash_background_color"`
	ButtonTitle           string `json:"button_title" yaml:"button_title"`
	IDScheme              string `json:"id_scheme" yaml:"id_scheme"`                   // "timestamp" or "ulid"
	Currency              string `json:"currency,omitempty" yaml:"currency,omitempty"` // ISO code, empty for a bare number
}

// ImageConfig contains the rendered size of the summary image
type ImageConfig struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug|info|warn|error|off
	Format string `json:"format" yaml:"format"` // text|json
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromFile loads configuration from a file (JSON or YAML). Keys missing
// from the file keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from the environment: PORT, PUBLIC_URL,
// APP_ENV (or NODE_ENV) and LOG_LEVEL.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("PUBLIC_URL"); v != "" {
		c.Server.PublicURL = v
	}
	if v := getenv("APP_ENV"); v != "" {
		c.Server.Environment = v
	} else if v := getenv("NODE_ENV"); v != "" {
		c.Server.Environment = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.PublicURL != "" {
		if err := checkHTTPURL(c.Server.PublicURL); err != nil {
			return fmt.Errorf("server.public_url: %w", err)
		}
	}
	if c.Server.CacheMaxAge < 0 {
		return fmt.Errorf("server.cache_max_age must not be negative")
	}
	if _, err := frame.ParseVariant(c.Server.Variant); err != nil {
		return fmt.Errorf("server.variant: %w", err)
	}
	if c.Frame.AppTitle == "" {
		return fmt.Errorf("frame.app_title is required")
	}
	if c.Frame.AppName == "" {
		return fmt.Errorf("frame.app_name is required")
	}
	if err := checkHTTPURL(c.Frame.AppBaseURL); err != nil {
		return fmt.Errorf("frame.app_base_url: %w", err)
	}
	if err := checkHTTPURL(c.Frame.SplashImageURL); err != nil {
		return fmt.Errorf("frame.splash_image_url: %w", err)
	}
	if !hexColor.MatchString(c.Frame.SplashBackgroundColor) {
		return fmt.Errorf("frame.splash_background_color must look like #rrggbb")
	}
	if _, err := id.ParseScheme(c.Frame.IDScheme); err != nil {
		return fmt.Errorf("frame.id_scheme: %w", err)
	}
	if c.Frame.Currency != "" && money.GetCurrency(c.Frame.Currency) == nil {
		return fmt.Errorf("unknown currency: %s", c.Frame.Currency)
	}
	if c.Image.Width <= 0 || c.Image.Height <= 0 {
		return fmt.Errorf("image width and height must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error", "off":
	default:
		return fmt.Errorf("log.level must be one of debug|info|warn|error|off")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json'")
	}
	return nil
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}

// Addr is the listen address for the configured port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// Variant returns the configured diary variant. Validate has checked it.
func (c *Config) Variant() frame.Variant {
	v, _ := frame.ParseVariant(c.Server.Variant)
	return v
}

// ComposerOptions turns the frame and image sections into frame.Options.
func (c *Config) ComposerOptions() (frame.Options, error) {
	scheme, err := id.ParseScheme(c.Frame.IDScheme)
	if err != nil {
		return frame.Options{}, err
	}
	return frame.Options{
		AppTitle: c.Frame.AppTitle,
		Launch: frame.Launch{
			Title:                 c.Frame.ButtonTitle,
			URL:                   c.Frame.AppBaseURL,
			Name:                  c.Frame.AppName,
			SplashImageURL:        c.Frame.SplashImageURL,
			SplashBackgroundColor: c.Frame.SplashBackgroundColor,
		},
		Palette:  frame.DefaultPalette,
		Currency: c.Frame.Currency,
		Width:    c.Image.Width,
		Height:   c.Image.Height,
		IDs:      id.NewDeriver(scheme),
	}, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	opts := frame.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			Port:        3000,
			Environment: "development",
			CacheMaxAge: 3600,
			Variant:     frame.RedirectStub.String(),
		},
		Frame: FrameConfig{
			AppTitle:              opts.AppTitle,
			AppName:               opts.Launch.Name,
			AppBaseURL:            opts.Launch.URL,
			SplashImageURL:        opts.Launch.SplashImageURL,
			SplashBackgroundColor: opts.Launch.SplashBackgroundColor,
			ButtonTitle:           opts.Launch.Title,
			IDScheme:              string(id.Timestamp),
		},
		Image: ImageConfig{
			Width:  frame.CanvasWidth,
			Height: frame.CanvasHeight,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
