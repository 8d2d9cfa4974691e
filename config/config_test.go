package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thundertrack/frameapi/frame"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, 3600, cfg.Server.CacheMaxAge)
	assert.Equal(t, "https://thundertrack-miniapp.vercel.app", cfg.Frame.AppBaseURL)
	assert.Equal(t, "#1a1a2e", cfg.Frame.SplashBackgroundColor)
	assert.Equal(t, 600, cfg.Image.Width)
	assert.Equal(t, 315, cfg.Image.Height)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, frame.RedirectStub, cfg.Variant())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
			errMsg:  "server.port must be between 1 and 65535",
		},
		{
			name:    "relative public url",
			mutate:  func(c *Config) { c.Server.PublicURL = "/frames" },
			wantErr: true,
			errMsg:  "server.public_url",
		},
		{
			name:    "negative cache age",
			mutate:  func(c *Config) { c.Server.CacheMaxAge = -1 },
			wantErr: true,
			errMsg:  "server.cache_max_age must not be negative",
		},
		{
			name:    "unknown variant",
			mutate:  func(c *Config) { c.Server.Variant = "popup" },
			wantErr: true,
			errMsg:  "server.variant",
		},
		{
			name:    "missing title",
			mutate:  func(c *Config) { c.Frame.AppTitle = "" },
			wantErr: true,
			errMsg:  "frame.app_title is required",
		},
		{
			name:    "javascript app url",
			mutate:  func(c *Config) { c.Frame.AppBaseURL = "javascript:alert(1)" },
			wantErr: true,
			errMsg:  "frame.app_base_url",
		},
		{
			name:    "bad splash color",
			mutate:  func(c *Config) { c.Frame.SplashBackgroundColor = "navy" },
			wantErr: true,
			errMsg:  "frame.splash_background_color must look like #rrggbb",
		},
		{
			name:    "unknown id scheme",
			mutate:  func(c *Config) { c.Frame.IDScheme = "uuid" },
			wantErr: true,
			errMsg:  "frame.id_scheme",
		},
		{
			name:    "unknown currency",
			mutate:  func(c *Config) { c.Frame.Currency = "ZZZZ" },
			wantErr: true,
			errMsg:  "unknown currency: ZZZZ",
		},
		{
			name:   "known currency",
			mutate: func(c *Config) { c.Frame.Currency = "USD" },
		},
		{
			name:    "zero canvas",
			mutate:  func(c *Config) { c.Image.Height = 0 },
			wantErr: true,
			errMsg:  "image width and height must be positive",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "log.format must be 'text' or 'json'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Server.Port = 8080
			cfg.Server.Variant = "card"
			cfg.Frame.Currency = "USD"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\nframe:\n  id_scheme: ulid\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "ulid", cfg.Frame.IDScheme)
	assert.Equal(t, Default().Frame.AppBaseURL, cfg.Frame.AppBaseURL)
	assert.Equal(t, 3600, cfg.Server.CacheMaxAge)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 0\n"), 0644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":       "8081",
		"PUBLIC_URL": "https://frames.example",
		"NODE_ENV":   "production",
		"LOG_LEVEL":  "debug",
	}
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "https://frames.example", cfg.Server.PublicURL)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.Equal(t, "debug", cfg.Log.Level)

	env["APP_ENV"] = "staging"
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "staging", cfg.Server.Environment, "APP_ENV wins over NODE_ENV")

	err := Default().ApplyEnv(func(k string) string {
		if k == "PORT" {
			return "http"
		}
		return ""
	})
	assert.Error(t, err)
}

func TestComposerOptions(t *testing.T) {
	cfg := Default()
	cfg.Frame.IDScheme = "ulid"
	cfg.Image.Width = 1200
	cfg.Image.Height = 630

	opts, err := cfg.ComposerOptions()
	require.NoError(t, err)
	assert.Equal(t, "ThunderTrack 交易复盘", opts.AppTitle)
	assert.Equal(t, "查看详情", opts.Launch.Title)
	assert.Equal(t, "ThunderTrack", opts.Launch.Name)
	assert.Equal(t, 1200, opts.Width)
	assert.Equal(t, 630, opts.Height)
	require.NotNil(t, opts.IDs)
	assert.Regexp(t, `^ETH-[0-9A-Z]{26}$`, opts.IDs.Derive("", "ETH"))
}
