package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/roommate-finder/internal/common/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "postgres", cfg.Storage.Driver)
	require.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	require.Equal(t, "0.0.0.0:9090", cfg.HTTP.OpsAddr())
	require.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenExpiry)
	require.Equal(t, 200, cfg.Matching.LikesPerWindow)
	require.Empty(t, cfg.Redis.URL)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("LIKE_WINDOW", "30m")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "9000", cfg.HTTP.Port)
	require.Equal(t, "mongo", cfg.Storage.Driver)
	require.Equal(t, 30*time.Minute, cfg.Matching.LikeWindow)
	require.Equal(t, "redis://localhost:6379/1", cfg.Redis.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/roommates.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment: "development",
			Storage:     StorageConfig{Driver: "postgres", DatabaseURL: "postgres://x"},
			Auth: AuthConfig{
				JWTSecret:         defaultJWTSecret,
				AccessTokenExpiry: time.Hour,
				InitDataMaxAge:    time.Hour,
			},
			Matching: MatchingConfig{
				LikesPerWindow:    10,
				LikeWindow:        time.Hour,
				ReconcileInterval: time.Hour,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "sqlite" }, wantErr: true},
		{name: "mongo without url", mutate: func(c *Config) { c.Storage.Driver = "mongo" }, wantErr: true},
		{name: "production default secret", mutate: func(c *Config) {
			c.Environment = "production"
			c.Auth.TelegramBotToken = "123:abc"
		}, wantErr: true},
		{name: "production without bot token", mutate: func(c *Config) {
			c.Environment = "production"
			c.Auth.JWTSecret = "s3cret"
		}, wantErr: true},
		{name: "production ok", mutate: func(c *Config) {
			c.Environment = "production"
			c.Auth.JWTSecret = "s3cret"
			c.Auth.TelegramBotToken = "123:abc"
		}},
		{name: "unknown environment", mutate: func(c *Config) { c.Environment = "prod" }, wantErr: true},
		{name: "staging", mutate: func(c *Config) { c.Environment = "staging" }},
		{name: "zero like limit", mutate: func(c *Config) { c.Matching.LikesPerWindow = 0 }, wantErr: true},
		{name: "tiny reconcile interval", mutate: func(c *Config) { c.Matching.ReconcileInterval = time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestIsProduction_AgreesWithLogger(t *testing.T) {
	for _, env := range []string{"production", "prod", "Production", "staging", "development", ""} {
		c := &Config{Environment: env}
		require.Equal(t, logger.IsProduction(env), c.IsProduction(), env)
	}
	require.True(t, (&Config{Environment: "production"}).IsProduction())
}
