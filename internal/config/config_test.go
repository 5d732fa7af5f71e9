package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/accounts.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "account-service", cfg.Auth.Issuer)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ACCOUNTS_SERVER_ADDR", ":9090")
	t.Setenv("ACCOUNTS_DATABASE_DRIVER", " Postgres ")
	t.Setenv("ACCOUNTS_DATABASE_DSN", "postgres://u:p@localhost/accounts")
	t.Setenv("ACCOUNTS_AUTH_JWTSECRET", "s3cret")
	t.Setenv("ACCOUNTS_AUTH_TOKENTTLMINUTES", "15")
	t.Setenv("ACCOUNTS_LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://u:p@localhost/accounts", cfg.Database.DSN)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 15, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Auth.JWTSecret = "s"
		c.Auth.TokenTTLMinutes = 60
		c.Database.Driver = DriverSQLite
		c.Database.Path = "accounts.db"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid sqlite", func(*Config) {}, ""},
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "  " }, "jwt secret"},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTLMinutes = 0 }, "ttl"},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }, "database path"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, "dsn"},
		{"postgres with dsn", func(c *Config) {
			c.Database.Driver = DriverPostgres
			c.Database.DSN = "postgres://localhost/accounts"
		}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported database driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
