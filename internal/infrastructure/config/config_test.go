package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		t.Setenv("FEED_APP_ENV", "")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "feed-office", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.HTTP.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "feed_office", cfg.Database.DBName)
		assert.Equal(t, 15*time.Second, cfg.Database.TxTimeout)
		assert.Equal(t, 5*time.Second, cfg.Database.TxWaitTimeout)
		assert.Equal(t, "5 0 * * *", cfg.Scheduler.SnapshotCron)
		assert.Equal(t, int64(10), cfg.Inventory.LowStockBags)
		assert.NotEmpty(t, cfg.JWT.Secret, "development gets a generated secret")
		assert.False(t, cfg.Profiling.Enabled)
		assert.Equal(t, "http://localhost:4040", cfg.Profiling.ServerAddress)
		assert.Equal(t, "feed-office", cfg.Profiling.ApplicationName)
	})

	t.Run("loads values from environment variables with FEED prefix", func(t *testing.T) {
		t.Setenv("FEED_APP_NAME", "mill-office")
		t.Setenv("FEED_HTTP_PORT", "9000")
		t.Setenv("FEED_DATABASE_DRIVER", "sqlite")
		t.Setenv("FEED_DATABASE_SQLITE_PATH", "/tmp/mill.db")
		t.Setenv("FEED_DATABASE_TX_TIMEOUT", "30s")
		t.Setenv("FEED_SCHEDULER_SNAPSHOT_CRON", "0 1 * * *")
		t.Setenv("FEED_APP_TIMEZONE", "Asia/Kolkata")
		t.Setenv("FEED_PROFILING_ENABLED", "true")
		t.Setenv("FEED_PROFILING_SERVER_ADDRESS", "http://pyroscope:4040")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "mill-office", cfg.App.Name)
		assert.Equal(t, "9000", cfg.HTTP.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "/tmp/mill.db", cfg.Database.SQLitePath)
		assert.Equal(t, 30*time.Second, cfg.Database.TxTimeout)
		assert.Equal(t, "0 1 * * *", cfg.Scheduler.SnapshotCron)
		assert.Equal(t, "Asia/Kolkata", cfg.App.Location().String())
		assert.True(t, cfg.Profiling.Enabled)
		assert.Equal(t, "http://pyroscope:4040", cfg.Profiling.ServerAddress)
		assert.Equal(t, "mill-office", cfg.Profiling.ApplicationName)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: "database.driver",
		},
		{
			name:    "idle exceeds open",
			mutate:  func(c *Config) { c.Database.MaxIdleConns = 50 },
			wantErr: "max_idle_conns",
		},
		{
			name:    "wait timeout longer than tx timeout",
			mutate:  func(c *Config) { c.Database.TxWaitTimeout = time.Minute },
			wantErr: "tx_wait_timeout",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.App.Timezone = "Mars/Olympus" },
			wantErr: "app.timezone",
		},
		{
			name: "production requires long secret",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.JWT.Secret = "short"
			},
			wantErr: "jwt.secret",
		},
		{
			name: "production rejects sqlite",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.JWT.Secret = "0123456789abcdef0123456789abcdef"
				c.Database.Driver = "sqlite"
			},
			wantErr: "must be postgres",
		},
		{
			name: "production rejects wildcard cors",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.JWT.Secret = "0123456789abcdef0123456789abcdef"
				c.Database.Password = "secret"
				c.Cookie.Secure = true
				c.HTTP.CORSAllowOrigins = []string{"*"}
			},
			wantErr: "cors_allow_origins",
		},
		{
			name:    "sampling ratio out of range",
			mutate:  func(c *Config) { c.Telemetry.SamplingRatio = 1.5 },
			wantErr: "sampling_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "feed", Password: "p@ss word", DBName: "office", SSLMode: "require"}
	assert.Equal(t, "postgres://feed:p%40ss%20word@db:5432/office?sslmode=require", d.DSN())
}
