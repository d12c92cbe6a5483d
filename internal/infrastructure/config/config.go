package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Inventory InventoryConfig
	Telemetry TelemetryConfig
	Profiling ProfilingConfig
	Bootstrap BootstrapConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	// Timezone is the business calendar used for "today" and daily snapshots
	Timezone string
}

// Location resolves the configured timezone, falling back to UTC
func (a AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	TxTimeout       time.Duration
	TxWaitTimeout   time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// CookieConfig holds settings for the auth cookies
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite string // strict, lax or none
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// SchedulerConfig holds the snapshot scheduler configuration
type SchedulerConfig struct {
	Enabled      bool
	SnapshotCron string
	LockTTL      time.Duration
	JobTimeout   time.Duration
}

// InventoryConfig holds stock reporting thresholds
type InventoryConfig struct {
	// LowStockBags flags a feed category whose balance is at or below it
	LowStockBags int64
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	Insecure          bool
	MetricsInterval   time.Duration
	DBTraceEnabled    bool
	DBLogFullSQL      bool
	DBSlowQueryThresh time.Duration
}

// ProfilingConfig holds Pyroscope continuous profiling settings
type ProfilingConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
	// MutexProfileFraction and BlockProfileRate enable the mutex and block
	// profiles when positive
	MutexProfileFraction int
	BlockProfileRate     int
	// SpanProfiles links CPU samples to trace spans; needs telemetry enabled
	SpanProfiles bool
}

// BootstrapConfig seeds the first admin account on an empty database
type BootstrapConfig struct {
	AdminUsername string
	AdminPassword string
}

// Load loads configuration from a .env file, config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with FEED_ prefix (e.g., FEED_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("FEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("app.name"),
			Env:      v.GetString("app.env"),
			Timezone: v.GetString("app.timezone"),
		},
		HTTP: HTTPConfig{
			Port:             v.GetString("http.port"),
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("database.driver"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			SQLitePath:      v.GetString("database.sqlite_path"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			TxTimeout:       v.GetDuration("database.tx_timeout"),
			TxWaitTimeout:   v.GetDuration("database.tx_wait_timeout"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:                 v.GetString("jwt.secret"),
			AccessTokenExpiration:  v.GetDuration("jwt.access_token_expiration"),
			RefreshTokenExpiration: v.GetDuration("jwt.refresh_token_expiration"),
			Issuer:                 v.GetString("jwt.issuer"),
		},
		Cookie: CookieConfig{
			Domain:   v.GetString("cookie.domain"),
			Path:     v.GetString("cookie.path"),
			Secure:   v.GetBool("cookie.secure"),
			SameSite: v.GetString("cookie.same_site"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Scheduler: SchedulerConfig{
			Enabled:      v.GetBool("scheduler.enabled"),
			SnapshotCron: v.GetString("scheduler.snapshot_cron"),
			LockTTL:      v.GetDuration("scheduler.lock_ttl"),
			JobTimeout:   v.GetDuration("scheduler.job_timeout"),
		},
		Inventory: InventoryConfig{
			LowStockBags: v.GetInt64("inventory.low_stock_bags"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			DBSlowQueryThresh: v.GetDuration("telemetry.db_slow_query_threshold"),
		},
		Profiling: ProfilingConfig{
			Enabled:              v.GetBool("profiling.enabled"),
			ServerAddress:        v.GetString("profiling.server_address"),
			ApplicationName:      v.GetString("profiling.application_name"),
			BasicAuthUser:        v.GetString("profiling.basic_auth_user"),
			BasicAuthPassword:    v.GetString("profiling.basic_auth_password"),
			MutexProfileFraction: v.GetInt("profiling.mutex_profile_fraction"),
			BlockProfileRate:     v.GetInt("profiling.block_profile_rate"),
			SpanProfiles:         v.GetBool("profiling.span_profiles"),
		},
		Bootstrap: BootstrapConfig{
			AdminUsername: v.GetString("bootstrap.admin_username"),
			AdminPassword: v.GetString("bootstrap.admin_password"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "feed-office"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = "UTC"
	}
	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	// An empty origin list allows no cross-origin requests.
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "feed_office"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "feed_office.db"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.TxTimeout == 0 {
		cfg.Database.TxTimeout = 15 * time.Second
	}
	if cfg.Database.TxWaitTimeout == 0 {
		cfg.Database.TxWaitTimeout = 5 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.AccessTokenExpiration == 0 {
		cfg.JWT.AccessTokenExpiration = 24 * time.Hour
	}
	if cfg.JWT.RefreshTokenExpiration == 0 {
		cfg.JWT.RefreshTokenExpiration = 7 * 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "feed-office"
	}
	if cfg.Cookie.Path == "" {
		cfg.Cookie.Path = "/"
	}
	if cfg.Cookie.SameSite == "" {
		cfg.Cookie.SameSite = "lax"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Scheduler.SnapshotCron == "" {
		cfg.Scheduler.SnapshotCron = "5 0 * * *"
	}
	if cfg.Scheduler.LockTTL == 0 {
		cfg.Scheduler.LockTTL = 10 * time.Minute
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 5 * time.Minute
	}
	if cfg.Inventory.LowStockBags == 0 {
		cfg.Inventory.LowStockBags = 10
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.DBSlowQueryThresh == 0 {
		cfg.Telemetry.DBSlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.Profiling.ServerAddress == "" {
		cfg.Profiling.ServerAddress = "http://localhost:4040"
	}
	if cfg.Profiling.ApplicationName == "" {
		cfg.Profiling.ApplicationName = cfg.App.Name
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Database.TxWaitTimeout > c.Database.TxTimeout {
		return fmt.Errorf("database.tx_wait_timeout (%s) cannot exceed database.tx_timeout (%s)",
			c.Database.TxWaitTimeout, c.Database.TxTimeout)
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone %q is not a valid IANA zone: %w", c.App.Timezone, err)
	}

	if c.App.Env == "production" {
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Driver != "postgres" {
			return fmt.Errorf("database.driver must be postgres in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if !c.Cookie.Secure {
			return fmt.Errorf("cookie.secure must be true in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("http.cors_allow_origins cannot be '*' in production")
			}
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	} else if c.JWT.Secret == "" {
		c.JWT.Secret = "development-only-secret-change-me-0123456789"
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// DSN returns the postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
