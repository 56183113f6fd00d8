package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort      string
	AllowOrigins []string

	// StoreDriver is one of memory, mysql, postgres, sqlite.
	StoreDriver string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	PostgresHost    string
	PostgresPort    string
	PostgresDB      string
	PostgresUser    string
	PostgresPass    string
	PostgresSSLMode string

	SQLitePath string

	// Empty RedisAddr keeps sessions in memory and disables idempotency.
	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	SessionTTLHours     int
	SessionCookieSecure bool

	UploadDir      string
	MaxUploadBytes int64

	LogLevel  string
	LogFormat string

	SeedDemoUsers      bool
	LoginRatePerMinute int
}

var drivers = map[string]bool{"memory": true, "mysql": true, "postgres": true, "sqlite": true}

func defaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("CORS_ALLOW_ORIGINS", "")
	v.SetDefault("STORE_DRIVER", "memory")

	v.SetDefault("MYSQL_HOST", "mysql")
	v.SetDefault("MYSQL_PORT", "3306")
	v.SetDefault("MYSQL_DB", "mcredit")
	v.SetDefault("MYSQL_USER", "mcredit")
	v.SetDefault("MYSQL_PASS", "mcredit")

	v.SetDefault("POSTGRES_HOST", "postgres")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_DB", "mcredit")
	v.SetDefault("POSTGRES_USER", "mcredit")
	v.SetDefault("POSTGRES_PASS", "mcredit")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	v.SetDefault("SQLITE_PATH", "mcredit.db")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 300)

	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("SESSION_COOKIE_SECURE", false)

	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SEED_DEMO_USERS", false)
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
}

// Load reads an optional .env file, then the environment.
func Load() *Config {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults(v)
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) *Config {
	c := &Config{
		AppPort:     v.GetString("APP_PORT"),
		StoreDriver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),

		MySQLHost: v.GetString("MYSQL_HOST"),
		MySQLPort: v.GetString("MYSQL_PORT"),
		MySQLDB:   v.GetString("MYSQL_DB"),
		MySQLUser: v.GetString("MYSQL_USER"),
		MySQLPass: v.GetString("MYSQL_PASS"),

		PostgresHost:    v.GetString("POSTGRES_HOST"),
		PostgresPort:    v.GetString("POSTGRES_PORT"),
		PostgresDB:      v.GetString("POSTGRES_DB"),
		PostgresUser:    v.GetString("POSTGRES_USER"),
		PostgresPass:    v.GetString("POSTGRES_PASS"),
		PostgresSSLMode: v.GetString("POSTGRES_SSLMODE"),

		SQLitePath: v.GetString("SQLITE_PATH"),

		RedisAddr:    v.GetString("REDIS_ADDR"),
		RedisDB:      v.GetInt("REDIS_DB"),
		IdempTTLSecs: v.GetInt("IDEMPOTENCY_TTL_SECONDS"),

		SessionTTLHours:     v.GetInt("SESSION_TTL_HOURS"),
		SessionCookieSecure: v.GetBool("SESSION_COOKIE_SECURE"),

		UploadDir:      v.GetString("UPLOAD_DIR"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		SeedDemoUsers:      v.GetBool("SEED_DEMO_USERS"),
		LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
	}
	for _, o := range strings.Split(v.GetString("CORS_ALLOW_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.AllowOrigins = append(c.AllowOrigins, o)
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if !drivers[c.StoreDriver] {
		return fmt.Errorf("unknown STORE_DRIVER %q (memory, mysql, postgres, sqlite)", c.StoreDriver)
	}
	switch c.StoreDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDB == "" || c.PostgresUser == "" {
			return errors.New("missing Postgres config (POSTGRES_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.PostgresPort); err != nil {
			return fmt.Errorf("invalid POSTGRES_PORT %q: %w", c.PostgresPort, err)
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	}
	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", c.SessionTTLHours)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.UploadDir == "" {
		return errors.New("missing UPLOAD_DIR")
	}
	return nil
}

func (c *Config) SessionTTL() time.Duration     { return time.Duration(c.SessionTTLHours) * time.Hour }
func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPass),
		Host:     net.JoinHostPort(c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=" + url.QueryEscape(c.PostgresSSLMode),
	}
	return u.String()
}

// DSN returns the connection string for the configured SQL driver.
func (c *Config) DSN() string {
	switch c.StoreDriver {
	case "mysql":
		return c.MySQLDSN()
	case "postgres":
		return c.PostgresDSN()
	case "sqlite":
		return c.SQLitePath
	}
	return ""
}
