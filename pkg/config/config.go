package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Folio        FolioConfig
	Alerts       AlertsConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TALLERFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"TALLERFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TALLERFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TALLERFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"TALLERFLOW_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN string `envconfig:"TALLERFLOW_DB_DSN"`

	Host     string `envconfig:"TALLERFLOW_DB_HOST"`
	Port     int    `envconfig:"TALLERFLOW_DB_PORT" default:"5432"`
	User     string `envconfig:"TALLERFLOW_DB_USER"`
	Password string `envconfig:"TALLERFLOW_DB_PASSWORD"`
	Name     string `envconfig:"TALLERFLOW_DB_NAME"`
	SSLMode  string `envconfig:"TALLERFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TALLERFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TALLERFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TALLERFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TALLERFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TALLERFLOW_REDIS_URL"`
	Address      string        `envconfig:"TALLERFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"TALLERFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"TALLERFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TALLERFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TALLERFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TALLERFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TALLERFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TALLERFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// FolioConfig tunes the order folio allocator retry loop.
type FolioConfig struct {
	MaxRetries    int           `envconfig:"TALLERFLOW_FOLIO_MAX_RETRIES" default:"3"`
	BackoffBase   time.Duration `envconfig:"TALLERFLOW_FOLIO_BACKOFF_BASE" default:"10ms"`
	BackoffJitter time.Duration `envconfig:"TALLERFLOW_FOLIO_BACKOFF_JITTER" default:"20ms"`
}

// AlertsConfig carries the semaphore thresholds so operators can tune
// sensitivity without a deploy.
type AlertsConfig struct {
	RedAfter    time.Duration `envconfig:"TALLERFLOW_ALERT_RED_AFTER" default:"120h"`
	YellowAfter time.Duration `envconfig:"TALLERFLOW_ALERT_YELLOW_AFTER" default:"72h"`
	RecentFor   time.Duration `envconfig:"TALLERFLOW_ALERT_RECENT_FOR" default:"24h"`
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"TALLERFLOW_CRON_INTERVAL" default:"1h"`
	NotificationRetention int           `envconfig:"TALLERFLOW_CRON_NOTIFICATION_RETENTION_DAYS" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TALLERFLOW_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range componentDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
