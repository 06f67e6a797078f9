package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "cellstock"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv   = "CELLSTOCK_APP_ENV"
	EnvPort     = "CELLSTOCK_APP_PORT"
	EnvDBDSN    = "CELLSTOCK_DB_DSN"
	EnvDBHost   = "CELLSTOCK_DB_HOST"
	EnvDBUser   = "CELLSTOCK_DB_USER"
	EnvDBName   = "CELLSTOCK_DB_NAME"
	EnvRedisURL = "CELLSTOCK_REDIS_URL"

	EnvGCPProjectID      = "CELLSTOCK_GCP_PROJECT_ID"
	EnvPubSubDomainTopic = "CELLSTOCK_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubDomainSub   = "CELLSTOCK_PUBSUB_DOMAIN_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Dealers      DealerCacheConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"CELLSTOCK_APP_ENV" required:"true"`
	Port         string `envconfig:"CELLSTOCK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CELLSTOCK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CELLSTOCK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CELLSTOCK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CELLSTOCK_DB_DSN"`
	Driver string `envconfig:"CELLSTOCK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CELLSTOCK_DB_HOST"`
	LegacyPort     int    `envconfig:"CELLSTOCK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CELLSTOCK_DB_USER"`
	LegacyPassword string `envconfig:"CELLSTOCK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CELLSTOCK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CELLSTOCK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CELLSTOCK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CELLSTOCK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CELLSTOCK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CELLSTOCK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CELLSTOCK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CELLSTOCK_REDIS_ADDR"`
	Password     string        `envconfig:"CELLSTOCK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CELLSTOCK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CELLSTOCK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CELLSTOCK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CELLSTOCK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CELLSTOCK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CELLSTOCK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DealerCacheConfig struct {
	TTL time.Duration `envconfig:"CELLSTOCK_DEALER_CACHE_TTL" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CELLSTOCK_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CELLSTOCK_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CELLSTOCK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CELLSTOCK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"CELLSTOCK_PUBSUB_DOMAIN_TOPIC"`
	DomainSubscription string `envconfig:"CELLSTOCK_PUBSUB_DOMAIN_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"CELLSTOCK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"CELLSTOCK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"CELLSTOCK_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
