package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is applied by envconfig when resolving variables.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Checkout      CheckoutConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Sendgrid      SendgridConfig
	Outbox        OutboxConfig
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
	Env          string `envconfig:"NENGOO_APP_ENV" required:"true"`
	Port         string `envconfig:"NENGOO_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"NENGOO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NENGOO_LOG_WARN_STACK" default:"false"`
	PublicURL    string `envconfig:"NENGOO_PUBLIC_URL" default:"https://nengoo.cm"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NENGOO_DB_DSN"`
	Driver string `envconfig:"NENGOO_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"NENGOO_DB_HOST"`
	Port     int    `envconfig:"NENGOO_DB_PORT" default:"5432"`
	User     string `envconfig:"NENGOO_DB_USER"`
	Password string `envconfig:"NENGOO_DB_PASSWORD"`
	Name     string `envconfig:"NENGOO_DB_NAME"`
	SSLMode  string `envconfig:"NENGOO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NENGOO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NENGOO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NENGOO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NENGOO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NENGOO_REDIS_URL" required:"true"`
	Password     string        `envconfig:"NENGOO_REDIS_PASSWORD"`
	DB           int           `envconfig:"NENGOO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NENGOO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NENGOO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NENGOO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NENGOO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NENGOO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"NENGOO_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"NENGOO_JWT_ISSUER" default:"nengoo"`
	ExpirationMinutes int    `envconfig:"NENGOO_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"NENGOO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"NENGOO_ARGON_TIME" default:"1"`
	ArgonParallelism int `envconfig:"NENGOO_ARGON_PARALLELISM" default:"4"`
	ArgonSaltLen     int `envconfig:"NENGOO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"NENGOO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"NENGOO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"5m"`
	LoginPhoneLimit    int           `envconfig:"NENGOO_AUTH_RATE_LIMIT_LOGIN_PHONE_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"NENGOO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"30"`
	RegisterWindow     time.Duration `envconfig:"NENGOO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterPhoneLimit int           `envconfig:"NENGOO_AUTH_RATE_LIMIT_REGISTER_PHONE_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"NENGOO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NENGOO_AUTO_MIGRATE" default:"false"`
}

// CheckoutConfig carries checkout and order lifecycle tunables. The shipping
// fallback applies only when the platform setting row is absent.
type CheckoutConfig struct {
	DefaultShippingPrice int64 `envconfig:"NENGOO_DEFAULT_SHIPPING_PRICE" default:"2500"`
	LowStockThreshold    int   `envconfig:"NENGOO_LOW_STOCK_THRESHOLD" default:"3"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"NENGOO_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"NENGOO_GCP_CREDENTIALS_JSON"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"NENGOO_PUBSUB_ORDERS_TOPIC" default:"nengoo-order-events"`
	OrdersSubscription string `envconfig:"NENGOO_PUBSUB_ORDERS_SUBSCRIPTION" default:"nengoo-order-events-worker"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"NENGOO_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"NENGOO_SENDGRID_FROM_EMAIL" default:"no-reply@nengoo.cm"`
	BaseURL     string `envconfig:"NENGOO_SENDGRID_BASE_URL" default:"https://api.sendgrid.com"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"NENGOO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int           `envconfig:"NENGOO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int           `envconfig:"NENGOO_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"NENGOO_OUTBOX_IDEMPOTENCY_TTL" default:"72h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"NENGOO_DB_HOST": db.Host,
		"NENGOO_DB_USER": db.User,
		"NENGOO_DB_NAME": db.Name,
	}
	for _, key := range []string{"NENGOO_DB_HOST", "NENGOO_DB_USER", "NENGOO_DB_NAME"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either NENGOO_DB_DSN or %s are required", strings.Join(missing, ", "))
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
