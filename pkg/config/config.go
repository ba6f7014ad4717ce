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
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	WhatsApp     WhatsAppConfig
	Checkout     CheckoutConfig
	Retention    RetentionConfig
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
	Env          string `envconfig:"NAIJAMART_APP_ENV" required:"true"`
	Port         string `envconfig:"NAIJAMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NAIJAMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NAIJAMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"NAIJAMART_DB_DSN"`
	Driver string `envconfig:"NAIJAMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NAIJAMART_DB_HOST"`
	LegacyPort     int    `envconfig:"NAIJAMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NAIJAMART_DB_USER"`
	LegacyPassword string `envconfig:"NAIJAMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"NAIJAMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"NAIJAMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NAIJAMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NAIJAMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NAIJAMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NAIJAMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NAIJAMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NAIJAMART_REDIS_ADDR"`
	Password     string        `envconfig:"NAIJAMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"NAIJAMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NAIJAMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NAIJAMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NAIJAMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NAIJAMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NAIJAMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"NAIJAMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"NAIJAMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"NAIJAMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"NAIJAMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"NAIJAMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"NAIJAMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"NAIJAMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"NAIJAMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"NAIJAMART_ARGON_KEY_LEN" default:"32"`
}

// WhatsAppConfig carries the merchant's messaging identity. Orders are
// confirmed through a wa.me deep link, so only the phone number matters.
type WhatsAppConfig struct {
	MerchantPhone string `envconfig:"NAIJAMART_WHATSAPP_PHONE" required:"true"`
	GreetingName  string `envconfig:"NAIJAMART_WHATSAPP_GREETING_NAME" default:"NaijaMart"`
}

type CheckoutConfig struct {
	// SubmitTimeout bounds the order persistence call. The gateway is not
	// idempotent, so there is no automatic retry.
	SubmitTimeout time.Duration `envconfig:"NAIJAMART_CHECKOUT_SUBMIT_TIMEOUT" default:"10s"`
	CartTTL       time.Duration `envconfig:"NAIJAMART_CART_TTL" default:"720h"`
}

type RetentionConfig struct {
	ContactMessageTTL time.Duration `envconfig:"NAIJAMART_CONTACT_MESSAGE_TTL" default:"2160h"`
	CronInterval      time.Duration `envconfig:"NAIJAMART_CRON_INTERVAL" default:"1h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NAIJAMART_AUTO_MIGRATE" default:"false"`
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
