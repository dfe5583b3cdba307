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
	SMTP         SMTPConfig
	Company      CompanyConfig
	RateLimit    RateLimitConfig
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
	Env          string `envconfig:"CASA80_APP_ENV" required:"true"`
	Port         string `envconfig:"CASA80_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CASA80_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CASA80_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CASA80_DB_DSN"`
	Driver string `envconfig:"CASA80_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"CASA80_DB_HOST"`
	Port     int    `envconfig:"CASA80_DB_PORT" default:"5432"`
	User     string `envconfig:"CASA80_DB_USER"`
	Password string `envconfig:"CASA80_DB_PASSWORD"`
	Name     string `envconfig:"CASA80_DB_NAME"`
	SSLMode  string `envconfig:"CASA80_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CASA80_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CASA80_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CASA80_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CASA80_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CASA80_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CASA80_REDIS_ADDR"`
	Password     string        `envconfig:"CASA80_REDIS_PASSWORD"`
	DB           int           `envconfig:"CASA80_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CASA80_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CASA80_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CASA80_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CASA80_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CASA80_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CASA80_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CASA80_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CASA80_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"CASA80_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CASA80_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CASA80_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CASA80_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CASA80_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CASA80_ARGON_KEY_LEN" default:"32"`
}

// SMTPConfig drives the reservation-confirmation mailer.
type SMTPConfig struct {
	Host     string `envconfig:"CASA80_SMTP_HOST"`
	Port     int    `envconfig:"CASA80_SMTP_PORT" default:"587"`
	User     string `envconfig:"CASA80_SMTP_USER"`
	Password string `envconfig:"CASA80_SMTP_PASS"`
	From     string `envconfig:"CASA80_SMTP_FROM" default:"Casa80 Reservas <no-reply@casa80.com>"`
}

// Enabled reports whether outgoing mail is configured at all.
func (s SMTPConfig) Enabled() bool {
	return s.Host != ""
}

// CompanyConfig feeds the footer of outgoing mail and export headers.
type CompanyConfig struct {
	Name    string `envconfig:"CASA80_COMPANY_NAME" default:"Casa80 Eventos"`
	Address string `envconfig:"CASA80_COMPANY_ADDRESS" default:"Calle 72 58 - 45, Barranquilla"`
	Phone   string `envconfig:"CASA80_COMPANY_PHONE" default:"123456789"`
	Email   string `envconfig:"CASA80_COMPANY_EMAIL" default:"contacto@casa80.com"`
}

// RateLimitConfig throttles the login endpoint per client IP and per email.
type RateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"CASA80_LOGIN_RATE_WINDOW" default:"5m"`
	LoginIPLimit    int           `envconfig:"CASA80_LOGIN_RATE_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"CASA80_LOGIN_RATE_EMAIL_LIMIT" default:"8"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CASA80_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
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
