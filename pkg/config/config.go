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
	JWT          JWTConfig
	Password     PasswordConfig
	Twilio       TwilioConfig
	Reminder     ReminderConfig
	WorkOrders   WorkOrdersConfig
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
	Env          string `envconfig:"OTOSERVIS_APP_ENV" required:"true"`
	Port         string `envconfig:"OTOSERVIS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OTOSERVIS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OTOSERVIS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"OTOSERVIS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"OTOSERVIS_DB_DSN"`
	Driver string `envconfig:"OTOSERVIS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"OTOSERVIS_DB_HOST"`
	LegacyPort     int    `envconfig:"OTOSERVIS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"OTOSERVIS_DB_USER"`
	LegacyPassword string `envconfig:"OTOSERVIS_DB_PASSWORD"`
	LegacyName     string `envconfig:"OTOSERVIS_DB_NAME"`
	LegacySSLMode  string `envconfig:"OTOSERVIS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OTOSERVIS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OTOSERVIS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OTOSERVIS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OTOSERVIS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"OTOSERVIS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"OTOSERVIS_REDIS_ADDR"`
	Password     string        `envconfig:"OTOSERVIS_REDIS_PASSWORD"`
	DB           int           `envconfig:"OTOSERVIS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OTOSERVIS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OTOSERVIS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OTOSERVIS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OTOSERVIS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OTOSERVIS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"OTOSERVIS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"OTOSERVIS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"OTOSERVIS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"OTOSERVIS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OTOSERVIS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OTOSERVIS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OTOSERVIS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OTOSERVIS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OTOSERVIS_ARGON_KEY_LEN" default:"32"`
}

// TwilioConfig carries the outbound messaging credentials. An empty account
// SID disables real sends; triggers still record the attempt in the audit log.
type TwilioConfig struct {
	AccountSID   string `envconfig:"OTOSERVIS_TWILIO_ACCOUNT_SID"`
	AuthToken    string `envconfig:"OTOSERVIS_TWILIO_AUTH_TOKEN"`
	SMSFrom      string `envconfig:"OTOSERVIS_TWILIO_SMS_FROM"`
	WhatsAppFrom string `envconfig:"OTOSERVIS_TWILIO_WHATSAPP_FROM"`
}

type ReminderConfig struct {
	DaysAhead int           `envconfig:"OTOSERVIS_REMINDER_DAYS_AHEAD" default:"7"`
	Interval  time.Duration `envconfig:"OTOSERVIS_REMINDER_INTERVAL" default:"24h"`
}

type WorkOrdersConfig struct {
	RepeatVisitWindowDays int `envconfig:"OTOSERVIS_REPEAT_VISIT_WINDOW_DAYS" default:"30"`
	RepeatVisitScanLimit  int `envconfig:"OTOSERVIS_REPEAT_VISIT_SCAN_LIMIT" default:"200"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OTOSERVIS_AUTO_MIGRATE" default:"false"`
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
