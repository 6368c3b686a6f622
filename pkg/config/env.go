package config

// EnvPrefix namespaces every environment variable consumed by the app.
const EnvPrefix = "OTOSERVIS"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside envconfig tags (tests, error text).
const (
	EnvAppEnv                 = "OTOSERVIS_APP_ENV"
	EnvPort                   = "OTOSERVIS_APP_PORT"
	EnvDBDSN                  = "OTOSERVIS_DB_DSN"
	EnvDBHost                 = "OTOSERVIS_DB_HOST"
	EnvDBUser                 = "OTOSERVIS_DB_USER"
	EnvDBName                 = "OTOSERVIS_DB_NAME"
	EnvRedisURL               = "OTOSERVIS_REDIS_URL"
	EnvJWTSecret              = "OTOSERVIS_JWT_SECRET"
	EnvJWTIssuer              = "OTOSERVIS_JWT_ISSUER"
	EnvJWTExpMins             = "OTOSERVIS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "OTOSERVIS_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
