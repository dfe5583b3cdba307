package config

// EnvPrefix is applied by envconfig on top of the per-field names.
const EnvPrefix = "CASA80"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "CASA80_APP_ENV"
	EnvPort       = "CASA80_APP_PORT"
	EnvDBDSN      = "CASA80_DB_DSN"
	EnvDBHost     = "CASA80_DB_HOST"
	EnvDBUser     = "CASA80_DB_USER"
	EnvDBName     = "CASA80_DB_NAME"
	EnvRedisURL   = "CASA80_REDIS_URL"
	EnvJWTSecret  = "CASA80_JWT_SECRET"
	EnvJWTIssuer  = "CASA80_JWT_ISSUER"
	EnvJWTExpMins = "CASA80_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
