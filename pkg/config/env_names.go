package config

// EnvPrefix is the envconfig prefix for every DealerHub variable.
const EnvPrefix = "dealerhub"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error text).
const (
	EnvAppEnv     = "DEALERHUB_APP_ENV"
	EnvPort       = "DEALERHUB_APP_PORT"
	EnvDBDSN      = "DEALERHUB_DB_DSN"
	EnvDBHost     = "DEALERHUB_DB_HOST"
	EnvDBUser     = "DEALERHUB_DB_USER"
	EnvDBName     = "DEALERHUB_DB_NAME"
	EnvRedisURL   = "DEALERHUB_REDIS_URL"
	EnvJWTSecret  = "DEALERHUB_JWT_SECRET"
	EnvJWTIssuer  = "DEALERHUB_JWT_ISSUER"
	EnvJWTExpMins = "DEALERHUB_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
