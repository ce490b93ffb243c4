package config

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv    = "ORDENA_APP_ENV"
	EnvPort      = "ORDENA_APP_PORT"
	EnvDBDSN     = "ORDENA_DB_DSN"
	EnvDBHost    = "ORDENA_DB_HOST"
	EnvDBUser    = "ORDENA_DB_USER"
	EnvDBName    = "ORDENA_DB_NAME"
	EnvRedisURL  = "ORDENA_REDIS_URL"
	EnvJWTSecret = "ORDENA_JWT_SECRET"
	EnvJWTIssuer = "ORDENA_JWT_ISSUER"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
