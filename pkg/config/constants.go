package config

const (
	EnvPrefix = "TALLERFLOW"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "TALLERFLOW_APP_ENV"
	EnvPort   = "TALLERFLOW_APP_PORT"

	EnvDBDSN  = "TALLERFLOW_DB_DSN"
	EnvDBHost = "TALLERFLOW_DB_HOST"
	EnvDBUser = "TALLERFLOW_DB_USER"
	EnvDBName = "TALLERFLOW_DB_NAME"

	EnvRedisURL = "TALLERFLOW_REDIS_URL"
)

var componentDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
