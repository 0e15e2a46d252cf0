package config

const EnvPrefix = "WORSHIPDESK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv                 = "WORSHIPDESK_APP_ENV"
	EnvPort                   = "WORSHIPDESK_APP_PORT"
	EnvLogLevel               = "WORSHIPDESK_LOG_LEVEL"
	EnvDBDSN                  = "WORSHIPDESK_DB_DSN"
	EnvDBHost                 = "WORSHIPDESK_DB_HOST"
	EnvDBPort                 = "WORSHIPDESK_DB_PORT"
	EnvDBUser                 = "WORSHIPDESK_DB_USER"
	EnvDBPassword             = "WORSHIPDESK_DB_PASSWORD"
	EnvDBName                 = "WORSHIPDESK_DB_NAME"
	EnvDBSSLMode              = "WORSHIPDESK_DB_SSLMODE"
	EnvServiceDBDSN           = "WORSHIPDESK_SERVICE_DB_DSN"
	EnvChurchID               = "WORSHIPDESK_CHURCH_ID"
	EnvRedisURL               = "WORSHIPDESK_REDIS_URL"
	EnvJWTSecret              = "WORSHIPDESK_JWT_SECRET"
	EnvJWTIssuer              = "WORSHIPDESK_JWT_ISSUER"
	EnvJWTExpMins             = "WORSHIPDESK_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "WORSHIPDESK_REFRESH_TOKEN_TTL_MINUTES"
	EnvDefaultAdminEmail      = "WORSHIPDESK_DEFAULT_ADMIN_EMAIL"
	EnvDefaultAdminPassword   = "WORSHIPDESK_DEFAULT_ADMIN_PASSWORD"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
