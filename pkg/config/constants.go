package config

// EnvPrefix namespaces every configuration variable.
const EnvPrefix = "naijamart"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "NAIJAMART_APP_ENV"
	EnvPort       = "NAIJAMART_APP_PORT"
	EnvDBDSN      = "NAIJAMART_DB_DSN"
	EnvDBHost     = "NAIJAMART_DB_HOST"
	EnvDBUser     = "NAIJAMART_DB_USER"
	EnvDBName     = "NAIJAMART_DB_NAME"
	EnvRedisURL   = "NAIJAMART_REDIS_URL"
	EnvJWTSecret  = "NAIJAMART_JWT_SECRET"
	EnvJWTIssuer  = "NAIJAMART_JWT_ISSUER"
	EnvJWTExpMins = "NAIJAMART_JWT_EXPIRATION_MINUTES"

	EnvRefreshTokenTTLMinutes = "NAIJAMART_REFRESH_TOKEN_TTL_MINUTES"
	EnvWhatsAppPhone          = "NAIJAMART_WHATSAPP_PHONE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
