package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Service       ServiceConfig
	Church        ChurchConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Bootstrap     BootstrapConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"WORSHIPDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"WORSHIPDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WORSHIPDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WORSHIPDESK_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"WORSHIPDESK_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// ConsoleLogs reports whether logs should use the human readable writer.
func (a AppConfig) ConsoleLogs() bool {
	return strings.EqualFold(a.LogFormat, "console")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DBConfig is the public store connection used by every regular request.
type DBConfig struct {
	DSN string `envconfig:"WORSHIPDESK_DB_DSN"`

	LegacyHost     string `envconfig:"WORSHIPDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"WORSHIPDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WORSHIPDESK_DB_USER"`
	LegacyPassword string `envconfig:"WORSHIPDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"WORSHIPDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"WORSHIPDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WORSHIPDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WORSHIPDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WORSHIPDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WORSHIPDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ServiceConfig holds the elevated credential. When DSN is empty the
// administrative endpoints answer 501 instead of writing anything.
type ServiceConfig struct {
	DSN          string `envconfig:"WORSHIPDESK_SERVICE_DB_DSN"`
	MaxOpenConns int    `envconfig:"WORSHIPDESK_SERVICE_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns int    `envconfig:"WORSHIPDESK_SERVICE_DB_MAX_IDLE_CONNS" default:"2"`
}

func (s ServiceConfig) Configured() bool {
	return strings.TrimSpace(s.DSN) != ""
}

// DBConfig returns connection settings for the elevated pool.
func (s ServiceConfig) DBConfig() DBConfig {
	return DBConfig{
		DSN:             strings.TrimSpace(s.DSN),
		MaxOpenConns:    s.MaxOpenConns,
		MaxIdleConns:    s.MaxIdleConns,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

type ChurchConfig struct {
	ID string `envconfig:"WORSHIPDESK_CHURCH_ID" default:"550e8400-e29b-41d4-a716-446655440000"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WORSHIPDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WORSHIPDESK_REDIS_ADDR"`
	Password     string        `envconfig:"WORSHIPDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"WORSHIPDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WORSHIPDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WORSHIPDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WORSHIPDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WORSHIPDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WORSHIPDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"WORSHIPDESK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"WORSHIPDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"WORSHIPDESK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"WORSHIPDESK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WORSHIPDESK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WORSHIPDESK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WORSHIPDESK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WORSHIPDESK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WORSHIPDESK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"WORSHIPDESK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"WORSHIPDESK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"WORSHIPDESK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"WORSHIPDESK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"WORSHIPDESK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"WORSHIPDESK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WORSHIPDESK_AUTO_MIGRATE" default:"false"`
}

// BootstrapConfig seeds the default administrator identity.
type BootstrapConfig struct {
	DefaultAdminEmail    string `envconfig:"WORSHIPDESK_DEFAULT_ADMIN_EMAIL" default:"admin@worship.local"`
	DefaultAdminPassword string `envconfig:"WORSHIPDESK_DEFAULT_ADMIN_PASSWORD" default:"songadmin*123"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"WORSHIPDESK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
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
