package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Directory DirectoryConfig `yaml:"directory"`
	Machines  MachinesConfig  `yaml:"machines"`
	Auth      AuthConfig      `yaml:"auth"`
	CORS      CORSConfig      `yaml:"cors"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings for the ledger.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// DirectoryConfig holds LDAP settings for the identity directory that owns
// user balances.
type DirectoryConfig struct {
	URL           string        `yaml:"url"             env:"DIRECTORY_URL"             env-required:"true"`
	BindDN        string        `yaml:"bind_dn"         env:"DIRECTORY_BIND_DN"         env-required:"true"`
	BindPassword  string        `yaml:"bind_password"   env:"DIRECTORY_BIND_PASSWORD"   env-required:"true"`
	UserSearchBase string       `yaml:"user_search_base" env:"DIRECTORY_USER_SEARCH_BASE" env-required:"true"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"DIRECTORY_REQUEST_TIMEOUT" env-default:"5s"`
}

// MachinesConfig holds device API settings shared by all vending machines.
// URLTemplate must contain exactly one %s, replaced with the machine name.
type MachinesConfig struct {
	URLTemplate   string        `yaml:"url_template"   env:"MACHINES_URL_TEMPLATE"   env-required:"true"`
	APIToken      string        `yaml:"api_token"      env:"MACHINES_API_TOKEN"      env-required:"true"`
	StatusTimeout time.Duration `yaml:"status_timeout" env:"MACHINES_STATUS_TIMEOUT" env-default:"5s"`
	DropTimeout   time.Duration `yaml:"drop_timeout"   env:"MACHINES_DROP_TIMEOUT"   env-default:"30s"`
}

// AuthConfig holds bearer-token validation settings.
type AuthConfig struct {
	JWTSecret  string `yaml:"jwt_secret"  env:"AUTH_JWT_SECRET"  env-required:"true"`
	JWTIssuer  string `yaml:"jwt_issuer"  env:"AUTH_JWT_ISSUER"  env-default:"barkeep"`
	AdminGroup string `yaml:"admin_group" env:"AUTH_ADMIN_GROUP" env-default:"drink"`
}

// CORSConfig holds Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"300"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
