package config

// Storage backend names accepted in DatabaseConfig.Backend.
const (
	BackendPostgres = "postgres"
	BackendMongoDB  = "mongodb"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all storage-related configuration settings.
//
// Backend selects which task store implementation is active for this
// deployment. The choice is made once at startup; there is no runtime
// fallback or dual-write path between backends.
type DatabaseConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=postgres mongodb"`
	URL     string `mapstructure:"url"     validate:"required"`
	// MongoDatabase is the database name used by the mongodb backend.
	// Ignored by the postgres backend.
	MongoDatabase string `mapstructure:"mongo_database" validate:"required_if=Backend mongodb"`
}

// AuthConfig contains all authentication and authorization settings.
// Token issuance lives in the external auth service; this service only
// needs the shared secret to verify tokens.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}
