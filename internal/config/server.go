package config

import "fmt"

// Server binding defaults. Port 8000 on all interfaces is the published
// container contract.
const (
	DefaultServerHost = "0.0.0.0"
	DefaultServerPort = "8000"
)

// ServerConfig holds HTTP server and backing store endpoints.
type ServerConfig struct {
	Host string
	Port string

	DatabaseURL string
	RedisAddr   string
}

// GetServerConfig returns server configuration from the environment or
// defaults.
func GetServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:        getEnvOrDefault("HOST", DefaultServerHost),
		Port:        getEnvOrDefault("PORT", DefaultServerPort),
		DatabaseURL: getEnvOrDefault("DATABASE_URL", ""),
		RedisAddr:   getEnvOrDefault("REDIS_ADDR", ""),
	}
}

// Addr returns the host:port listen address.
func (sc *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", sc.Host, sc.Port)
}

// GetPostgresConnectionString builds the postgres DSN, preferring DATABASE_URL
// when set.
func (sc *ServerConfig) GetPostgresConnectionString() string {
	if sc.DatabaseURL != "" {
		return sc.DatabaseURL
	}

	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "")
	dbname := getEnvOrDefault("DB_NAME", "rapidscribe")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}
