package config

import (
	"os"
	"strconv"
	"time"

	"blockbustre.backend/internal/domain/entities"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Mail       MailConfig
	Blockchain BlockchainConfig
	Security   SecurityConfig
	Jobs       JobsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	// ActionExpiry bounds single-purpose tokens (email verification,
	// password reset).
	ActionExpiry time.Duration
}

// MailConfig holds SMTP relay configuration
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// BlockchainConfig holds per-network RPC endpoints
type BlockchainConfig struct {
	EthereumMainnetRPC string
	EthereumSepoliaRPC string
	PolygonMainnetRPC  string
	PolygonMumbaiRPC   string
	BSCMainnetRPC      string
	BSCTestnetRPC      string
}

// RPCURLs returns the configured endpoints keyed by network
func (c BlockchainConfig) RPCURLs() map[entities.BlockchainNetwork]string {
	return map[entities.BlockchainNetwork]string{
		entities.NetworkEthereumMainnet: c.EthereumMainnetRPC,
		entities.NetworkEthereumSepolia: c.EthereumSepoliaRPC,
		entities.NetworkPolygonMainnet:  c.PolygonMainnetRPC,
		entities.NetworkPolygonMumbai:   c.PolygonMumbaiRPC,
		entities.NetworkBSCMainnet:      c.BSCMainnetRPC,
		entities.NetworkBSCTestnet:      c.BSCTestnetRPC,
	}
}

// SecurityConfig holds account security settings
type SecurityConfig struct {
	PasswordMinLength int
	FrontendBaseURL   string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	SubscriptionExpiryInterval time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "blockbustre"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
			ActionExpiry:  getEnvAsDuration("JWT_ACTION_EXPIRY", 24*time.Hour),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@blockbustre.io"),
		},
		Blockchain: BlockchainConfig{
			EthereumMainnetRPC: getEnv("ETHEREUM_MAINNET_RPC_URL", ""),
			EthereumSepoliaRPC: getEnv("ETHEREUM_SEPOLIA_RPC_URL", "https://rpc.sepolia.org"),
			PolygonMainnetRPC:  getEnv("POLYGON_MAINNET_RPC_URL", ""),
			PolygonMumbaiRPC:   getEnv("POLYGON_MUMBAI_RPC_URL", ""),
			BSCMainnetRPC:      getEnv("BSC_MAINNET_RPC_URL", ""),
			BSCTestnetRPC:      getEnv("BSC_TESTNET_RPC_URL", "https://data-seed-prebsc-1-s1.binance.org:8545"),
		},
		Security: SecurityConfig{
			PasswordMinLength: getEnvAsInt("PASSWORD_MIN_LENGTH", 8),
			FrontendBaseURL:   getEnv("FRONTEND_BASE_URL", "http://localhost:3000"),
		},
		Jobs: JobsConfig{
			SubscriptionExpiryInterval: getEnvAsDuration("SUBSCRIPTION_EXPIRY_INTERVAL", time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
