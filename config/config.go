package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Env  string
	Port string

	DBURL     string
	RedisAddr string

	SigningSecret    string
	SigningAlgorithm string
	AccessExpiryMin  int
	RefreshExpiryMin int

	AdminRoleName string
}

type GatewayConfig struct {
	Port string

	RedisAddr string

	RateLimitPerMinute int
	RateLimitKeyTTLSec int

	// ServiceMap is a JSON object of path prefix to backend base URL.
	ServiceMap string
}

func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		Port:             getEnv("PORT", "8082"),
		DBURL:            mustGetEnv("DB_URL"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		SigningSecret:    mustGetEnv("JWT_SECRET_KEY"),
		SigningAlgorithm: getEnv("JWT_ALGORITHM", "HS256"),
		AccessExpiryMin:  getEnvAsInt("ACCESS_TOKEN_EXPIRES", 15),
		RefreshExpiryMin: getEnvAsInt("REFRESH_TOKEN_EXPIRES", 1440),
		AdminRoleName:    getEnv("ADMIN_ROLE_NAME", "admin"),
	}
}

func LoadGateway() *GatewayConfig {
	return &GatewayConfig{
		Port:               getEnv("PORT", "8080"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RateLimitPerMinute: getEnvAsInt("REQUEST_LIMIT_PER_MINUTE", 20),
		RateLimitKeyTTLSec: getEnvAsInt("RATE_LIMIT_KEY_TTL", 59),
		ServiceMap:         getEnv("GATEWAY_SERVICE_MAP", ""),
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
