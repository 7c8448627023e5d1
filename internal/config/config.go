package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	RedisAddr  string
	AmqpURL    string
	JWTSecret  string
}

func Load() *Config {
	// Best effort; env vars win over .env values.
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "flicksy"),
		DBPassword: getEnv("DB_PASSWORD", "flicksy_dev_password"),
		DBName:     getEnv("DB_NAME", "flicksy"),
		RedisAddr:  getEnv("REDIS_ADDR", ""),
		AmqpURL:    getEnv("AMQP_URL", ""),
		JWTSecret:  getEnv("JWT_SECRET", "dev-secret-change-me"),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
