package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	// Client-side settings.
	APIBaseURL     string
	RequestTimeout time.Duration
	LocalStorePath string
	SessionSecret  string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "smart_lms"),
		ServerPort:     getEnv("SERVER_PORT", "5000"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://127.0.0.1:5000/api"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 2*time.Second),
		LocalStorePath: getEnv("LOCAL_STORE_PATH", "smart_lms.db"),
		SessionSecret:  getEnv("SESSION_SECRET", "secret"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
