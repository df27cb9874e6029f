package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config carries the runtime settings the service reads at startup.
type Config struct {
	Port                    string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
}

// Load reads the environment (and an optional .env file) into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
