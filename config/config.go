package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	PostgresURL   string
	MongoURL      string
	DBType        string
	Port          string
	JWTSecret     string
	ResendAPIKey  string
	AdminEmail    string
	LogsDirectory string
	PDFSavePath   string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		PostgresURL:   os.Getenv("POSTGRES_URL"),
		MongoURL:      os.Getenv("MONGO_URL"),
		DBType:        os.Getenv("DB_TYPE"),
		Port:          os.Getenv("PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ResendAPIKey:  os.Getenv("RESEND_API_KEY"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		LogsDirectory: os.Getenv("LOGS_DIRECTORY"),
		PDFSavePath:   os.Getenv("PDF_SAVE_PATH"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DBType == "" {
		cfg.DBType = "postgres"
	}
	return cfg
}
