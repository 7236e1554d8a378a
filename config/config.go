package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env in development; in production the variables
// come from the environment directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		if _, ok := os.LookupEnv("DB_HOST"); !ok {
			log.Println("no .env file found, relying on environment")
		}
	}
}
