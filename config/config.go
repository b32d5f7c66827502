package config

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv loads .env if present; in containers the variables come from
// the environment directly.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
}
