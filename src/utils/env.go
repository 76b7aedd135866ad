package utils

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const envFilename = ".env"

// InitEnvironmentVariables loads the local .env file when present. Missing
// files are fine: deployment environments inject variables directly.
func InitEnvironmentVariables() error {
	if _, err := os.Stat(envFilename); os.IsNotExist(err) {
		log.Debugf("no %s file found, using process environment", envFilename)
		return nil
	}

	return godotenv.Load(envFilename)
}
