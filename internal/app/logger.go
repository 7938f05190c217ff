package app

import (
	"fmt"
	"os"

	"Tracker/internal/config"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger: text output in dev, JSON elsewhere.
func NewLogger(cfg config.AppConfig) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	log.SetLevel(level)

	if cfg.IsDev() {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}
