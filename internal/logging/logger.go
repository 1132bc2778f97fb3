// Package logging builds the shared application logger.
package logging

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/echohealth-screening-server/internal/domain"
)

// NewLogger creates a logrus logger configured from the logging section
// of the application configuration.
func NewLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
