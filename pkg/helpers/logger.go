package helpers

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the process logger: text with debug output in
// development, JSON at info elsewhere. A non-empty level (LOG_LEVEL)
// overrides the default; an unknown level is reported and ignored.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level = strings.TrimSpace(level); level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			logger.WithError(err).Warn("ignoring LOG_LEVEL")
		} else {
			logger.SetLevel(lvl)
		}
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

// LogError logs msg at error level with err flattened into the fields.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	entry := logger.WithFields(fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	logger.WithFields(fields).Info(msg)
}
