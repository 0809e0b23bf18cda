package configs

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

func InitLogger() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(EnvLogLevel())
	if err != nil {
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)
}

// LogWithContext returns an entry tagged with the service and component
// names so log lines can be filtered per subsystem.
func LogWithContext(service, component string) *logrus.Entry {
	if Logger == nil {
		InitLogger()
	}
	return Logger.WithFields(logrus.Fields{
		"service":   service,
		"component": component,
	})
}
