package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger *logrus.Logger
	once   sync.Once
)

// InitLogger configures the process-wide logger. Later calls are ignored.
func InitLogger(level, format string) *logrus.Logger {
	once.Do(func() {
		logger = newLogger(level, format)
	})
	return logger
}

// GetLogger returns the process-wide logger, initializing it with defaults
// when InitLogger was never called (tests, tools).
func GetLogger() *logrus.Logger {
	return InitLogger("info", "text")
}

func newLogger(level, format string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return l
}
