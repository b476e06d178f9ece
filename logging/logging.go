package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogFormat is the output format of the process logger.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// NewLogger creates the process logger. Unknown formats fall back to text
// and unknown levels to info.
//
// Parameters:
// - format: text or json.
// - level: a logrus level name such as debug or warn.
//
// Returns:
// - *logrus.Logger: the logger writing to stdout.
func NewLogger(format LogFormat, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	switch LogFormat(strings.ToLower(string(format))) {
	case LogFormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.WithField("level", level).Warn("Unknown log level, using info")
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger
}
