package common

import (
	"io"

	"github.com/sirupsen/logrus"
)

// LogOption configures the logger handed to namespace components.
type LogOption struct {
	LogLevel      logrus.Level
	Logger        *logrus.Logger
	Output        io.Writer
	ColorDisabled bool
}

// NewLogger returns opt.Logger when set, a text logger built from opt
// otherwise, and a logger discarding everything when no option is given.
func NewLogger(opt ...LogOption) *logrus.Logger {
	logger := logrus.New()
	if len(opt) == 0 {
		logger.Out = io.Discard
		return logger
	}
	if opt[0].Logger != nil {
		return opt[0].Logger
	}

	if opt[0].Output != nil {
		logger.Out = opt[0].Output
	}

	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: opt[0].ColorDisabled,
	})
	logger.SetLevel(opt[0].LogLevel)
	return logger
}
