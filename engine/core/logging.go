package core

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

func getLogger() *logger {
	once.Do(
		func() {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				Prefix:          "State 🎛️ ",
			})
			l.SetLevel(log.DebugLevel)
			// the helpers below add one frame on top of the caller
			l.SetCallerOffset(1)
			singleton = &logger{l}
		})
	return singleton
}

// SetLogLevel changes the level of the engine logger. Accepted values are
// the ones understood by charmbracelet/log (debug, info, warn, error, fatal).
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	getLogger().SetLevel(lvl)
	return nil
}

// SetLogOutput redirects the engine logger, mostly useful in tests.
func SetLogOutput(w io.Writer) {
	getLogger().SetOutput(w)
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
