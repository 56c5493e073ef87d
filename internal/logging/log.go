// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Console selects stderr output instead of a log file.
const Console = "console"

// InitLog parses and sets log-level input and routes output to logPath,
// rotating it, unless logPath is empty or Console.
func InitLog(logLevel string, logPath string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Errorf("Failed parsing log-level %s: %s", logLevel, err)
		return err
	}

	var out io.Writer = os.Stderr
	if logPath != "" && logPath != Console {
		out = &lumberjack.Logger{
			// Log file absolute path, os agnostic
			Filename:   filepath.ToSlash(logPath),
			MaxSize:    5, // MB
			MaxBackups: 10,
			MaxAge:     30, // days
			Compress:   true,
		}
	}
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)
	return nil
}

// Level returns "debug" when verbose is set and "info" otherwise.
func Level(verbose bool) string {
	if verbose {
		return log.DebugLevel.String()
	}
	return log.InfoLevel.String()
}
