package util

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogInit configures logrus from Config: level, and rotated file output
// when a log file is set.
func LogInit() {
	level := log.InfoLevel
	if Config.LogLevel != "" {
		parsed, err := log.ParseLevel(Config.LogLevel)
		if err != nil {
			log.WithError(err).Warnf("unknown log level %q, using info", Config.LogLevel)
		} else {
			level = parsed
		}
	}
	log.SetLevel(level)

	if Config.LogFile == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   Config.LogFile,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
}
