package logging

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingFile is a size-rotated log sink for long batch runs.
func RotatingFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
}
