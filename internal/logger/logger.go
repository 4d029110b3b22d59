// Package logger provides leveled logging for the migration wizard.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Level is a log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelSuccess
	LevelWarning
	LevelError
)

var prefixes = map[Level]string{
	LevelDebug:   "[DEBUG] ",
	LevelInfo:    "[INFO] ",
	LevelSuccess: "[DONE] ",
	LevelWarning: "[WARNING] ",
	LevelError:   "[ERROR] ",
}

// Logger writes leveled messages to stderr and, optionally, a log file.
type Logger struct {
	loggers map[Level]*log.Logger
	debug   bool
	logFile *os.File
}

// New creates a Logger writing to stderr.
func New(debug bool) *Logger {
	return NewWithWriter(debug, os.Stderr)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(debug bool, w io.Writer) *Logger {
	l := &Logger{loggers: make(map[Level]*log.Logger, len(prefixes)), debug: debug}
	for level, prefix := range prefixes {
		l.loggers[level] = log.New(w, prefix, log.Ldate|log.Ltime)
	}
	return l
}

// NewWithFile creates a Logger writing to both stderr and logFilePath.
func NewWithFile(debug bool, logFilePath string) (*Logger, error) {
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	l := NewWithWriter(debug, io.MultiWriter(os.Stderr, logFile))
	l.logFile = logFile
	return l, nil
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.logFile != nil {
		err := l.logFile.Close()
		l.logFile = nil
		return err
	}
	return nil
}

func (l *Logger) output(level Level, msg string) {
	if level == LevelDebug && !l.debug {
		return
	}
	l.loggers[level].Println(msg)
}

func (l *Logger) Info(msg string) { l.output(LevelInfo, msg) }
func (l *Logger) Infof(format string, args ...interface{}) { l.output(LevelInfo, fmt.Sprintf(format, args...)) }
func (l *Logger) Success(msg string) { l.output(LevelSuccess, msg) }
func (l *Logger) Successf(format string, args ...interface{}) { l.output(LevelSuccess, fmt.Sprintf(format, args...)) }
func (l *Logger) Warning(msg string) { l.output(LevelWarning, msg) }
func (l *Logger) Warningf(format string, args ...interface{}) { l.output(LevelWarning, fmt.Sprintf(format, args...)) }
func (l *Logger) Error(msg string) { l.output(LevelError, msg) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.output(LevelError, fmt.Sprintf(format, args...)) }

// Debug logs only when debug mode is enabled.
func (l *Logger) Debug(msg string) { l.output(LevelDebug, msg) }

// Debugf logs only when debug mode is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.debug {
		l.output(LevelDebug, fmt.Sprintf(format, args...))
	}
}

// Page logs a banner when the wizard enters a page. index is zero based.
func (l *Logger) Page(index, total int, title string) {
	l.Info("=========================================")
	l.Infof("Page %d/%d: %s", index+1, total, title)
	l.Info("=========================================")
}

// GetTimestamp returns a timestamp string in the format YYYYMMDD-HHMMSS.
func GetTimestamp() string {
	return time.Now().Format("20060102-150405")
}
