package util

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Console represents a console interface
type Console interface {
	Log(message string)
	Warn(message string)
	Error(message string)
}

// LogLevel is the minimum level a Console writes
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogOff
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	case LogOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseLogLevel maps a level name to a LogLevel, defaulting to LogInfo
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LogDebug
	case "info":
		return LogInfo
	case "warn", "warning":
		return LogWarn
	case "error":
		return LogError
	case "off":
		return LogOff
	default:
		return LogInfo
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type slogConsole struct {
	logger *slog.Logger
}

// NewConsole returns a Console writing text records to w at or above level.
// A nil writer or LogOff yields a Console that drops everything.
func NewConsole(w io.Writer, level LogLevel) Console {
	if w == nil || level == LogOff {
		return DiscardConsole
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.slogLevel()})
	return &slogConsole{logger: slog.New(handler)}
}

// ConsoleFromLogger adapts an existing slog.Logger
func ConsoleFromLogger(logger *slog.Logger) Console {
	if logger == nil {
		return DiscardConsole
	}
	return &slogConsole{logger: logger}
}

func (c *slogConsole) Log(message string) {
	c.logger.Log(context.Background(), slog.LevelInfo, message)
}

func (c *slogConsole) Warn(message string) {
	c.logger.Log(context.Background(), slog.LevelWarn, message)
}

func (c *slogConsole) Error(message string) {
	c.logger.Log(context.Background(), slog.LevelError, message)
}

type discardConsole struct{}

func (discardConsole) Log(string)   {}
func (discardConsole) Warn(string)  {}
func (discardConsole) Error(string) {}

// DiscardConsole drops every message
var DiscardConsole Console = discardConsole{}

// RecordingConsole keeps every message in memory
type RecordingConsole struct {
	Logs     []string
	Warnings []string
	Errors   []string
}

func (r *RecordingConsole) Log(message string)   { r.Logs = append(r.Logs, message) }
func (r *RecordingConsole) Warn(message string)  { r.Warnings = append(r.Warnings, message) }
func (r *RecordingConsole) Error(message string) { r.Errors = append(r.Errors, message) }
