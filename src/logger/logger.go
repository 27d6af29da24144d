package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging throughout the resource.
// Concourse reserves stdout for the JSON response, so every implementation
// that writes anything must write to stderr (or a caller-provided writer).
type Logger interface {
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// ConsoleLogger writes human-readable logs to stderr.
// Concourse renders them in the build log of the put step.
type ConsoleLogger struct {
	zl zerolog.Logger
}

// NewConsoleLogger returns a logger writing to stderr. Debug lines are only
// emitted when debug is true.
func NewConsoleLogger(debug bool) *ConsoleLogger {
	return NewWriterLogger(os.Stderr, debug)
}

// NewWriterLogger is NewConsoleLogger with an explicit destination.
func NewWriterLogger(w io.Writer, debug bool) *ConsoleLogger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w), PartsExclude: []string{zerolog.TimestampFieldName}}
	return &ConsoleLogger{zl: zerolog.New(cw).Level(level)}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	c.zl.Info().Msg(fmt.Sprintf(msg, args...))
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	c.zl.Error().Msg(fmt.Sprintf(msg, args...))
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	// Skip formatting entirely when debug output is off.
	if c.zl.GetLevel() > zerolog.DebugLevel {
		return
	}
	c.zl.Debug().Msg(fmt.Sprintf(msg, args...))
}

// SilentLogger discards all log messages.
// Used by tests and by callers that do not care about diagnostics.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
