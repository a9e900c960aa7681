// Package logging builds the structured logger used by the CLI.
//
// Every logger carries a "run" field with a random id so that the lines of
// one synchronization can be told apart in watch mode or in aggregated CI logs.
package logging

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/phuslu/log"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ErrUnknownFormat is returned for a format other than console or json.
var ErrUnknownFormat = errors.New("unknown log format")

// New returns a logger writing to w at the given level.
// Console output is uncolored so it stays readable in CI logs.
func New(w io.Writer, level, format string) (*log.Logger, error) {
	var writer log.Writer
	switch strings.ToLower(format) {
	case "", FormatConsole:
		writer = &log.ConsoleWriter{Writer: w, QuoteString: true, EndWithMessage: true}
	case FormatJSON:
		writer = log.IOWriter{Writer: w}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return &log.Logger{
		Level:      ParseLevel(level),
		TimeFormat: "15:04:05",
		Context:    log.NewContext(nil).Str("run", NewRunID()).Value(),
		Writer:     writer,
	}, nil
}

// ParseLevel maps a level name to a log level. Empty or unknown names give info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewRunID returns a short random identifier for one run.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return &log.Logger{Level: log.ErrorLevel, Writer: log.IOWriter{Writer: io.Discard}}
}
