package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu sync.RWMutex

	isDevelopment = false // human readable console output

	level = zerolog.InfoLevel

	// optional extra destination, e.g. a log file opened by the cli
	extraWriter io.Writer

	// AdHocLogger can be used by code that has no component logger of its own.
	AdHocLogger zerolog.Logger
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	AdHocLogger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "ad-hoc-logger").Caller().Logger()
}

// GetLogger returns a logger tagged with the given service name. The output
// format follows the development flag at the time of the call.
func GetLogger(serviceName string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if !isDevelopment {
		var out io.Writer = os.Stderr
		if extraWriter != nil {
			out = zerolog.MultiLevelWriter(os.Stderr, extraWriter)
		}
		return zerolog.New(out).Level(level).With().Timestamp().Str("service", serviceName).Logger()
	}

	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339,
		FormatLevel: func(i any) string {
			return strings.ToUpper(fmt.Sprintf("[%5s]", i))
		},
		FormatMessage: func(i any) string {
			return fmt.Sprintf("| %s |", i)
		},
		FormatCaller: func(i any) string {
			return filepath.Base(fmt.Sprintf("%s", i))
		},
		PartsExclude: []string{
			zerolog.TimestampFieldName,
		}}

	var out io.Writer = consoleWriter
	if extraWriter != nil {
		out = zerolog.MultiLevelWriter(consoleWriter, extraWriter)
	}
	return zerolog.New(out).Level(zerolog.TraceLevel).With().Timestamp().Str("service", serviceName).Caller().Logger()
}

func SetDevelopment(value bool) {
	mu.Lock()
	defer mu.Unlock()
	isDevelopment = value
}

// SetLevel parses lvl ("trace", "debug", "info", ...) and applies it to
// loggers created afterwards. Development loggers always log at trace.
func SetLevel(lvl string) error {
	parsed, err := zerolog.ParseLevel(lvl)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", lvl, err)
	}
	mu.Lock()
	defer mu.Unlock()
	level = parsed
	return nil
}

func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	extraWriter = w
}
