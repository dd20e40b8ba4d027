// Package debug provides the process-wide diagnostic logger.
//
// Messages written through Debug may carry a "[component] " prefix; the
// prefix is lifted into a structured component field.
package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05.000"

var (
	mu      sync.RWMutex
	enabled bool
	noColor bool
	out     io.Writer = os.Stderr
	logger            = build()
)

// build constructs the logger from the current settings. Callers hold mu.
func build() zerolog.Logger {
	level := zerolog.WarnLevel
	if enabled {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: timeFormat,
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("[%v]", i))
		},
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// SetDebug enables or disables debug mode
func SetDebug(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	logger = build()
}

// IsEnabled returns whether debug mode is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetNoColor enables or disables colored output
func SetNoColor(disable bool) {
	mu.Lock()
	defer mu.Unlock()
	noColor = disable
	logger = build()
}

// SetOutput redirects log output. A nil writer restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	out = w
	logger = build()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

// Logger returns a logger tagged with the given component name.
func Logger(component string) *zerolog.Logger {
	l := current().With().Str("component", component).Logger()
	return &l
}

// splitComponent separates a leading "[component] " tag from msg.
func splitComponent(msg string) (string, string) {
	if !strings.HasPrefix(msg, "[") {
		return "", msg
	}
	end := strings.Index(msg, "] ")
	if end <= 1 {
		return "", msg
	}
	return msg[1:end], msg[end+2:]
}

// Debug prints a debug message with timestamp
func Debug(format string, args ...interface{}) {
	if !IsEnabled() {
		return
	}

	component, msg := splitComponent(fmt.Sprintf(format, args...))
	event := current().Debug()
	if component != "" {
		event = event.Str("component", component)
	}
	event.Msg(msg)
}

// Warn logs a warning. Warnings are emitted even when debug mode is off.
func Warn(format string, args ...interface{}) {
	component, msg := splitComponent(fmt.Sprintf(format, args...))
	event := current().Warn()
	if component != "" {
		event = event.Str("component", component)
	}
	event.Msg(msg)
}

// DebugSection prints a section header for debug output
func DebugSection(section string) {
	if !IsEnabled() {
		return
	}
	current().Debug().Msgf("=== %s ===", section)
}

// DebugValue prints key=value style debug info
func DebugValue(key string, value interface{}) {
	if !IsEnabled() {
		return
	}
	current().Debug().Msgf("%s = %v", key, value)
}

// DebugJSON prints structured data as JSON for debugging
func DebugJSON(key string, v interface{}) {
	if !IsEnabled() {
		return
	}

	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		Debug("Failed to marshal %s to JSON: %v", key, err)
		return
	}
	current().Debug().Msgf("%s:\n%s", key, string(jsonBytes))
}
