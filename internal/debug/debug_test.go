package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetNoColor(true)
	t.Cleanup(func() {
		SetDebug(false)
		SetOutput(nil)
	})
	return &buf
}

func TestSetDebug(t *testing.T) {
	SetDebug(false)
	assert.False(t, IsEnabled())

	SetDebug(true)
	assert.True(t, IsEnabled())

	SetDebug(false)
	assert.False(t, IsEnabled())
}

func TestDebugOutput(t *testing.T) {
	buf := capture(t)
	SetDebug(true)

	Debug("test message %s", "arg")

	output := buf.String()
	assert.Contains(t, output, "[DEBUG]")
	assert.Contains(t, output, "test message arg")
	// timestamp
	assert.Contains(t, output, ":")
}

func TestDebugComponentPrefix(t *testing.T) {
	buf := capture(t)
	SetDebug(true)

	Debug("[generator] copied %d files", 3)

	output := buf.String()
	assert.Contains(t, output, "component=generator")
	assert.Contains(t, output, "copied 3 files")
	assert.NotContains(t, output, "[generator]")
}

func TestDebugDisabled(t *testing.T) {
	buf := capture(t)
	SetDebug(false)

	Debug("this should not appear")
	DebugSection("hidden")
	DebugValue("key", "value")
	DebugJSON("data", map[string]string{"a": "b"})

	assert.Empty(t, buf.String())
}

func TestWarnAlwaysEmitted(t *testing.T) {
	buf := capture(t)
	SetDebug(false)

	Warn("[config] ignoring %s", "x")

	output := buf.String()
	assert.Contains(t, output, "[WARN]")
	assert.Contains(t, output, "ignoring x")
}

func TestDebugSectionAndValue(t *testing.T) {
	buf := capture(t)
	SetDebug(true)

	DebugSection("Resolve")
	DebugValue("type", "vanilla")

	output := buf.String()
	assert.Contains(t, output, "=== Resolve ===")
	assert.Contains(t, output, "type = vanilla")
}

func TestDebugJSON(t *testing.T) {
	buf := capture(t)
	SetDebug(true)

	DebugJSON("project", map[string]string{"name": "my-lib"})

	output := buf.String()
	require.Contains(t, output, "project:")
	assert.Contains(t, output, `"name": "my-lib"`)
}

func TestSplitComponent(t *testing.T) {
	tests := []struct {
		in        string
		component string
		msg       string
	}{
		{"[app] hello", "app", "hello"},
		{"plain", "", "plain"},
		{"[] empty", "", "[] empty"},
		{"[unterminated", "", "[unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, m := splitComponent(tt.in)
			assert.Equal(t, tt.component, c)
			assert.Equal(t, tt.msg, m)
		})
	}
}

func TestLoggerTagsComponent(t *testing.T) {
	buf := capture(t)
	SetDebug(true)

	Logger("install").Debug().Int("packages", 2).Msg("install finished")

	output := buf.String()
	assert.Contains(t, output, "component=install")
	assert.Contains(t, output, "packages=2")
	assert.Contains(t, output, "install finished")
}
