package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_BufferIsNotColoured(t *testing.T) {
	// Given: a non-terminal writer
	buf := &bytes.Buffer{}

	// When: creating a writer without overrides
	w := New(buf)

	// Then: colour is off
	assert.False(t, w.useColor)
}

func TestWriter_Warning_Plain(t *testing.T) {
	// Given: a plain writer
	buf := &bytes.Buffer{}
	w := New(buf, WithColor(false))

	// When: printing a warning
	w.Warning("Found compiler version 1.41.0, which is greater than the suggested version 1.40.0")

	// Then: the text is printed verbatim, set off by blank lines
	assert.Equal(t, "\nFound compiler version 1.41.0, which is greater than the suggested version 1.40.0\n\n", buf.String())
}

func TestWriter_Warning_Coloured(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, WithColor(true))

	w.Warn("version skew")

	out := buf.String()
	assert.Contains(t, out, "version skew")
	assert.Contains(t, out, "\x1b[", "coloured output should carry ANSI escapes")
}

func TestWriter_Detail(t *testing.T) {
	tests := []struct {
		name      string
		color     bool
		wantPlain bool
	}{
		{"plain", false, true},
		{"coloured", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			w := New(buf, WithColor(tt.color))

			w.Detail("entry:   src/main.sw")

			out := buf.String()
			assert.True(t, strings.HasPrefix(out, "   "))
			assert.Contains(t, out, "entry:   src/main.sw")
			assert.Equal(t, tt.wantPlain, out == "   entry:   src/main.sw\n")
		})
	}
}

func TestWriter_Success(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, WithColor(false))

	w.Successf("project %s", "counter")

	assert.Equal(t, "✓ project counter\n", buf.String())
}

func TestWriter_Status_WithoutIcon(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf)

	w.Status("", "indented")

	assert.Equal(t, "   indented\n", buf.String())
}

func TestWriter_Error_AddsTrailingNewline(t *testing.T) {
	buf := &bytes.Buffer{}
	w := New(buf, WithColor(false))

	w.Error("Error: boom")
	w.Error("Error: bang\n")

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}

func TestIsTTY_NonFile(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))
	assert.False(t, IsTTY(nil))
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, DetectNoColor())
}
