package log

import (
	"bytes"
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func TestToLevel(t *testing.T) {
	testCases := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
	}
	for _, tc := range testCases {
		got, err := ToLevel(tc.in)
		assert.NilError(t, err)
		assert.Equal(t, got, tc.want)
	}

	_, err := ToLevel("verbose")
	assert.ErrorContains(t, err, "unknown log level")
}

func TestToMode(t *testing.T) {
	m, err := ToMode("production")
	assert.NilError(t, err)
	assert.Equal(t, m, ModeProd)

	m, err = ToMode("Development")
	assert.NilError(t, err)
	assert.Equal(t, m, ModeDev)

	_, err = ToMode("fancy")
	assert.ErrorContains(t, err, "unknown log mode")
}

func TestNewLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WriteTo(&buf), SetLevel(InfoLevel), SetMode(ModeProd))

	logger.Info("module loaded", "module", "clock")
	logger.V(1).Info("scanning file", "path", "/x/libclock.so")

	out := buf.String()
	assert.Assert(t, is.Contains(out, `"msg":"module loaded"`))
	assert.Assert(t, is.Contains(out, `"module":"clock"`))
	assert.Assert(t, !bytes.Contains(buf.Bytes(), []byte("scanning file")))
}

func TestNewLogger_DebugShowsVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WriteTo(&buf), SetLevel(DebugLevel), SetMode(ModeDev))

	logger.V(1).Info("scanning file", "path", "/x/libclock.so")
	assert.Assert(t, is.Contains(buf.String(), "scanning file"))
}
