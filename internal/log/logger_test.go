package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/diffdochq/diffdoc/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	l.Info("submission accepted", "chunks", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "submission accepted", record["msg"])
	assert.Equal(t, float64(3), record["chunks"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatJSON, "WARN")

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestLogger_WithContextAddsIDs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	ctx := WithSubmissionID(context.Background(), "sub-123")
	ctx = WithRequestID(ctx, "req-456")
	l.InfoContext(ctx, "analyzing")

	out := buf.String()
	assert.Contains(t, out, "sub-123")
	assert.Contains(t, out, "req-456")
}

func TestSubmissionIDRoundTrip(t *testing.T) {
	ctx := WithSubmissionID(context.Background(), "sub-789")
	assert.Equal(t, "sub-789", SubmissionID(ctx))
	assert.Equal(t, "", SubmissionID(context.Background()))
}

func TestTerminalHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatPretty, "DEBUG")

	l.Debug("chunking", "count", 2)

	out := buf.String()
	assert.Contains(t, out, "DBG")
	assert.Contains(t, out, "chunking")
	assert.Contains(t, out, "count=")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("WARNING").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("anything").String())
}
