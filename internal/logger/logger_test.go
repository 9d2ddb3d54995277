package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	buf.Reset()
	return entry
}

func TestWithLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := WithLogger(base.WithContext(context.Background()), map[string]interface{}{"session": "abc"})

	InfoLog(ctx, "uploaded %d files", 2)
	entry := decode(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc", entry["session"])
	assert.Equal(t, "uploaded 2 files", entry["message"])
}

func TestErrorLog(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf)
	ctx := base.WithContext(context.Background())

	ErrorLog(ctx, "export of %s failed: %v", "Budget", errors.New("disk full"))
	entry := decode(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "export of Budget failed: disk full", entry["message"])

	ErrorLog(ctx, "plain %s", "text")
	entry = decode(t, &buf)
	assert.Equal(t, "plain text", entry["message"])
	assert.Nil(t, entry["error"])
}
