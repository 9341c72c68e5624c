package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAttrsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := Init("production", &buf)

	ctx := WithNickname(WithRequestID(context.Background(), "req-1"), "alice")
	logger.InfoContext(ctx, "board created", "board_id", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "board created", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "alice", line["nickname"])
	assert.EqualValues(t, 3, line["board_id"])
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
