package notify

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

func TestLogNotifier_Levels(t *testing.T) {
	var buf bytes.Buffer
	n := LogNotifier{Logger: zerolog.New(&buf)}

	n.Notify(context.Background(), Error(errors.New("boom")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["message"])
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	m := Multi(&a, &b)

	m.Notify(context.Background(), Info("hello"))

	require.Len(t, a.All(), 1)
	require.Len(t, b.All(), 1)
	assert.Equal(t, LevelInfo, b.All()[0].Level)
	assert.Equal(t, "hello", a.All()[0].Message)
}
