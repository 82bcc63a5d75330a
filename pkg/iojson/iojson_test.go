package iojson

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, payload{Name: "a", Count: 2}))
	assert.Equal(t, "{\n  \"name\": \"a\",\n  \"count\": 2\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"ch": make(chan int)}))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), `"message": "marshal output"`)
}

func TestMarshalError(t *testing.T) {
	got := MarshalError("scan failed", nil)
	assert.Equal(t, "{\n  \"message\": \"scan failed\"\n}", got)
}

func TestFileReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name":"file","count":1}`), 0o644))

	var fr FileReader[payload]
	fr.Set(path)
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, payload{Name: "file", Count: 1}, got)
}

func TestFileReader_Stdin(t *testing.T) {
	fr := FileReader[payload]{stdin: strings.NewReader(`{"name":"stdin"}`)}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "stdin", got.Name)

	tty := FileReader[payload]{isTTY: func() bool { return true }}
	_, err = tty.Read()
	assert.ErrorIs(t, err, ErrNoInput)
}
