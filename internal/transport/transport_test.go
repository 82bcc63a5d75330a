package transport

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refixai/refix/internal/core/protocol"
	"github.com/refixai/refix/internal/host"
)

var (
	_ host.View = (*HostEnd)(nil)
	_ host.View = (*HostStream)(nil)
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
	var zero T
	return zero
}

func TestPipe_DeliversInOrder(t *testing.T) {
	hostEnd, webviewEnd := Pipe()
	t.Cleanup(func() { _ = hostEnd.Close() })

	require.NoError(t, webviewEnd.Post(protocol.Ready{}))
	require.NoError(t, webviewEnd.Post(protocol.InspectCode{Code: "x", Language: "go"}))

	assert.Equal(t, protocol.Ready{}, recv(t, hostEnd.Messages()))
	assert.Equal(t, protocol.InspectCode{Code: "x", Language: "go"}, recv(t, hostEnd.Messages()))

	for i := range 3 {
		require.NoError(t, hostEnd.Post(protocol.CodeSelected{Text: strings.Repeat("a", i)}))
	}
	for i := range 3 {
		assert.Equal(t, protocol.CodeSelected{Text: strings.Repeat("a", i)}, recv(t, webviewEnd.Messages()))
	}
}

func TestPipe_CloseClosesBoth(t *testing.T) {
	hostEnd, webviewEnd := Pipe()

	require.NoError(t, webviewEnd.Close())
	require.NoError(t, webviewEnd.Close())

	select {
	case _, ok := <-hostEnd.Messages():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("host messages not closed")
	}

	assert.ErrorIs(t, hostEnd.Post(protocol.CodeSelected{}), ErrClosed)
	assert.ErrorIs(t, hostEnd.Reveal(), ErrClosed)
}

func TestPipe_Reveal(t *testing.T) {
	hostEnd, webviewEnd := Pipe()
	t.Cleanup(func() { _ = hostEnd.Close() })

	require.NoError(t, hostEnd.Reveal())
	require.NoError(t, hostEnd.Reveal())

	recv(t, webviewEnd.Revealed())
	select {
	case <-webviewEnd.Revealed():
		t.Fatal("reveals should collapse")
	default:
	}
}

func TestStream_HostSide(t *testing.T) {
	in := strings.NewReader(strings.Join([]string{
		`{"command":"ready"}`,
		`not json`,
		`{"command":"codeSelected","text":"wrong direction"}`,
		``,
		`{"command":"inspectCode","code":"x","language":"go"}`,
	}, "\n"))
	var out bytes.Buffer

	s := NewHostStream(context.Background(), in, &out, zerolog.Nop())

	assert.Equal(t, protocol.Ready{}, recv(t, s.Messages()))
	assert.Equal(t, protocol.InspectCode{Code: "x", Language: "go"}, recv(t, s.Messages()))

	_, ok := <-s.Messages()
	assert.False(t, ok, "closed at EOF")

	require.NoError(t, s.Post(protocol.ReviewResult{Results: protocol.EmptyPayload()}))
	require.NoError(t, s.Post(protocol.CodeSelected{Text: "a"}))
	assert.Equal(t,
		`{"command":"reviewResult","results":{"rawResults":[],"consolidatedIssues":[]}}`+"\n"+
			`{"command":"codeSelected","text":"a"}`+"\n",
		out.String())

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Post(protocol.CodeSelected{}), ErrClosed)
}

func TestStream_RoundTrip(t *testing.T) {
	toHostR, toHostW := io.Pipe()
	toWebviewR, toWebviewW := io.Pipe()

	ctx := context.Background()
	hostSide := NewHostStream(ctx, toHostR, toWebviewW, zerolog.Nop())
	webviewSide := NewWebviewStream(ctx, toWebviewR, toHostW, zerolog.Nop())
	t.Cleanup(func() {
		_ = hostSide.Close()
		_ = webviewSide.Close()
	})

	go func() { _ = webviewSide.Post(protocol.ApplySuggestion{Text: "fixed"}) }()
	assert.Equal(t, protocol.ApplySuggestion{Text: "fixed"}, recv(t, hostSide.Messages()))

	go func() { _ = hostSide.Post(protocol.CodeSelected{Text: "sel"}) }()
	assert.Equal(t, protocol.CodeSelected{Text: "sel"}, recv(t, webviewSide.Messages()))
}
