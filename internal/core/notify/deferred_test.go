package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferred_FlushesWarningsAndErrors(t *testing.T) {
	d := &Deferred{}
	ctx := context.Background()

	d.Notify(ctx, Info("saved"))
	d.Notify(ctx, Error(errors.New("reload main.go: gone")))
	d.Notify(ctx, Notification{Level: LevelWarning, Message: "slow"})

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, "error: reload main.go: gone\nwarning: slow\n", out.String())

	out.Reset()
	require.NoError(t, d.Flush(&out))
	assert.Empty(t, out.String())
}

func TestDeferred_ConcurrentNotify(t *testing.T) {
	d := &Deferred{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Notify(context.Background(), Error(errors.New("x")))
		}()
	}
	wg.Wait()

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, 50, bytes.Count(out.Bytes(), []byte("\n")))
}
