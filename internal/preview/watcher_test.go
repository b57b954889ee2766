package preview

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestShouldIgnoreEvent(t *testing.T) {
	assert.True(t, shouldIgnoreEvent("/docs/.hidden.md"))
	assert.True(t, shouldIgnoreEvent("/docs/page.md.swp"))
	assert.True(t, shouldIgnoreEvent("/docs/page.md~"))
	assert.False(t, shouldIgnoreEvent("/docs/page.md"))
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	req, trigger, stop := newDebouncer(20 * time.Millisecond)
	defer stop()

	for range 5 {
		trigger()
	}
	select {
	case <-req:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced request never fired")
	}
	select {
	case <-req:
		t.Fatal("burst produced more than one request")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "guides"), 0o750))

	var rebuilds atomic.Int32
	rebuilt := make(chan struct{}, 8)
	w := NewWatcher([]string{dir}, func(context.Context) error {
		rebuilds.Add(1)
		select {
		case rebuilt <- struct{}{}:
		default:
		}
		return nil
	}, WithDebounce(20*time.Millisecond), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guides", "page.md"), []byte("# Page\n"), 0o600))

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after change")
	}

	cancel()
	require.NoError(t, <-done)
	assert.GreaterOrEqual(t, rebuilds.Load(), int32(1))
}

func TestWatcher_MissingRoot(t *testing.T) {
	w := NewWatcher([]string{filepath.Join(t.TempDir(), "absent")}, func(context.Context) error { return nil })
	require.Error(t, w.Run(context.Background()))
}
