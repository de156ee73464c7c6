package fsnotify

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/califica/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Watcher = (*Watcher)(nil)

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, dir string) (*Watcher, <-chan string) {
	t.Helper()
	w, err := NewWatcher()
	require.NoError(t, err)
	w.Settle = 50 * time.Millisecond
	t.Cleanup(func() { w.Stop() })

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(dir, func(path string) {
		changed <- path
	}))

	// Give watcher time to start
	time.Sleep(50 * time.Millisecond)
	return w, changed
}

func TestWatcher_DetectsNewSnapshot(t *testing.T) {
	dir := t.TempDir()
	_, changed := startWatcher(t, dir)

	newFile := filepath.Join(dir, "backup.json")
	require.NoError(t, os.WriteFile(newFile, []byte(`{"store":{}}`), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for new snapshot")
	assert.Equal(t, newFile, path)
}

func TestWatcher_DetectsRewrittenSnapshot(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "backup.json.br")
	require.NoError(t, os.WriteFile(testFile, []byte("v1"), 0644))

	_, changed := startWatcher(t, dir)
	require.NoError(t, os.WriteFile(testFile, []byte("v2"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for rewritten snapshot")
	assert.Equal(t, testFile, path)
}

func TestWatcher_BurstOfWritesFiresOnce(t *testing.T) {
	dir := t.TempDir()
	_, changed := startWatcher(t, dir)

	f := filepath.Join(dir, "slow.json")
	fh, err := os.Create(f)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := fh.WriteString(`{"store":{}}`)
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, fh.Close())

	_, ok := waitForCallback(changed, 2*time.Second)
	require.True(t, ok)
	_, again := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, again, "settled file reported more than once")
}

func TestWatcher_IgnoresNonSnapshots(t *testing.T) {
	dir := t.TempDir()
	_, changed := startWatcher(t, dir)

	for _, name := range []string{"notes.txt", ".hidden.json", "backup.json.swp", "backup.json.part"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	path, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "unexpected callback for %s", path)
}

func TestWatcher_RejectsMissingDir(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Stop()
	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "missing"), func(string) {}))

	f := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(f, nil, 0644))
	assert.Error(t, w.Watch(f, func(string) {}))
}

func TestIsSnapshot(t *testing.T) {
	assert.True(t, IsSnapshot("/in/a.json"))
	assert.True(t, IsSnapshot("/in/A.JSON.BR"))
	assert.False(t, IsSnapshot("/in/a.br"))
	assert.False(t, IsSnapshot("/in/.a.json"))
	assert.False(t, IsSnapshot("/in/a.json~"))
	assert.False(t, IsSnapshot("/in/a.txt"))
}

func TestWatcher_StopCleanup(t *testing.T) {
	// After Stop(), no more callbacks fire.
	dir := t.TempDir()

	w, err := NewWatcher()
	require.NoError(t, err)

	callCount := 0
	var mu sync.Mutex
	err = w.Watch(dir, func(path string) {
		mu.Lock()
		callCount++
		mu.Unlock()
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	err = w.Stop()
	require.NoError(t, err)

	os.WriteFile(filepath.Join(dir, "after_stop.json"), []byte("{}"), 0644)
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	assert.Equal(t, 0, callCount, "callbacks fired after Stop()")
	mu.Unlock()

	// Double-stop should be safe
	err = w.Stop()
	assert.NoError(t, err)
}
