package adminos_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdguardTeam/golibs/logutil/slogutil"
	"github.com/AdguardTeam/golibs/testutil"
	"github.com/ShopCraft/CatalogAdmin/internal/adminos"
	"github.com/google/renameio/v2/maybe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTimeout is the common timeout for tests.
const testTimeout = 1 * time.Second

// newTestWatcher returns a started watcher tracking a new file in a temporary
// directory as well as the path to that file.
func newTestWatcher(t *testing.T) (w *adminos.OSWatcher, name string) {
	t.Helper()

	dir := t.TempDir()
	name = filepath.Join(dir, "config.yaml")

	err := os.WriteFile(name, []byte("a: 1\n"), adminos.DefaultPermFile)
	require.NoError(t, err)

	w, err = adminos.NewOSWatcher(slogutil.NewDiscardLogger())
	require.NoError(t, err)

	err = w.Add(name)
	require.NoError(t, err)

	err = w.Start(testutil.ContextWithTimeout(t, testTimeout))
	require.NoError(t, err)
	testutil.CleanupAndRequireSuccess(t, func() (err error) {
		return w.Shutdown(testutil.ContextWithTimeout(t, testTimeout))
	})

	return w, name
}

// requireEvent fails the test if there is no event in ch within testTimeout.
func requireEvent(t *testing.T, ch <-chan struct{}) {
	t.Helper()

	select {
	case _, ok := <-ch:
		require.True(t, ok)
	case <-time.After(testTimeout):
		t.Fatal("no event")
	}
}

func TestOSWatcher(t *testing.T) {
	t.Run("write", func(t *testing.T) {
		w, name := newTestWatcher(t)

		err := os.WriteFile(name, []byte("a: 2\n"), adminos.DefaultPermFile)
		require.NoError(t, err)

		requireEvent(t, w.Events())
	})

	t.Run("atomic_write", func(t *testing.T) {
		w, name := newTestWatcher(t)

		err := maybe.WriteFile(name, []byte("a: 3\n"), adminos.DefaultPermFile)
		require.NoError(t, err)

		requireEvent(t, w.Events())
	})

	t.Run("untracked", func(t *testing.T) {
		w, name := newTestWatcher(t)

		other := filepath.Join(filepath.Dir(name), "other.yaml")
		err := os.WriteFile(other, []byte("b: 1\n"), adminos.DefaultPermFile)
		require.NoError(t, err)

		select {
		case <-w.Events():
			t.Fatal("unexpected event")
		case <-time.After(testTimeout / 10):
			// Go on.
		}
	})
}

func TestOSWatcher_Add(t *testing.T) {
	w, err := adminos.NewOSWatcher(slogutil.NewDiscardLogger())
	require.NoError(t, err)
	testutil.CleanupAndRequireSuccess(t, func() (err error) {
		return w.Shutdown(testutil.ContextWithTimeout(t, testTimeout))
	})

	dir := t.TempDir()

	err = w.Add(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = w.Add(dir)
	assert.Error(t, err)
}

func TestEmptyFileWatcher(t *testing.T) {
	w := adminos.EmptyFileWatcher{}

	assert.Nil(t, w.Events())
	assert.NoError(t, w.Add("any"))
}
