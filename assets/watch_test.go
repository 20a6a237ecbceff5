package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherReportsStorePaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "textures"), 0755))

	w, err := NewWatcher(root, "textures")
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(root, "textures", "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "textures", "blue.png"), []byte("png"), 0644))

	select {
	case p := <-w.Events:
		require.Equal(t, "textures/blue.png", p)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for blue.png")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
