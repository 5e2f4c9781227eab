package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/htmlindent/pkg/fsutil"
)

func writeTemp(t *testing.T, name, content string, mode os.FileMode) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns content and snapshot", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "index.html", "<p>x</p>", 0o600)

		content, snap, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "<p>x</p>", string(content))
		assert.Equal(t, path, snap.Path)
		assert.Equal(t, int64(8), snap.Size)
		assert.Equal(t, os.FileMode(0o600), snap.Mode.Perm())
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(ctx, filepath.Join(t.TempDir(), "missing.html"))
		require.ErrorIs(t, err, fsutil.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()

		_, _, err := fsutil.ReadFile(ctx, t.TempDir())
		require.ErrorIs(t, err, fsutil.ErrIsDirectory)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := fsutil.ReadFile(cancelled, "whatever.html")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestSnapshotChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	path := writeTemp(t, "page.html", "<p>one</p>", 0o644)
	_, snap, err := fsutil.ReadFile(ctx, path)
	require.NoError(t, err)

	changed, err := snap.Changed(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	// Same size, different content and time.
	require.NoError(t, os.WriteFile(path, []byte("<p>two</p>"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	changed, err = snap.Changed(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	require.NoError(t, os.Remove(path))
	changed, err = snap.Changed(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	var nilSnap *fsutil.Snapshot
	_, err = nilSnap.Changed(ctx)
	require.ErrorIs(t, err, fsutil.ErrNilSnapshot)
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.html")

	require.NoError(t, fsutil.WriteAtomic(ctx, path, []byte("<br>"), 0))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<br>", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.DefaultFileMode, info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	err = fsutil.WriteAtomic(ctx, filepath.Join(dir, "missing", "out.html"), []byte("x"), 0)
	require.Error(t, err)
}

func TestReplace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backups := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	t.Run("writes and backs up", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "index.html", "<div><p>x</p></div>", 0o640)
		_, snap, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		result, err := fsutil.Replace(ctx, snap, []byte("<div>\n    <p>x</p>\n</div>\n"), backups)
		require.NoError(t, err)
		assert.Equal(t, path+fsutil.BackupSuffix, result.BackupPath)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<div>\n    <p>x</p>\n</div>\n", string(got))

		backup, err := os.ReadFile(result.BackupPath)
		require.NoError(t, err)
		assert.Equal(t, "<div><p>x</p></div>", string(backup))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})

	t.Run("refuses concurrent modification", func(t *testing.T) {
		t.Parallel()

		path := writeTemp(t, "index.html", "<p>a</p>", 0o644)
		_, snap, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("<p>changed</p>"), 0o644))

		_, err = fsutil.Replace(ctx, snap, []byte("<p>b</p>"), backups)
		require.ErrorIs(t, err, fsutil.ErrModified)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<p>changed</p>", string(got))
	})
}

func TestBackups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	path := writeTemp(t, "a.html", "original", 0o644)

	created, err := fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.True(t, created)

	// The first backup is kept.
	require.NoError(t, os.WriteFile(path, []byte("second"), 0o644))
	created, err = fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.False(t, created)

	restored, err := fsutil.RestoreBackup(ctx, path, fsutil.BackupModeSidecar)
	require.NoError(t, err)
	assert.True(t, restored)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	created, err = fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone})
	require.NoError(t, err)
	assert.False(t, created)

	restored, err = fsutil.RestoreBackup(ctx, filepath.Join(t.TempDir(), "none.html"), fsutil.BackupModeSidecar)
	require.NoError(t, err)
	assert.False(t, restored)

	assert.True(t, fsutil.IsBackup(path+fsutil.BackupSuffix))
	assert.False(t, fsutil.IsBackup(path))
	assert.Empty(t, fsutil.BackupPath(path, fsutil.BackupModeNone))
}

func FuzzWriteAtomic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("<p>hello</p>\n"))
	f.Add([]byte("\x00\x01\x02\x03"))

	f.Fuzz(func(t *testing.T, content []byte) {
		path := filepath.Join(t.TempDir(), "fuzz.html")

		if err := fsutil.WriteAtomic(context.Background(), path, content, 0o644); err != nil {
			t.Fatalf("WriteAtomic failed: %v", err)
		}

		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(got) != string(content) {
			t.Fatalf("content mismatch: got %q, want %q", got, content)
		}
	})
}
