package filex

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveFile_Rename(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.txt")
	dst := filepath.Join(tmp, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	require.NoError(t, MoveFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.NoFileExists(t, src)
}

func TestMoveFile_CrossDeviceFallsBackToCopy(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "src.txt")
	dst := filepath.Join(tmp, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))
	// placeholder left by a name reservation
	require.NoError(t, os.WriteFile(dst, nil, 0o644))

	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	defer func() { rename = os.Rename }()

	require.NoError(t, MoveFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.NoFileExists(t, src)
}

func TestMoveFile_OtherErrorsAreReturned(t *testing.T) {
	tmp := t.TempDir()

	err := MoveFile(filepath.Join(tmp, "missing"), filepath.Join(tmp, "dst"))

	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWithin(t *testing.T) {
	root := t.TempDir()

	t.Run("success - plain name", func(t *testing.T) {
		got, err := Within(root, "photo.png")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "photo.png"), got)
	})

	t.Run("success - nested name", func(t *testing.T) {
		got, err := Within(root, "a/b")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "a", "b"), got)
	})

	for _, name := range []string{"../secret.txt", "..", "a/../../secret.txt", "", "."} {
		t.Run("error - "+name, func(t *testing.T) {
			_, err := Within(root, name)
			assert.ErrorIs(t, err, ErrOutsideRoot)
		})
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, EnsureDir(dir))
	require.NoError(t, EnsureDir(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestChild(t *testing.T) {
	root := t.TempDir()

	got, err := Child(root, "photo (1).png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "photo (1).png"), got)

	for _, name := range []string{"thumbnail/photo.png", `thumbnail\photo.png`, "../secret.txt", ".."} {
		t.Run("error - "+name, func(t *testing.T) {
			_, err := Child(root, name)
			assert.ErrorIs(t, err, ErrNotChild)
		})
	}

	_, err = Child(root, "")
	assert.ErrorIs(t, err, ErrOutsideRoot)
}
