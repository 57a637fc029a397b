package fs_test

import (
	"testing"

	"github.com/jpaulsen/simplefs/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountRejectsBadMagic(t *testing.T) {
	d := newMemDisk(t, 20)
	// Never formatted: block 0 is all zeros, so the magic check must fail.
	fsys := fs.New()
	err := fs.Mount(fsys, d)
	assert.Error(t, err)
	assert.False(t, fsys.Mounted())
}

func TestMountRejectsAlreadyMounted(t *testing.T) {
	d := newMemDisk(t, 20)
	require.True(t, fs.Format(d))

	fsys := fs.New()
	require.NoError(t, fs.Mount(fsys, d))

	other := fs.New()
	assert.Error(t, fs.Mount(other, d))
}

func TestMountUnmountIdempotence(t *testing.T) {
	d := newMemDisk(t, 20)
	require.True(t, fs.Format(d))

	fsys := fs.New()
	require.NoError(t, fs.Mount(fsys, d))
	assert.True(t, fsys.Mounted())

	require.NoError(t, fs.Unmount(fsys))
	assert.False(t, fsys.Mounted())

	// Unmounting an already-unmounted FileSystem is a no-op, not an error.
	require.NoError(t, fs.Unmount(fsys))

	require.NoError(t, fs.Mount(fsys, d))
	assert.True(t, fsys.Mounted())
}

func TestRemountPreservesWrittenFile(t *testing.T) {
	d := newMemDisk(t, 20)
	require.True(t, fs.Format(d))

	fsys := fs.New()
	require.NoError(t, fs.Mount(fsys, d))

	inumber, err := fsys.Create()
	require.NoError(t, err)
	_, err = fsys.Write(inumber, []byte("hello"), 5, 0)
	require.NoError(t, err)

	require.NoError(t, fs.Unmount(fsys))
	require.NoError(t, fs.Mount(fsys, d))

	size, err := fsys.Stat(inumber)
	require.NoError(t, err)
	assert.Equal(t, 5, size)
}
