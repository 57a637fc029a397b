package fs_test

import (
	"testing"

	"github.com/jpaulsen/simplefs/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLaysOutGeometry(t *testing.T) {
	d := newMemDisk(t, 200)
	require.True(t, fs.Format(d))

	fsys := fs.New()
	require.NoError(t, fs.Mount(fsys, d))

	sb := fsys.SuperBlock()
	assert.EqualValues(t, 200, sb.Blocks)
	assert.EqualValues(t, 20, sb.InodeBlocks)
	assert.EqualValues(t, 2560, sb.Inodes)
}

func TestFormatRefusesWhileMounted(t *testing.T) {
	d := newMemDisk(t, 20)
	require.True(t, fs.Format(d))

	fsys := fs.New()
	require.NoError(t, fs.Mount(fsys, d))

	assert.False(t, fs.Format(d))
}

func TestFormatErasesPriorContents(t *testing.T) {
	d := newMemDisk(t, 20)
	require.True(t, fs.Format(d))

	fsys := fs.New()
	require.NoError(t, fs.Mount(fsys, d))
	inumber, err := fsys.Create()
	require.NoError(t, err)
	_, err = fsys.Write(inumber, []byte("leftover"), 8, 0)
	require.NoError(t, err)
	require.NoError(t, fs.Unmount(fsys))

	require.True(t, fs.Format(d))

	fsys2 := fs.New()
	require.NoError(t, fs.Mount(fsys2, d))
	size, err := fsys2.Stat(inumber)
	require.NoError(t, err)
	assert.Equal(t, -1, size)
}
