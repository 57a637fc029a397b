package fs_test

import (
	"testing"

	"github.com/jpaulsen/simplefs/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountedFS(t *testing.T, blocks uint32) *fs.FileSystem {
	t.Helper()
	d := newMemDisk(t, blocks)
	require.True(t, fs.Format(d))

	fsys := fs.New()
	require.NoError(t, fs.Mount(fsys, d))
	return fsys
}

func TestCreateAssignsDenseIndices(t *testing.T) {
	fsys := mountedFS(t, 20)

	for want := 0; want < 5; want++ {
		got, err := fsys.Create()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestCreateReusesFreedInode(t *testing.T) {
	fsys := mountedFS(t, 20)

	a, err := fsys.Create()
	require.NoError(t, err)
	b, err := fsys.Create()
	require.NoError(t, err)

	ok, err := fsys.Remove(a)
	require.NoError(t, err)
	assert.True(t, ok)

	reused, err := fsys.Create()
	require.NoError(t, err)
	assert.Equal(t, a, reused)
	assert.NotEqual(t, b, reused)
}

func TestStatUnknownInodeIsMinusOne(t *testing.T) {
	fsys := mountedFS(t, 20)

	size, err := fsys.Stat(0)
	require.NoError(t, err)
	assert.Equal(t, -1, size)

	size, err = fsys.Stat(999999)
	assert.Error(t, err)
	assert.Equal(t, -1, size)
}

func TestRemoveFreesDirectAndIndirectBlocks(t *testing.T) {
	fsys := mountedFS(t, 20)

	inumber, err := fsys.Create()
	require.NoError(t, err)

	data := make([]byte, fs.PointersPerInode*fs.BlockSize+17)
	n, err := fsys.Write(inumber, data, len(data), 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)

	// 5 direct blocks + 1 indirect pointer block + 1 data block referenced
	// through it = 7 blocks reclaimed.
	ok, err := fsys.Remove(inumber)
	require.NoError(t, err)
	assert.True(t, ok)

	// The freed blocks must be available for reuse by a brand-new file of
	// the same shape.
	other, err := fsys.Create()
	require.NoError(t, err)
	n, err = fsys.Write(other, data, len(data), 0)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
}

func TestRemoveRejectsUnallocatedInode(t *testing.T) {
	fsys := mountedFS(t, 20)

	ok, err := fsys.Remove(0)
	assert.Error(t, err)
	assert.False(t, ok)
}
