package fs_test

import (
	"testing"

	"github.com/jpaulsen/simplefs/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	fsys := mountedFS(t, 20)

	inumber, err := fsys.Create()
	require.NoError(t, err)

	data := make([]byte, 1234)
	for i := range data {
		data[i] = byte(i)
	}

	n, err := fsys.Write(inumber, data, len(data), 0)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	size, err := fsys.Stat(inumber)
	require.NoError(t, err)
	assert.Equal(t, len(data), size)

	out := make([]byte, len(data))
	n, err = fsys.Read(inumber, out, len(out), 0)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.Equal(t, data, out)
}

func TestWriteCrossesIndirectBoundary(t *testing.T) {
	fsys := mountedFS(t, 20)

	inumber, err := fsys.Create()
	require.NoError(t, err)

	size := fs.PointersPerInode*fs.BlockSize + 17
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}

	n, err := fsys.Write(inumber, data, len(data), 0)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	got, err := fsys.Stat(inumber)
	require.NoError(t, err)
	assert.Equal(t, size, got)

	out := make([]byte, size)
	n, err = fsys.Read(inumber, out, len(out), 0)
	require.NoError(t, err)
	assert.Equal(t, size, n)
	assert.Equal(t, data, out)
}

func TestWriteNeverShrinksSize(t *testing.T) {
	fsys := mountedFS(t, 20)

	inumber, err := fsys.Create()
	require.NoError(t, err)

	_, err = fsys.Write(inumber, []byte("0123456789"), 10, 0)
	require.NoError(t, err)

	_, err = fsys.Write(inumber, []byte("AB"), 2, 2)
	require.NoError(t, err)

	size, err := fsys.Stat(inumber)
	require.NoError(t, err)
	assert.Equal(t, 10, size)

	out := make([]byte, 10)
	_, err = fsys.Read(inumber, out, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "01AB456789", string(out))
}

func TestReadIsBoundedByFileSize(t *testing.T) {
	fsys := mountedFS(t, 20)

	inumber, err := fsys.Create()
	require.NoError(t, err)

	_, err = fsys.Write(inumber, []byte("hello"), 5, 0)
	require.NoError(t, err)

	out := make([]byte, 100)
	n, err := fsys.Read(inumber, out, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestReadRejectsOffsetPastEOF(t *testing.T) {
	fsys := mountedFS(t, 20)

	inumber, err := fsys.Create()
	require.NoError(t, err)
	_, err = fsys.Write(inumber, []byte("hi"), 2, 0)
	require.NoError(t, err)

	out := make([]byte, 10)
	n, err := fsys.Read(inumber, out, 10, 3)
	assert.Error(t, err)
	assert.Equal(t, -1, n)
}

func TestFullFileRunsOutOfSpace(t *testing.T) {
	// 20 blocks -> 2 inode blocks, leaving 17 data blocks: tiny enough that
	// a single file claiming every direct+indirect slot exhausts the disk
	// well before MaxFileSize.
	fsys := mountedFS(t, 20)

	inumber, err := fsys.Create()
	require.NoError(t, err)

	data := make([]byte, fs.MaxFileSize)
	n, err := fsys.Write(inumber, data, len(data), 0)
	require.NoError(t, err)
	assert.Less(t, n, len(data))
	assert.Greater(t, n, 0)
}
