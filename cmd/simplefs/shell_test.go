package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jpaulsen/simplefs/disk"
	"github.com/jpaulsen/simplefs/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"
)

func mountedShellFS(t *testing.T) (*fs.FileSystem, *disk.Disk) {
	t.Helper()
	buf := make([]byte, 20*disk.BlockSize)
	d := disk.NewFromStream(bytesextra.NewReadWriteSeeker(buf), 20)
	require.True(t, fs.Format(d))

	fsys := fs.New()
	require.NoError(t, fs.Mount(fsys, d))
	return fsys, d
}

func TestShellCreateAndStat(t *testing.T) {
	fsys, d := mountedShellFS(t)

	in := strings.NewReader("create\nstat 0\nexit\n")
	var out bytes.Buffer
	require.NoError(t, runShell(fsys, d, in, &out))

	lines := strings.Split(out.String(), "\n")
	assert.Contains(t, lines, "0")
}

func TestShellUnknownCommand(t *testing.T) {
	fsys, d := mountedShellFS(t)

	in := strings.NewReader("frobnicate\nexit\n")
	var out bytes.Buffer
	require.NoError(t, runShell(fsys, d, in, &out))

	assert.Contains(t, out.String(), "unrecognized command")
}

func TestShellRemoveRequiresInodeArgument(t *testing.T) {
	fsys, d := mountedShellFS(t)

	in := strings.NewReader("remove\nexit\n")
	var out bytes.Buffer
	require.NoError(t, runShell(fsys, d, in, &out))

	assert.Contains(t, out.String(), "missing inode argument")
}

func TestShellExitStopsTheLoop(t *testing.T) {
	fsys, d := mountedShellFS(t)

	in := strings.NewReader("exit\ncreate\n")
	var out bytes.Buffer
	require.NoError(t, runShell(fsys, d, in, &out))

	assert.NotContains(t, out.String(), "0")
}
