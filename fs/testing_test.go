package fs_test

import (
	"testing"

	"github.com/jpaulsen/simplefs/disk"
	"github.com/xaionaro-go/bytesextra"
)

func newMemDisk(t *testing.T, blocks uint32) *disk.Disk {
	t.Helper()
	buf := make([]byte, uint64(blocks)*disk.BlockSize)
	stream := bytesextra.NewReadWriteSeeker(buf)
	return disk.NewFromStream(stream, blocks)
}
