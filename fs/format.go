package fs

import (
	"github.com/jpaulsen/simplefs/disk"
)

// Format lays out a fresh superblock and zeroes every other block on d. It
// requires d to be unmounted. It is not transactional: a write failure
// partway through leaves the disk in an undefined state and Format simply
// reports false.
//
// Grounded on drivers/unixv1/formattingdriver.go's Format, trimmed to
// SimpleFS's fixed geometry (no bitmap-size negotiation, no boot block —
// those are artifacts of the teacher's Unix v1 layout, which has no
// equivalent here).
func Format(d *disk.Disk) bool {
	if d.Mounted() {
		return false
	}

	inodeBlocks := ceilDiv(d.Blocks, 10)
	inodes := inodeBlocks * InodesPerBlock

	sb := SuperBlock{
		Magic:       MagicNumber,
		Blocks:      d.Blocks,
		InodeBlocks: inodeBlocks,
		Inodes:      inodes,
	}

	if err := writeSuperBlock(d, sb); err != nil {
		return false
	}

	zero := make([]byte, disk.BlockSize)
	for b := uint32(1); b < d.Blocks; b++ {
		if _, err := d.WriteBlock(b, zero); err != nil {
			return false
		}
	}

	return true
}
