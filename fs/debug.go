package fs

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/jpaulsen/simplefs/disk"
)

// Debug reads the superblock and inode table straight off d and writes a
// human-readable report to w: superblock geometry, then for every valid
// inode its size, direct pointers (including zeros, so holes are
// visible), and — if nonzero — its indirect block number followed by the
// indirect block's nonzero entries. It does not require a mounted file
// system.
//
// Any single corrupt inode-table block is reported and skipped rather
// than aborting the whole scan, so one bad block doesn't hide the
// diagnostics for every other inode; every such anomaly is collected into
// the returned error via hashicorp/go-multierror.
func Debug(d *disk.Disk, w io.Writer) error {
	sb, err := readSuperBlock(d)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "SuperBlock:\n")
	fmt.Fprintf(w, "    magic is %s\n", magicStatus(sb.Magic))
	fmt.Fprintf(w, "    %d blocks\n", sb.Blocks)
	fmt.Fprintf(w, "    %d inode blocks\n", sb.InodeBlocks)
	fmt.Fprintf(w, "    %d inodes\n", sb.Inodes)

	var issues *multierror.Error

	for tableBlock := uint32(1); tableBlock <= sb.InodeBlocks; tableBlock++ {
		inodes, err := readInodeBlock(d, tableBlock)
		if err != nil {
			issues = multierror.Append(issues, fmt.Errorf("inode table block %d: %w", tableBlock, err))
			continue
		}

		for j, raw := range inodes {
			if raw.Valid == 0 {
				continue
			}
			inumber := (tableBlock-1)*InodesPerBlock + uint32(j)

			fmt.Fprintf(w, "Inode %d:\n", inumber)
			fmt.Fprintf(w, "    size: %d bytes\n", raw.Size)
			fmt.Fprintf(w, "    direct blocks:")
			for _, p := range raw.Direct {
				fmt.Fprintf(w, " %d", p)
			}
			fmt.Fprintln(w)

			if raw.Indirect == 0 {
				continue
			}
			fmt.Fprintf(w, "    indirect block: %d\n", raw.Indirect)

			entries, err := readIndirectBlock(d, raw.Indirect)
			if err != nil {
				issues = multierror.Append(issues, fmt.Errorf("inode %d indirect block %d: %w", inumber, raw.Indirect, err))
				continue
			}

			fmt.Fprintf(w, "    indirect data blocks:")
			for _, q := range entries {
				if q != 0 {
					fmt.Fprintf(w, " %d", q)
				}
			}
			fmt.Fprintln(w)
		}
	}

	return issues.ErrorOrNil()
}

func magicStatus(magic uint32) string {
	if magic == MagicNumber {
		return "valid"
	}
	return "INVALID"
}
