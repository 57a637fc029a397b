package fs

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/hashicorp/go-multierror"
	"github.com/jpaulsen/simplefs/disk"
	"github.com/jpaulsen/simplefs/errs"
)

// Mount binds fsys to d, verifying the superblock and rebuilding both free
// bitmaps from the inodes actually present on disk. It fails without
// changing fsys or d if d is already mounted or the superblock is
// corrupt; every invariant violation found is reported together via a
// single *multierror.Error instead of stopping at the first one.
//
// Grounded on drivers/unixv1/driver.go's Mount, which reads a header
// straight off the stream with encoding/binary before trusting it; the
// free-bitmap rebuild (the part the teacher doesn't need, since its
// format persists bitmaps on disk) is grounded on spec.md §4.2.2 step 6
// and drivers/common/allocatormap.go's bitmap-based allocator.
func Mount(fsys *FileSystem, d *disk.Disk) error {
	if d.Mounted() {
		return errs.ErrAlreadyMounted
	}

	sb, err := readSuperBlock(d)
	if err != nil {
		return err
	}

	if verr := validateSuperBlock(sb, d.Blocks); verr != nil {
		return verr
	}

	fsys.meta = sb
	fsys.disk = d
	fsys.freeInodes = bitmap.New(int(sb.Inodes))
	fsys.freeBlocks = bitmap.New(int(sb.Blocks))

	if err := fsys.rebuildFreeInodes(); err != nil {
		fsys.reset()
		return err
	}
	if err := fsys.rebuildFreeBlocks(); err != nil {
		fsys.reset()
		return err
	}

	d.SetMounted(true)
	fsys.mounted = true
	fsys.logf("mounted: %d blocks, %d inode blocks, %d inodes", sb.Blocks, sb.InodeBlocks, sb.Inodes)
	return nil
}

// validateSuperBlock checks the invariants from spec §3, collecting every
// violation instead of returning on the first.
func validateSuperBlock(sb SuperBlock, diskBlocks uint32) error {
	var result *multierror.Error

	if sb.Magic != MagicNumber {
		result = multierror.Append(result, errs.ErrBadMagic)
	}
	if sb.Blocks != diskBlocks {
		result = multierror.Append(result, errs.ErrLayoutInvalid.WithMessage(
			fmt.Sprintf("superblock blocks=%d does not match disk blocks=%d", sb.Blocks, diskBlocks)))
	}

	expectedInodeBlocks := ceilDiv(sb.Blocks, 10)
	if sb.InodeBlocks != expectedInodeBlocks {
		result = multierror.Append(result, errs.ErrLayoutInvalid.WithMessage(
			fmt.Sprintf("inode_blocks=%d, expected ceil(blocks/10)=%d", sb.InodeBlocks, expectedInodeBlocks)))
	}
	if 1+sb.InodeBlocks > sb.Blocks {
		result = multierror.Append(result, errs.ErrLayoutInvalid.WithMessage(
			"1+inode_blocks exceeds total blocks"))
	}
	if sb.Inodes != sb.InodeBlocks*InodesPerBlock {
		result = multierror.Append(result, errs.ErrLayoutInvalid.WithMessage(
			fmt.Sprintf("inodes=%d, expected inode_blocks*%d=%d", sb.Inodes, InodesPerBlock, sb.InodeBlocks*InodesPerBlock)))
	}

	return result.ErrorOrNil()
}

func (fsys *FileSystem) rebuildFreeInodes() error {
	for tableBlock := uint32(1); tableBlock <= fsys.meta.InodeBlocks; tableBlock++ {
		inodes, err := readInodeBlock(fsys.disk, tableBlock)
		if err != nil {
			return err
		}
		for j, raw := range inodes {
			inumber := (tableBlock-1)*InodesPerBlock + uint32(j)
			fsys.freeInodes.Set(int(inumber), raw.Valid == 0)
		}
	}
	return nil
}

// rebuildFreeBlocks derives the free-block bitmap purely from what's
// reachable through valid inodes. It never infers "free" from "all
// zeros": a legitimately allocated data block full of null bytes must
// stay marked used (spec §9's "no-zero-detection" note).
func (fsys *FileSystem) rebuildFreeBlocks() error {
	for b := uint32(0); b < 1+fsys.meta.InodeBlocks; b++ {
		fsys.freeBlocks.Set(int(b), false)
	}
	for b := 1 + fsys.meta.InodeBlocks; b < fsys.meta.Blocks; b++ {
		fsys.freeBlocks.Set(int(b), true)
	}

	for tableBlock := uint32(1); tableBlock <= fsys.meta.InodeBlocks; tableBlock++ {
		inodes, err := readInodeBlock(fsys.disk, tableBlock)
		if err != nil {
			return err
		}
		for _, raw := range inodes {
			if raw.Valid == 0 {
				continue
			}
			for _, p := range raw.Direct {
				if p != 0 {
					fsys.freeBlocks.Set(int(p), false)
				}
			}
			if raw.Indirect != 0 {
				fsys.freeBlocks.Set(int(raw.Indirect), false)
				entries, err := readIndirectBlock(fsys.disk, raw.Indirect)
				if err != nil {
					return err
				}
				for _, q := range entries {
					if q != 0 {
						fsys.freeBlocks.Set(int(q), false)
					}
				}
			}
		}
	}
	return nil
}

func (fsys *FileSystem) reset() {
	fsys.freeInodes = nil
	fsys.freeBlocks = nil
	fsys.meta = SuperBlock{}
	fsys.disk = nil
}

// Unmount releases fsys's bitmaps and the disk's mount flag. Unmounting an
// already-unmounted FileSystem is a no-op.
func Unmount(fsys *FileSystem) error {
	if !fsys.mounted {
		return nil
	}

	fsys.disk.SetMounted(false)
	fsys.mounted = false
	fsys.freeInodes = nil
	fsys.freeBlocks = nil
	fsys.disk = nil
	return nil
}
