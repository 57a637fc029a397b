package fs

import "github.com/jpaulsen/simplefs/errs"

// Create allocates the first free inode, initializes it to valid/empty
// (size 0, no direct or indirect pointers), and returns its number. It
// returns -1 if every inode is already allocated. No data blocks are
// allocated by Create.
func (fsys *FileSystem) Create() (int, error) {
	if !fsys.mounted {
		return -1, errs.ErrNotMounted
	}

	for i := uint32(0); i < fsys.meta.Inodes; i++ {
		if !fsys.freeInodes.Get(int(i)) {
			continue
		}

		if err := writeRawInode(fsys.disk, InodeNumber(i), rawInode{Valid: 1}); err != nil {
			return -1, err
		}
		fsys.freeInodes.Set(int(i), false)
		return int(i), nil
	}

	return -1, nil
}

// Remove releases every block owned by inumber (direct pointers, the
// indirect block, and everything the indirect block points to), marks the
// inode free, and returns true. It fails if inumber is out of range or
// already free.
func (fsys *FileSystem) Remove(inumber int) (bool, error) {
	if !fsys.mounted {
		return false, errs.ErrNotMounted
	}
	if inumber < 0 || uint32(inumber) >= fsys.meta.Inodes {
		return false, errs.ErrInvalidInode
	}

	raw, err := readRawInode(fsys.disk, InodeNumber(inumber))
	if err != nil {
		return false, err
	}
	if raw.Valid == 0 {
		return false, errs.ErrInvalidInode
	}

	for i, p := range raw.Direct {
		if p != 0 {
			fsys.freeBlocks.Set(int(p), true)
			raw.Direct[i] = 0
		}
	}

	if raw.Indirect != 0 {
		entries, err := readIndirectBlock(fsys.disk, raw.Indirect)
		if err != nil {
			return false, err
		}
		for _, q := range entries {
			if q != 0 {
				fsys.freeBlocks.Set(int(q), true)
			}
		}
		fsys.freeBlocks.Set(int(raw.Indirect), true)
		raw.Indirect = 0
	}

	raw.Size = 0
	raw.Valid = 0

	if err := writeRawInode(fsys.disk, InodeNumber(inumber), raw); err != nil {
		return false, err
	}
	fsys.freeInodes.Set(inumber, true)
	return true, nil
}

// Stat returns the size, in bytes, of inumber's contents, or -1 if the
// inode is not allocated. An in-range but unallocated inode is simply -1
// with no error; an out-of-range inumber, an unmounted file system, or a
// failed disk read is reported as an error.
func (fsys *FileSystem) Stat(inumber int) (int, error) {
	if !fsys.mounted {
		return -1, errs.ErrNotMounted
	}
	if inumber < 0 || uint32(inumber) >= fsys.meta.Inodes {
		return -1, errs.ErrInvalidInode
	}

	raw, err := readRawInode(fsys.disk, InodeNumber(inumber))
	if err != nil {
		return -1, err
	}
	if raw.Valid == 0 {
		return -1, nil
	}
	return int(raw.Size), nil
}
