package fs

import "github.com/jpaulsen/simplefs/errs"

// allocateBlock returns the lowest-index free data block, marking it used,
// or 0 ("no block") if none remain. Lowest-index-first is deliberate: it
// makes reuse of freed holes deterministic and observable in tests (spec
// §4.2.9).
func (fsys *FileSystem) allocateBlock() uint32 {
	for b := fsys.meta.InodeBlocks + 1; b < fsys.meta.Blocks; b++ {
		if fsys.freeBlocks.Get(int(b)) {
			fsys.freeBlocks.Set(int(b), false)
			return b
		}
	}
	return 0
}

// resolveBlock maps logical block lb of raw to a physical block number.
// ok is false if lb is beyond the addressable range of an inode
// altogether (as opposed to simply unallocated, which returns phys == 0).
func (fsys *FileSystem) resolveBlock(raw *rawInode, lb uint32) (phys uint32, ok bool) {
	if lb < PointersPerInode {
		return raw.Direct[lb], true
	}

	idx := lb - PointersPerInode
	if idx >= PointersPerBlock {
		return 0, false
	}
	if raw.Indirect == 0 {
		return 0, true
	}

	entries, err := readIndirectBlock(fsys.disk, raw.Indirect)
	if err != nil {
		return 0, false
	}
	return entries[idx], true
}

// ensureBlock returns the physical block backing logical block lb of raw,
// allocating (and, for a fresh indirect block, zeroing) whatever is
// missing along the way. raw is mutated in place so the caller can persist
// the updated pointers even if a later logical block in the same Write
// call fails to allocate.
func (fsys *FileSystem) ensureBlock(raw *rawInode, lb uint32) (uint32, error) {
	if lb < PointersPerInode {
		if raw.Direct[lb] == 0 {
			b := fsys.allocateBlock()
			if b == 0 {
				return 0, errs.ErrNoFreeBlock
			}
			raw.Direct[lb] = b
		}
		return raw.Direct[lb], nil
	}

	idx := lb - PointersPerInode
	if idx >= PointersPerBlock {
		return 0, errs.ErrOffsetOutOfRange
	}

	if raw.Indirect == 0 {
		b := fsys.allocateBlock()
		if b == 0 {
			return 0, errs.ErrNoFreeBlock
		}
		if err := writeIndirectBlock(fsys.disk, b, [PointersPerBlock]uint32{}); err != nil {
			fsys.freeBlocks.Set(int(b), true)
			return 0, err
		}
		raw.Indirect = b
	}

	entries, err := readIndirectBlock(fsys.disk, raw.Indirect)
	if err != nil {
		return 0, err
	}

	if entries[idx] == 0 {
		b := fsys.allocateBlock()
		if b == 0 {
			return 0, errs.ErrNoFreeBlock
		}
		entries[idx] = b
		if err := writeIndirectBlock(fsys.disk, raw.Indirect, entries); err != nil {
			fsys.freeBlocks.Set(int(b), true)
			return 0, err
		}
	}
	return entries[idx], nil
}

// Read copies up to length bytes of inumber's contents, starting at
// offset, into buf. It stops early (without error) the moment it hits an
// unallocated block, returning however many bytes it managed to copy.
func (fsys *FileSystem) Read(inumber int, buf []byte, length, offset int) (int, error) {
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
		return -1, errs.ErrInvalidInode
	}
	if offset < 0 || uint32(offset) > raw.Size {
		return -1, errs.ErrOffsetOutOfRange
	}
	if uint32(offset) == raw.Size {
		return 0, nil
	}

	want := int(raw.Size) - offset
	if length < want {
		want = length
	}
	if want > len(buf) {
		want = len(buf)
	}
	if want <= 0 {
		return 0, nil
	}

	totalRead := 0
	curOffset := offset
	scratch := make([]byte, BlockSize)

	for totalRead < want {
		lb := uint32(curOffset / BlockSize)
		intra := curOffset % BlockSize

		phys, ok := fsys.resolveBlock(&raw, lb)
		if !ok || phys == 0 {
			break
		}

		if _, err := fsys.disk.ReadBlock(phys, scratch); err != nil {
			if totalRead > 0 {
				return totalRead, nil
			}
			return -1, err
		}

		chunk := BlockSize - intra
		if chunk > want-totalRead {
			chunk = want - totalRead
		}
		copy(buf[totalRead:totalRead+chunk], scratch[intra:intra+chunk])

		totalRead += chunk
		curOffset += chunk
	}

	return totalRead, nil
}

// Write copies up to length bytes from buf into inumber starting at
// offset, allocating direct and indirect blocks as needed and
// read-modify-writing any block the write doesn't fully cover. inumber's
// size becomes max(old size, offset+written) — overwriting existing bytes
// never shrinks the file. Allocation failure stops the loop; bytes already
// written (and the pointers allocated to hold them) remain persisted.
func (fsys *FileSystem) Write(inumber int, buf []byte, length, offset int) (int, error) {
	if !fsys.mounted {
		return -1, errs.ErrNotMounted
	}
	if inumber < 0 || uint32(inumber) >= fsys.meta.Inodes {
		return -1, errs.ErrInvalidInode
	}
	if offset < 0 || offset > MaxFileSize {
		return -1, errs.ErrOffsetOutOfRange
	}

	raw, err := readRawInode(fsys.disk, InodeNumber(inumber))
	if err != nil {
		return -1, err
	}
	if raw.Valid == 0 {
		return -1, errs.ErrInvalidInode
	}

	if length > len(buf) {
		length = len(buf)
	}
	if offset+length > MaxFileSize {
		length = MaxFileSize - offset
	}
	if length <= 0 {
		return 0, nil
	}

	totalWritten := 0
	curOffset := offset
	scratch := make([]byte, BlockSize)

	for totalWritten < length {
		lb := uint32(curOffset / BlockSize)
		intra := curOffset % BlockSize

		phys, err := fsys.ensureBlock(&raw, lb)
		if err != nil {
			fsys.logf("write: inode %d: %s", inumber, err)
			break
		}

		chunk := BlockSize - intra
		if chunk > length-totalWritten {
			chunk = length - totalWritten
		}

		if chunk == BlockSize {
			if _, err := fsys.disk.WriteBlock(phys, buf[totalWritten:totalWritten+chunk]); err != nil {
				break
			}
		} else {
			if _, err := fsys.disk.ReadBlock(phys, scratch); err != nil {
				break
			}
			copy(scratch[intra:intra+chunk], buf[totalWritten:totalWritten+chunk])
			if _, err := fsys.disk.WriteBlock(phys, scratch); err != nil {
				break
			}
		}

		totalWritten += chunk
		curOffset += chunk
	}

	newEnd := uint32(offset + totalWritten)
	if newEnd > raw.Size {
		raw.Size = newEnd
	}
	if err := writeRawInode(fsys.disk, InodeNumber(inumber), raw); err != nil {
		if totalWritten == 0 {
			return -1, err
		}
		return totalWritten, err
	}

	if totalWritten == 0 {
		return -1, nil
	}
	return totalWritten, nil
}
