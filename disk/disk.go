// Package disk implements the block-granular emulator SimpleFS's file
// system layer is built on: a backing stream presented as a fixed number
// of fixed-size blocks, with read/write counters for diagnostics and a
// single mount flag the fs package uses to enforce exclusive access.
//
// Grounded on the teacher's drivers/common/blockstream.go BlockStream type:
// same seek-then-read/write shape, same short-read/short-write-is-failure
// contract. Unlike the teacher, SimpleFS has exactly one block size
// (BlockSize) and the emulator owns the backing file's lifecycle itself
// (Open/Close) instead of being handed an already-open stream.
package disk

import (
	"io"
	"log"
	"os"

	"github.com/jpaulsen/simplefs/errs"
)

// BlockSize is the fixed size, in bytes, of every block on a SimpleFS disk.
const BlockSize = 4096

// Disk is a handle to a backing store presented as Blocks numbered
// [0, Blocks). It is not safe for concurrent use; SimpleFS is
// single-threaded by design (see spec §5).
type Disk struct {
	Blocks uint32
	Reads  uint64
	Writes uint64

	stream  io.ReadWriteSeeker
	closer  io.Closer
	mounted bool
	closed  bool
	logger  *log.Logger
}

// Open creates or opens path read-write, truncates or extends it to exactly
// blocks*BlockSize bytes, and returns a Disk ready for block I/O. The
// returned Disk is unmounted.
func Open(path string, blocks uint32) (*Disk, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	size := int64(blocks) * BlockSize
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, err
	}

	return &Disk{
		Blocks: blocks,
		stream: f,
		closer: f,
		logger: log.Default(),
	}, nil
}

// NewFromStream wraps an already-open stream (typically an in-memory
// io.ReadWriteSeeker backed by github.com/xaionaro-go/bytesextra in tests)
// as a Disk of the given number of blocks. The stream is assumed to already
// be exactly blocks*BlockSize bytes long.
func NewFromStream(stream io.ReadWriteSeeker, blocks uint32) *Disk {
	d := &Disk{
		Blocks: blocks,
		stream: stream,
		logger: log.Default(),
	}
	if closer, ok := stream.(io.Closer); ok {
		d.closer = closer
	}
	return d
}

// SetLogger overrides the destination for Close's diagnostic line, which
// otherwise goes to log.Default().
func (d *Disk) SetLogger(logger *log.Logger) {
	d.logger = logger
}

// Mounted reports whether the fs package currently considers this disk
// mounted. It's exported so the fs package (a different package) can read
// it, but by convention only the fs package ever calls SetMounted.
func (d *Disk) Mounted() bool {
	return d.mounted
}

// SetMounted is called exclusively by the fs package to acquire or release
// its exclusive binding to this disk. Nothing in the disk package itself
// reads or writes this flag, other than exposing it via Mounted.
func (d *Disk) SetMounted(mounted bool) {
	d.mounted = mounted
}

// Close releases the backing file and logs the accumulated read/write
// counts. Closing an already-closed Disk is a no-op.
func (d *Disk) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var err error
	if d.closer != nil {
		err = d.closer.Close()
	}
	d.logger.Printf("disk closed: %d reads, %d writes", d.Reads, d.Writes)
	return err
}

func (d *Disk) checkBounds(block uint32, buf []byte) error {
	if d.closed {
		return errs.ErrDiskClosed
	}
	if block >= d.Blocks {
		return errs.DiskoError("block out of range").WithMessage(
			"block must be less than total block count")
	}
	if buf == nil {
		return errs.DiskoError("nil buffer").WithMessage("read/write buffer must not be nil")
	}
	return nil
}

// ReadBlock reads exactly BlockSize bytes from the given block into buf,
// which must be at least BlockSize bytes long. A partial read is reported
// as errs.ErrShortIO. On success, Reads is incremented.
func (d *Disk) ReadBlock(block uint32, buf []byte) (int, error) {
	if err := d.checkBounds(block, buf); err != nil {
		return -1, err
	}
	if len(buf) < BlockSize {
		return -1, errs.DiskoError("buffer too small").WithMessage("buffer must be at least BlockSize bytes")
	}

	if _, err := d.stream.Seek(int64(block)*BlockSize, io.SeekStart); err != nil {
		return -1, err
	}

	n, err := io.ReadFull(d.stream, buf[:BlockSize])
	if err != nil {
		return -1, errs.ErrShortIO.Wrap(err)
	}
	if n != BlockSize {
		return -1, errs.ErrShortIO
	}

	d.Reads++
	return BlockSize, nil
}

// WriteBlock writes exactly BlockSize bytes from buf to the given block.
// buf must be at least BlockSize bytes long; any excess is ignored. A
// partial write is reported as errs.ErrShortIO. On success, Writes is
// incremented.
func (d *Disk) WriteBlock(block uint32, buf []byte) (int, error) {
	if err := d.checkBounds(block, buf); err != nil {
		return -1, err
	}
	if len(buf) < BlockSize {
		return -1, errs.DiskoError("buffer too small").WithMessage("buffer must be at least BlockSize bytes")
	}

	if _, err := d.stream.Seek(int64(block)*BlockSize, io.SeekStart); err != nil {
		return -1, err
	}

	n, err := d.stream.Write(buf[:BlockSize])
	if err != nil {
		return -1, errs.ErrShortIO.Wrap(err)
	}
	if n != BlockSize {
		return -1, errs.ErrShortIO
	}

	d.Writes++
	return BlockSize, nil
}
