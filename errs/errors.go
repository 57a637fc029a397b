// Package errs defines the sentinel errors SimpleFS returns from its disk
// and file-system layers, plus a small envelope type for attaching context
// to them without losing the ability to compare against the sentinel with
// errors.Is.
package errs

import "fmt"

// DriverError is the interface satisfied by every error SimpleFS returns
// from disk or fs operations. It's always possible to recover the original
// sentinel with errors.Is, even after WithMessage or Wrap has decorated it.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	Wrap(err error) DriverError
}

// DiskoError is a sentinel error, comparable with ==, that identifies one
// kind of failure independent of any particular message or wrapped cause.
type DiskoError string

const (
	// ErrAlreadyMounted is returned by Mount when the disk is already
	// mounted. Format refuses a mounted disk by returning false instead.
	ErrAlreadyMounted = DiskoError("disk is already mounted")
	// ErrNotMounted is returned by Create, Remove, Stat, Read, and Write when
	// called before Mount.
	ErrNotMounted = DiskoError("file system is not mounted")
	// ErrBadMagic is returned by Mount when block 0 doesn't carry the magic
	// number.
	ErrBadMagic = DiskoError("superblock magic number is invalid")
	// ErrLayoutInvalid is returned by Mount when the superblock's geometry
	// fields don't satisfy the on-disk layout invariants.
	ErrLayoutInvalid = DiskoError("superblock layout invariants violated")
	// ErrNoFreeInode is defined for callers that want a sentinel for inode
	// exhaustion; Create itself signals it by returning (-1, nil), matching
	// spec §4.2.4, rather than returning this error.
	ErrNoFreeInode = DiskoError("no free inode available")
	// ErrNoFreeBlock is returned internally by ensureBlock when the allocator
	// finds every data block in use; Write surfaces it only as a short write,
	// never to a caller directly.
	ErrNoFreeBlock = DiskoError("no free data block available")
	// ErrInvalidInode is returned by Remove, Read, and Write when the inode
	// number is out of range or the inode is not currently allocated, and by
	// Stat when the inode number is out of range.
	ErrInvalidInode = DiskoError("inode number is out of range or not allocated")
	// ErrOffsetOutOfRange is returned by Read when the requested offset is
	// past the end of the file.
	ErrOffsetOutOfRange = DiskoError("offset is past the end of the file")
	// ErrShortIO is returned by the disk layer when a read or write
	// transfers fewer bytes than a full block.
	ErrShortIO = DiskoError("short read or write to backing store")
	// ErrDiskClosed is returned by any disk operation attempted after Close.
	ErrDiskClosed = DiskoError("disk is closed")
)

// Error implements the error interface.
func (e DiskoError) Error() string {
	return string(e)
}

// WithMessage attaches additional context to the sentinel without losing
// the ability to match it with errors.Is.
func (e DiskoError) WithMessage(message string) DriverError {
	return customDriverError{
		message:  fmt.Sprintf("%s: %s", e.Error(), message),
		sentinel: e,
	}
}

// Wrap attaches a lower-level cause (e.g. an I/O error from the backing
// file) to the sentinel. Both the sentinel and the wrapped cause remain
// reachable through errors.Is / errors.Unwrap.
func (e DiskoError) Wrap(err error) DriverError {
	return customDriverError{
		message:  fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		sentinel: e,
		wrapped:  err,
	}
}

// -----------------------------------------------------------------------------

type customDriverError struct {
	message  string
	sentinel DiskoError
	wrapped  error
}

// Error implements the error interface.
func (e customDriverError) Error() string {
	return e.message
}

// Is lets errors.Is(err, SomeSentinel) succeed regardless of how many times
// the sentinel has been decorated with WithMessage or Wrap.
func (e customDriverError) Is(target error) bool {
	sentinel, ok := target.(DiskoError)
	return ok && sentinel == e.sentinel
}

// Unwrap exposes the wrapped cause, if any, so errors.Is/errors.As can
// reach it too.
func (e customDriverError) Unwrap() error {
	return e.wrapped
}

func (e customDriverError) WithMessage(message string) DriverError {
	return customDriverError{
		message:  fmt.Sprintf("%s: %s", e.message, message),
		sentinel: e.sentinel,
		wrapped:  e.wrapped,
	}
}

func (e customDriverError) Wrap(err error) DriverError {
	return customDriverError{
		message:  fmt.Sprintf("%s: %s", e.message, err.Error()),
		sentinel: e.sentinel,
		wrapped:  err,
	}
}
