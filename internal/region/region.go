// Package region manages fixed-size region files. A region is sized once, at
// provisioning time, and every later write must fit inside it.
package region

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// Magic opens every region file.
	Magic      = "TODOLST1"
	HeaderSize = len(Magic)

	lockSuffix     = ".lock"
	shadowSuffix   = ".shadow"
	lockRetryDelay = 10 * time.Millisecond
)

var (
	ErrRegionExists   = errors.New("region already exists")
	ErrNoRegion       = errors.New("region does not exist")
	ErrRegionTooSmall = errors.New("data does not fit region")
	ErrBadRegion      = errors.New("not a region file")
	ErrLocked         = errors.New("region is locked")
)

// Region is an open, exclusively locked region file.
type Region struct {
	path     string
	capacity int
	fd       *os.File
	lock     *flock.Flock
}

// Provision creates a region at path with room for capacity body bytes and
// writes body into it. The file is never resized afterwards.
//
// The region is filled in a shadow file and linked into place under the
// region lock, so Open never sees it half written and a failed attempt
// leaves nothing behind.
func Provision(ctx context.Context, path string, capacity int, body []byte) error {
	if len(body) > capacity {
		return fmt.Errorf("%w: %d > %d", ErrRegionTooSmall, len(body), capacity)
	}
	if _, err := os.Stat(path); err == nil {
		return ErrRegionExists
	}

	lock, err := acquire(ctx, path)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	shadow := path + shadowSuffix
	if err := writeShadow(shadow, image(capacity, body)); err != nil {
		return err
	}
	defer os.Remove(shadow)

	// link fails if path exists, unlike rename
	if err := os.Link(shadow, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrRegionExists
		}
		return fmt.Errorf("create region: %w", err)
	}
	return syncDir(filepath.Dir(path))
}

// Open locks and opens the region at path. It waits for the lock until ctx
// is done.
func Open(ctx context.Context, path string, capacity int) (*Region, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoRegion
		}
		return nil, fmt.Errorf("stat region: %w", err)
	}

	lock, err := acquire(ctx, path)
	if err != nil {
		return nil, err
	}

	r, err := open(path, capacity, lock)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return r, nil
}

func open(path string, capacity int, lock *flock.Flock) (*Region, error) {
	fd, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open region: %w", err)
	}
	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("stat region: %w", err)
	}
	if fi.Size() != int64(HeaderSize+capacity) {
		fd.Close()
		return nil, fmt.Errorf("%w: size %d, want %d", ErrBadRegion, fi.Size(), HeaderSize+capacity)
	}
	magic := make([]byte, HeaderSize)
	if _, err := io.ReadFull(fd, magic); err != nil || string(magic) != Magic {
		fd.Close()
		return nil, fmt.Errorf("%w: bad magic", ErrBadRegion)
	}
	return &Region{path: path, capacity: capacity, fd: fd, lock: lock}, nil
}

func (r *Region) Path() string  { return r.path }
func (r *Region) Capacity() int { return r.capacity }

// Read returns the whole body, padding included.
func (r *Region) Read() ([]byte, error) {
	buf := make([]byte, r.capacity)
	if _, err := r.fd.ReadAt(buf, int64(HeaderSize)); err != nil {
		return nil, fmt.Errorf("read region: %w", err)
	}
	return buf, nil
}

// Write replaces the body with data, zero padded to capacity. The new
// image is synced to a shadow file and renamed over the region, so a crash
// leaves either the old body or the new one.
func (r *Region) Write(data []byte) error {
	if len(data) > r.capacity {
		return fmt.Errorf("%w: %d > %d", ErrRegionTooSmall, len(data), r.capacity)
	}
	shadow := r.path + shadowSuffix
	if err := writeShadow(shadow, image(r.capacity, data)); err != nil {
		return err
	}
	if err := os.Rename(shadow, r.path); err != nil {
		_ = os.Remove(shadow)
		return fmt.Errorf("replace region: %w", err)
	}

	// the old descriptor still points at the replaced file
	fd, err := os.OpenFile(r.path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("reopen region: %w", err)
	}
	r.fd.Close()
	r.fd = fd
	return syncDir(filepath.Dir(r.path))
}

// Close closes the file and releases the lock.
func (r *Region) Close() error {
	err := r.fd.Close()
	if uerr := r.lock.Unlock(); err == nil {
		err = uerr
	}
	return err
}

func acquire(ctx context.Context, path string) (*flock.Flock, error) {
	lock := flock.New(path + lockSuffix)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock region: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return lock, nil
}

// image is the full file content: header then zero-padded body.
func image(capacity int, body []byte) []byte {
	buf := make([]byte, HeaderSize+capacity)
	copy(buf, Magic)
	copy(buf[HeaderSize:], body)
	return buf
}

// writeShadow writes and syncs buf to path, removing it on failure.
func writeShadow(path string, buf []byte) (err error) {
	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create shadow: %w", err)
	}
	defer func() {
		if cerr := fd.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close shadow: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	if _, err := fd.Write(buf); err != nil {
		return fmt.Errorf("write shadow: %w", err)
	}
	if err := fd.Sync(); err != nil {
		return fmt.Errorf("sync shadow: %w", err)
	}
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open dir: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync dir: %w", err)
	}
	return nil
}
