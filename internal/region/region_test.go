package region

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.region")

	require.NoError(t, Provision(context.Background(), path, 64, []byte("hello")))
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(HeaderSize+64), fi.Size())

	assert.ErrorIs(t, Provision(context.Background(), path, 64, nil), ErrRegionExists)
}

func TestProvision_TooSmall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.region")
	assert.ErrorIs(t, Provision(context.Background(), path, 4, []byte("hello")), ErrRegionTooSmall)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRegion_ReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.region")
	require.NoError(t, Provision(context.Background(), path, 16, []byte("hello")))

	r, err := Open(context.Background(), path, 16)
	require.NoError(t, err)
	defer r.Close()

	body, err := r.Read()
	require.NoError(t, err)
	assert.Len(t, body, 16)
	assert.Equal(t, []byte("hello"), body[:5])
	assert.Equal(t, make([]byte, 11), body[5:])

	require.NoError(t, r.Write([]byte("hi")))
	body, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), body[:2])
	assert.Equal(t, make([]byte, 14), body[2:])

	assert.ErrorIs(t, r.Write(make([]byte, 17)), ErrRegionTooSmall)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope"), 16)
	assert.ErrorIs(t, err, ErrNoRegion)
}

func TestOpen_WrongCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.region")
	require.NoError(t, Provision(context.Background(), path, 16, nil))

	_, err := Open(context.Background(), path, 32)
	assert.ErrorIs(t, err, ErrBadRegion)

	// the failed open must not keep the lock
	r, err := Open(context.Background(), path, 16)
	require.NoError(t, err)
	assert.NoError(t, r.Close())
}

func TestOpen_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.region")
	require.NoError(t, os.WriteFile(path, make([]byte, HeaderSize+16), 0o600))

	_, err := Open(context.Background(), path, 16)
	assert.ErrorIs(t, err, ErrBadRegion)
}

func TestOpen_WaitsForLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.region")
	require.NoError(t, Provision(context.Background(), path, 16, nil))

	first, err := Open(context.Background(), path, 16)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = Open(ctx, path, 16)
	assert.Error(t, err)

	require.NoError(t, first.Close())
	second, err := Open(context.Background(), path, 16)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestRegion_WriteReplacesWholeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.region")
	require.NoError(t, Provision(context.Background(), path, 16, []byte("hello")))

	r, err := Open(context.Background(), path, 16)
	require.NoError(t, err)
	require.NoError(t, r.Write([]byte("world")))
	require.NoError(t, r.Write([]byte("again")))
	require.NoError(t, r.Close())

	_, err = os.Stat(path + shadowSuffix)
	assert.True(t, os.IsNotExist(err), "shadow file left behind")

	r, err = Open(context.Background(), path, 16)
	require.NoError(t, err)
	defer r.Close()
	body, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte("again"), body[:5])
}

func TestRegion_StaleShadowIsOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.region")
	require.NoError(t, os.WriteFile(path+shadowSuffix, []byte("torn"), 0o600))

	require.NoError(t, Provision(context.Background(), path, 16, []byte("hello")))
	require.NoError(t, os.WriteFile(path+shadowSuffix, []byte("torn"), 0o600))

	r, err := Open(context.Background(), path, 16)
	require.NoError(t, err)
	defer r.Close()
	require.NoError(t, r.Write([]byte("hi")))
	body, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), body[:2])
}

func TestProvision_FailureLeavesNoRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.region")
	// a directory in the shadow's place makes the write fail
	require.NoError(t, os.Mkdir(path+shadowSuffix, 0o700))

	assert.Error(t, Provision(context.Background(), path, 16, []byte("hello")))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "half written region left behind")

	require.NoError(t, os.Remove(path+shadowSuffix))
	require.NoError(t, Provision(context.Background(), path, 16, []byte("hello")))

	r, err := Open(context.Background(), path, 16)
	require.NoError(t, err)
	defer r.Close()
	body, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), body[:5])
}

func TestProvision_HoldsLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.region")

	held := flock.New(path + lockSuffix)
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, Provision(ctx, path, 16, nil))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, held.Unlock())
	assert.NoError(t, Provision(context.Background(), path, 16, nil))
}
