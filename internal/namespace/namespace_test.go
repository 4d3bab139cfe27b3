package namespace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/boundedtodo/internal/model"
	"github.com/idilsaglam/boundedtodo/internal/todolist"
)

func testID(b byte) model.ID {
	var id model.ID
	id[0], id[31] = b, 0x42
	return id
}

func namespaces(t *testing.T) map[string]Namespace {
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)
	return map[string]Namespace{
		"dir":    dir,
		"memory": NewMemory(),
	}
}

func TestNamespace_Initialize(t *testing.T) {
	for name, ns := range namespaces(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner := testID(1)

			require.NoError(t, ns.Initialize(ctx, owner))
			assert.ErrorIs(t, ns.Initialize(ctx, owner), ErrAlreadyInitialized)
			assert.ErrorIs(t, ns.Initialize(ctx, model.ID{}), ErrUnauthorized)

			err := ns.View(ctx, owner, func(l *todolist.List) error {
				assert.Equal(t, owner, l.Owner)
				assert.Equal(t, uint16(0), l.Count)
				assert.Empty(t, l.Slots)
				assert.Empty(t, l.FreeSlots)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestNamespace_MutatePersists(t *testing.T) {
	for name, ns := range namespaces(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner := testID(1)
			require.NoError(t, ns.Initialize(ctx, owner))

			err := ns.Mutate(ctx, owner, owner, func(l *todolist.List) error {
				_, err := l.Add(testID(10), "buy milk")
				return err
			})
			require.NoError(t, err)

			err = ns.View(ctx, owner, func(l *todolist.List) error {
				require.Len(t, l.Slots, 1)
				assert.Equal(t, "buy milk", l.Slots[0].Content)
				return nil
			})
			require.NoError(t, err)
		})
	}
}

func TestNamespace_FailedMutationIsNotPersisted(t *testing.T) {
	for name, ns := range namespaces(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner := testID(1)
			require.NoError(t, ns.Initialize(ctx, owner))
			require.NoError(t, ns.Mutate(ctx, owner, owner, func(l *todolist.List) error {
				_, err := l.Add(testID(10), "keep")
				return err
			}))

			boom := errors.New("boom")
			err := ns.Mutate(ctx, owner, owner, func(l *todolist.List) error {
				if err := l.Delete(testID(10)); err != nil {
					return err
				}
				return boom
			})
			assert.ErrorIs(t, err, boom)

			err = ns.Mutate(ctx, owner, owner, func(l *todolist.List) error {
				return l.MarkDone(testID(99))
			})
			assert.ErrorIs(t, err, todolist.ErrTodoNotFound)

			require.NoError(t, ns.View(ctx, owner, func(l *todolist.List) error {
				assert.Equal(t, uint16(1), l.Count)
				assert.Equal(t, "keep", l.Slots[0].Content)
				assert.Empty(t, l.FreeSlots)
				return nil
			}))
		})
	}
}

func TestNamespace_Unauthorized(t *testing.T) {
	for name, ns := range namespaces(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner, intruder := testID(1), testID(2)
			require.NoError(t, ns.Initialize(ctx, owner))

			called := false
			err := ns.Mutate(ctx, intruder, owner, func(*todolist.List) error {
				called = true
				return nil
			})
			assert.ErrorIs(t, err, ErrUnauthorized)
			assert.False(t, called)
		})
	}
}

func TestNamespace_NotInitialized(t *testing.T) {
	for name, ns := range namespaces(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner := testID(3)
			err := ns.Mutate(ctx, owner, owner, func(*todolist.List) error { return nil })
			assert.ErrorIs(t, err, ErrNotInitialized)
			err = ns.View(ctx, owner, func(*todolist.List) error { return nil })
			assert.ErrorIs(t, err, ErrNotInitialized)
		})
	}
}

func TestNamespace_Owners(t *testing.T) {
	for name, ns := range namespaces(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, ns.Initialize(ctx, testID(2)))
			require.NoError(t, ns.Initialize(ctx, testID(1)))

			owners, err := ns.Owners(ctx)
			require.NoError(t, err)
			assert.ElementsMatch(t, []model.ID{testID(1), testID(2)}, owners)
		})
	}
}

func TestMemory_OwnersOrdered(t *testing.T) {
	ctx := context.Background()
	ns := NewMemory()
	for _, b := range []byte{9, 3, 6} {
		require.NoError(t, ns.Initialize(ctx, testID(b)))
	}
	owners, err := ns.Owners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ID{testID(3), testID(6), testID(9)}, owners)
}

func TestDir_RegionIsPreSized(t *testing.T) {
	dir := t.TempDir()
	ns, err := NewDir(dir)
	require.NoError(t, err)
	ctx := context.Background()
	owner := testID(1)
	require.NoError(t, ns.Initialize(ctx, owner))

	path := filepath.Join(dir, owner.String()+regionSuffix)
	before, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, ns.Mutate(ctx, owner, owner, func(l *todolist.List) error {
		for i := 0; i < todolist.MaxTodoListLength; i++ {
			if _, err := l.Add(testID(byte(i+10)), "some content"); err != nil {
				return err
			}
		}
		return nil
	}))

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.Size(), after.Size())
}

func TestDir_OwnerMismatchIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	ns, err := NewDir(dir)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, ns.Initialize(ctx, testID(1)))

	// a region copied under another owner's name must not be accepted
	src := filepath.Join(dir, testID(1).String()+regionSuffix)
	dst := filepath.Join(dir, testID(2).String()+regionSuffix)
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o600))

	err = ns.View(ctx, testID(2), func(*todolist.List) error { return nil })
	assert.ErrorIs(t, err, todolist.ErrCorrupt)
}
