package namespace

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/idilsaglam/boundedtodo/internal/model"
	"github.com/idilsaglam/boundedtodo/internal/todolist"
)

const defaultDegree = 8

var _ Namespace = (*Memory)(nil)

// Memory keeps encoded stores in a btree ordered by owner.
type Memory struct {
	mu   sync.Mutex
	tree *btree.BTree
	options
}

// item implements btree.Item.
type item struct {
	owner model.ID
	data  []byte
}

func (i *item) Less(than btree.Item) bool {
	other := than.(*item)
	return bytes.Compare(i.owner[:], other.owner[:]) < 0
}

func NewMemory(opts ...Option) *Memory {
	return &Memory{
		tree:    btree.New(defaultDegree),
		options: buildOptions(opts),
	}
}

func (m *Memory) Initialize(_ context.Context, caller model.ID) error {
	if caller.IsZero() {
		return ErrUnauthorized
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tree.Has(&item{owner: caller}) {
		return ErrAlreadyInitialized
	}
	data, err := m.codec.Encode(todolist.New(caller))
	if err != nil {
		return err
	}
	m.tree.ReplaceOrInsert(&item{owner: caller, data: data})
	m.logger.Debug("provisioned list", "owner", caller.Short())
	return nil
}

func (m *Memory) Mutate(ctx context.Context, caller, owner model.ID, fn func(*todolist.List) error) error {
	if err := authorize(caller, owner); err != nil {
		m.logger.Warn("rejected mutation", "caller", caller.Short(), "owner", owner.Short())
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.load(owner)
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	data, err := m.codec.Encode(l)
	if err != nil {
		return err
	}
	m.tree.ReplaceOrInsert(&item{owner: owner, data: data})
	return nil
}

func (m *Memory) View(_ context.Context, owner model.ID, fn func(*todolist.List) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.load(owner)
	if err != nil {
		return err
	}
	return fn(l)
}

func (m *Memory) Owners(_ context.Context) ([]model.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.ID, 0, m.tree.Len())
	m.tree.Ascend(func(i btree.Item) bool {
		out = append(out, i.(*item).owner)
		return true
	})
	return out, nil
}

func (m *Memory) load(owner model.ID) (*todolist.List, error) {
	got := m.tree.Get(&item{owner: owner})
	if got == nil {
		return nil, ErrNotInitialized
	}
	return m.codec.Decode(got.(*item).data)
}
