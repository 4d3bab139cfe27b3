package namespace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/boundedtodo/internal/model"
	"github.com/idilsaglam/boundedtodo/internal/region"
	"github.com/idilsaglam/boundedtodo/internal/todolist"
)

const regionSuffix = ".region"

var _ Namespace = (*Dir)(nil)

// Dir keeps one region file per owner in a directory.
type Dir struct {
	dir string
	options
}

func NewDir(dir string, opts ...Option) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Dir{dir: dir, options: buildOptions(opts)}, nil
}

func (d *Dir) path(owner model.ID) string {
	return filepath.Join(d.dir, owner.String()+regionSuffix)
}

func (d *Dir) Initialize(ctx context.Context, caller model.ID) error {
	if caller.IsZero() {
		return ErrUnauthorized
	}
	body, err := d.codec.Encode(todolist.New(caller))
	if err != nil {
		return err
	}
	err = region.Provision(ctx, d.path(caller), todolist.MaxSize(), body)
	if errors.Is(err, region.ErrRegionExists) {
		return ErrAlreadyInitialized
	}
	if err != nil {
		return err
	}
	d.logger.Debug("provisioned region", "owner", caller.Short(), "bytes", todolist.MaxSize())
	return nil
}

func (d *Dir) Mutate(ctx context.Context, caller, owner model.ID, fn func(*todolist.List) error) error {
	if err := authorize(caller, owner); err != nil {
		d.logger.Warn("rejected mutation", "caller", caller.Short(), "owner", owner.Short())
		return err
	}
	return d.with(ctx, owner, func(r *region.Region, l *todolist.List) error {
		if err := fn(l); err != nil {
			return err
		}
		data, err := d.codec.Encode(l)
		if err != nil {
			return err
		}
		if err := r.Write(data); err != nil {
			return err
		}
		d.logger.Debug("stored list", "owner", owner.Short(), "live", l.Count,
			"slots", len(l.Slots), "free", len(l.FreeSlots), "bytes", len(data))
		return nil
	})
}

func (d *Dir) View(ctx context.Context, owner model.ID, fn func(*todolist.List) error) error {
	return d.with(ctx, owner, func(_ *region.Region, l *todolist.List) error {
		return fn(l)
	})
}

func (d *Dir) with(ctx context.Context, owner model.ID, fn func(*region.Region, *todolist.List) error) error {
	r, err := region.Open(ctx, d.path(owner), todolist.MaxSize())
	if errors.Is(err, region.ErrNoRegion) {
		return ErrNotInitialized
	}
	if err != nil {
		return err
	}
	defer r.Close()

	body, err := r.Read()
	if err != nil {
		return err
	}
	l, err := d.codec.Decode(body)
	if err != nil {
		return fmt.Errorf("region %s: %w", filepath.Base(r.Path()), err)
	}
	if l.Owner != owner {
		return fmt.Errorf("region %s: %w: owned by %s", filepath.Base(r.Path()), todolist.ErrCorrupt, l.Owner.Short())
	}
	return fn(r, l)
}

func (d *Dir) Owners(ctx context.Context) ([]model.ID, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []model.ID
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, regionSuffix) {
			continue
		}
		id, err := model.ParseID(strings.TrimSuffix(name, regionSuffix))
		if err != nil {
			d.logger.Warn("skipping stray region file", "name", name)
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
