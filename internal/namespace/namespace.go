// Package namespace binds one record store to one owner identity and runs
// every mutation against it under exclusive access.
//
// A mutation loads the store, applies the caller's function and persists
// the result only when the function succeeds, so a failed operation never
// leaves a partial write behind.
package namespace

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/boundedtodo/internal/codec"
	"github.com/idilsaglam/boundedtodo/internal/model"
	"github.com/idilsaglam/boundedtodo/internal/todolist"
)

var (
	ErrUnauthorized       = errors.New("caller does not own this list")
	ErrNotInitialized     = errors.New("list not initialized")
	ErrAlreadyInitialized = errors.New("list already initialized")
)

// Namespace is an authenticated owner -> record store mapping.
type Namespace interface {
	// Initialize provisions an empty store owned by caller.
	Initialize(ctx context.Context, caller model.ID) error

	// Mutate runs fn on owner's store. It fails with ErrUnauthorized
	// unless caller is owner.
	Mutate(ctx context.Context, caller, owner model.ID, fn func(*todolist.List) error) error

	// View runs fn on a copy of owner's store. Changes made by fn are dropped.
	View(ctx context.Context, owner model.ID, fn func(*todolist.List) error) error

	// Owners lists the identities that have a store.
	Owners(ctx context.Context) ([]model.ID, error)
}

type options struct {
	codec  codec.Codec
	logger *log.Logger
}

type Option func(*options)

func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{
		codec:  codec.NewBinary(),
		logger: log.New(io.Discard),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func authorize(caller, owner model.ID) error {
	if caller.IsZero() || caller != owner {
		return ErrUnauthorized
	}
	return nil
}
