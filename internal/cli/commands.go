package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/idilsaglam/boundedtodo/internal/model"
	"github.com/idilsaglam/boundedtodo/internal/namespace"
	"github.com/idilsaglam/boundedtodo/internal/todolist"
	"github.com/idilsaglam/boundedtodo/internal/tui"
	"github.com/idilsaglam/boundedtodo/internal/ui"
)

const (
	maxSlots   = todolist.MaxTodoListLength
	maxContent = todolist.MaxContentLen
)

// owner returns the identity of the logged-in caller.
func (a *app) owner(ctx context.Context) (model.ID, int) {
	ti, err := a.creds.Token()
	if err != nil {
		ui.Fail("auth: " + err.Error())
		return model.ID{}, 1
	}
	if ti == nil {
		ui.Fail("no token found. Set TODO_TOKEN or run `todo auth login`")
		return model.ID{}, 2
	}
	owner := ti.Owner()
	if a.ephemeral {
		err := a.ns.Initialize(ctx, owner)
		if err != nil && !errors.Is(err, namespace.ErrAlreadyInitialized) {
			return model.ID{}, a.report("init", err)
		}
	}
	return owner, 0
}

func (a *app) doInit(ctx context.Context) int {
	owner, code := a.owner(ctx)
	if code != 0 {
		return code
	}
	// ephemeral lists were already created by owner
	if !a.ephemeral {
		if err := a.ns.Initialize(ctx, owner); err != nil {
			return a.report("init", err)
		}
	}
	ui.OK(fmt.Sprintf("list created (%d slots, %d bytes reserved)", maxSlots, todolist.MaxSize()))
	return 0
}

func (a *app) doAdd(ctx context.Context, content string) int {
	owner, code := a.owner(ctx)
	if code != 0 {
		return code
	}
	id, err := model.NewID()
	if err != nil {
		return a.report("add", err)
	}
	var slot int
	err = a.ns.Mutate(ctx, owner, owner, func(l *todolist.List) error {
		slot, err = l.Add(id, content)
		return err
	})
	if err != nil {
		return a.report("add", err)
	}
	ui.OK(fmt.Sprintf("added %s (slot %d)", id.Short(), slot))
	return 0
}

func (a *app) doDone(ctx context.Context, ref string) int {
	return a.mutateRef(ctx, "done", ref, func(l *todolist.List, id model.ID) error {
		return l.MarkDone(id)
	}, "marked done")
}

func (a *app) doEdit(ctx context.Context, ref, content string) int {
	return a.mutateRef(ctx, "edit", ref, func(l *todolist.List, id model.ID) error {
		return l.UpdateContent(id, content)
	}, "updated")
}

func (a *app) doRemove(ctx context.Context, ref string) int {
	return a.mutateRef(ctx, "rm", ref, func(l *todolist.List, id model.ID) error {
		return l.Delete(id)
	}, "removed")
}

// mutateRef resolves ref and applies op in the same exclusive call.
func (a *app) mutateRef(ctx context.Context, verb, ref string, op func(*todolist.List, model.ID) error, okMsg string) int {
	owner, code := a.owner(ctx)
	if code != 0 {
		return code
	}
	var id model.ID
	err := a.ns.Mutate(ctx, owner, owner, func(l *todolist.List) error {
		var err error
		if id, err = resolve(l, ref); err != nil {
			return err
		}
		return op(l, id)
	})
	if err != nil {
		return a.report(verb, err)
	}
	ui.OK(okMsg + " " + id.Short())
	return 0
}

func (a *app) doList(ctx context.Context) int {
	return a.view(ctx, "ls", func(l *todolist.List) {
		ui.Panel(listLines(l, a.cfg.Group))
	})
}

func (a *app) doSlots(ctx context.Context) int {
	return a.view(ctx, "slots", func(l *todolist.List) {
		ui.Panel(slotLines(l))
	})
}

func (a *app) doSize(ctx context.Context) int {
	return a.view(ctx, "size", func(l *todolist.List) {
		used, capacity := todolist.EncodedSize(l), todolist.MaxSize()
		ui.Panel([]string{
			fmt.Sprintf("encoded   %5d bytes", used),
			fmt.Sprintf("region    %5d bytes", capacity),
			ui.C(ui.Current().Muted, ui.ProgressBar(used, capacity, 28)),
			fmt.Sprintf("slots     %d/%d allocated, %d free", len(l.Slots), maxSlots, len(l.FreeSlots)),
		})
	})
}

func (a *app) doTUI(ctx context.Context) int {
	owner, code := a.owner(ctx)
	if code != 0 {
		return code
	}
	if err := a.ns.View(ctx, owner, func(*todolist.List) error { return nil }); err != nil {
		return a.report("tui", err)
	}
	if err := tui.Run(ctx, a.ns, owner); err != nil {
		return a.report("tui", err)
	}
	return 0
}

func (a *app) view(ctx context.Context, verb string, render func(*todolist.List)) int {
	owner, code := a.owner(ctx)
	if code != 0 {
		return code
	}
	err := a.ns.View(ctx, owner, func(l *todolist.List) error {
		render(l)
		return nil
	})
	if err != nil {
		return a.report(verb, err)
	}
	return 0
}

// report prints err and maps it to an exit code: 2 for errors the user can
// fix by changing the command, 1 otherwise.
func (a *app) report(verb string, err error) int {
	ui.Fail(verb + ": " + err.Error())
	switch {
	case errors.Is(err, todolist.ErrTodoNotFound):
		ui.Hint("run `todo ls` to see valid refs")
		return 2
	case errors.Is(err, ErrBadRef):
		ui.Hint("use a position from `todo ls` or a longer id prefix")
		return 2
	case errors.Is(err, todolist.ErrContentTooLong):
		ui.Hint(fmt.Sprintf("content is limited to %d bytes", maxContent))
		return 2
	case errors.Is(err, todolist.ErrListFull):
		ui.Hint(fmt.Sprintf("all %d slots are allocated; freed slots are reused but never returned", maxSlots))
		return 2
	case errors.Is(err, namespace.ErrNotInitialized):
		ui.Hint("run `todo init` first")
		return 2
	case errors.Is(err, namespace.ErrAlreadyInitialized):
		return 2
	}
	a.logger.Error("command failed", "cmd", verb, "err", err)
	return 1
}
