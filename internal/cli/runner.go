package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/boundedtodo/internal/auth"
	"github.com/idilsaglam/boundedtodo/internal/config"
	"github.com/idilsaglam/boundedtodo/internal/namespace"
	"github.com/idilsaglam/boundedtodo/internal/ui"
)

// Options carry the root flags and the collaborators a run uses. Nil
// collaborators are built from Config.
type Options struct {
	Config    *config.Config
	Namespace namespace.Namespace
	Creds     *auth.Store
	Logger    *log.Logger
	Stdin     io.Reader
}

type app struct {
	cfg    *config.Config
	ns     namespace.Namespace
	creds  *auth.Store
	logger *log.Logger
	stdin  io.Reader

	// ephemeral lists live only for this process, so they are created on
	// first use instead of by a separate init run.
	ephemeral bool
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	a, err := newApp(opt)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "init":
		return a.doInit(ctx)

	case "ls":
		return a.doList(ctx)

	case "slots":
		return a.doSlots(ctx)

	case "size":
		return a.doSize(ctx)

	case "tui":
		return a.doTUI(ctx)

	case "add":
		content := strings.TrimSpace(strings.Join(rest, " "))
		if content == "" {
			ui.Fail("usage: todo add <content...>")
			return 2
		}
		return a.doAdd(ctx, content)

	case "done":
		if len(rest) != 1 {
			ui.Fail("usage: todo done <ref>")
			return 2
		}
		return a.doDone(ctx, rest[0])

	case "edit":
		content := strings.TrimSpace(strings.Join(rest[min(1, len(rest)):], " "))
		if len(rest) < 2 || content == "" {
			ui.Fail("usage: todo edit <ref> <content...>")
			return 2
		}
		return a.doEdit(ctx, rest[0], content)

	case "rm":
		if len(rest) != 1 {
			ui.Fail("usage: todo rm <ref>")
			return 2
		}
		return a.doRemove(ctx, rest[0])

	case "auth":
		if len(rest) == 0 {
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
		switch rest[0] {
		case "login":
			return a.doAuthLogin()
		case "logout":
			return a.doAuthLogout()
		case "status":
			return a.doAuthStatus()
		case "whoami":
			return a.doAuthWhoAmI()
		default:
			ui.Fail("usage: todo auth <login|logout|status|whoami>")
			return 2
		}
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(ui.Stderr())
	PrintHelp()
	return 2
}

func newApp(opt Options) (*app, error) {
	cfg := opt.Config
	if cfg == nil {
		cfg = config.FromEnv()
	}
	cfg.FillDefaults()

	a := &app{
		cfg:    cfg,
		ns:     opt.Namespace,
		creds:  opt.Creds,
		logger: opt.Logger,
		stdin:  opt.Stdin,
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard)
	}
	if a.stdin == nil {
		a.stdin = os.Stdin
	}
	if a.creds == nil {
		s, err := auth.NewStore(cfg.CredsDir)
		if err != nil {
			return nil, err
		}
		a.creds = s
	}
	if a.ns == nil {
		nsOpts := []namespace.Option{namespace.WithLogger(a.logger)}
		if cfg.Memory {
			a.ns = namespace.NewMemory(nsOpts...)
			a.ephemeral = true
		} else {
			d, err := namespace.NewDir(cfg.DataDir, nsOpts...)
			if err != nil {
				return nil, err
			}
			a.ns = d
		}
	}
	return a, nil
}

func PrintHelp() {
	fmt.Fprintf(ui.Stdout(), `todo - a bounded todo list (%d slots, %d bytes per item)

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  init                     Create your list (once per token)
  add <content...>         Add an item; reuses the most recently freed slot
  ls                       List live items
  done <ref>               Mark an item done
  edit <ref> <content...>  Replace an item's content
  rm <ref>                 Delete an item and free its slot
  slots                    Show every slot, including freed ones
  size                     Show encoded size against the region size
  tui                      Interactive list
  auth <login|logout|status|whoami>   Token authentication

A <ref> is a 1-based position from ls, or a hex id prefix of 4+ chars.

Examples:
  todo init
  todo add "Buy milk"
  todo done 1
  todo edit 1 "Buy oat milk"
  todo rm 3f2a
`, maxSlots, maxContent)
}
