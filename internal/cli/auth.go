package cli

import (
	"fmt"
	"time"

	"github.com/idilsaglam/boundedtodo/internal/auth"
	"github.com/idilsaglam/boundedtodo/internal/ui"
)

func (a *app) doAuthLogin() int {
	fmt.Fprint(ui.Stdout(), "Paste your token: ")
	var token string
	if _, err := fmt.Fscanln(a.stdin, &token); err != nil {
		ui.Fail("read token: " + err.Error())
		return 1
	}
	if err := a.creds.SetToken(token, nil); err != nil {
		ui.Fail("save token: " + err.Error())
		return 1
	}
	ui.OK("logged in as " + auth.OwnerOf(token).Short())
	return 0
}

func (a *app) doAuthLogout() int {
	ti, _ := a.creds.Token()
	if ti != nil && ti.Source == "env" {
		ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
		return 0
	}
	if err := a.creds.DeleteToken(); err != nil {
		ui.Fail("logout: " + err.Error())
		return 1
	}
	ui.OK("logged out")
	return 0
}

func (a *app) doAuthStatus() int {
	out := ui.Stdout()
	ti, err := a.creds.Token()
	if err != nil {
		ui.Fail("status: " + err.Error())
		return 1
	}
	if ti == nil {
		fmt.Fprintln(out, ui.C(ui.Current().Muted, "not logged in"))
		fmt.Fprintln(out, "Run: todo auth login")
		return 0
	}
	fmt.Fprintf(out, "source: %s\n", ti.Source)
	fmt.Fprintf(out, "owner: %s\n", ti.Owner())
	if ti.ExpiresAt != nil {
		fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		fmt.Fprintln(out, "expires: (unknown)")
	}
	fmt.Fprintln(out, "env override: "+auth.EnvToken)
	return 0
}

// whoami decodes a JWT payload locally (unsigned); opaque tokens print the owner only.
func (a *app) doAuthWhoAmI() int {
	out := ui.Stdout()
	ti, _ := a.creds.Token()
	if ti == nil {
		ui.Fail("not logged in. Run: todo auth login")
		return 2
	}
	fmt.Fprintln(out, "owner:", ti.Owner())
	if p, ok := auth.JWTPayload(ti.Token); ok {
		fmt.Fprintln(out, "JWT payload:")
		fmt.Fprintln(out, p)
		return 0
	}
	fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
	fmt.Fprintln(out, "source:", ti.Source)
	return 0
}
