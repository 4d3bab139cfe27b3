package cli

import (
	"fmt"

	"github.com/idilsaglam/boundedtodo/internal/todolist"
	"github.com/idilsaglam/boundedtodo/internal/ui"
)

const maxTitleWidth = 80

func stats(entries []todolist.Entry) (done, pending int) {
	for _, e := range entries {
		if e.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func listLines(l *todolist.List, group bool) []string {
	live := l.Live()
	t := ui.Current()

	d, p := stats(live)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d/%d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), d,
		ui.C(t.Pending, t.SymUnchecked), p,
		ui.C(t.Accent, "Slots"), len(l.Slots), maxSlots,
	)

	lines := []string{header, ui.C(t.Muted, ui.ProgressBar(d, d+p, 28)), ""}
	if group {
		lines = append(lines, groupLines(live)...)
	} else {
		lines = append(lines, flatLines(live)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `todo add \"Buy milk\"`"))
	return lines
}

// flatLines numbers entries 1..n in slot order, matching the refs resolve accepts.
func flatLines(entries []todolist.Entry) []string {
	if len(entries) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	out := make([]string, 0, len(entries))
	for i, e := range entries {
		out = append(out, entryLine(i+1, e))
	}
	return out
}

func entryLine(pos int, e todolist.Entry) string {
	t := ui.Current()
	box, color := t.BoxUnchecked, t.Muted
	if e.Completed {
		box, color = t.BoxChecked, t.Success
	}
	return fmt.Sprintf("%s %s %s %s",
		ui.Dim(fmt.Sprintf("%2d.", pos)),
		ui.C(color, box),
		ui.C(t.Muted, e.ID.Short()),
		ui.Truncate(e.Content, maxTitleWidth))
}

func groupLines(entries []todolist.Entry) []string {
	t := ui.Current()
	var pend, done []string
	for i, e := range entries {
		if e.Completed {
			done = append(done, entryLine(i+1, e))
		} else {
			pend = append(pend, entryLine(i+1, e))
		}
	}
	section := func(title string, body []string) []string {
		out := []string{ui.C(t.Accent, title)}
		if len(body) == 0 {
			return append(out, ui.C(t.Muted, "(none)"))
		}
		return append(out, body...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

// slotLines shows every allocated slot, tombstones included, and the free
// stack with its top (next reused slot) first.
func slotLines(l *todolist.List) []string {
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  live %d  free %d  allocated %d/%d",
			ui.C(t.Title, "Slots"), l.Count, len(l.FreeSlots), len(l.Slots), maxSlots),
		"",
	}
	if len(l.Slots) == 0 {
		lines = append(lines, ui.C(t.Muted, "no slots allocated"))
	}
	for i, r := range l.Slots {
		if l.IsFree(i) {
			lines = append(lines, fmt.Sprintf("%s %s %s",
				ui.Dim(fmt.Sprintf("[%2d]", i)), ui.C(t.Muted, t.BoxFree), ui.C(t.Muted, "(free)")))
			continue
		}
		box, color := t.BoxUnchecked, t.Muted
		if r.Completed {
			box, color = t.BoxChecked, t.Success
		}
		lines = append(lines, fmt.Sprintf("%s %s %s %s",
			ui.Dim(fmt.Sprintf("[%2d]", i)), ui.C(color, box),
			ui.C(t.Muted, r.ID.Short()), ui.Truncate(r.Content, maxTitleWidth)))
	}

	stack := make([]string, 0, len(l.FreeSlots))
	for i := len(l.FreeSlots) - 1; i >= 0; i-- {
		stack = append(stack, fmt.Sprint(l.FreeSlots[i]))
	}
	lines = append(lines, "", ui.C(t.Muted, fmt.Sprintf("free stack (next first): %v", stack)))
	return lines
}
