package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })
	return &out, &errOut
}

func TestPanel(t *testing.T) {
	out, _ := capture(t)
	Panel([]string{"ab", "abcd", "é"})
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"+------+",
		"| ab   |",
		"| abcd |",
		"| é    |",
		"+------+",
	}, lines)
}

func TestOKFail(t *testing.T) {
	out, errOut := capture(t)
	OK("added")
	Fail("nope")
	Hint("try again")
	assert.Equal(t, "✔ added\n", out.String())
	assert.Equal(t, "✖ nope\nHint: try again\n", errOut.String())
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}

func TestTruncate_Narrow(t *testing.T) {
	assert.Equal(t, "ab", Truncate("abcdef", 2))
	assert.Equal(t, "a...", Truncate("abcdef", 4))
}
