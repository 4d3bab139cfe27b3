package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/boundedtodo/internal/model"
	"github.com/idilsaglam/boundedtodo/internal/todolist"
)

const minPrefixLen = 4

var ErrBadRef = errors.New("invalid ref")

// resolve maps a ref to a live record id. Refs shorter than minPrefixLen
// are 1-based positions in slot order; longer ones are hex id prefixes.
func resolve(l *todolist.List, ref string) (model.ID, error) {
	live := l.Live()
	if n, err := strconv.Atoi(ref); err == nil && len(ref) < minPrefixLen {
		if n < 1 || n > len(live) {
			return model.ID{}, fmt.Errorf("%w: position %d out of range, have %d", todolist.ErrTodoNotFound, n, len(live))
		}
		return live[n-1].ID, nil
	}

	prefix := strings.ToLower(ref)
	if len(prefix) < minPrefixLen {
		return model.ID{}, fmt.Errorf("%w: id prefix %q shorter than %d chars", ErrBadRef, ref, minPrefixLen)
	}
	matches := map[model.ID]struct{}{}
	var found model.ID
	for _, e := range live {
		if strings.HasPrefix(e.ID.String(), prefix) {
			matches[e.ID] = struct{}{}
			found = e.ID
		}
	}
	hits := len(matches)
	switch hits {
	case 0:
		return model.ID{}, fmt.Errorf("%w: no id starts with %q", todolist.ErrTodoNotFound, ref)
	case 1:
		return found, nil
	}
	return model.ID{}, fmt.Errorf("%w: %q matches %d ids", ErrBadRef, ref, hits)
}
