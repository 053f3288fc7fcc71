// Package param issues unique parameter identities.
package param

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// ID identifies a parameter or variable. Issued ids start at 1.
type ID int64

var lastID atomic.Int64

// Next issues a fresh id. Safe for concurrent use; no two callers ever
// observe the same value and values increase monotonically.
func Next() ID {
	return ID(lastID.Add(1))
}

func (id ID) String() string {
	return fmt.Sprintf("#%d", int64(id))
}

// Parameter is a value type carrying a unique id.
type Parameter struct {
	id ID
}

// New returns a parameter with a freshly issued id.
func New() Parameter {
	return Parameter{id: Next()}
}

// FromID wraps an existing id, e.g. one taken from a variable.
func FromID(id ID) Parameter {
	return Parameter{id: id}
}

func (p Parameter) ID() ID { return p.id }

func (p Parameter) String() string { return p.id.String() }

// Compare orders parameters by id.
func Compare(a, b Parameter) int {
	switch {
	case a.id < b.id:
		return -1
	case a.id > b.id:
		return 1
	default:
		return 0
	}
}

// Less reports whether a orders before b.
func Less(a, b Parameter) bool { return a.id < b.id }

// Sort returns a sorted copy of ps with duplicates removed.
func Sort(ps []Parameter) []Parameter {
	out := make([]Parameter, len(ps))
	copy(out, ps)
	sort.Slice(out, func(i, j int) bool { return Less(out[i], out[j]) })

	uniq := out[:0]
	for _, p := range out {
		if len(uniq) > 0 && uniq[len(uniq)-1].id == p.id {
			continue
		}
		uniq = append(uniq, p)
	}
	return uniq
}
