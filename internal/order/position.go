// Package order computes sparse integer sort keys for entities in an
// ordered container. Keys are spaced Step apart so that inserting between
// two neighbors is a single midpoint computation and never renumbers the
// rest of the container.
package order

import (
	"errors"

	"github.com/google/uuid"
)

// Edge selects which side of the anchor an entity is placed on.
type Edge string

const (
	Before Edge = "before"
	After  Edge = "after"
)

const (
	// Base is the position of the first entity in an empty container.
	Base int64 = 1000
	// Step is the spacing used when appending or inserting at an open edge.
	Step int64 = 1000
)

// ErrRebalanceRequired signals that the midpoint between the anchor and its
// neighbor is no longer distinguishable from either bound. The caller must
// renumber the container (see Renumber) and retry the single insertion.
// It is never surfaced outside the mutation path.
var ErrRebalanceRequired = errors.New("order: rebalance required")

// ErrAnchorNotFound reports that the anchor id is not among the siblings,
// typically because it was concurrently moved or deleted.
var ErrAnchorNotFound = errors.New("order: anchor not in container")

// Ranked is the minimal view of an ordered entity the allocator needs.
type Ranked struct {
	ID       uuid.UUID
	Position int64
}

// Compute returns the position for an entity placed at the given edge of
// anchorID within siblings, which must be ascending by position and must
// not contain the entity being placed. A Nil anchor means the open edge of
// the container: After appends, Before prepends.
//
// The function is pure: same inputs, same output, no hidden state.
func Compute(edge Edge, anchorID uuid.UUID, siblings []Ranked) (int64, error) {
	if anchorID == uuid.Nil {
		return openEdge(edge, siblings), nil
	}

	idx := -1
	for i, s := range siblings {
		if s.ID == anchorID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, ErrAnchorNotFound
	}

	anchor := siblings[idx]
	switch edge {
	case Before:
		if idx == 0 {
			return anchor.Position - Step, nil
		}
		return midpoint(siblings[idx-1].Position, anchor.Position)
	default: // After
		if idx == len(siblings)-1 {
			return anchor.Position + Step, nil
		}
		return midpoint(anchor.Position, siblings[idx+1].Position)
	}
}

func openEdge(edge Edge, siblings []Ranked) int64 {
	if len(siblings) == 0 {
		return Base
	}
	if edge == Before {
		return siblings[0].Position - Step
	}
	return siblings[len(siblings)-1].Position + Step
}

// midpoint returns the integer midpoint of lo and hi, or
// ErrRebalanceRequired when no key exists strictly between them.
func midpoint(lo, hi int64) (int64, error) {
	mid := lo + (hi-lo)/2
	if mid == lo || mid == hi {
		return 0, ErrRebalanceRequired
	}
	return mid, nil
}

// Renumber returns fresh positions Step, 2*Step, ... for n siblings in
// their existing order. Used by the rebalance pass after
// ErrRebalanceRequired.
func Renumber(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = Step * int64(i+1)
	}
	return out
}
