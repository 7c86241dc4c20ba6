/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package period

import "time"

// Busy is one already-scheduled occupied period.
type Busy struct {
	span
}

// NewBusy returns a Busy interval or ErrInvalidRange.
func NewBusy(start, end time.Time) (Busy, error) {
	s, err := newSpan(start, end)
	if err != nil {
		return Busy{}, err
	}
	return Busy{span: s}, nil
}

// Relation is the classification of a Busy interval against a Window.
type Relation int

const (
	RelationNone Relation = iota
	RelationContains
	RelationOverlapsStart
	RelationContainedIn
	RelationOverlapsEnd
)

func (r Relation) String() string {
	switch r {
	case RelationContains:
		return "contains"
	case RelationOverlapsStart:
		return "overlaps_start"
	case RelationContainedIn:
		return "contained_in"
	case RelationOverlapsEnd:
		return "overlaps_end"
	default:
		return "none"
	}
}

// Contains reports whether b covers all of w.
func (b Busy) Contains(w Window) bool {
	return notAfter(b.start, w.start) && notAfter(w.end, b.end)
}

// OverlapsStart reports whether b occupies the leading edge of w.
func (b Busy) OverlapsStart(w Window) bool {
	return notAfter(b.start, w.start) && notAfter(b.end, w.end) && notAfter(w.start, b.end)
}

// ContainedIn reports whether b lies inside w.
func (b Busy) ContainedIn(w Window) bool {
	return notAfter(w.start, b.start) && notAfter(b.end, w.end)
}

// OverlapsEnd reports whether b occupies the trailing edge of w.
func (b Busy) OverlapsEnd(w Window) bool {
	return notAfter(w.start, b.start) && notAfter(w.end, b.end) && notAfter(b.start, w.end)
}

// Classify applies the predicates in priority order and returns the first
// that matches. Several predicates hold at once on shared boundaries, so the
// order decides the outcome.
func (b Busy) Classify(w Window) Relation {
	switch {
	case b.Contains(w):
		return RelationContains
	case b.OverlapsStart(w):
		return RelationOverlapsStart
	case b.ContainedIn(w):
		return RelationContainedIn
	case b.OverlapsEnd(w):
		return RelationOverlapsEnd
	default:
		return RelationNone
	}
}

// notAfter is a <= b for instants.
func notAfter(a, b time.Time) bool {
	return !a.After(b)
}
