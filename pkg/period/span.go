/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package period

import (
	"errors"
	"time"
)

// ErrInvalidRange is returned whenever an interval would not satisfy start < end.
var ErrInvalidRange = errors.New("start time must be before end time")

// span holds the bounds shared by every interval role.
type span struct {
	start time.Time
	end   time.Time
}

func newSpan(start, end time.Time) (span, error) {
	if !start.Before(end) {
		return span{}, ErrInvalidRange
	}
	return span{start: start, end: end}, nil
}

// Start returns the inclusive lower bound.
func (s span) Start() time.Time { return s.start }

// End returns the exclusive upper bound.
func (s span) End() time.Time { return s.end }

// Duration returns end - start.
func (s span) Duration() time.Duration { return s.end.Sub(s.start) }

func (s span) String() string { return Format(s) }

// Interval is a plain validated pair of instants. Callers use it when they
// need the invariant without committing to one of the roles.
type Interval struct {
	span
}

// New returns an Interval or ErrInvalidRange when start is not before end.
func New(start, end time.Time) (Interval, error) {
	s, err := newSpan(start, end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{span: s}, nil
}
