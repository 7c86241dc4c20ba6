/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package period

import "time"

// Free is a confirmed gap that no busy interval covers.
type Free struct {
	span
}

// NewFree returns a Free interval or ErrInvalidRange.
func NewFree(start, end time.Time) (Free, error) {
	s, err := newSpan(start, end)
	if err != nil {
		return Free{}, err
	}
	return Free{span: s}, nil
}

// FreeBefore returns the gap between the start of w and the start of b.
func FreeBefore(w Window, b Busy) (Free, error) {
	return NewFree(w.start, b.start)
}
