/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package period

import "time"

// Window is the part of a query span not yet accounted for. Its start moves
// forward as busy intervals are consumed and may reach its end.
type Window struct {
	span
}

// NewWindow returns a Window or ErrInvalidRange.
func NewWindow(start, end time.Time) (Window, error) {
	s, err := newSpan(start, end)
	if err != nil {
		return Window{}, err
	}
	return Window{span: s}, nil
}

// HasRemaining reports whether any of the window is left.
func (w Window) HasRemaining() bool {
	return w.start.Before(w.end)
}

// AdvancePast moves the window start to the end of b.
func (w *Window) AdvancePast(b Busy) {
	w.start = b.end
}

// Collapse marks the window fully consumed.
func (w *Window) Collapse() {
	w.start = w.end
}

// ToFree converts what is left of the window into a Free interval. It fails
// once the window has collapsed.
func (w Window) ToFree() (Free, error) {
	return NewFree(w.start, w.end)
}
