/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"time"

	"github.com/friendsincode/freeslots/pkg/period"
)

// Event is an already-booked item that blocks part of a window.
type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title,omitempty"`
	StartsAt time.Time `json:"start"`
	EndsAt   time.Time `json:"end"`
}

func (e Event) Start() time.Time { return e.StartsAt }
func (e Event) End() time.Time   { return e.EndsAt }

// ToBusy converts the event into a busy interval.
func (e Event) ToBusy() (period.Busy, error) {
	return period.NewBusy(e.StartsAt, e.EndsAt)
}

// Slot is a free gap found between events.
type Slot struct {
	StartsAt time.Time `json:"start"`
	EndsAt   time.Time `json:"end"`
}

func (s Slot) Start() time.Time { return s.StartsAt }
func (s Slot) End() time.Time   { return s.EndsAt }

// SetFree fills the slot from a free interval.
func (s *Slot) SetFree(f period.Free) {
	s.StartsAt = f.Start()
	s.EndsAt = f.End()
}

// DurationMinutes returns the slot length in whole minutes.
func (s Slot) DurationMinutes() int {
	return int(s.EndsAt.Sub(s.StartsAt).Minutes())
}

// Label renders the slot the same way periods are rendered.
func (s Slot) Label() string {
	return period.Format(s)
}
