/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package finder computes the free gaps left in a window once busy
// intervals are taken out of it.
package finder

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/friendsincode/freeslots/pkg/period"
)

// ErrInvalidPeriod wraps every interval failure raised during a search.
var ErrInvalidPeriod = errors.New("invalid blocks, check your arguments are valid")

// Find returns the gaps of window not covered by any of inputs, in
// ascending order, materialized as Out records.
//
// Every input is converted to a Busy interval before the sweep starts; the
// first conversion failure aborts the call. The inputs slice and the window
// value passed in are left untouched.
func Find[Out any, P period.Output[Out], In period.Input](window period.Window, inputs []In) ([]Out, error) {
	blocks := make([]period.Busy, 0, len(inputs))
	for _, in := range inputs {
		b, err := in.ToBusy()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPeriod, err)
		}
		blocks = append(blocks, b)
	}

	slices.SortFunc(blocks, func(a, b period.Busy) int {
		return a.Start().Compare(b.Start())
	})

	frees, err := sweep(window, blocks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPeriod, err)
	}

	out := make([]Out, len(frees))
	for i, f := range frees {
		P(&out[i]).SetFree(f)
	}
	return out, nil
}

// sweep walks blocks, which must be sorted by start, and trims target as it
// goes.
func sweep(target period.Window, blocks []period.Busy) ([]period.Free, error) {
	var frees []period.Free

walk:
	for _, b := range blocks {
		switch b.Classify(target) {
		case period.RelationContains:
			target.Collapse()
			break walk

		case period.RelationOverlapsStart:
			target.AdvancePast(b)

		case period.RelationContainedIn:
			f, err := period.FreeBefore(target, b)
			if err != nil {
				return nil, err
			}
			frees = append(frees, f)
			target.AdvancePast(b)

		case period.RelationOverlapsEnd:
			f, err := period.FreeBefore(target, b)
			if err != nil {
				return nil, err
			}
			frees = append(frees, f)
			target.Collapse()
			break walk
		}
	}

	if !target.HasRemaining() {
		return frees, nil
	}

	f, err := target.ToFree()
	if err != nil {
		return nil, err
	}
	return append(frees, f), nil
}

// AtLeast keeps the periods lasting d or longer. A non-positive d keeps all.
func AtLeast[P period.Period](ps []P, d time.Duration) []P {
	if d <= 0 {
		return ps
	}
	kept := make([]P, 0, len(ps))
	for _, p := range ps {
		if p.End().Sub(p.Start()) >= d {
			kept = append(kept, p)
		}
	}
	return kept
}
