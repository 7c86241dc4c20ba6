/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package period

import "time"

// Period is anything with ordered bounds. Busy, Window, Free and caller
// records all satisfy it.
type Period interface {
	Start() time.Time
	End() time.Time
}

// Input is a caller record that can be normalized into a Busy interval.
type Input interface {
	Period
	ToBusy() (Busy, error)
}

// Output is satisfied by *T when T is a caller record that can be filled
// from a Free interval. SetFree must copy the bounds verbatim and never fail.
type Output[T any] interface {
	*T
	Period
	SetFree(Free)
}
