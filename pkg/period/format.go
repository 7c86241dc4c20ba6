/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package period

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeFormat is the layout used for both bounds in rendered periods.
const DateTimeFormat = "2006-01-02 15:04:05"

// Format renders p as "start: <S>, end: <E>, duration: <H>h <M>m".
// Hours are truncated and minutes are the remainder modulo 60.
func Format(p Period) string {
	d := p.End().Sub(p.Start())
	hours := int64(d / time.Hour)
	minutes := int64(d/time.Minute) % 60
	return fmt.Sprintf("start: %s, end: %s, duration: %dh %dm",
		p.Start().Format(DateTimeFormat),
		p.End().Format(DateTimeFormat),
		hours,
		minutes,
	)
}

// Join renders each period with Format and joins them with "\n ", keeping
// the order of ps.
func Join[P Period](ps []P) string {
	parts := make([]string, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, Format(p))
	}
	return strings.Join(parts, "\n ")
}
