/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package period defines the interval types the slot finder operates on.
//
// Three roles share the same {start, end} shape but are distinct types:
// Busy is an already-scheduled occupied period, Window is the shrinking
// remainder of a query span, and Free is a confirmed gap. Caller records take
// part in a search through the Input and Output contracts.
package period
