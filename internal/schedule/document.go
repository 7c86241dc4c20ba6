/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/friendsincode/freeslots/pkg/period"
)

// ErrEmptyDocument is returned when the input holds no document at all.
var ErrEmptyDocument = errors.New("empty schedule document")

// Document is the file format read by the CLI. JSON documents decode too,
// since JSON is a subset of YAML.
type Document struct {
	Window      Range        `yaml:"window"`
	MinDuration Duration     `yaml:"min_duration"`
	Events      []EventEntry `yaml:"events"`
}

// Range is a pair of instants as written in a document.
type Range struct {
	Start Instant `yaml:"start"`
	End   Instant `yaml:"end"`
}

// EventEntry is one busy item in a document.
type EventEntry struct {
	ID    string  `yaml:"id"`
	Title string  `yaml:"title"`
	Start Instant `yaml:"start"`
	End   Instant `yaml:"end"`
}

// Decode reads a single YAML or JSON document from r.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("decode schedule document: %w", err)
	}
	return &doc, nil
}

// QueryWindow builds the window to search.
func (d *Document) QueryWindow() (period.Window, error) {
	w, err := period.NewWindow(d.Window.Start.Time, d.Window.End.Time)
	if err != nil {
		return period.Window{}, fmt.Errorf("window: %w", err)
	}
	return w, nil
}

// BusyEvents returns the document events, assigning IDs to those without one.
func (d *Document) BusyEvents() []Event {
	events := make([]Event, 0, len(d.Events))
	for _, e := range d.Events {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		events = append(events, Event{
			ID:       id,
			Title:    e.Title,
			StartsAt: e.Start.Time,
			EndsAt:   e.End.Time,
		})
	}
	return events
}

// Instant accepts RFC 3339 timestamps, with or without fractional seconds,
// and plain dates which are read as midnight UTC.
type Instant struct {
	time.Time
}

func (i *Instant) UnmarshalYAML(node *yaml.Node) error {
	t, err := ParseInstant(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	i.Time = t
	return nil
}

// ParseInstant parses the instant formats documents and queries accept.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid instant %q: want RFC 3339 or YYYY-MM-DD", s)
}

// Duration wraps time.Duration so documents can say "30m" or "1h30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	v, err := ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Duration = v
	return nil
}

// UnmarshalJSON accepts the same strings as documents do, e.g. "45m".
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30m\": %w", err)
	}
	v, err := ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// ParseDuration parses a non-negative duration. An empty string is zero.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return v, nil
}
