/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package availability answers free-slot queries for a set of busy events.
package availability

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/freeslots/internal/schedule"
	"github.com/friendsincode/freeslots/internal/telemetry"
	"github.com/friendsincode/freeslots/pkg/finder"
	"github.com/friendsincode/freeslots/pkg/period"
)

const tracerName = "freeslots/availability"

// ErrTooManyEvents is returned when a request carries more events than the
// service accepts.
var ErrTooManyEvents = errors.New("too many events")

// Request is a single free-slot query.
type Request struct {
	Window      period.Window
	Events      []schedule.Event
	MinDuration time.Duration
}

// Overlap reports two busy events that share part of their time.
type Overlap struct {
	EventIDs [2]string `json:"event_ids"`
	StartsAt time.Time `json:"start"`
	EndsAt   time.Time `json:"end"`
	Minutes  int       `json:"minutes"`
}

// Result is the answer to a Request.
type Result struct {
	Window   period.Window
	Slots    []schedule.Slot
	Busy     int
	Overlaps []Overlap
}

// Service computes free slots.
type Service struct {
	maxEvents int
	logger    zerolog.Logger
}

// NewService creates a service that rejects requests above maxEvents.
// A non-positive maxEvents disables the limit.
func NewService(maxEvents int, logger zerolog.Logger) *Service {
	return &Service{
		maxEvents: maxEvents,
		logger:    logger.With().Str("component", "availability").Logger(),
	}
}

// Compute finds the free slots of req.Window, keeping only those lasting at
// least req.MinDuration.
func (s *Service) Compute(ctx context.Context, req Request) (*Result, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "availability.compute")
	defer span.End()

	telemetry.AddSpanAttributes(span, map[string]any{
		"window.start": req.Window.Start().Format(time.RFC3339),
		"window.end":   req.Window.End().Format(time.RFC3339),
		"events.count": len(req.Events),
		"min_duration": req.MinDuration,
	})

	if s.maxEvents > 0 && len(req.Events) > s.maxEvents {
		err := fmt.Errorf("%w: %d events, limit is %d", ErrTooManyEvents, len(req.Events), s.maxEvents)
		telemetry.FindCallsTotal.WithLabelValues(telemetry.OutcomeRejected).Inc()
		telemetry.RecordError(span, err)
		s.logger.Warn().Int("events", len(req.Events)).Int("limit", s.maxEvents).Msg("request rejected")
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		telemetry.FindCallsTotal.WithLabelValues(telemetry.OutcomeError).Inc()
		return nil, err
	}

	slots, err := finder.Find[schedule.Slot](req.Window, req.Events)
	if err != nil {
		outcome := telemetry.OutcomeError
		if errors.Is(err, finder.ErrInvalidPeriod) {
			outcome = telemetry.OutcomeRejected
		}
		telemetry.FindCallsTotal.WithLabelValues(outcome).Inc()
		telemetry.RecordError(span, err)
		s.logger.Debug().Err(err).Int("events", len(req.Events)).Msg("free slot search failed")
		return nil, err
	}

	found := len(slots)
	slots = finder.AtLeast(slots, req.MinDuration)
	if slots == nil {
		slots = []schedule.Slot{}
	}

	result := &Result{
		Window:   req.Window,
		Slots:    slots,
		Busy:     len(req.Events),
		Overlaps: findOverlaps(req.Events),
	}

	telemetry.FindCallsTotal.WithLabelValues(telemetry.OutcomeOK).Inc()
	telemetry.BusyEventsPerCall.Observe(float64(result.Busy))
	telemetry.SlotsPerCall.Observe(float64(len(result.Slots)))
	telemetry.AddSpanAttributes(span, map[string]any{
		"slots.count":    len(result.Slots),
		"slots.filtered": found - len(result.Slots),
	})

	s.logger.Debug().
		Int("events", result.Busy).
		Int("slots", len(result.Slots)).
		Int("filtered", found-len(result.Slots)).
		Int("overlaps", len(result.Overlaps)).
		Msg("free slots computed")

	return result, nil
}

// findOverlaps lists every pair of events that share time. Events that only
// touch at a boundary do not overlap.
func findOverlaps(events []schedule.Event) []Overlap {
	sorted := slices.Clone(events)
	slices.SortFunc(sorted, func(a, b schedule.Event) int {
		return a.StartsAt.Compare(b.StartsAt)
	})

	var overlaps []Overlap
	for i := range sorted {
		for j := i + 1; j < len(sorted); j++ {
			if !sorted[j].StartsAt.Before(sorted[i].EndsAt) {
				break
			}
			start := sorted[j].StartsAt
			end := minTime(sorted[i].EndsAt, sorted[j].EndsAt)
			if !start.Before(end) {
				continue
			}
			overlaps = append(overlaps, Overlap{
				EventIDs: [2]string{sorted[i].ID, sorted[j].ID},
				StartsAt: start,
				EndsAt:   end,
				Minutes:  int(end.Sub(start).Minutes()),
			})
		}
	}
	return overlaps
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
