/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/friendsincode/freeslots/internal/availability"
	"github.com/friendsincode/freeslots/internal/schedule"
	"github.com/friendsincode/freeslots/pkg/finder"
	"github.com/friendsincode/freeslots/pkg/period"
)

type windowJSON struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type findRequest struct {
	Window      windowJSON        `json:"window"`
	MinDuration schedule.Duration `json:"min_duration"`
	Events      []schedule.Event  `json:"events"`
}

type slotJSON struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Label           string    `json:"label"`
}

type findResponse struct {
	Window   windowJSON             `json:"window"`
	Slots    []slotJSON             `json:"slots"`
	Count    int                    `json:"count"`
	Overlaps []availability.Overlap `json:"overlaps,omitempty"`
}

// icalFindResponse also reports how many calendar entries had no usable times.
type icalFindResponse struct {
	findResponse
	Skipped int `json:"skipped"`
}

// handleFind answers a JSON free-slot query.
func (a *API) handleFind(w http.ResponseWriter, r *http.Request) {
	var req findRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	window, err := period.NewWindow(req.Window.Start, req.Window.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_window")
		return
	}

	for i := range req.Events {
		if req.Events[i].ID == "" {
			req.Events[i].ID = uuid.NewString()
		}
	}

	result, err := a.svc.Compute(r.Context(), availability.Request{
		Window:      window,
		Events:      req.Events,
		MinDuration: req.MinDuration.Duration,
	})
	if err != nil {
		a.writeComputeError(w, err)
		return
	}

	a.logger.Debug().Str("client", clientName(r)).Int("slots", len(result.Slots)).Msg("slots found")
	if a.writeICal(w, r, result) {
		return
	}
	writeJSON(w, http.StatusOK, newFindResponse(result))
}

// handleFindICal answers a query whose busy events come from an iCalendar
// body. The window and minimum duration are given as query parameters.
func (a *API) handleFindICal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := schedule.ParseInstant(q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_window")
		return
	}
	end, err := schedule.ParseInstant(q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_window")
		return
	}
	window, err := period.NewWindow(start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_window")
		return
	}
	minDuration, err := schedule.ParseDuration(q.Get("min_duration"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	imported, err := schedule.ParseICal(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	result, err := a.svc.Compute(r.Context(), availability.Request{
		Window:      window,
		Events:      imported.Events,
		MinDuration: minDuration,
	})
	if err != nil {
		a.writeComputeError(w, err)
		return
	}

	a.logger.Debug().
		Str("client", clientName(r)).
		Int("slots", len(result.Slots)).
		Int("skipped", imported.Skipped).
		Msg("slots found from calendar")
	if a.writeICal(w, r, result) {
		return
	}
	writeJSON(w, http.StatusOK, icalFindResponse{
		findResponse: newFindResponse(result),
		Skipped:      imported.Skipped,
	})
}

// writeICal answers with a VFREEBUSY document when ?format=ical is set.
func (a *API) writeICal(w http.ResponseWriter, r *http.Request, result *availability.Result) bool {
	if r.URL.Query().Get("format") != "ical" {
		return false
	}
	fb := schedule.FreeBusy{Window: result.Window, Slots: result.Slots}
	w.Header().Set("Content-Type", schedule.ICalContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="freebusy.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(fb.Encode())
	return true
}

func newFindResponse(result *availability.Result) findResponse {
	resp := findResponse{
		Window:   windowJSON{Start: result.Window.Start(), End: result.Window.End()},
		Slots:    make([]slotJSON, 0, len(result.Slots)),
		Count:    len(result.Slots),
		Overlaps: result.Overlaps,
	}
	for _, s := range result.Slots {
		resp.Slots = append(resp.Slots, slotJSON{
			Start:           s.StartsAt,
			End:             s.EndsAt,
			DurationMinutes: s.DurationMinutes(),
			Label:           s.Label(),
		})
	}
	return resp
}

func (a *API) writeComputeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, availability.ErrTooManyEvents):
		writeError(w, http.StatusBadRequest, "too_many_events")
	case errors.Is(err, finder.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, "invalid_period")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// The router's timeout middleware answers expired requests.
		a.logger.Debug().Err(err).Msg("request ended before slots were computed")
	default:
		a.logger.Error().Err(err).Msg("find slots failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}
