package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/friendsincode/freeslots/internal/availability"
)

const sampleDoc = `
window:
  start: 2026-10-19T09:00:00+09:00
  end: 2026-10-19T17:00:00+09:00
events:
  - id: standup
    start: 2026-10-19T10:00:00+09:00
    end: 2026-10-19T11:00:00+09:00
  - id: lunch
    start: 2026-10-19T12:00:00+09:00
    end: 2026-10-19T13:00:00+09:00
`

func compute(t *testing.T, q *query) *availability.Result {
	t.Helper()
	res, err := availability.NewService(0, zerolog.Nop()).Compute(context.Background(), availability.Request{
		Window:      q.Window,
		Events:      q.Events,
		MinDuration: q.MinDuration,
	})
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	return res
}

func TestWriteResult_Text(t *testing.T) {
	q, err := loadQuery(strings.NewReader(sampleDoc), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	var buf bytes.Buffer
	if err := writeResult(&buf, "text", q.Events, compute(t, q)); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "Span:\n start: 2026-10-19 09:00:00, end: 2026-10-19 17:00:00, duration: 8h 0m\n\n" +
		"Blocks:\n start: 2026-10-19 10:00:00, end: 2026-10-19 11:00:00, duration: 1h 0m\n" +
		" start: 2026-10-19 12:00:00, end: 2026-10-19 13:00:00, duration: 1h 0m\n\n" +
		"Slots:\n start: 2026-10-19 09:00:00, end: 2026-10-19 10:00:00, duration: 1h 0m\n" +
		" start: 2026-10-19 11:00:00, end: 2026-10-19 12:00:00, duration: 1h 0m\n" +
		" start: 2026-10-19 13:00:00, end: 2026-10-19 17:00:00, duration: 4h 0m\n\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected text output:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteResult_JSON(t *testing.T) {
	q, err := loadQuery(strings.NewReader(sampleDoc), nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	q.MinDuration = 2 * time.Hour

	var buf bytes.Buffer
	if err := writeResult(&buf, "json", q.Events, compute(t, q)); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out struct {
		Count int `json:"count"`
		Slots []struct {
			DurationMinutes int `json:"duration_minutes"`
		} `json:"slots"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || out.Slots[0].DurationMinutes != 240 {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestLoadQuery_MergesICS(t *testing.T) {
	dir := t.TempDir()
	ics := filepath.Join(dir, "busy.ics")
	cal := "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:focus\r\nDTSTART:20261019T060000Z\r\nDTEND:20261019T070000Z\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	if err := os.WriteFile(ics, []byte(cal), 0o644); err != nil {
		t.Fatalf("write ics: %v", err)
	}

	q, err := loadQuery(strings.NewReader(sampleDoc), []string{ics}, zerolog.Nop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(q.Events) != 3 || q.Events[2].ID != "focus" {
		t.Fatalf("expected the iCal event appended, got %+v", q.Events)
	}

	// 15:00-16:00 JST is now busy as well.
	res := compute(t, q)
	if len(res.Slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(res.Slots))
	}
}

func TestLoadQuery_Errors(t *testing.T) {
	if _, err := loadQuery(strings.NewReader(""), nil, zerolog.Nop()); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := loadQuery(strings.NewReader(sampleDoc), []string{"/does/not/exist.ics"}, zerolog.Nop()); err == nil {
		t.Fatal("expected error for missing iCal file")
	}
}

func TestFindCommand(t *testing.T) {
	t.Setenv("FREESLOTS_ENV", "test")
	path := filepath.Join(t.TempDir(), "week.yaml")
	if err := os.WriteFile(path, []byte(sampleDoc), 0o644); err != nil {
		t.Fatalf("write doc: %v", err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"find", "--output", "ical", "--min-duration", "3h", path})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "BEGIN:VFREEBUSY") || strings.Count(got, "FREEBUSY;") != 1 {
		t.Fatalf("unexpected ical output:\n%s", got)
	}
	if !strings.Contains(got, "FREEBUSY;FBTYPE=FREE:20261019T040000Z/20261019T080000Z") {
		t.Fatalf("missing afternoon slot:\n%s", got)
	}
}
