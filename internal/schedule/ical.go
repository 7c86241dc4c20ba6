/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package schedule

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/friendsincode/freeslots/pkg/period"
)

// ICalContentType is the media type of FreeBusy output.
const ICalContentType = "text/calendar; charset=utf-8"

// ICalImport is the result of reading busy events from an iCalendar stream.
type ICalImport struct {
	Events  []Event
	Skipped int
}

// ParseICal reads VEVENT entries as busy events. An event ends at DTEND, at
// DTSTART plus DURATION, or one day after a date-valued DTSTART. Entries
// without a usable start or end are counted as skipped. Events without a UID
// get one.
func ParseICal(r io.Reader) (*ICalImport, error) {
	lines, err := unfoldICalLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read iCal data: %w", err)
	}

	result := &ICalImport{}
	var (
		current  *Event
		duration time.Duration
		allDay   bool
	)
	for _, line := range lines {
		switch line {
		case "BEGIN:VEVENT":
			current = &Event{}
			duration, allDay = 0, false
			continue
		case "END:VEVENT":
			if current == nil {
				continue
			}
			if current.EndsAt.IsZero() && !current.StartsAt.IsZero() {
				switch {
				case duration > 0:
					current.EndsAt = current.StartsAt.Add(duration)
				case allDay:
					current.EndsAt = current.StartsAt.AddDate(0, 0, 1)
				}
			}
			if current.StartsAt.IsZero() || current.EndsAt.IsZero() {
				result.Skipped++
			} else {
				if current.ID == "" {
					current.ID = uuid.NewString()
				}
				result.Events = append(result.Events, *current)
			}
			current = nil
			continue
		}
		if current == nil {
			continue
		}

		name, params, value, ok := splitICalProperty(line)
		if !ok {
			continue
		}
		switch name {
		case "UID":
			current.ID = value
		case "SUMMARY":
			current.Title = unescapeICalText(value)
		case "DTSTART":
			current.StartsAt = parseICalTime(value, params)
			allDay = isICalDate(value, params)
		case "DTEND":
			current.EndsAt = parseICalTime(value, params)
		case "DURATION":
			if d, err := parseICalDuration(value); err == nil {
				duration = d
			}
		}
	}

	return result, nil
}

// FreeBusy renders found slots as a VFREEBUSY component.
type FreeBusy struct {
	UID    string
	Stamp  time.Time
	Window period.Window
	Slots  []Slot
}

// Encode returns the iCalendar bytes. A missing UID or stamp is filled in.
func (fb FreeBusy) Encode() []byte {
	uid := fb.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	stamp := fb.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	var buf bytes.Buffer
	buf.WriteString("BEGIN:VCALENDAR\r\n")
	buf.WriteString("VERSION:2.0\r\n")
	buf.WriteString("PRODID:-//Friends Incode//freeslots//EN\r\n")
	buf.WriteString("CALSCALE:GREGORIAN\r\n")
	buf.WriteString("METHOD:PUBLISH\r\n")
	buf.WriteString("BEGIN:VFREEBUSY\r\n")
	buf.WriteString(fmt.Sprintf("UID:%s@freeslots\r\n", uid))
	buf.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICalTime(stamp)))
	buf.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICalTime(fb.Window.Start())))
	buf.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICalTime(fb.Window.End())))
	for _, s := range fb.Slots {
		buf.WriteString(fmt.Sprintf("FREEBUSY;FBTYPE=FREE:%s/%s\r\n", formatICalTime(s.StartsAt), formatICalTime(s.EndsAt)))
	}
	buf.WriteString("END:VFREEBUSY\r\n")
	buf.WriteString("END:VCALENDAR\r\n")
	return buf.Bytes()
}

// unfoldICalLines joins continuation lines, which start with a space or tab.
func unfoldICalLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

// splitICalProperty splits "NAME;PARAM=X:VALUE".
func splitICalProperty(line string) (name string, params map[string]string, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", nil, "", false
	}
	head, value := line[:idx], line[idx+1:]
	parts := strings.Split(head, ";")
	name = strings.ToUpper(parts[0])
	for _, p := range parts[1:] {
		k, v, found := strings.Cut(p, "=")
		if !found {
			continue
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[strings.ToUpper(k)] = strings.Trim(v, `"`)
	}
	return name, params, value, true
}

// parseICalTime parses an iCal date-time. Floating times use the TZID
// parameter when it names a known zone and UTC otherwise.
func parseICalTime(s string, params map[string]string) time.Time {
	loc := time.UTC
	if tzid := params["TZID"]; tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		}
	}

	if t, err := time.Parse("20060102T150405Z", s); err == nil {
		return t
	}
	formats := []string{
		"20060102T150405",
		"20060102",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, loc); err == nil {
			return t
		}
	}

	return time.Time{}
}

func formatICalTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

var icalTextUnescaper = strings.NewReplacer(
	`\\`, `\`,
	`\n`, "\n",
	`\N`, "\n",
	`\,`, ",",
	`\;`, ";",
)

func unescapeICalText(s string) string {
	return icalTextUnescaper.Replace(s)
}

func isICalDate(value string, params map[string]string) bool {
	return strings.EqualFold(params["VALUE"], "DATE") || len(value) == len("20060102")
}

// parseICalDuration parses an RFC 5545 duration such as "PT1H30M" or "P1W".
// Negative durations are rejected.
func parseICalDuration(s string) (time.Duration, error) {
	orig := s
	s = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "+")
	if strings.HasPrefix(s, "-") || !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("invalid duration %q", orig)
	}
	s = s[1:]

	var (
		total  time.Duration
		inTime bool
		number int64
		digits bool
	)
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			number = number*10 + int64(c-'0')
			digits = true
			continue
		case c == 'T':
			if digits || inTime {
				return 0, fmt.Errorf("invalid duration %q", orig)
			}
			inTime = true
			continue
		}
		if !digits {
			return 0, fmt.Errorf("invalid duration %q", orig)
		}
		var unit time.Duration
		switch {
		case c == 'W' && !inTime:
			unit = 7 * 24 * time.Hour
		case c == 'D' && !inTime:
			unit = 24 * time.Hour
		case c == 'H' && inTime:
			unit = time.Hour
		case c == 'M' && inTime:
			unit = time.Minute
		case c == 'S' && inTime:
			unit = time.Second
		default:
			return 0, fmt.Errorf("invalid duration %q", orig)
		}
		total += time.Duration(number) * unit
		number, digits = 0, false
	}
	if digits || total == 0 {
		return 0, fmt.Errorf("invalid duration %q", orig)
	}
	return total, nil
}
