/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/friendsincode/freeslots/internal/availability"
	"github.com/friendsincode/freeslots/internal/config"
	"github.com/friendsincode/freeslots/internal/logging"
	"github.com/friendsincode/freeslots/internal/schedule"
	"github.com/friendsincode/freeslots/pkg/period"
)

var findCmd = &cobra.Command{
	Use:   "find [file]",
	Short: "Find free slots in a schedule document",
	Long: `Read a YAML or JSON schedule document and print the free slots of its window.
The document is read from stdin when no file, or "-", is given. Busy events can
also be imported from iCalendar files with --ics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFind,
}

// find flags
var (
	findOutput      string
	findMinDuration time.Duration
	findICSFiles    []string
	findVerbose     bool
)

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().StringVarP(&findOutput, "output", "o", "text", "Output format: text, json or ical")
	findCmd.Flags().DurationVar(&findMinDuration, "min-duration", 0, "Only keep slots at least this long (overrides the document)")
	findCmd.Flags().StringArrayVar(&findICSFiles, "ics", nil, "iCalendar file with extra busy events (repeatable)")
	findCmd.Flags().BoolVarP(&findVerbose, "verbose", "v", false, "Log progress to stderr")
}

// query is a fully loaded find invocation.
type query struct {
	Window      period.Window
	Events      []schedule.Event
	MinDuration time.Duration
}

func runFind(cmd *cobra.Command, args []string) error {
	switch findOutput {
	case "text", "json", "ical":
	default:
		return fmt.Errorf("unknown output format %q (want text, json or ical)", findOutput)
	}
	if findMinDuration < 0 {
		return fmt.Errorf("--min-duration must not be negative")
	}

	logger = logging.Setup(config.Environment())
	if !findVerbose {
		logger = logger.Level(zerolog.WarnLevel)
	}

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open schedule: %w", err)
		}
		defer f.Close()
		in = f
	}

	q, err := loadQuery(in, findICSFiles, logger)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("min-duration") {
		q.MinDuration = findMinDuration
	}

	svc := availability.NewService(0, logger)
	res, err := svc.Compute(cmd.Context(), availability.Request{
		Window:      q.Window,
		Events:      q.Events,
		MinDuration: q.MinDuration,
	})
	if err != nil {
		return fmt.Errorf("find slots: %w", err)
	}

	return writeResult(cmd.OutOrStdout(), findOutput, q.Events, res)
}

// loadQuery decodes the schedule document and merges busy events from the
// given iCalendar files.
func loadQuery(r io.Reader, icsPaths []string, logger zerolog.Logger) (*query, error) {
	doc, err := schedule.Decode(r)
	if err != nil {
		return nil, err
	}
	window, err := doc.QueryWindow()
	if err != nil {
		return nil, err
	}

	q := &query{
		Window:      window,
		Events:      doc.BusyEvents(),
		MinDuration: doc.MinDuration.Duration,
	}

	for _, path := range icsPaths {
		imported, err := readICS(path)
		if err != nil {
			return nil, err
		}
		if imported.Skipped > 0 {
			logger.Warn().Str("file", path).Int("skipped", imported.Skipped).Msg("skipped events without start or end")
		}
		logger.Debug().Str("file", path).Int("events", len(imported.Events)).Msg("imported busy events")
		q.Events = append(q.Events, imported.Events...)
	}

	return q, nil
}

func readICS(path string) (*schedule.ICalImport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	imported, err := schedule.ParseICal(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return imported, nil
}

type slotOutput struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Label           string    `json:"label"`
}

func writeResult(w io.Writer, format string, events []schedule.Event, res *availability.Result) error {
	switch format {
	case "json":
		out := struct {
			Window   slotOutput             `json:"window"`
			Slots    []slotOutput           `json:"slots"`
			Count    int                    `json:"count"`
			Overlaps []availability.Overlap `json:"overlaps,omitempty"`
		}{
			Window: slotOutput{
				Start:           res.Window.Start(),
				End:             res.Window.End(),
				DurationMinutes: int(res.Window.Duration().Minutes()),
				Label:           res.Window.String(),
			},
			Slots:    make([]slotOutput, 0, len(res.Slots)),
			Count:    len(res.Slots),
			Overlaps: res.Overlaps,
		}
		for _, s := range res.Slots {
			out.Slots = append(out.Slots, slotOutput{
				Start:           s.StartsAt,
				End:             s.EndsAt,
				DurationMinutes: s.DurationMinutes(),
				Label:           s.Label(),
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)

	case "ical":
		_, err := w.Write(schedule.FreeBusy{Window: res.Window, Slots: res.Slots}.Encode())
		return err

	default:
		_, err := fmt.Fprintf(w, "Span:\n %s\n\nBlocks:\n %s\n\nSlots:\n %s\n\n",
			res.Window, period.Join(events), period.Join(res.Slots))
		return err
	}
}
