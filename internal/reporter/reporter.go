// Package reporter renders scheduling and validation results for
// terminals and exports them as plain JSON snapshots. Consumers of the
// snapshots (Gantt renderers, report generators) must treat them as
// read-only; no algorithm state leaks into the output.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/elbasanier-main/dlarc/internal/network"
	"github.com/elbasanier-main/dlarc/internal/sequencer"
	"github.com/elbasanier-main/dlarc/internal/standards"
	"github.com/elbasanier-main/dlarc/internal/ui"
	"github.com/elbasanier-main/dlarc/internal/validate"
)

// Reporter renders one sequencing outcome.
type Reporter struct {
	Outcome *sequencer.Outcome
}

// New creates a Reporter.
func New(out *sequencer.Outcome) *Reporter {
	return &Reporter{Outcome: out}
}

// ActivityRow is one serializable (activity, timing) pair.
type ActivityRow struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Phase        network.Phase        `json:"phase"`
	Floor        int                  `json:"floor"`
	DurationDays float64              `json:"duration_days"`
	Predecessors []string             `json:"predecessors"`
	CrewSize     int                  `json:"crew_size"`
	Confidence   standards.Confidence `json:"confidence"`
	Ref          standards.Ref        `json:"ref"`
	ES           float64              `json:"early_start"`
	EF           float64              `json:"early_finish"`
	LS           float64              `json:"late_start"`
	LF           float64              `json:"late_finish"`
	Slack        float64              `json:"slack"`
	Critical     bool                 `json:"critical"`
}

// Snapshot is the exported result pair: the computed schedule and the
// validation verdict for one building.
type Snapshot struct {
	Project           string           `json:"project"`
	Activities        []ActivityRow    `json:"activities"`
	CriticalPath      []string         `json:"critical_path"`
	TotalDurationDays float64          `json:"total_duration_days"`
	FloorCycleDays    float64          `json:"floor_cycle_days"`
	Histogram         []int            `json:"resource_histogram"`
	Validation        *validate.Result `json:"validation"`
}

// BuildSnapshot flattens the outcome into its serializable form,
// preserving activity definition order.
func (r *Reporter) BuildSnapshot() *Snapshot {
	out := r.Outcome
	snap := &Snapshot{
		Project:           out.Params.Name,
		CriticalPath:      out.Schedule.CriticalPath,
		TotalDurationDays: out.Schedule.TotalDurationDays,
		FloorCycleDays:    out.FloorPlan.CycleDays(),
		Histogram:         out.Schedule.Histogram,
		Validation:        out.Validation,
	}
	for _, a := range out.Network.Activities {
		e := out.Schedule.ByID[a.ID]
		snap.Activities = append(snap.Activities, ActivityRow{
			ID:           a.ID,
			Name:         a.Name,
			Phase:        a.Phase,
			Floor:        a.Floor,
			DurationDays: a.DurationDays,
			Predecessors: a.Predecessors,
			CrewSize:     a.CrewSize,
			Confidence:   a.Confidence,
			Ref:          a.Ref,
			ES:           e.ES,
			EF:           e.EF,
			LS:           e.LS,
			LF:           e.LF,
			Slack:        e.Slack,
			Critical:     e.Critical,
		})
	}
	return snap
}

// WriteJSON writes the snapshot as indented JSON.
func (r *Reporter) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.BuildSnapshot())
}

// PrintSchedule writes a terminal-friendly schedule table in activity
// definition order.
func (r *Reporter) PrintSchedule(w io.Writer) {
	out := r.Outcome
	fmt.Fprintf(w, "%s %s — %d activities, %s days total, floor cycle %s days\n\n",
		ui.BoldCyan("🏗  Schedule"),
		ui.Bold(out.Params.Name),
		out.Network.ActivityCount(),
		ui.BoldWhite(fmt.Sprintf("%.1f", out.Schedule.TotalDurationDays)),
		ui.BoldWhite(fmt.Sprintf("%.1f", out.FloorPlan.CycleDays())))

	fmt.Fprintf(w, "  %s  %-4s %-26s %5s %7s %7s %7s %7s %6s  %s\n",
		" ", "ID", "ACTIVITY", "FLOOR", "DUR", "ES", "EF", "LS", "SLACK", "CONF")
	for _, a := range out.Network.Activities {
		e := out.Schedule.ByID[a.ID]
		fmt.Fprintf(w, "  %s  %-4s %-26s %5d %7.1f %7.1f %7.1f %7.1f %6.1f  %s\n",
			ui.CriticalMark(e.Critical), a.ID, a.Name, a.Floor,
			a.DurationDays, e.ES, e.EF, e.LS, e.Slack,
			ui.ConfidenceTag(string(a.Confidence)))
	}

	fmt.Fprintf(w, "\n  %s %s\n", ui.Bold("Critical path:"),
		strings.Join(out.Schedule.CriticalPath, " → "))
	r.printHistogram(w)
}

// printHistogram renders the per-day crew loading as a sparkline.
func (r *Reporter) printHistogram(w io.Writer) {
	hist := r.Outcome.Schedule.Histogram
	if len(hist) == 0 {
		return
	}
	levels := []rune("▁▂▃▄▅▆▇█")
	peak := 0
	for _, v := range hist {
		if v > peak {
			peak = v
		}
	}
	if peak == 0 {
		return
	}
	var sb strings.Builder
	for _, v := range hist {
		idx := v * (len(levels) - 1) / peak
		sb.WriteRune(levels[idx])
	}
	fmt.Fprintf(w, "  %s %s %s\n", ui.Bold("Crew loading:"), sb.String(),
		ui.Dim(fmt.Sprintf("(peak %d over %d days)", peak, len(hist))))
}

// PrintValidation writes the constructability report.
func (r *Reporter) PrintValidation(w io.Writer) {
	v := r.Outcome.Validation

	verdict := ui.BoldGreen("CONSTRUCTABLE")
	if !v.Constructable {
		verdict = ui.BoldRed("NOT CONSTRUCTABLE")
	}
	fmt.Fprintf(w, "%s %s — %s, score %s\n\n",
		ui.BoldCyan("📐 Validation"), ui.Bold(v.ProjectName), verdict,
		ui.BoldWhite(fmt.Sprintf("%.2f", v.Score)))

	if len(v.Issues) == 0 {
		fmt.Fprintf(w, "  %s no issues found\n", ui.Green("✓"))
	}
	for _, issue := range v.Issues {
		fmt.Fprintf(w, "  %s %s [%s] %s\n", ui.SeverityTag(string(issue.Severity)),
			ui.Dim(issue.ID), issue.Category, issue.Description)
		if issue.CodeRef.Standard != "" {
			ref := issue.CodeRef.Standard
			if issue.CodeRef.Section != "" {
				ref += " " + issue.CodeRef.Section
			}
			fmt.Fprintf(w, "      %s %s\n", ui.Dim("ref:"), ref)
		}
		fmt.Fprintf(w, "      %s %s\n", ui.Dim("calc:"), issue.Calculated)
	}

	fmt.Fprintf(w, "\n  %s %s\n", ui.Bold("Standards checked:"),
		strings.Join(v.StandardsChecked, "; "))
}
