package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/prepwise/internal/planner"
	"github.com/javiermolinar/prepwise/internal/task"
)

// ruleWidth is the width of horizontal separators.
const ruleWidth = 60

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	return task.FormatMinutes(minutes)
}

// outcomeSymbol returns the indicator for how a slot was placed.
func outcomeSymbol(o task.Outcome) string {
	switch o {
	case task.OutcomePlaced:
		return colorPlaced.Sprint("○")
	case task.OutcomePlacedWithOverlap:
		return colorOverlap.Sprint("◐")
	case task.OutcomeFallbackWholeDuration:
		return colorFallback.Sprint("●")
	default:
		return "?"
	}
}

// outcomeNote returns a short explanation for non-clean outcomes.
func outcomeNote(o task.Outcome) string {
	switch o {
	case task.OutcomePlacedWithOverlap:
		return "overlaps another slot"
	case task.OutcomeFallbackWholeDuration:
		return "no day left before the deadline"
	default:
		return ""
	}
}

// truncate shortens s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// printSlotRow prints one slot line: symbol, time range, label, duration.
func printSlotRow(w io.Writer, s task.Slot, withName bool) {
	line := fmt.Sprintf("  %s  %s-%s  %-18s %6s",
		outcomeSymbol(s.Outcome), s.Start, s.End(), s.Label, FormatDuration(s.Duration))
	if withName {
		line += "  " + truncate(s.TaskName, termWidth()-48)
	}
	if note := outcomeNote(s.Outcome); note != "" {
		line += "  " + formatWarning("("+note+")")
	}
	fmt.Fprintln(w, line)
}

// printPreview prints the proposed slots of a planning run.
func printPreview(w io.Writer, name string, prepMinutes int, res planner.Result) {
	fmt.Fprintf(w, "\n  %s\n", formatHeader("Proposed plan for "+name))
	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))

	for _, s := range res.Slots {
		printSlotRow(w, s, false)
	}

	fmt.Fprintln(w, strings.Repeat("─", ruleWidth))
	planned := 0
	for _, s := range res.Slots {
		planned += s.Duration
	}
	if res.Fallback {
		fmt.Fprintf(w, "  %s\n", formatWarning("No day left before the deadline: all preparation is planned today."))
	} else {
		fmt.Fprintf(w, "  %d day(s) × %s = %s (asked %s)\n",
			len(res.Slots), FormatDuration(res.Spread.MinutesPerDay),
			formatStats(FormatDuration(planned)), FormatDuration(prepMinutes))
	}
	if n := res.Overlapping(); n > 0 {
		fmt.Fprintf(w, "  %s\n", formatWarning(fmt.Sprintf("%d slot(s) overlap existing plans.", n)))
	}
}

// printWeekStats prints the summary lines under the week table.
func printWeekStats(w io.Writer, stats task.WeekStats, dayName func(int) string) {
	fmt.Fprintf(w, "  Planned: %s  |  Slots: %d  |  Deadlines: %d  |  Overlaps: %d\n",
		formatStats(FormatDuration(stats.TotalMinutes)), stats.Slots, stats.Deadlines, stats.Conflicts)

	if day, minutes := stats.BusiestDay(); day >= 0 {
		fmt.Fprintf(w, "  Busiest day: %s (%s)\n", dayName(day), formatStats(FormatDuration(minutes)))
	}
}
