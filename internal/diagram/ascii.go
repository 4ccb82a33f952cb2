// Package diagram renders frames, loads and results as terminal text and
// images
package diagram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/guptarohit/asciigraph"

	"github.com/Abaw1984/azload-sub000/internal/loads"
)

// DrawStoryProfile plots the seismic story forces from the base up, with a
// table of the levels underneath
func DrawStoryProfile(stories []loads.Story, lengthUnit, forceUnit string) string {
	if len(stories) == 0 {
		return "\n  (no stories)\n"
	}

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  SEISMIC STORY FORCES\n")
	sb.WriteString("  ────────────────────\n\n")

	if len(stories) > 1 {
		forces := make([]float64, len(stories))
		for i, s := range stories {
			forces[i] = s.Force
		}
		sb.WriteString(asciigraph.Plot(forces,
			asciigraph.Height(10),
			asciigraph.Precision(2),
			asciigraph.Offset(4),
			asciigraph.Caption(fmt.Sprintf("Fx (%s) by story, base at left", forceUnit)),
		))
		sb.WriteString("\n\n")
	}

	sb.WriteString(fmt.Sprintf("  %-7s %12s %12s %12s\n", "Story", "h ("+lengthUnit+")", "w ("+forceUnit+")", "Fx ("+forceUnit+")"))
	for i := len(stories) - 1; i >= 0; i-- {
		s := stories[i]
		sb.WriteString(fmt.Sprintf("  %-7d %12.2f %12.2f %12.3f\n", i+1, s.Height, s.Weight, s.Force))
	}
	return sb.String()
}

// DrawCombinationBars draws one bar per combination, scaled to the largest
// resultant, and marks the governing one
func DrawCombinationBars(combos []loads.CombinedLoad, forceUnit string) string {
	const width = 40

	var sb strings.Builder
	sb.WriteString("\n")
	gov, ok := loads.Governing(combos)
	if !ok {
		sb.WriteString("  (no combinations)\n")
		return sb.String()
	}

	nameWidth := 0
	for _, c := range combos {
		nameWidth = max(nameWidth, utf8.RuneCountInString(c.Combination.Name))
	}

	for _, c := range combos {
		n := 0
		if gov.Magnitude > 0 {
			n = int(c.Magnitude / gov.Magnitude * width)
		}
		mark := ""
		if c.Combination.ID == gov.Combination.ID {
			mark = " ◄ governs"
		}
		pad := strings.Repeat(" ", nameWidth-utf8.RuneCountInString(c.Combination.Name))
		sb.WriteString(fmt.Sprintf("  %s%s │%s %.2f %s%s\n",
			c.Combination.Name, pad, strings.Repeat("█", n), c.Magnitude, forceUnit, mark))
	}
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}
	maxLen += 4

	row := func(s string) {
		pad := strings.Repeat(" ", maxLen-2-utf8.RuneCountInString(s))
		sb.WriteString(fmt.Sprintf("  ║  %s%s║\n", s, pad))
	}

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	row(title)
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		row(line)
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
