package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Conceptual-Machines/magda-patterns/internal/arrangement"
	"github.com/Conceptual-Machines/magda-patterns/internal/song"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fff"))
	channelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c678dd"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fff"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888"))
)

// View renders a compiled song: per channel the arrangement lane and an
// event table per clip
func View(c *song.Compiled) string {
	var b strings.Builder

	title := c.Name
	if c.Tempo > 0 {
		title = fmt.Sprintf("%s  %gbpm", title, c.Tempo)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	for _, ch := range c.Channels {
		b.WriteString("\n")
		name := ch.Name
		if ch.Label != "" {
			name = fmt.Sprintf("%s (%s)", name, ch.Label)
		}
		b.WriteString(channelStyle.Render(name))
		b.WriteString("  ")
		b.WriteString(lane(ch.Slots))
		b.WriteString("\n")

		for i, cl := range ch.Clips {
			b.WriteString(statusStyle.Render(fmt.Sprintf(
				"  clip %d  %q  %d events  %.2f beats  window x%d = %.2f",
				i, cl.Spec.Pattern, len(cl.Events), cl.TotalDuration(),
				cl.Window.Repetitions, cl.Window.Duration,
			)))
			b.WriteString("\n")
			for _, e := range cl.Events {
				pitches := strings.Join(e.Pitches, " ")
				if pitches == "" {
					pitches = "·"
				}
				b.WriteString(activeStyle.Render(fmt.Sprintf(
					"    %6.3f  %6.3f  %3d  %s", e.Start, e.Duration, e.Velocity, pitches,
				)))
				b.WriteString("\n")
			}
		}
	}

	if len(c.Unison) > 0 {
		labels := make([]string, 0, len(c.Unison))
		for label := range c.Unison {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		b.WriteString("\n")
		for _, label := range labels {
			b.WriteString(dimStyle.Render(fmt.Sprintf("unison %s: channels %v", label, c.Unison[label])))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// lane draws one character per arrangement slot: the clip digit, '_' for
// a held clip and '·' for silence
func lane(slots []arrangement.Slot) string {
	cells := make([]string, len(slots))
	for i, s := range slots {
		switch s.Kind {
		case arrangement.PlayClip:
			cells[i] = activeStyle.Render(fmt.Sprintf("%d", s.Clip))
		case arrangement.ExtendPrevious:
			cells[i] = activeStyle.Render("_")
		default:
			cells[i] = dimStyle.Render("·")
		}
	}
	return strings.Join(cells, "")
}
