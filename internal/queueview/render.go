// Command queue rendering for the queue browser and the queues command
package queueview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"groupcmd/internal/command"
	"groupcmd/internal/unit"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	moveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	attackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	buildStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	airStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	factoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
)

// profileStyle picks the heading color for a unit's behaviour profile.
func profileStyle(p unit.Profile) lipgloss.Style {
	switch p {
	case unit.ProfileAir:
		return airStyle
	case unit.ProfileBuilder:
		return buildStyle
	case unit.ProfileFactory:
		return factoryStyle
	case unit.ProfileMobile:
		return moveStyle
	default:
		return titleStyle
	}
}

// describe formats one queued command the way the unit's profile reads it.
func describe(p unit.Profile, c command.Command) string {
	switch p {
	case unit.ProfileFactory:
		// factory queues hold orders handed to freshly built units
		if c.HasPos() {
			return fmt.Sprintf("rally %s (%.0f, %.0f)", c.Kind, c.Params[0], c.Params[2])
		}
		return "rally " + c.String()
	case unit.ProfileAir:
		if c.HasPos() {
			return fmt.Sprintf("%s (%.0f, %.0f) alt %.0f", c.Kind, c.Params[0], c.Params[2], c.Params[1])
		}
	case unit.ProfileBuilder:
		if c.Kind == command.Repair || c.Kind == command.Reclaim {
			return buildStyle.Render(c.String())
		}
	}
	switch {
	case c.Kind == command.Attack && len(c.Params) == 1:
		return attackStyle.Render(fmt.Sprintf("attack #%.0f", c.Params[0]))
	case c.HasPos():
		return fmt.Sprintf("%s (%.1f, %.1f, %.1f)", c.Kind, c.Params[0], c.Params[1], c.Params[2])
	}
	return c.String()
}

// RenderQueue renders a unit heading followed by its pending commands.
// When wrap is set, lines longer than width are wrapped.
func RenderQueue(u unit.Unit, width int, wrap bool) string {
	var b strings.Builder
	head := fmt.Sprintf("#%d %s [%s]", u.ID, u.Name, u.Profile)
	b.WriteString(profileStyle(u.Profile).Render(head))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  speed %.1f/%.1f", u.WantedMaxSpeed, u.MaxSpeed)))
	b.WriteString("\n")
	if len(u.Queue) == 0 {
		b.WriteString(mutedStyle.Render("  idle"))
		return b.String()
	}
	for i, c := range u.Queue {
		prefix := "├─"
		if i == len(u.Queue)-1 {
			prefix = "└─"
		}
		line := fmt.Sprintf("%s %s", prefix, describe(u.Profile, c))
		if c.Options.Has(command.OptQueue) {
			line += mutedStyle.Render(" +queued")
		}
		if wrap && width > 0 {
			line = wordwrap.String(line, width)
		}
		b.WriteString(line)
		if i < len(u.Queue)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Text renders every unit's queue without styling, one block per unit.
func Text(units []unit.Unit) string {
	var b strings.Builder
	for i, u := range units {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "#%d %s [%s] speed %.1f/%.1f\n", u.ID, u.Name, u.Profile, u.WantedMaxSpeed, u.MaxSpeed)
		if len(u.Queue) == 0 {
			b.WriteString("  idle\n")
			continue
		}
		for _, c := range u.Queue {
			fmt.Fprintf(&b, "  %s\n", c)
		}
	}
	return b.String()
}
