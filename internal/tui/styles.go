package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"floodalert/internal/modules/risk/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("25")).Padding(0, 1)
	waterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	dangerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boxStyle    = lipgloss.NewStyle().Padding(1, 2).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
)

const gaugeWidth = 40

// filled is how many of width cells the water covers at level.
func filled(level float64, width int) int {
	n := int(level/types.MaxLevel*float64(width) + 0.5)
	return max(0, min(n, width))
}

func renderGauge(level float64, width int) string {
	n := filled(level, width)
	bar := waterStyle.Render(strings.Repeat("█", n)) + emptyStyle.Render(strings.Repeat("░", width-n))

	// Scale marks at 1-4 ft under the bar.
	scale := []rune(strings.Repeat(" ", width+1))
	for ft := 1; ft <= 4; ft++ {
		pos := ft * width / int(types.MaxLevel)
		scale[pos] = rune('0' + ft)
	}

	return bar + "\n" + mutedStyle.Render(string(scale)+" ft") + "\n" +
		labelStyle.Render(fmt.Sprintf("Current Risk: %.1f ft", level))
}
