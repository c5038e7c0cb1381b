// Package tui shows one risk check in the terminal: a spinner while the
// forecasts load, then the water gauge rising to the assessed level.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"floodalert/internal/geo"
	riskservice "floodalert/internal/modules/risk/service"
	"floodalert/internal/modules/risk/types"
)

const frameInterval = 16 * time.Millisecond

type resultMsg struct {
	assessment types.RiskAssessment
}

type frameMsg time.Time

type startFunc func() error

type Model struct {
	start   startFunc
	spinner spinner.Model
	now     func() time.Time

	loading bool
	notice  string
	result  *types.RiskAssessment

	level float64
	anim  *animation
}

func newModel(start startFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = waterStyle
	return Model{start: start, spinner: s, now: time.Now, loading: true}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m.recheck()
		}
	case resultMsg:
		m.loading = false
		m.notice = ""
		a := msg.assessment
		m.result = &a
		anim := newAnimation(m.level, a.CombinedLevel, m.now())
		m.anim = &anim
		return m, frame()
	case frameMsg:
		if m.anim == nil {
			return m, nil
		}
		now := m.now()
		m.level = m.anim.levelAt(now)
		if m.anim.done(now) {
			m.level = m.anim.to
			m.anim = nil
			return m, nil
		}
		return m, frame()
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) recheck() (tea.Model, tea.Cmd) {
	err := m.start()
	switch {
	case errors.Is(err, riskservice.ErrCheckInFlight):
		m.notice = "Already checking..."
		return m, nil
	case err != nil:
		m.notice = err.Error()
		return m, nil
	}
	m.loading = true
	m.notice = ""
	return m, m.spinner.Tick
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Flood Alert") + "\n\n")

	if m.loading {
		fmt.Fprintf(&b, "%s Checking flood risk...\n\n", m.spinner.View())
	}
	b.WriteString(renderGauge(m.level, gaugeWidth) + "\n")

	if m.result != nil && !m.loading {
		b.WriteString("\n" + m.result.Summary + "\n")
		if m.result.InDanger {
			b.WriteString(dangerStyle.Render("River discharge is forecast to rise sharply. Find the nearest evacuation shelter now.") + "\n")
		}
	}
	if m.notice != "" {
		b.WriteString("\n" + mutedStyle.Render(m.notice) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("r re-check • q quit"))
	return boxStyle.Render(b.String()) + "\n"
}

// Run checks p through checker and shows the progress until the user quits.
func Run(checker *riskservice.Checker, p geo.Provider, opts ...tea.ProgramOption) error {
	var program *tea.Program
	start := func() error {
		return checker.Start(p, func(a types.RiskAssessment) {
			program.Send(resultMsg{assessment: a})
		})
	}
	program = tea.NewProgram(newModel(start), opts...)
	if err := start(); err != nil {
		return err
	}
	_, err := program.Run()
	return err
}
