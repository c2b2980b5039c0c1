// Package report renders the aggregate report as an interactive terminal UI:
// a skill list with prevalence bars on the left and a per-skill breakdown by
// country and experience group on the right.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mvoronova/skillscan/internal/aggregate"
	"github.com/mvoronova/skillscan/internal/model"
)

// Lines per skill item in the list view (name+bar, no separator).
const skillItemHeight = 1

const barWidth = 20

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	skillNameStyle = lipgloss.NewStyle().
			Bold(true)

	selectedSkillStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	barFilledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	barEmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailValueStyle = lipgloss.NewStyle()

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

type reportModel struct {
	report *aggregate.Report

	listViewport   viewport.Model
	detailViewport viewport.Model
	cursor         int
	width          int
	height         int
	ready          bool
}

func (m reportModel) Init() tea.Cmd {
	return nil
}

func (m reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveCursor(-1)
			m.recalcContent()
			m.ensureCursorVisible()
			return m, nil
		case "down", "j":
			m.moveCursor(1)
			m.recalcContent()
			m.ensureCursorVisible()
			return m, nil
		}

		// Forward other keys (pgup/pgdn/home/end) to the list viewport.
		var cmd tea.Cmd
		m.listViewport, cmd = m.listViewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *reportModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.report.TopSkills)-1, 0))
}

func (m *reportModel) ensureCursorVisible() {
	cursorTop := m.cursor * skillItemHeight
	cursorBottom := cursorTop + skillItemHeight - 1

	if cursorTop < m.listViewport.YOffset {
		m.listViewport.SetYOffset(cursorTop)
	} else if cursorBottom >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(cursorBottom - m.listViewport.Height + 1)
	}
}

func (m *reportModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(paneWidth, paneHeight)
		m.detailViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.listViewport.Width = paneWidth
		m.listViewport.Height = paneHeight
		m.detailViewport.Width = paneWidth
		m.detailViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *reportModel) recalcContent() {
	m.listViewport.SetContent(renderSkillList(m.report.TopSkills, m.cursor))
	m.detailViewport.SetContent(m.renderDetail())
}

func (m reportModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	paneWidth := m.listViewport.Width

	leftHeader := headerStyle.Render(fmt.Sprintf(" Skills (%d)", len(m.report.TopSkills)))
	rightHeader := headerStyle.Render(" Breakdown")

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeader),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeader),
	)

	leftPane := activeBorderStyle.Width(paneWidth).Render(m.listViewport.View())
	rightPane := inactiveBorderStyle.Width(paneWidth).Render(m.detailViewport.View())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)

	statusText := fmt.Sprintf(" %d postings | avg %.1f skills per posting    ↑/↓ select  q quit",
		m.report.TotalPostings, m.report.AvgSkillsPerPosting)
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m reportModel) renderDetail() string {
	if len(m.report.TopSkills) == 0 {
		return "  (no skills)"
	}
	selected := m.report.TopSkills[m.cursor]

	var b strings.Builder
	addField := func(label, value string) {
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Skill", selected.Skill)
	addField("Category", string(selected.Category))
	addField("Postings", fmt.Sprintf("%d (%.1f%%)", selected.Count, selected.Share*100))

	b.WriteByte('\n')
	b.WriteString(sectionStyle.Render("── By country ") + "\n")
	for _, s := range m.report.SkillsByCountry {
		if s.Skill != selected.Skill {
			continue
		}
		addField(string(s.Country), fmt.Sprintf("%d (%.1f%%)", s.Count, s.Share*100))
	}

	b.WriteByte('\n')
	b.WriteString(sectionStyle.Render("── By experience ") + "\n")
	for _, s := range m.report.SkillsByExperience {
		if s.Skill != selected.Skill {
			continue
		}
		label := "mid+"
		if s.Group == model.ExperienceJunior {
			label = "junior"
		}
		addField(label, fmt.Sprintf("%d (%.1f%%)", s.Count, s.Share*100))
	}

	for _, g := range m.report.SkillsGap {
		if g.Skill != selected.Skill {
			continue
		}
		b.WriteByte('\n')
		addField("Gap", fmt.Sprintf("%+.1f%% (mid+ − junior)", g.Gap*100))
	}

	return b.String()
}

func renderSkillList(stats []aggregate.SkillStat, cursor int) string {
	if len(stats) == 0 {
		return "  (no skills)"
	}

	nameWidth := 0
	for _, s := range stats {
		if len(s.Skill) > nameWidth {
			nameWidth = len(s.Skill)
		}
	}

	var b strings.Builder
	for i, s := range stats {
		nameSt := skillNameStyle
		prefix := "  "
		if i == cursor {
			nameSt = selectedSkillStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(nameSt.Render(fmt.Sprintf("%-*s", nameWidth, s.Skill)))
		b.WriteString(" ")
		b.WriteString(renderBar(s.Share))
		b.WriteString(fmt.Sprintf(" %5.1f%%", s.Share*100))
		if i < len(stats)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderBar(share float64) string {
	filled := clamp(int(share*barWidth+0.5), 0, barWidth)
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run launches the interactive report browser for the given report.
func Run(r *aggregate.Report) error {
	m := reportModel{report: r}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
