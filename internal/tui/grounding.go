package tui

import (
	"encoding/json"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calebwray/tome/pkg/domain"
)

// groundingModel is the overlay that shows the raw grounding metadata of the
// most recent answer, pretty-printed.
type groundingModel struct {
	vp        viewport.Model
	body      string
	closed    bool
	statusMsg string
	width     int
	height    int
}

func newGroundingModel() groundingModel {
	return groundingModel{vp: viewport.New(80, 20)}
}

func (m groundingModel) open(grounding json.RawMessage) groundingModel {
	answer := domain.Answer{Grounding: grounding}
	m.body = answer.GroundingJSON()
	m.closed = false
	m.statusMsg = ""
	m.vp.SetContent(m.body)
	m.vp.GotoTop()
	return m
}

func (m groundingModel) Update(msg tea.Msg) (groundingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width - 6
		vpHeight := msg.Height - 4
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.vp.Height = vpHeight
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "g":
			m.closed = true
		case "y":
			if err := clipboard.WriteAll(m.body); err != nil {
				m.statusMsg = "copy failed: " + err.Error()
			} else {
				m.statusMsg = "grounding copied"
			}
		case "j", "down":
			m.vp.ScrollDown(1)
		case "k", "up":
			m.vp.ScrollUp(1)
		}
	}
	return m, nil
}

func (m groundingModel) View() string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Background(surfaceColor).
		Padding(0, 1)

	var sb strings.Builder
	sb.WriteString(sectionHeaderStyle.Render("── GROUNDING ──") + "\n")
	sb.WriteString(m.vp.View())
	if m.statusMsg != "" {
		sb.WriteString("\n" + okStyle.Render(m.statusMsg))
	}
	return "\n" + border.Render(sb.String())
}
