package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebwray/tome/internal/browser"
)

const apiKeyURL = "https://aistudio.google.com/apikey"

// credentialSetMsg carries a freshly entered API key to the root model.
type credentialSetMsg struct {
	key string
}

// setupModel gates the app until an API key is entered. The key is kept in
// memory only; it is never echoed, logged, or written to disk.
type setupModel struct {
	input  textinput.Model
	keyEnv string
	err    string
}

func newSetupModel(keyEnv string) setupModel {
	ti := textinput.New()
	ti.Placeholder = "paste your Gemini API key"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 512
	ti.Focus()
	return setupModel{input: ti, keyEnv: keyEnv}
}

func (m setupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m setupModel) Update(msg tea.Msg) (setupModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			entered := strings.TrimSpace(m.input.Value())
			if entered == "" {
				m.err = "an API key is required"
				return m, nil
			}
			m.err = ""
			return m, func() tea.Msg { return credentialSetMsg{key: entered} }
		case "ctrl+o":
			browser.Open(apiKeyURL) //nolint:errcheck // best-effort browser open
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m setupModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("── SETUP ──") + "\n\n")
	b.WriteString(" " + normalStyle.Render("Tome needs a Gemini API key to talk to the File Search API.") + "\n")
	fmt.Fprintf(&b, " %s\n\n", dimStyle.Render("Tip: export "+m.keyEnv+" to skip this step next time."))
	b.WriteString(" " + m.input.View() + "\n")
	if m.err != "" {
		b.WriteString("\n " + errStyle.Render(m.err) + "\n")
	}
	b.WriteString("\n " + dimStyle.Render("The key stays in memory for this session only.") + "\n")
	return b.String()
}
