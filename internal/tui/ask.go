package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/calebwray/tome/internal/config"
	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/domain"
	"github.com/calebwray/tome/pkg/filter"
	"github.com/calebwray/tome/pkg/session"
)

type answerMsg struct {
	question domain.ChatMessage
	answer   *domain.Answer
	err      error
}

// showGroundingMsg asks the root model to open the grounding overlay.
type showGroundingMsg struct {
	grounding json.RawMessage
}

type clauseField int

const (
	clauseAttr clauseField = iota
	clauseOp
	clauseValue
	numClauseFields
)

// askModel is the grounded Q&A view: a transcript, a question input, and an
// inline metadata filter editor.
type askModel struct {
	client *client.Client
	sess   *session.Session
	cfg    *config.AppConfig

	input   textinput.Model
	vp      viewport.Model
	history []domain.ChatMessage
	last    *domain.Answer
	pending uuid.UUID // ID of the question whose answer we are waiting on
	waiting bool

	clauses []filter.Clause

	// inline clause editor
	editingClause bool
	clauseFocus   clauseField
	attrInput     string
	valueInput    string
	opIndex       int

	statusMsg string
	errMsg    string
	width     int
	height    int
}

func newAskModel(c *client.Client, sess *session.Session, cfg *config.AppConfig) askModel {
	ti := textinput.New()
	ti.Placeholder = "ask your documents..."
	ti.CharLimit = maxInputLen
	vp := viewport.New(80, 20)
	return askModel{client: c, sess: sess, cfg: cfg, input: ti, vp: vp}
}

func (m askModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m askModel) Update(msg tea.Msg) (askModel, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		// Answers to superseded questions are dropped.
		if msg.question.ID != m.pending {
			return m, nil
		}
		m.waiting = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.history = append(m.history,
			msg.question,
			domain.NewChatMessage(domain.RoleAssistant, msg.answer.Text),
		)
		m.last = msg.answer
		m.refreshTranscript()
		m.vp.GotoBottom()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		vpHeight := msg.Height - 5 // header + filter line + input + status
		if vpHeight < 3 {
			vpHeight = 3
		}
		m.vp.Height = vpHeight
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m askModel) updateKeys(msg tea.KeyMsg) (askModel, tea.Cmd) {
	if m.editingClause {
		return m.updateClauseKeys(msg)
	}

	if m.input.Focused() {
		switch msg.String() {
		case "enter":
			return m.submit()
		case "esc":
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	m.statusMsg = ""
	switch msg.String() {
	case "enter", "i":
		m.input.Focus()
		return m, textinput.Blink
	case "f":
		m.editingClause = true
		m.clauseFocus = clauseAttr
		m.attrInput = ""
		m.valueInput = ""
		m.opIndex = 0
		return m, nil
	case "x":
		m.clauses = nil
		m.statusMsg = "filters cleared"
		return m, nil
	case "y":
		if m.last != nil {
			if err := clipboard.WriteAll(m.last.Text); err != nil {
				m.errMsg = "copy failed: " + err.Error()
			} else {
				m.statusMsg = "answer copied"
			}
		}
		return m, nil
	case "g":
		if m.last != nil {
			grounding := m.last.Grounding
			return m, func() tea.Msg { return showGroundingMsg{grounding: grounding} }
		}
		return m, nil
	case "j", "down":
		m.vp.ScrollDown(1)
	case "k", "up":
		m.vp.ScrollUp(1)
	}
	return m, nil
}

func (m askModel) updateClauseKeys(msg tea.KeyMsg) (askModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editingClause = false
		return m, nil
	case "tab", "enter":
		if msg.String() == "enter" && m.clauseFocus == clauseValue {
			return m.commitClause()
		}
		m.clauseFocus = (m.clauseFocus + 1) % numClauseFields
		return m, nil
	case "shift+tab":
		m.clauseFocus = (m.clauseFocus - 1 + numClauseFields) % numClauseFields
		return m, nil
	}

	switch m.clauseFocus {
	case clauseAttr:
		m.attrInput = editRune(m.attrInput, msg.String())
	case clauseOp:
		ops := filter.Operators()
		switch msg.String() {
		case "l", "right":
			m.opIndex = (m.opIndex + 1) % len(ops)
		case "h", "left":
			m.opIndex = (m.opIndex - 1 + len(ops)) % len(ops)
		}
	case clauseValue:
		m.valueInput = editRune(m.valueInput, msg.String())
	}
	return m, nil
}

func (m askModel) commitClause() (askModel, tea.Cmd) {
	attr := strings.TrimSpace(m.attrInput)
	if attr == "" {
		m.statusMsg = "an attribute is required"
		return m, nil
	}
	raw := strings.TrimSpace(m.valueInput)
	var value any = raw
	if n, err := strconv.Atoi(raw); err == nil {
		value = n
	} else if f, err := strconv.ParseFloat(raw, 64); err == nil {
		value = f
	}
	m.clauses = append(m.clauses, filter.Clause{
		Attribute: attr,
		Operator:  filter.Operators()[m.opIndex],
		Value:     value,
	})
	m.editingClause = false
	m.statusMsg = ""
	return m, nil
}

func (m askModel) submit() (askModel, tea.Cmd) {
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return m, nil
	}
	store, ok := m.sess.ActiveStore()
	if !ok {
		m.statusMsg = "select a store first (tab 1)"
		return m, nil
	}
	metadataFilter, err := filter.Build(m.clauses)
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	userMsg := domain.NewChatMessage(domain.RoleUser, question)
	m.input.SetValue("")
	m.input.Blur()
	m.pending = userMsg.ID
	m.waiting = true
	m.errMsg = ""
	c := m.client
	req := client.AskRequest{
		Model:          m.cfg.API.Model,
		StoreName:      store,
		Question:       question,
		MetadataFilter: metadataFilter,
	}
	return m, func() tea.Msg {
		answer, err := c.Ask(context.Background(), req)
		return answerMsg{question: userMsg, answer: answer, err: err}
	}
}

func (m *askModel) refreshTranscript() {
	var b strings.Builder
	for _, msg := range m.history {
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString(" " + questionStyle.Render("you") + " " + normalStyle.Render(msg.Text) + "\n")
		default:
			b.WriteString(" " + accentStyle.Render("tome") + " " + answerStyle.Render(msg.Text) + "\n")
		}
		b.WriteString("\n")
	}
	m.vp.SetContent(b.String())
}

// editing reports whether the view is capturing free-form text.
func (m askModel) editing() bool { return m.input.Focused() || m.editingClause }

func (m askModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("── ASK ──") + "\n")

	// Filter line
	if m.editingClause {
		ops := filter.Operators()
		parts := [numClauseFields]string{m.attrInput, string(ops[m.opIndex]), m.valueInput}
		labels := [numClauseFields]string{"attr", "op", "value"}
		var line strings.Builder
		for i := clauseField(0); i < numClauseFields; i++ {
			style := metaStyle
			if i == m.clauseFocus {
				style = selectedStyle
			}
			display := parts[i]
			if i == m.clauseFocus && i != clauseOp {
				display += "█"
			}
			fmt.Fprintf(&line, "%s:%s  ", style.Render(labels[i]), display)
		}
		b.WriteString(" " + line.String() + dimStyle.Render("(h/l cycles op, enter adds)") + "\n")
	} else if len(m.clauses) > 0 {
		built, err := filter.Build(m.clauses)
		if err != nil {
			built = err.Error()
		}
		b.WriteString(" " + dimStyle.Render("filter: ") + filterChipStyle.Render(built) + "\n")
	} else {
		b.WriteString(" " + dimStyle.Render("no metadata filter — press f to add one") + "\n")
	}

	if len(m.history) == 0 && !m.waiting {
		b.WriteString("\n " + dimStyle.Render("no questions yet") + "\n")
	} else {
		b.WriteString(m.vp.View() + "\n")
	}
	if m.waiting {
		b.WriteString(" " + dimStyle.Render("thinking...") + "\n")
	}

	// Input bar
	if m.input.Focused() {
		b.WriteString(" " + inputPromptStyle.Render("> ") + m.input.View() + "\n")
	} else {
		b.WriteString(" " + inputPromptStyle.Render("> ") + inputPlaceholderStyle.Render("enter to type") + "\n")
	}

	switch {
	case m.errMsg != "":
		b.WriteString(" " + errStyle.Render(m.errMsg) + "\n")
	case m.statusMsg != "":
		b.WriteString(" " + accentStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}
