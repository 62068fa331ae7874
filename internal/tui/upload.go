package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebwray/tome/internal/config"
	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/domain"
	"github.com/calebwray/tome/pkg/session"
)

type uploadField int

const (
	fieldPath uploadField = iota
	fieldDisplayName
	fieldTitle
	fieldAuthor
	fieldYear
	numUploadFields
)

type uploadSubmittedMsg struct {
	job *client.IndexJob
	err error
}

type uploadTickMsg time.Time

type uploadSteppedMsg struct {
	state client.JobState
	err   error
}

// uploadModel is the upload form plus the indexing progress readout. A file
// with metadata goes through the two-step upload+import path so the metadata
// sticks; a bare file goes straight into the store. Esc blurs the form so the
// global tab and quit keys work; enter focuses it again.
type uploadModel struct {
	client    *client.Client
	sess      *session.Session
	cfg       *config.AppConfig
	fields    [numUploadFields]string
	focus     uploadField
	focused   bool
	job       *client.IndexJob
	statusMsg string
	errMsg    string
	busy      bool
}

func newUploadModel(c *client.Client, sess *session.Session, cfg *config.AppConfig) uploadModel {
	return uploadModel{client: c, sess: sess, cfg: cfg, focused: true}
}

func (m uploadModel) Init() tea.Cmd {
	return nil
}

func (m uploadModel) tick() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval(), func(t time.Time) tea.Msg {
		return uploadTickMsg(t)
	})
}

func (m uploadModel) Update(msg tea.Msg) (uploadModel, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadSubmittedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.job = msg.job
		m.statusMsg = ""
		if m.job.State().Terminal() {
			return m, nil
		}
		return m, m.tick()

	case uploadTickMsg:
		if m.job == nil || m.job.State().Terminal() {
			return m, nil
		}
		job := m.job
		return m, func() tea.Msg {
			state, err := job.Step(context.Background())
			return uploadSteppedMsg{state: state, err: err}
		}

	case uploadSteppedMsg:
		if msg.err != nil {
			// Transient poll failure: keep going, the deadline bounds us.
			return m, m.tick()
		}
		if msg.state.Terminal() {
			if msg.state == client.StateSucceeded {
				m.fields = [numUploadFields]string{}
				m.focus = fieldPath
			}
			return m, nil
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m uploadModel) updateKeys(msg tea.KeyMsg) (uploadModel, tea.Cmd) {
	if !m.focused {
		switch msg.String() {
		case "enter", "i":
			m.focused = true
		case "ctrl+s":
			return m.submit()
		}
		return m, nil
	}

	m.statusMsg = ""
	m.errMsg = ""

	switch msg.String() {
	case "esc":
		m.focused = false
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numUploadFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numUploadFields) % numUploadFields
	case "enter":
		if m.focus == numUploadFields-1 {
			return m.submit()
		}
		m.focus++
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
	}
	return m, nil
}

// metadata assembles the custom metadata entries from the form fields.
func (m uploadModel) metadata() ([]domain.CustomMetadata, error) {
	var meta []domain.CustomMetadata
	if v := strings.TrimSpace(m.fields[fieldTitle]); v != "" {
		meta = append(meta, domain.StringMeta("title", v))
	}
	if v := strings.TrimSpace(m.fields[fieldAuthor]); v != "" {
		meta = append(meta, domain.StringMeta("author", v))
	}
	if v := strings.TrimSpace(m.fields[fieldYear]); v != "" {
		year, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("year must be a number")
		}
		meta = append(meta, domain.NumericMeta("year", year))
	}
	return meta, nil
}

func (m uploadModel) submit() (uploadModel, tea.Cmd) {
	path := strings.TrimSpace(m.fields[fieldPath])
	if path == "" {
		m.statusMsg = "a file path is required"
		return m, nil
	}
	meta, err := m.metadata()
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	store, ok := m.sess.ActiveStore()
	if !ok {
		m.statusMsg = "select a store first (tab 1)"
		return m, nil
	}

	displayName := strings.TrimSpace(m.fields[fieldDisplayName])
	chunking := &client.ChunkingConfig{
		MaxTokensPerChunk: m.cfg.Chunking.MaxTokensPerChunk,
		MaxOverlapTokens:  m.cfg.Chunking.MaxOverlapTokens,
	}

	m.busy = true
	m.job = nil
	c := m.client
	timeout := m.cfg.PollTimeout()
	return m, func() tea.Msg {
		var op *client.Operation
		var err error
		if len(meta) > 0 {
			// Metadata rides on the import step, not the raw upload.
			var fileName string
			fileName, err = c.UploadFile(context.Background(), path, displayName)
			if err == nil {
				op, err = c.ImportFile(context.Background(), store, fileName, meta)
			}
		} else {
			op, err = c.UploadToStore(context.Background(), store, path, client.UploadConfig{
				DisplayName: displayName,
				Chunking:    chunking,
			})
		}
		if err != nil {
			return uploadSubmittedMsg{err: err}
		}
		return uploadSubmittedMsg{job: c.NewIndexJob(*op, timeout)}
	}
}

// editing reports whether the form is capturing free-form text.
func (m uploadModel) editing() bool { return m.focused }

func (m uploadModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("── UPLOAD ──") + "\n\n")

	labels := [numUploadFields]string{"path", "name", "title", "author", "year"}
	for i := uploadField(0); i < numUploadFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		displayValue := m.fields[i]
		if i == m.focus && m.focused {
			displayValue += "█"
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(fmt.Sprintf("%-6s", labels[i])), displayValue)
	}
	b.WriteString("\n " + dimStyle.Render("title/author/year become filterable metadata") + "\n")
	if !m.focused {
		b.WriteString(" " + dimStyle.Render("enter to edit the form") + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(" " + dimStyle.Render("uploading...") + "\n")
	case m.job != nil:
		state := m.job.State()
		b.WriteString(" indexing: " + jobStateStyle(state).Render(state.String()) + "\n")
		if state == client.StateFailed && m.job.Err() != nil {
			b.WriteString(" " + errStyle.Render(m.job.Err().Error()) + "\n")
		}
		if state == client.StateTimedOut {
			b.WriteString(" " + dimStyle.Render("gave up waiting; the service may still finish on its own") + "\n")
		}
	case m.errMsg != "":
		b.WriteString(" " + errStyle.Render(m.errMsg) + "\n")
	case m.statusMsg != "":
		b.WriteString(" " + accentStyle.Render(m.statusMsg) + "\n")
	}
	return b.String()
}
