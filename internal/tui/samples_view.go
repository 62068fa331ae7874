package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebwray/tome/internal/config"
	"github.com/calebwray/tome/internal/samples"
	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/domain"
	"github.com/calebwray/tome/pkg/session"
)

type samplesStoreMsg struct {
	store *domain.StoreRef
	err   error
}

type sampleImportedMsg struct {
	index int
	job   *client.IndexJob
	err   error
}

type samplesTickMsg time.Time

type sampleSteppedMsg struct {
	index int
	state client.JobState
	err   error
}

// samplesModel shows the bundled sample classics and can index all of them
// into a dedicated store with one keypress, attaching author/year metadata so
// filtered questions have something to bite on.
type samplesModel struct {
	client *client.Client
	sess   *session.Session
	cfg    *config.AppConfig

	statuses []samples.Status
	results  map[int]string // status index -> outcome label
	job      *client.IndexJob
	current  int
	store    string
	running  bool
	errMsg   string
	doneMsg  string
}

func newSamplesModel(c *client.Client, sess *session.Session, cfg *config.AppConfig) samplesModel {
	return samplesModel{client: c, sess: sess, cfg: cfg, results: map[int]string{}}
}

func (m samplesModel) Init() tea.Cmd {
	return func() tea.Msg { return samplesScannedMsg{statuses: samples.Scan(m.cfg.SamplesDir)} }
}

type samplesScannedMsg struct {
	statuses []samples.Status
}

func (m samplesModel) tick() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval(), func(t time.Time) tea.Msg {
		return samplesTickMsg(t)
	})
}

func (m samplesModel) Update(msg tea.Msg) (samplesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case samplesScannedMsg:
		m.statuses = msg.statuses
		return m, nil

	case samplesStoreMsg:
		if msg.err != nil {
			m.running = false
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.store = msg.store.Name
		m.sess.Remember(*msg.store)
		m.sess.SetActiveStore(msg.store.Name)
		m.current = -1
		return m.importNext()

	case sampleImportedMsg:
		if msg.err != nil {
			m.results[msg.index] = "failed: " + truncStr(msg.err.Error(), 50)
			return m.importNext()
		}
		m.job = msg.job
		m.results[msg.index] = "indexing"
		return m, m.tick()

	case samplesTickMsg:
		if m.job == nil {
			return m, nil
		}
		job, index := m.job, m.current
		return m, func() tea.Msg {
			state, err := job.Step(context.Background())
			return sampleSteppedMsg{index: index, state: state, err: err}
		}

	case sampleSteppedMsg:
		if msg.index != m.current {
			return m, nil
		}
		if msg.err != nil {
			return m, m.tick()
		}
		if !msg.state.Terminal() {
			return m, m.tick()
		}
		switch msg.state {
		case client.StateSucceeded:
			m.results[msg.index] = "indexed"
		case client.StateTimedOut:
			m.results[msg.index] = "timed out"
		default:
			label := "failed"
			if m.job != nil && m.job.Err() != nil {
				label = "failed: " + truncStr(m.job.Err().Error(), 50)
			}
			m.results[msg.index] = label
		}
		m.job = nil
		return m.importNext()

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.running {
			return m.start()
		}
		if msg.String() == "r" && !m.running {
			m.results = map[int]string{}
			m.errMsg = ""
			m.doneMsg = ""
			return m, m.Init()
		}
	}
	return m, nil
}

func (m samplesModel) start() (samplesModel, tea.Cmd) {
	if len(samples.Present(m.statuses)) == 0 {
		m.errMsg = "no sample files found in " + m.cfg.SamplesDir
		return m, nil
	}
	m.running = true
	m.errMsg = ""
	m.doneMsg = ""
	m.results = map[int]string{}
	c := m.client
	name := m.cfg.Stores.SamplesDisplayName
	return m, func() tea.Msg {
		ref, err := c.CreateStore(context.Background(), name)
		return samplesStoreMsg{store: ref, err: err}
	}
}

// importNext starts the upload+import of the next sample present on disk, or
// finishes the run when none remain.
func (m samplesModel) importNext() (samplesModel, tea.Cmd) {
	next := -1
	for i := m.current + 1; i < len(m.statuses); i++ {
		if m.statuses[i].Present {
			next = i
			break
		}
	}
	if next == -1 {
		m.running = false
		m.doneMsg = "samples ready — ask away (tab 3)"
		return m, nil
	}

	m.current = next
	m.results[next] = "uploading"
	st := m.statuses[next]
	c := m.client
	store := m.store
	timeout := m.cfg.PollTimeout()
	return m, func() tea.Msg {
		fileName, err := c.UploadFile(context.Background(), st.Path, st.Spec.Path)
		if err != nil {
			return sampleImportedMsg{index: next, err: err}
		}
		op, err := c.ImportFile(context.Background(), store, fileName, st.Spec.Metadata(st.Path))
		if err != nil {
			return sampleImportedMsg{index: next, err: err}
		}
		return sampleImportedMsg{index: next, job: c.NewIndexJob(*op, timeout)}
	}
}

func (m samplesModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("── SAMPLES ──") + "\n\n")

	if len(m.statuses) == 0 {
		b.WriteString(" " + dimStyle.Render("scanning...") + "\n")
		return b.String()
	}

	for i, st := range m.statuses {
		title := fmt.Sprintf("%s — %s (%d)", st.Spec.Title, st.Spec.Author, st.Spec.Year)
		if !st.Present {
			fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("·"), dimStyle.Render(title+"  missing"))
			continue
		}
		line := normalStyle.Render(title) + "  " + metaStyle.Render(samples.HumanSize(st.Size))
		if result, ok := m.results[i]; ok {
			style := dimStyle
			switch {
			case result == "indexed":
				style = okStyle
			case strings.HasPrefix(result, "failed"), result == "timed out":
				style = errStyle
			case result == "indexing", result == "uploading":
				style = accentStyle
			}
			line += "  " + style.Render(result)
		}
		fmt.Fprintf(&b, " %s %s\n", okStyle.Render("●"), line)
	}

	b.WriteString("\n")
	switch {
	case m.running:
		b.WriteString(" " + dimStyle.Render("building sample store...") + "\n")
	case m.errMsg != "":
		b.WriteString(" " + errStyle.Render(m.errMsg) + "\n")
	case m.doneMsg != "":
		b.WriteString(" " + okStyle.Render(m.doneMsg) + "\n")
	default:
		b.WriteString(" " + dimStyle.Render("enter indexes all samples into a new store") + "\n")
	}
	return b.String()
}
