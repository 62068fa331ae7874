package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/domain"
	"github.com/calebwray/tome/pkg/session"
)

type storesLoadedMsg struct {
	stores []domain.StoreRef
	err    error
}

type storeCreatedMsg struct {
	store *domain.StoreRef
	err   error
}

type storeDeletedMsg struct {
	name string
	err  error
}

type storeFetchedMsg struct {
	store *domain.StoreRef
	err   error
}

// storesModel lists the caller's file search stores and tracks which one is
// active for questions. The session registry is the source of truth; the API
// refreshes it.
type storesModel struct {
	client    *client.Client
	sess      *session.Session
	cursor    int
	loading   bool
	err       string
	status    string
	naming    bool
	nameInput string
	attaching bool
	refInput  string
	width     int
	height    int
}

func newStoresModel(c *client.Client, sess *session.Session) storesModel {
	return storesModel{client: c, sess: sess, loading: true}
}

func (m storesModel) Init() tea.Cmd {
	return m.load()
}

func (m storesModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stores, err := c.ListStores(context.Background())
		return storesLoadedMsg{stores: stores, err: err}
	}
}

func (m storesModel) Update(msg tea.Msg) (storesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case storesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		for _, ref := range msg.stores {
			m.sess.Remember(ref)
		}
		// Forget stores the service no longer reports.
		known := make(map[string]bool, len(msg.stores))
		for _, ref := range msg.stores {
			known[ref.Name] = true
		}
		for _, ref := range m.sess.Stores() {
			if !known[ref.Name] {
				m.sess.Forget(ref.Name)
			}
		}
		if n := len(m.sess.Stores()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case storeCreatedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.sess.Remember(*msg.store)
		m.sess.SetActiveStore(msg.store.Name)
		m.status = fmt.Sprintf("created %s", msg.store.DisplayName)
		return m, nil

	case storeFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.sess.Remember(*msg.store)
		m.sess.SetActiveStore(msg.store.Name)
		m.status = fmt.Sprintf("using %s", shortStoreName(msg.store.Name))
		return m, nil

	case storeDeletedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.sess.Forget(msg.name)
		m.status = "store deleted"
		if n := len(m.sess.Stores()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m storesModel) updateKeys(msg tea.KeyMsg) (storesModel, tea.Cmd) {
	if m.naming {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.nameInput)
			if name == "" {
				m.status = "a display name is required"
				return m, nil
			}
			m.naming = false
			m.nameInput = ""
			m.loading = true
			c := m.client
			return m, func() tea.Msg {
				ref, err := c.CreateStore(context.Background(), name)
				return storeCreatedMsg{store: ref, err: err}
			}
		case "esc":
			m.naming = false
			m.nameInput = ""
		default:
			m.nameInput = editRune(m.nameInput, msg.String())
		}
		return m, nil
	}

	if m.attaching {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.refInput)
			if name == "" {
				m.status = "a store resource name is required"
				return m, nil
			}
			if !strings.HasPrefix(name, "fileSearchStores/") {
				name = "fileSearchStores/" + name
			}
			m.attaching = false
			m.refInput = ""
			m.loading = true
			c := m.client
			return m, func() tea.Msg {
				ref, err := c.GetStore(context.Background(), name)
				return storeFetchedMsg{store: ref, err: err}
			}
		case "esc":
			m.attaching = false
			m.refInput = ""
		default:
			m.refInput = editRune(m.refInput, msg.String())
		}
		return m, nil
	}

	stores := m.sess.Stores()
	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(stores)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(stores) {
			m.sess.SetActiveStore(stores[m.cursor].Name)
			m.status = fmt.Sprintf("active store: %s", stores[m.cursor].DisplayName)
		}
	case "n":
		m.naming = true
		m.nameInput = ""
	case "u":
		m.attaching = true
		m.refInput = ""
	case "d":
		if m.cursor < len(stores) {
			name := stores[m.cursor].Name
			m.loading = true
			c := m.client
			return m, func() tea.Msg {
				err := c.DeleteStore(context.Background(), name)
				return storeDeletedMsg{name: name, err: err}
			}
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

// editing reports whether the view is capturing free-form text.
func (m storesModel) editing() bool { return m.naming || m.attaching }

func (m storesModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + sectionHeaderStyle.Render("── STORES ──") + "\n\n")

	if m.naming {
		b.WriteString(" " + inputPromptStyle.Render("name> ") + m.nameInput + accentStyle.Render("█") + "\n")
		b.WriteString(" " + dimStyle.Render("enter to create, esc to cancel") + "\n")
		return b.String()
	}

	if m.attaching {
		b.WriteString(" " + inputPromptStyle.Render("store> ") + m.refInput + accentStyle.Render("█") + "\n")
		b.WriteString(" " + dimStyle.Render("paste a fileSearchStores/... name; enter to use, esc to cancel") + "\n")
		return b.String()
	}

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading stores...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		return b.String()
	}

	stores := m.sess.Stores()
	if len(stores) == 0 {
		b.WriteString(" " + dimStyle.Render("no stores yet — press n to create one") + "\n")
		return b.String()
	}

	active, _ := m.sess.ActiveStore()
	for i, ref := range stores {
		cursor := " "
		style := normalStyle
		if i == m.cursor {
			cursor = ">"
			style = selectedStyle
		}
		marker := "  "
		if ref.Name == active {
			marker = activeDotStyle.Render("●") + " "
		}
		display := ref.DisplayName
		if display == "" {
			display = shortStoreName(ref.Name)
		}
		fmt.Fprintf(&b, " %s %s%s  %s\n",
			cursor, marker, style.Render(truncStr(display, 40)), metaStyle.Render(shortStoreName(ref.Name)))
	}

	if m.status != "" {
		b.WriteString("\n " + okStyle.Render(m.status) + "\n")
	}
	return b.String()
}
