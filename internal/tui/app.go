package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/calebwray/tome/internal/browser"
	"github.com/calebwray/tome/internal/config"
	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/session"
)

type view int

const (
	viewStores view = iota
	viewUpload
	viewAsk
	viewSamples
)

// App is the root Bubbletea model. Until a credential is entered it shows the
// setup gate; afterwards it hosts the four tab views and the overlays.
type App struct {
	cfg    *config.AppConfig
	sess   *session.Session
	client *client.Client

	ready   bool
	setup   setupModel
	view    view
	stores  storesModel
	upload  uploadModel
	ask     askModel
	samples samplesModel

	grounding     groundingModel
	groundingOpen bool
	helpOpen      bool
	helpCursor    int

	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates the TUI application. If the session already carries a
// credential (from the environment), the setup gate is skipped.
func NewApp(cfg *config.AppConfig, sess *session.Session) App {
	a := App{
		cfg:       cfg,
		sess:      sess,
		setup:     newSetupModel(cfg.API.APIKeyEnv),
		grounding: newGroundingModel(),
	}
	if key, ok := sess.Credential(); ok {
		a.attach(key)
	}
	return a
}

// attach builds the API client and the tab models once a credential exists.
func (a *App) attach(key string) {
	a.client = client.New(a.cfg.API.BaseURL, key)
	a.stores = newStoresModel(a.client, a.sess)
	a.upload = newUploadModel(a.client, a.sess, a.cfg)
	a.ask = newAskModel(a.client, a.sess, a.cfg)
	a.samples = newSamplesModel(a.client, a.sess, a.cfg)
	a.ready = true
}

func (a App) Init() tea.Cmd {
	if !a.ready {
		return tea.Batch(a.setup.Init(), shimmerTickCmd())
	}
	return tea.Batch(a.stores.Init(), a.samples.Init(), shimmerTickCmd())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		if a.ready {
			a.stores, _ = a.stores.Update(bodyMsg)
			a.upload, _ = a.upload.Update(bodyMsg)
			a.ask, _ = a.ask.Update(bodyMsg)
			a.samples, _ = a.samples.Update(bodyMsg)
			a.grounding, _ = a.grounding.Update(bodyMsg)
		}

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case credentialSetMsg:
		a.sess.SetCredential(msg.key)
		a.attach(msg.key)
		a.view = viewStores
		return a, tea.Batch(a.stores.Init(), a.samples.Init())

	case showGroundingMsg:
		a.groundingOpen = true
		a.grounding = a.grounding.open(msg.grounding)
		return a, nil

	case tea.KeyMsg:
		if !a.ready {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			var cmd tea.Cmd
			a.setup, cmd = a.setup.Update(msg)
			return a, cmd
		}

		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc":
				a.helpOpen = false
			case "q", "ctrl+c":
				return a, tea.Quit
			case "j", "down":
				if a.helpCursor < len(helpItems)-1 {
					a.helpCursor++
				}
			case "k", "up":
				if a.helpCursor > 0 {
					a.helpCursor--
				}
			case "enter":
				item := helpItems[a.helpCursor]
				if item.url != "" {
					browser.Open(item.url) //nolint:errcheck // best-effort browser open
				}
			}
			return a, nil
		}

		// Grounding overlay captures all keys when open
		if a.groundingOpen {
			var cmd tea.Cmd
			a.grounding, cmd = a.grounding.Update(msg)
			if a.grounding.closed {
				a.groundingOpen = false
			}
			return a, cmd
		}

		// Global keys (only when not editing)
		if !a.isEditing() {
			switch msg.String() {
			case "h":
				a.helpOpen = true
				a.helpCursor = 0
				return a, nil
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				if a.view != viewStores {
					a.view = viewStores
					return a, a.stores.Init()
				}
				return a, nil
			case "2":
				if a.view != viewUpload {
					a.view = viewUpload
					return a, a.upload.Init()
				}
				return a, nil
			case "3":
				if a.view != viewAsk {
					a.view = viewAsk
					return a, a.ask.Init()
				}
				return a, nil
			case "4":
				if a.view != viewSamples {
					a.view = viewSamples
					return a, a.samples.Init()
				}
				return a, nil
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	if !a.ready {
		var cmd tea.Cmd
		a.setup, cmd = a.setup.Update(msg)
		return a, cmd
	}

	// Route grounding messages when overlay is open
	if a.groundingOpen {
		var cmd tea.Cmd
		a.grounding, cmd = a.grounding.Update(msg)
		if a.grounding.closed {
			a.groundingOpen = false
		}
		return a, cmd
	}

	// Async results are routed to their owners regardless of the active tab,
	// so background indexing keeps ticking while the user is elsewhere.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch msg.(type) {
	case storesLoadedMsg, storeCreatedMsg, storeDeletedMsg, storeFetchedMsg:
		a.stores, cmd = a.stores.Update(msg)
		return a, cmd
	case uploadSubmittedMsg, uploadTickMsg, uploadSteppedMsg:
		a.upload, cmd = a.upload.Update(msg)
		return a, cmd
	case answerMsg:
		a.ask, cmd = a.ask.Update(msg)
		return a, cmd
	case samplesScannedMsg, samplesStoreMsg, sampleImportedMsg, samplesTickMsg, sampleSteppedMsg:
		a.samples, cmd = a.samples.Update(msg)
		return a, cmd
	}

	switch a.view {
	case viewStores:
		a.stores, cmd = a.stores.Update(msg)
	case viewUpload:
		a.upload, cmd = a.upload.Update(msg)
	case viewAsk:
		a.ask, cmd = a.ask.Update(msg)
	case viewSamples:
		a.samples, cmd = a.samples.Update(msg)
	}
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

func (a App) isEditing() bool {
	switch a.view {
	case viewStores:
		return a.stores.editing()
	case viewUpload:
		return a.upload.editing()
	case viewAsk:
		return a.ask.editing()
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)

	// Context line below logo: model + active store
	contextLine := ""
	if a.ready {
		parts := []string{a.cfg.API.Model}
		if active, ok := a.sess.ActiveStore(); ok {
			parts = append(parts, activeDotStyle.Render("●")+" "+shortStoreName(active))
		} else {
			parts = append(parts, dimStyle.Render("no active store"))
		}
		contextLine = metaStyle.Render(strings.Join(parts, " . "))
	}

	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	if contextLine != "" {
		ctxWidth := lipgloss.Width(contextLine)
		ctxPad := (a.width - ctxWidth) / 2
		if ctxPad < 0 {
			ctxPad = 0
		}
		header += "\n" + strings.Repeat(" ", ctxPad) + contextLine
	} else {
		header += "\n"
	}

	if !a.ready {
		body := a.setup.View()
		help := " " + helpEntry("enter", "save key") + "  " + helpEntry("ctrl+o", "get a key") + "  " + helpEntry("ctrl+c", "quit")
		body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
		return fmt.Sprintf("%s\n%s\n%s", header, body, help)
	}

	// Tab bar: 4 equal-width columns spread across the terminal
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Stores", viewStores},
		{"2", "Upload", viewUpload},
		{"3", "Ask", viewAsk},
		{"4", "Samples", viewSamples},
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	centeredTabs := tabBar.String()

	// Body
	var body string
	var help string
	switch a.view {
	case viewStores:
		body = a.stores.View()
		if a.stores.editing() {
			help = " " + helpEntry("enter", "create") + "  " + helpEntry("esc", "cancel")
		} else {
			help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "select") + "  " + helpEntry("n", "new") + "  " + helpEntry("u", "use existing") + "  " + helpEntry("d", "delete") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
		}
	case viewUpload:
		body = a.upload.View()
		if a.upload.editing() {
			help = " " + helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "upload") + "  " + helpEntry("esc", "nav")
		} else {
			help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("enter", "edit") + "  " + helpEntry("ctrl+s", "upload") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
		}
	case viewAsk:
		body = a.ask.View()
		if a.ask.editing() {
			help = " " + helpEntry("enter", "ask") + "  " + helpEntry("esc", "nav")
		} else {
			help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("enter", "type") + "  " + helpEntry("f", "filter") + "  " + helpEntry("x", "clear filters") + "  " + helpEntry("g", "grounding") + "  " + helpEntry("y", "copy") + "  " + helpEntry("q", "quit")
		}
	case viewSamples:
		body = a.samples.View()
		help = " " + helpEntry("1-4", "tabs") + "  " + helpEntry("enter", "index samples") + "  " + helpEntry("r", "rescan") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	}

	// Grounding overlay
	if a.groundingOpen {
		body = a.grounding.View()
		help = " " + helpEntry("j/k", "scroll") + "  " + helpEntry("y", "copy") + "  " + helpEntry("esc", "close")
	}

	// Help overlay
	if a.helpOpen {
		body = helpView(a.helpCursor)
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, centeredTabs, body, help)
}
