package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calebwray/tome/internal/config"
	"github.com/calebwray/tome/pkg/session"
)

func testConfig() *config.AppConfig {
	cfg, err := config.Load("/nonexistent/tome.yaml")
	if err != nil {
		panic(err)
	}
	cfg.Poll.IntervalMillis = 1
	return cfg
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func readyApp() App {
	sess := session.New()
	sess.SetCredential("test-key")
	a := NewApp(testConfig(), sess)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App)
}

func TestApp_SetupGateWithoutCredential(t *testing.T) {
	a := NewApp(testConfig(), session.New())
	if a.ready {
		t.Fatal("app must not be ready without a credential")
	}
	out := a.View()
	if !strings.Contains(out, "SETUP") {
		t.Errorf("View() should show the setup gate, got:\n%s", out)
	}
	if !strings.Contains(out, "GEMINI_API_KEY") {
		t.Errorf("View() should mention the key env var, got:\n%s", out)
	}
}

func TestApp_SkipsSetupWhenCredentialPresent(t *testing.T) {
	a := readyApp()
	if !a.ready {
		t.Fatal("app should be ready when the session carries a credential")
	}
	out := a.View()
	for _, tab := range []string{"Stores", "Upload", "Ask", "Samples"} {
		if !strings.Contains(out, tab) {
			t.Errorf("View() missing tab %q", tab)
		}
	}
}

func TestApp_CredentialEntryUnlocksTabs(t *testing.T) {
	sess := session.New()
	a := NewApp(testConfig(), sess)

	m, _ := a.Update(credentialSetMsg{key: "entered-key"})
	a = m.(App)

	if !a.ready {
		t.Fatal("app should be ready after credential entry")
	}
	if got, ok := sess.Credential(); !ok || got != "entered-key" {
		t.Errorf("session credential = %q, %v", got, ok)
	}
}

func TestApp_TabSwitching(t *testing.T) {
	a := readyApp()

	m, _ := a.Update(keyMsg("3"))
	a = m.(App)
	if a.view != viewAsk {
		t.Fatalf("view = %v, want ask", a.view)
	}
	if !strings.Contains(a.View(), "ASK") {
		t.Error("View() should render the Ask tab")
	}

	m, _ = a.Update(keyMsg("4"))
	a = m.(App)
	if a.view != viewSamples {
		t.Fatalf("view = %v, want samples", a.view)
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	a := readyApp()

	m, _ := a.Update(keyMsg("h"))
	a = m.(App)
	if !a.helpOpen {
		t.Fatal("h should open the help overlay")
	}
	out := a.View()
	if !strings.Contains(out, "Get an API key") {
		t.Errorf("help overlay missing links, got:\n%s", out)
	}

	m, _ = a.Update(keyMsg("esc"))
	a = m.(App)
	if a.helpOpen {
		t.Error("esc should close the help overlay")
	}
}

func TestApp_GroundingOverlay(t *testing.T) {
	a := readyApp()

	m, _ := a.Update(showGroundingMsg{grounding: []byte(`{"groundingChunks":[]}`)})
	a = m.(App)
	if !a.groundingOpen {
		t.Fatal("showGroundingMsg should open the overlay")
	}
	if !strings.Contains(a.View(), "GROUNDING") {
		t.Error("View() should render the grounding overlay")
	}

	m, _ = a.Update(keyMsg("esc"))
	a = m.(App)
	if a.groundingOpen {
		t.Error("esc should close the grounding overlay")
	}
}

func TestApp_UploadTabReleasesGlobalKeys(t *testing.T) {
	a := readyApp()
	m, _ := a.Update(keyMsg("2"))
	a = m.(App)

	m, _ = a.Update(keyMsg("esc"))
	a = m.(App)
	if a.isEditing() {
		t.Fatal("esc should blur the upload form")
	}
	if a.upload.fields[fieldPath] != "" {
		t.Fatalf("esc must not type into the form, path = %q", a.upload.fields[fieldPath])
	}

	m, _ = a.Update(keyMsg("1"))
	a = m.(App)
	if a.view != viewStores {
		t.Fatalf("view = %v, want stores after pressing 1", a.view)
	}

	m, _ = a.Update(keyMsg("2"))
	a = m.(App)
	_, cmd := a.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should quit while the form is blurred")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestApp_QuitKey(t *testing.T) {
	a := readyApp()
	_, cmd := a.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
