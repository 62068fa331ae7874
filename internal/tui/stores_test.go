package tui

import (
	"strings"
	"testing"

	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/domain"
	"github.com/calebwray/tome/pkg/session"
)

func testStoresModel() (storesModel, *session.Session) {
	sess := session.New()
	sess.SetCredential("k")
	m := newStoresModel(client.New("http://unused.invalid", "k"), sess)
	return m, sess
}

func TestStores_LoadedPopulatesSession(t *testing.T) {
	m, sess := testStoresModel()

	m, _ = m.Update(storesLoadedMsg{stores: []domain.StoreRef{
		{Name: "fileSearchStores/a", DisplayName: "alpha"},
		{Name: "fileSearchStores/b", DisplayName: "beta"},
	}})

	if got := len(sess.Stores()); got != 2 {
		t.Fatalf("session has %d stores, want 2", got)
	}
	out := m.View()
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "beta") {
		t.Errorf("View() missing store names, got:\n%s", out)
	}
}

func TestStores_ReloadForgetsVanishedStores(t *testing.T) {
	m, sess := testStoresModel()

	m, _ = m.Update(storesLoadedMsg{stores: []domain.StoreRef{
		{Name: "fileSearchStores/a", DisplayName: "alpha"},
		{Name: "fileSearchStores/b", DisplayName: "beta"},
	}})
	m, _ = m.Update(storesLoadedMsg{stores: []domain.StoreRef{
		{Name: "fileSearchStores/b", DisplayName: "beta"},
	}})
	_ = m

	stores := sess.Stores()
	if len(stores) != 1 || stores[0].Name != "fileSearchStores/b" {
		t.Errorf("session stores = %+v, want only beta", stores)
	}
}

func TestStores_EnterSelectsActive(t *testing.T) {
	m, sess := testStoresModel()
	m, _ = m.Update(storesLoadedMsg{stores: []domain.StoreRef{
		{Name: "fileSearchStores/a", DisplayName: "alpha"},
		{Name: "fileSearchStores/b", DisplayName: "beta"},
	}})

	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("enter"))

	active, ok := sess.ActiveStore()
	if !ok || active != "fileSearchStores/b" {
		t.Fatalf("active store = %q, %v", active, ok)
	}
	if !strings.Contains(m.View(), "●") {
		t.Error("View() should mark the active store")
	}
}

func TestStores_CreateForm(t *testing.T) {
	m, _ := testStoresModel()
	m, _ = m.Update(storesLoadedMsg{})

	m, _ = m.Update(keyMsg("n"))
	if !m.editing() {
		t.Fatal("n should open the naming form")
	}
	for _, r := range "notes" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	if m.nameInput != "notes" {
		t.Fatalf("nameInput = %q", m.nameInput)
	}

	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter with a name should issue the create command")
	}
	if m.editing() {
		t.Error("form should close after submit")
	}
}

func TestStores_CreatedBecomesActive(t *testing.T) {
	m, sess := testStoresModel()

	m, _ = m.Update(storeCreatedMsg{store: &domain.StoreRef{Name: "fileSearchStores/new", DisplayName: "fresh"}})
	_ = m

	active, ok := sess.ActiveStore()
	if !ok || active != "fileSearchStores/new" {
		t.Errorf("active store = %q, %v; a new store should be selected", active, ok)
	}
}

func TestStores_DeletedClearsSelection(t *testing.T) {
	m, sess := testStoresModel()
	m, _ = m.Update(storesLoadedMsg{stores: []domain.StoreRef{
		{Name: "fileSearchStores/a", DisplayName: "alpha"},
	}})
	sess.SetActiveStore("fileSearchStores/a")

	m, _ = m.Update(storeDeletedMsg{name: "fileSearchStores/a"})
	_ = m

	if _, ok := sess.ActiveStore(); ok {
		t.Error("deleting the active store should clear the selection")
	}
	if len(sess.Stores()) != 0 {
		t.Error("deleted store should be forgotten")
	}
}

func TestStores_UseExistingByResourceName(t *testing.T) {
	m, _ := testStoresModel()
	m, _ = m.Update(storesLoadedMsg{})

	m, _ = m.Update(keyMsg("u"))
	if !m.editing() {
		t.Fatal("u should open the use-existing form")
	}
	for _, r := range "abc123" {
		m, _ = m.Update(keyMsg(string(r)))
	}
	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter with a name should issue the fetch command")
	}
	if m.editing() {
		t.Error("form should close after submit")
	}
}

func TestStores_FetchedStoreBecomesActive(t *testing.T) {
	m, sess := testStoresModel()

	m, _ = m.Update(storeFetchedMsg{store: &domain.StoreRef{Name: "fileSearchStores/xyz", DisplayName: "old friend"}})
	_ = m

	active, ok := sess.ActiveStore()
	if !ok || active != "fileSearchStores/xyz" {
		t.Errorf("active store = %q, %v; a fetched store should be selected", active, ok)
	}
	if len(sess.Stores()) != 1 {
		t.Error("fetched store should be remembered")
	}
}

func TestStores_EmptyState(t *testing.T) {
	m, _ := testStoresModel()
	m, _ = m.Update(storesLoadedMsg{})

	if !strings.Contains(m.View(), "press n to create one") {
		t.Errorf("View() should hint at creation, got:\n%s", m.View())
	}
}
