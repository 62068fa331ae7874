package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calebwray/tome/internal/samples"
	"github.com/calebwray/tome/pkg/client"
	"github.com/calebwray/tome/pkg/domain"
	"github.com/calebwray/tome/pkg/session"
)

func testSamplesModel(t *testing.T, withFiles bool) samplesModel {
	t.Helper()
	cfg := testConfig()
	cfg.SamplesDir = t.TempDir()
	if withFiles {
		for _, spec := range domain.Samples {
			if err := os.WriteFile(filepath.Join(cfg.SamplesDir, spec.Path), []byte("text"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	sess := session.New()
	sess.SetCredential("k")
	m := newSamplesModel(client.New("http://unused.invalid", "k"), sess, cfg)
	m, _ = m.Update(samplesScannedMsg{statuses: samples.Scan(cfg.SamplesDir)})
	return m
}

func TestSamples_ShowsMissingFiles(t *testing.T) {
	m := testSamplesModel(t, false)

	out := m.View()
	if !strings.Contains(out, "missing") {
		t.Errorf("View() should flag missing samples, got:\n%s", out)
	}
	if !strings.Contains(out, "Jane Austen") {
		t.Errorf("View() should list the expected classics, got:\n%s", out)
	}
}

func TestSamples_EnterWithNoFilesErrors(t *testing.T) {
	m := testSamplesModel(t, false)

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("enter with no sample files should not issue a command")
	}
	if !strings.Contains(m.View(), "no sample files found") {
		t.Errorf("View() should explain, got:\n%s", m.View())
	}
}

func TestSamples_EnterStartsRun(t *testing.T) {
	m := testSamplesModel(t, true)

	m, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter with samples present should start the run")
	}
	if !m.running {
		t.Error("model should report a run in progress")
	}
}

func TestSamples_StoreCreatedStartsFirstImport(t *testing.T) {
	m := testSamplesModel(t, true)
	m.running = true

	m, cmd := m.Update(samplesStoreMsg{store: &domain.StoreRef{Name: "fileSearchStores/s", DisplayName: "file-search-samples"}})
	if cmd == nil {
		t.Fatal("store creation should kick off the first import")
	}
	if m.store != "fileSearchStores/s" {
		t.Errorf("store = %q", m.store)
	}
	if m.results[m.current] != "uploading" {
		t.Errorf("first sample should be uploading, results = %v", m.results)
	}
}

func TestSamples_ImportFailureMovesOn(t *testing.T) {
	m := testSamplesModel(t, true)
	m.running = true
	m.store = "fileSearchStores/s"
	m.current = 0

	m, cmd := m.Update(sampleImportedMsg{index: 0, err: &client.APIError{StatusCode: 500, Message: "boom"}})
	if cmd == nil {
		t.Fatal("a failed import should move on to the next sample")
	}
	if !strings.HasPrefix(m.results[0], "failed") {
		t.Errorf("results[0] = %q, want failure label", m.results[0])
	}
	if m.current != 1 {
		t.Errorf("current = %d, want 1", m.current)
	}
}

func TestSamples_RunFinishesAfterLastSample(t *testing.T) {
	m := testSamplesModel(t, true)
	m.running = true
	m.store = "fileSearchStores/s"
	m.current = len(m.statuses) - 1 // pretend the last sample just finished

	m, _ = m.importNext()
	if m.running {
		t.Error("run should finish when no samples remain")
	}
	if !strings.Contains(m.View(), "samples ready") {
		t.Errorf("View() should announce completion, got:\n%s", m.View())
	}
}
