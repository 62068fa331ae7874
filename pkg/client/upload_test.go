package client

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// readParts decodes a multipart/related upload body into its JSON metadata
// and raw media bytes.
func readParts(t *testing.T, r *http.Request) (map[string]any, []byte) {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	if mediaType != "multipart/related" {
		t.Fatalf("media type = %q, want multipart/related", mediaType)
	}
	mr := multipart.NewReader(r.Body, params["boundary"])

	metaPart, err := mr.NextPart()
	if err != nil {
		t.Fatalf("read metadata part: %v", err)
	}
	var meta map[string]any
	if err := json.NewDecoder(metaPart).Decode(&meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}

	mediaPart, err := mr.NextPart()
	if err != nil {
		t.Fatalf("read media part: %v", err)
	}
	media, err := io.ReadAll(mediaPart)
	if err != nil {
		t.Fatalf("read media bytes: %v", err)
	}
	return meta, media
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestUploadFile(t *testing.T) {
	var meta map[string]any
	var media []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload/v1beta/files" {
			http.NotFound(w, r)
			return
		}
		meta, media = readParts(t, r)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"file": map[string]string{"name": "files/f42"},
		})
	}))
	defer srv.Close()

	path := writeTempFile(t, "raw bytes go through unmodified")

	c := New(srv.URL, "key")
	name, err := c.UploadFile(context.Background(), path, "My Notes")
	if err != nil {
		t.Fatalf("UploadFile() error: %v", err)
	}
	if name != "files/f42" {
		t.Errorf("name = %q, want files/f42", name)
	}
	if string(media) != "raw bytes go through unmodified" {
		t.Errorf("media = %q", media)
	}
	file := meta["file"].(map[string]any)
	if file["displayName"] != "My Notes" {
		t.Errorf("displayName = %v", file["displayName"])
	}
}

func TestUploadFile_DefaultsDisplayNameToBase(t *testing.T) {
	var meta map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta, _ = readParts(t, r)
		json.NewEncoder(w).Encode(map[string]any{"file": map[string]string{"name": "files/x"}}) //nolint:errcheck
	}))
	defer srv.Close()

	path := writeTempFile(t, "x")
	c := New(srv.URL, "key")
	if _, err := c.UploadFile(context.Background(), path, ""); err != nil {
		t.Fatalf("UploadFile() error: %v", err)
	}
	file := meta["file"].(map[string]any)
	if file["displayName"] != "notes.txt" {
		t.Errorf("displayName = %v, want notes.txt", file["displayName"])
	}
}

func TestUploadFile_MissingLocalFile(t *testing.T) {
	c := New("http://unused.invalid", "key")
	_, err := c.UploadFile(context.Background(), filepath.Join(t.TempDir(), "absent.txt"), "")
	if err == nil {
		t.Fatal("expected error for missing local file")
	}
}

func TestUploadToStore_ChunkingConfig(t *testing.T) {
	var meta map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "fileSearchStores/abc:uploadToFileSearchStore") {
			http.NotFound(w, r)
			return
		}
		meta, _ = readParts(t, r)
		json.NewEncoder(w).Encode(map[string]any{"name": "operations/up1", "done": false}) //nolint:errcheck
	}))
	defer srv.Close()

	path := writeTempFile(t, "content")
	c := New(srv.URL, "key")
	op, err := c.UploadToStore(context.Background(), "fileSearchStores/abc", path, UploadConfig{
		DisplayName: "my-notes.txt",
		Chunking:    &ChunkingConfig{MaxTokensPerChunk: 200, MaxOverlapTokens: 20},
	})
	if err != nil {
		t.Fatalf("UploadToStore() error: %v", err)
	}
	if op.Name != "operations/up1" || op.Done {
		t.Errorf("op = %+v", op)
	}

	if meta["displayName"] != "my-notes.txt" {
		t.Errorf("displayName = %v", meta["displayName"])
	}
	ws := meta["chunkingConfig"].(map[string]any)["whiteSpaceConfig"].(map[string]any)
	if ws["maxTokensPerChunk"] != float64(200) || ws["maxOverlapTokens"] != float64(20) {
		t.Errorf("whiteSpaceConfig = %v", ws)
	}
}

func TestUploadToStore_NoOptionalConfig(t *testing.T) {
	var meta map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta, _ = readParts(t, r)
		json.NewEncoder(w).Encode(map[string]any{"name": "operations/up2"}) //nolint:errcheck
	}))
	defer srv.Close()

	path := writeTempFile(t, "content")
	c := New(srv.URL, "key")
	if _, err := c.UploadToStore(context.Background(), "fileSearchStores/abc", path, UploadConfig{}); err != nil {
		t.Fatalf("UploadToStore() error: %v", err)
	}
	if _, present := meta["displayName"]; present {
		t.Error("empty display name must be omitted")
	}
	if _, present := meta["chunkingConfig"]; present {
		t.Error("nil chunking config must be omitted")
	}
}
