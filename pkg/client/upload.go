package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

const uploadPrefix = "/upload/" + apiVersion

// ChunkingConfig tunes how the service splits a document before indexing.
// Zero values mean "use the service defaults".
type ChunkingConfig struct {
	MaxTokensPerChunk int
	MaxOverlapTokens  int
}

// UploadConfig configures a direct upload-and-index call.
type UploadConfig struct {
	DisplayName string
	Chunking    *ChunkingConfig
}

// UploadFile uploads a local file to the Files API and returns the file
// resource name ("files/..."). Bytes are forwarded unmodified.
func (c *Client) UploadFile(ctx context.Context, path, displayName string) (string, error) {
	if displayName == "" {
		displayName = filepath.Base(path)
	}
	meta := map[string]any{
		"file": map[string]string{"displayName": displayName},
	}

	var resp struct {
		File struct {
			Name string `json:"name"`
		} `json:"file"`
	}
	if err := c.uploadMultipart(ctx, uploadPrefix+"/files", path, meta, &resp); err != nil {
		return "", fmt.Errorf("client.UploadFile: %w", err)
	}
	if resp.File.Name == "" {
		return "", fmt.Errorf("client.UploadFile: service returned no file name")
	}
	return resp.File.Name, nil
}

// UploadToStore uploads a local file straight into a store and starts
// indexing it. Poll the returned operation for completion.
func (c *Client) UploadToStore(ctx context.Context, storeName, path string, cfg UploadConfig) (*Operation, error) {
	meta := map[string]any{}
	if cfg.DisplayName != "" {
		meta["displayName"] = cfg.DisplayName
	}
	if cfg.Chunking != nil {
		meta["chunkingConfig"] = map[string]any{
			"whiteSpaceConfig": map[string]int{
				"maxTokensPerChunk": cfg.Chunking.MaxTokensPerChunk,
				"maxOverlapTokens":  cfg.Chunking.MaxOverlapTokens,
			},
		}
	}

	var op Operation
	endpoint := uploadPrefix + "/" + storeName + ":uploadToFileSearchStore"
	if err := c.uploadMultipart(ctx, endpoint, path, meta, &op); err != nil {
		return nil, fmt.Errorf("client.UploadToStore: %w", err)
	}
	return &op, nil
}

// uploadMultipart sends a multipart/related request: one JSON metadata part
// followed by the raw file bytes.
func (c *Client) uploadMultipart(ctx context.Context, endpoint, path string, meta any, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadParts(mw, meta, f)) //nolint:errcheck
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, pr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	return decodeResponse(resp, out)
}

func writeUploadParts(mw *multipart.Writer, meta any, f *os.File) error {
	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := mw.CreatePart(metaHeader)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(metaPart).Encode(meta); err != nil {
		return err
	}

	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", "application/octet-stream")
	mediaPart, err := mw.CreatePart(mediaHeader)
	if err != nil {
		return err
	}
	if _, err := io.Copy(mediaPart, f); err != nil {
		return err
	}
	return mw.Close()
}
