// Package client is a thin REST client for the Gemini File Search API.
// It assembles request payloads and decodes responses; all retrieval
// semantics (chunking, indexing, grounding) belong to the service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/calebwray/tome/pkg/domain"
)

// DefaultBaseURL is the production Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

const apiVersion = "v1beta"

// Client is the File Search API client. The credential is sent per-request
// and is never logged or persisted.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client. An empty baseURL selects the production
// endpoint.
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// CreateStore creates a new file search store with the given display name.
func (c *Client) CreateStore(ctx context.Context, displayName string) (*domain.StoreRef, error) {
	var ref domain.StoreRef
	body := map[string]string{"displayName": displayName}
	if err := c.post(ctx, "/fileSearchStores", body, &ref); err != nil {
		return nil, fmt.Errorf("client.CreateStore: %w", err)
	}
	return &ref, nil
}

// GetStore fetches an existing store by resource name ("fileSearchStores/...").
func (c *Client) GetStore(ctx context.Context, name string) (*domain.StoreRef, error) {
	var ref domain.StoreRef
	if err := c.get(ctx, "/"+name, &ref); err != nil {
		return nil, fmt.Errorf("client.GetStore: %w", err)
	}
	return &ref, nil
}

// ListStores returns all of the caller's stores, following pagination.
func (c *Client) ListStores(ctx context.Context) ([]domain.StoreRef, error) {
	var all []domain.StoreRef
	pageToken := ""
	for {
		params := url.Values{}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}
		path := "/fileSearchStores"
		if len(params) > 0 {
			path += "?" + params.Encode()
		}
		var page struct {
			FileSearchStores []domain.StoreRef `json:"fileSearchStores"`
			NextPageToken    string            `json:"nextPageToken"`
		}
		if err := c.get(ctx, path, &page); err != nil {
			return nil, fmt.Errorf("client.ListStores: %w", err)
		}
		all = append(all, page.FileSearchStores...)
		if page.NextPageToken == "" {
			return all, nil
		}
		pageToken = page.NextPageToken
	}
}

// DeleteStore force-deletes a store and everything indexed in it.
func (c *Client) DeleteStore(ctx context.Context, name string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/"+name+"?force=true", nil, nil); err != nil {
		return fmt.Errorf("client.DeleteStore: %w", err)
	}
	return nil
}

// ImportFile imports a previously uploaded file into a store, attaching the
// given custom metadata. Indexing continues server-side; poll the returned
// operation for completion.
func (c *Client) ImportFile(ctx context.Context, storeName, fileName string, meta []domain.CustomMetadata) (*Operation, error) {
	body := map[string]any{"fileName": fileName}
	if len(meta) > 0 {
		body["customMetadata"] = meta
	}
	var op Operation
	if err := c.post(ctx, "/"+storeName+":importFile", body, &op); err != nil {
		return nil, fmt.Errorf("client.ImportFile: %w", err)
	}
	return &op, nil
}

// GetOperation fetches the current state of a long-running operation.
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	var op Operation
	if err := c.get(ctx, "/"+name, &op); err != nil {
		return nil, fmt.Errorf("client.GetOperation: %w", err)
	}
	return &op, nil
}

// AskRequest is one grounded question against a store.
type AskRequest struct {
	Model          string
	StoreName      string
	Question       string
	MetadataFilter string // "" means no filter
}

// Ask sends a grounded generateContent request. The answer text is extracted
// from the first candidate; grounding metadata is returned verbatim.
func (c *Client) Ask(ctx context.Context, req AskRequest) (*domain.Answer, error) {
	fileSearch := map[string]any{
		"fileSearchStoreNames": []string{req.StoreName},
	}
	if req.MetadataFilter != "" {
		fileSearch["metadataFilter"] = req.MetadataFilter
	}
	body := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]string{{"text": req.Question}}},
		},
		"tools": []map[string]any{{"fileSearch": fileSearch}},
	}

	// Known response shape is typed; everything else (grounding metadata in
	// particular) stays raw for forward compatibility.
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			GroundingMetadata json.RawMessage `json:"groundingMetadata"`
		} `json:"candidates"`
	}
	path := "/models/" + req.Model + ":generateContent"
	if err := c.post(ctx, path, body, &resp); err != nil {
		return nil, fmt.Errorf("client.Ask: %w", err)
	}

	answer := &domain.Answer{}
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		for _, p := range cand.Content.Parts {
			answer.Text += p.Text
		}
		answer.Grounding = cand.GroundingMetadata
	}
	if answer.Text == "" {
		answer.Text = "No answer text."
	}
	return answer, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+apiVersion+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	return decodeResponse(resp, out)
}

// authorize attaches the per-request credential header.
func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error.Message}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
