// Package crashlens is the Go client for the crashlens HTTP API.
package crashlens

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Minute

// Sentinel errors mapped from API error codes.
var (
	// ErrNotFound means the collection does not exist.
	ErrNotFound = errors.New("crashlens: collection not found")
	// ErrNoRelevantDocuments means retrieval found nothing for the query.
	ErrNoRelevantDocuments = errors.New("crashlens: no relevant documents found")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("crashlens: %s (%s, HTTP %d)", e.Message, e.Code, e.StatusCode)
}

// Client talks to a crashlens server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the given server base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// Health returns the service health snapshot.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	var report HealthReport
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &report); err != nil {
		return HealthReport{}, err
	}
	return report, nil
}

// Upload indexes a crash log under the given collection, replacing any
// previous content of that collection. An empty collection uses the
// server default.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader, collection string) (UploadResult, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("crashlens: build multipart form: %w", err)
	}
	if _, err := io.Copy(fw, content); err != nil {
		return UploadResult{}, fmt.Errorf("crashlens: read upload content: %w", err)
	}
	if collection != "" {
		if err := mw.WriteField("collection_name", collection); err != nil {
			return UploadResult{}, fmt.Errorf("crashlens: build multipart form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("crashlens: build multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return UploadResult{}, fmt.Errorf("crashlens: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result UploadResult
	if err := c.send(req, &result); err != nil {
		return UploadResult{}, err
	}
	return result, nil
}

// UploadFile reads a file from disk and uploads it.
func (c *Client) UploadFile(ctx context.Context, path, collection string) (UploadResult, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return UploadResult{}, fmt.Errorf("crashlens: open %s: %w", path, err)
	}
	defer f.Close()
	return c.Upload(ctx, filepath.Base(path), f, collection)
}

// Query asks a question over an indexed collection. limit <= 0 uses the
// server default.
func (c *Client) Query(ctx context.Context, text, collection string, limit int) (QueryResult, error) {
	payload := map[string]any{"query": text}
	if collection != "" {
		payload["collection_name"] = collection
	}
	if limit > 0 {
		payload["limit"] = limit
	}

	var result QueryResult
	if err := c.doJSON(ctx, http.MethodPost, "/query", payload, &result); err != nil {
		return QueryResult{}, err
	}
	return result, nil
}

// ListCollections returns the names of indexed collections.
func (c *Client) ListCollections(ctx context.Context) ([]string, error) {
	var resp struct {
		Collections []struct {
			Name string `json:"name"`
		} `json:"collections"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/collections", nil, &resp); err != nil {
		return nil, err
	}
	names := make([]string, len(resp.Collections))
	for i, col := range resp.Collections {
		names[i] = col.Name
	}
	return names, nil
}

// GetCollection returns collection details.
func (c *Client) GetCollection(ctx context.Context, name string) (CollectionInfo, error) {
	var info CollectionInfo
	if err := c.doJSON(ctx, http.MethodGet, "/collections/"+url.PathEscape(name), nil, &info); err != nil {
		return CollectionInfo{}, err
	}
	return info, nil
}

// DeleteCollection removes a collection, its index and all its points.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	return c.doJSON(ctx, http.MethodDelete, "/collections/"+url.PathEscape(name), nil, nil)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("crashlens: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("crashlens: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("crashlens: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return parseError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("crashlens: decode response: %w", err)
		}
	}
	return nil
}

// parseError converts an error response into an APIError, wrapping the
// matching sentinel when the code is recognized.
func parseError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: resp.Status}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}

	switch apiErr.Code {
	case "not_found":
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
	case "no_relevant_documents":
		return fmt.Errorf("%w: %s", ErrNoRelevantDocuments, apiErr.Message)
	}
	return apiErr
}
