package app

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

// MockBaseURL selects the canned in-process backend instead of the network.
const MockBaseURL = "mock://"

var ErrUnsupportedFile = errors.New("unsupported file type (want .pdf, .txt, .png, .jpg or .jpeg)")

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Client talks to the DocuAI backend: document upload, question answering
// and the health probe.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *Logger
}

type uploadResponse struct {
	Summary string `json:"summary"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// errorResponse is the FastAPI error envelope.
type errorResponse struct {
	Detail string `json:"detail"`
}

type HealthStatus struct {
	Status       string `json:"status"`
	OCRAvailable bool   `json:"ocr_available"`
}

func NewClient(baseURL string, timeout time.Duration, logger *Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = NewLogger(nil)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Logger:  logger,
	}
}

func (c *Client) mock() bool {
	return c.BaseURL == MockBaseURL || strings.HasPrefix(c.BaseURL, "mock:") || c.BaseURL == "mock"
}

// SupportedFile reports whether the backend accepts this file extension.
// Checked locally before any bytes are sent.
func SupportedFile(name string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(name))]
}

// Upload opens path and posts it to the upload endpoint, returning the
// document summary.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	if !SupportedFile(path) {
		return "", ErrUnsupportedFile
	}
	if c.mock() {
		return mockSummary(filepath.Base(path)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening document: %w", err)
	}
	defer f.Close()
	return c.UploadReader(ctx, filepath.Base(path), f)
}

// UploadReader posts r as a multipart body with field name "file".
func (c *Client) UploadReader(ctx context.Context, name string, r io.Reader) (string, error) {
	if c.mock() {
		return mockSummary(name), nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading upload response: %w", err)
	}
	c.Logger.Info("upload finished", map[string]interface{}{
		"file":        name,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("upload rejected: %s", backendError(resp.StatusCode, payload))
	}

	var out uploadResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("malformed upload response: %w", err)
	}
	return out.Summary, nil
}

// Ask sends a question as a URL query parameter and returns the answer
// string, empty when the backend omitted the field.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	if c.mock() {
		return mockAnswer(question), nil
	}

	endpoint := c.BaseURL + "/ask?question=" + url.QueryEscape(question)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating ask request: %w", err)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("ask request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading ask response: %w", err)
	}
	c.Logger.Info("ask finished", map[string]interface{}{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ask rejected: %s", backendError(resp.StatusCode, payload))
	}

	var out askResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("malformed ask response: %w", err)
	}
	return out.Answer, nil
}

// Health probes the backend.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	if c.mock() {
		return HealthStatus{Status: "ok", OCRAvailable: true}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("creating health request: %w", err)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return HealthStatus{}, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	var out HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return HealthStatus{}, fmt.Errorf("malformed health response: %w", err)
	}
	return out, nil
}

// backendError extracts the FastAPI detail field when present, falling
// back to the status code.
func backendError(status int, payload []byte) string {
	var e errorResponse
	if err := json.Unmarshal(payload, &e); err == nil && e.Detail != "" {
		return fmt.Sprintf("%s (status %d)", e.Detail, status)
	}
	return fmt.Sprintf("status %d", status)
}
