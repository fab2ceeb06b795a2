// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package rag provides the HTTP client for the Study Buddy RAG backend.
package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeUnreachable, Message: "RAG backend is not reachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsUnreachable checks whether an error means the backend could not be
// reached at all (as opposed to reaching it and getting an error back).
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable || clientErr.Type == ErrTypeTimeout
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout per request (default: 60s; answer synthesis is slow).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing calls (default: 4).
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://localhost:8000",
		Timeout:           60 * time.Second,
		RequestsPerSecond: 4,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the RAG backend. It is safe for
// concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:8000"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 4
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// AudioURL resolves a backend-relative audio path into a full URL.
func (c *Client) AudioURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.config.BaseURL + path
}

// =============================================================================
// HEALTH
// =============================================================================

// Health checks backend health and returns index status.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/health", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ClientError{
			Type:    ErrTypeResponse,
			Message: "health check failed: " + resp.Status,
		}
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeResponse, Message: "failed to decode response", Cause: err}
	}
	return &result, nil
}

// =============================================================================
// TEXT QUERY
// =============================================================================

// Query asks the backend a text question within a session.
func (c *Client) Query(ctx context.Context, question, sessionID string) (*QueryResponse, error) {
	body, err := json.Marshal(QueryRequest{Question: question, SessionID: sessionID})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.responseError(resp, "query failed")
	}

	var result QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeResponse, Message: "failed to decode response", Cause: err}
	}
	return &result, nil
}

// =============================================================================
// IMAGE QUERY
// =============================================================================

// QueryImage uploads an image for OCR extraction plus a retrieval query.
// The question may be empty; the backend then answers about the extracted
// text alone.
func (c *Client) QueryImage(ctx context.Context, imagePath, question, sessionID string) (*ImageQueryResponse, error) {
	form, contentType, err := buildUploadForm("image", imagePath, map[string]string{
		"question":   question,
		"session_id": sessionID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/query-image", form)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.responseError(resp, "image query failed")
	}

	var result ImageQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeResponse, Message: "failed to decode response", Cause: err}
	}
	return &result, nil
}

// =============================================================================
// VOICE
// =============================================================================

// Transcribe uploads recorded audio and returns its transcription.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	form, contentType, err := buildUploadForm("audio", audioPath, nil)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/transcribe", form)
	if err != nil {
		return "", &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.responseError(resp, "transcription failed")
	}

	var result TranscribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &ClientError{Type: ErrTypeResponse, Message: "failed to decode response", Cause: err}
	}
	return result.Transcription, nil
}

// VoiceQuery uploads recorded audio as a spoken question and returns the
// answer, with generated speech when generateAudio is set.
func (c *Client) VoiceQuery(ctx context.Context, audioPath, sessionID string, generateAudio bool) (*VoiceQueryResponse, error) {
	form, contentType, err := buildUploadForm("audio", audioPath, map[string]string{
		"session_id":     sessionID,
		"generate_audio": strconv.FormatBool(generateAudio),
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/voice-query", form)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.responseError(resp, "voice query failed")
	}

	var result VoiceQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeResponse, Message: "failed to decode response", Cause: err}
	}
	return &result, nil
}

// =============================================================================
// SESSION
// =============================================================================

// ClearSession asks the backend to drop its conversational memory for a
// session. Local history is unaffected.
func (c *Client) ClearSession(ctx context.Context, sessionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.config.BaseURL+"/session/"+sessionID, nil)
	if err != nil {
		return &ClientError{Type: ErrTypeUnknown, Message: "failed to create request", Cause: err}
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeResponse,
			Message: "failed to clear session: " + resp.Status,
		}
	}
	return nil
}

// =============================================================================
// INTERNAL
// =============================================================================

// do applies the rate limit and executes the request, normalizing
// transport failures into client errors.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, ErrTimeout
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: ErrUnreachable.Message, Cause: err}
	}
	return resp, nil
}

// responseError extracts the backend's detail message from a non-2xx
// response, falling back to the HTTP status text.
func (c *Client) responseError(resp *http.Response, fallback string) error {
	var apiErr apiError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Detail != "" {
		return &ClientError{Type: ErrTypeResponse, Message: apiErr.Detail}
	}
	return &ClientError{Type: ErrTypeResponse, Message: fallback + ": " + resp.Status}
}

// buildUploadForm assembles a multipart body with one file part plus
// plain fields. The whole form is buffered; uploads are screenshots and
// short voice clips, not bulk data.
func buildUploadForm(fileField, filePath string, fields map[string]string) (io.Reader, string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to open " + fileField + " file", Cause: err}
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(fileField, filepath.Base(filePath))
	if err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to build form", Cause: err}
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to read " + fileField + " file", Cause: err}
	}

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to build form", Cause: err}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", &ClientError{Type: ErrTypeUnknown, Message: "failed to build form", Cause: err}
	}
	return &buf, w.FormDataContentType(), nil
}
