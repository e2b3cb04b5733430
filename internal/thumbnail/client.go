// Package thumbnail provides the client for the generative-AI thumbnail service.
package thumbnail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GenerationError represents a failure to produce a thumbnail image. It is
// surfaced to the user, who may retry manually; the client itself never retries.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// Image is a decoded thumbnail payload.
type Image struct {
	Data []byte
	MIME string
}

// Generator produces a thumbnail image from a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Image, error)
}

// Client is a client for the external image-generation endpoint.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Config holds the configuration for the thumbnail client.
type Config struct {
	BaseURL string        // e.g., "http://thumbgen.example.com:3400"
	Model   string        // e.g., "imagen-4.0-fast-generate-001"
	APIKey  string        // Optional API key for authentication
	Timeout time.Duration // Request timeout (default: 60 seconds)
}

// NewClient creates a new thumbnail generation client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		model:   config.Model,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

type generateResponse struct {
	ThumbnailDataURI string `json:"thumbnailDataUri"`
}

// Generate asks the service for a thumbnail matching prompt and returns the
// decoded image. A blank prompt or an empty response is a GenerationError.
func (c *Client) Generate(ctx context.Context, prompt string) (*Image, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, &GenerationError{Message: "prompt must not be empty"}
	}

	reqBody, err := json.Marshal(generateRequest{Prompt: prompt, Model: c.model})
	if err != nil {
		return nil, &GenerationError{Message: "marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/thumbnails", bytes.NewReader(reqBody))
	if err != nil {
		return nil, &GenerationError{Message: "create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GenerationError{Message: "send request to thumbnail service", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &GenerationError{
			Message: fmt.Sprintf("thumbnail service returned status %d: %s", resp.StatusCode, string(body)),
		}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GenerationError{Message: "read response body", Cause: err}
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, &GenerationError{Message: "parse thumbnail response", Cause: err}
	}

	if genResp.ThumbnailDataURI == "" {
		return nil, &GenerationError{Message: "thumbnail service returned no media"}
	}

	img, err := ParseDataURI(genResp.ThumbnailDataURI)
	if err != nil {
		return nil, &GenerationError{Message: "decode generated thumbnail", Cause: err}
	}

	return img, nil
}

// ParseDataURI decodes a data URI of the form "data:<mimetype>;base64,<data>"
// into image bytes and their MIME type.
func ParseDataURI(uri string) (*Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("not a data URI")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("data URI has no payload")
	}

	mime, encoding, hasEncoding := strings.Cut(meta, ";")
	if mime == "" {
		return nil, fmt.Errorf("data URI has no MIME type")
	}
	if !hasEncoding || encoding != "base64" {
		return nil, fmt.Errorf("data URI is not base64-encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("data URI payload is empty")
	}

	return &Image{Data: data, MIME: mime}, nil
}
