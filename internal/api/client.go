// Package api is the HTTP client for the remote review backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/refixai/refix/internal/core/config"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/settings"
)

const maxErrorBody = 64 << 10

// CodeRequest is the body of both inspection endpoints.
type CodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// GenerateRequest is the body of generate-review.
type GenerateRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Mode     string `json:"mode"`
}

// ChatRequest is the body of a chat call.
type ChatRequest struct {
	UserMessage           string `json:"user_message"`
	OriginalReviewContext string `json:"original_review_context"`
}

// ScanRequest is the body of a dependency scan.
type ScanRequest struct {
	FileName    string `json:"file_name"`
	FileContent string `json:"file_content"`
	Language    string `json:"language"`
}

type consolidatedResponse struct {
	ConsolidatedIssues []review.ConsolidatedIssue `json:"consolidated_issues"`
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// Client calls the review API. It performs no retries.
type Client struct {
	baseURL string
	auth    config.AuthMode
	http    *http.Client
}

// New returns a client for cfg. A zero Timeout leaves requests bounded only
// by their context.
func New(cfg config.APIConfig) *Client {
	auth := cfg.Auth
	if !auth.IsValid() {
		auth = config.AuthHeader
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		auth:    auth,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Inspect runs the raw per-model inspection.
func (c *Client) Inspect(ctx context.Context, creds settings.Settings, req CodeRequest) ([]review.InspectionResult, error) {
	var out []review.InspectionResult
	if err := c.post(ctx, creds, projectPath(creds, "inspect"), req, &out); err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}
	return out, nil
}

// InspectConsolidated runs the cross-model consolidated inspection.
func (c *Client) InspectConsolidated(ctx context.Context, creds settings.Settings, req CodeRequest) ([]review.ConsolidatedIssue, error) {
	var out consolidatedResponse
	if err := c.post(ctx, creds, projectPath(creds, "inspect", "consolidated"), req, &out); err != nil {
		return nil, fmt.Errorf("inspect consolidated: %w", err)
	}
	return out.ConsolidatedIssues, nil
}

// GenerateReview asks the backend to write and persist a review.
func (c *Client) GenerateReview(ctx context.Context, creds settings.Settings, req GenerateRequest) (review.Review, error) {
	var out review.Review
	if err := c.post(ctx, creds, projectPath(creds, "generate-review"), req, &out); err != nil {
		return review.Review{}, fmt.Errorf("generate review: %w", err)
	}
	return out, nil
}

// Chat sends a question about a review and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, creds settings.Settings, reviewID review.ID, req ChatRequest) (review.ChatMessage, error) {
	var out review.ChatMessage
	path := "/reviews/" + url.PathEscape(reviewID.String()) + "/chat"
	if err := c.post(ctx, creds, path, req, &out); err != nil {
		return review.ChatMessage{}, fmt.Errorf("chat: %w", err)
	}
	return out, nil
}

// ScanDependencies submits a dependency manifest for vulnerability scanning.
func (c *Client) ScanDependencies(ctx context.Context, creds settings.Settings, req ScanRequest) (review.ScanResult, error) {
	var out review.ScanResult
	if err := c.post(ctx, creds, projectPath(creds, "dependency-scan"), req, &out); err != nil {
		return review.ScanResult{}, fmt.Errorf("dependency scan: %w", err)
	}
	return out, nil
}

func projectPath(creds settings.Settings, parts ...string) string {
	return "/projects/" + url.PathEscape(creds.ProjectID) + "/" + strings.Join(parts, "/")
}

func (c *Client) post(ctx context.Context, creds settings.Settings, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.authorize(req, creds.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCommunication, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debug().Err(err).Str("path", path).Msg("api: close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newStatusError(resp.StatusCode, detailOf(raw))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrCommunication, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request, apiKey string) {
	switch c.auth {
	case config.AuthBearer:
		req.Header.Set("Authorization", "Bearer "+apiKey)
	default:
		req.Header.Set("X-API-KEY", apiKey)
	}
}

// detailOf extracts the "detail" field of an error body. Validation errors
// carry a list of objects instead of a string; those are passed through as
// compact JSON.
func detailOf(raw []byte) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	if string(body.Detail) == "null" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, body.Detail); err != nil {
		return ""
	}
	return buf.String()
}
