// Package chat provides a client for a Cohere-style conversational
// chat endpoint. The service keeps no state; the full conversation
// history travels with every request.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// DefaultEndpoint is the production chat endpoint.
const DefaultEndpoint = "https://api.cohere.ai/v1/chat"

// DefaultModel is used unless overridden via WithModel.
const DefaultModel = "command-r-plus"

// DefaultTemperature asks for a moderately creative response.
const DefaultTemperature = 0.7

// webSearchConnector lets the service augment answers with live web
// results.
const webSearchConnector = "web-search"

// ── Wire types ───────────────────────────────────────────────────

// The service uses upper-case role names on the wire.
const (
	wireRoleUser    = "USER"
	wireRoleChatbot = "CHATBOT"
)

// historyEntry is one prior turn as the service expects it.
type historyEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type connector struct {
	ID string `json:"id"`
}

// payload is the request body sent to the chat endpoint.
type payload struct {
	Message     string         `json:"message"`
	Model       string         `json:"model"`
	ChatHistory []historyEntry `json:"chat_history,omitempty"`
	Preamble    string         `json:"preamble,omitempty"`
	Temperature float64        `json:"temperature"`
	Connectors  []connector    `json:"connectors,omitempty"`
}

// apiResponse is the success envelope; the reply lives in `text`.
type apiResponse struct {
	Text string `json:"text"`
}

// ── Client ───────────────────────────────────────────────────────

// Option configures the Client.
type Option func(*Client)

// WithEndpoint overrides the chat endpoint URL.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

// WithHTTPClient replaces the underlying HTTP client. Timeout and
// cancellation policy belong entirely to this transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client talks to a Cohere-style chat endpoint.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	http        *http.Client
	log         *logger.Logger
}

// NewClient creates a chat client authenticated with the given bearer
// token.
func NewClient(apiKey string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:    DefaultEndpoint,
		apiKey:      apiKey,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		http:        &http.Client{Timeout: 30 * time.Second},
		log:         log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Send sends the question together with the running conversation
// history and the system preamble, and returns the reply text. Any
// transport or remote failure comes back wrapped in
// domain.ErrAssistantCall with the best available message.
func (c *Client) Send(ctx context.Context, question, preamble string, history []domain.Turn) (string, error) {
	body := payload{
		Message:     question,
		Model:       c.model,
		ChatHistory: toWireHistory(history),
		Preamble:    preamble,
		Temperature: c.temperature,
		Connectors:  []connector{{ID: webSearchConnector}},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: marshal payload: %v", domain.ErrAssistantCall, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", domain.ErrAssistantCall, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.log.Debug("chat: POST %s (%d bytes, %d history turns)", c.endpoint, len(jsonData), len(history))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAssistantCall, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", domain.ErrAssistantCall, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s", domain.ErrAssistantCall, extractMessage(respBody, resp.Status))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", domain.ErrAssistantCall, err)
	}

	c.log.Debug("chat: reply (%d chars): %s", len(result.Text), truncate(result.Text, 120))
	return result.Text, nil
}

// toWireHistory maps domain turns onto the service's role names.
func toWireHistory(history []domain.Turn) []historyEntry {
	if len(history) == 0 {
		return nil
	}
	out := make([]historyEntry, len(history))
	for i, t := range history {
		role := wireRoleUser
		if t.Role == domain.RoleAssistant {
			role = wireRoleChatbot
		}
		out[i] = historyEntry{Role: role, Message: t.Text}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
