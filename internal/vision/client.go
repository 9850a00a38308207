// Package vision provides a client for a Clarifai-style
// concept-recognition endpoint, used to identify ingredients in a
// photo of food.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// DefaultBaseURL is the production vision API host.
const DefaultBaseURL = "https://api.clarifai.com"

// Fallback account and namespace, substituted when the configured
// values are empty. Resolution happens when the request is built, not
// at construction.
const (
	DefaultUserID = "clarifai"
	DefaultAppID  = "main"
)

// DefaultModelID is the ingredient-recognition model.
const DefaultModelID = "food-item-recognition"

// ConfidenceThreshold is exclusive: a concept counts as an ingredient
// only when its score is strictly greater than this.
const ConfidenceThreshold = 0.75

// dataURIRe matches a well-formed image data-URI prefix at the start
// of the string and nothing else.
var dataURIRe = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// NormalizeImage strips a well-formed `data:image/<subtype>;base64,`
// prefix from a base64 image string. Anything that is not an exact
// prefix match passes through unchanged.
func NormalizeImage(s string) string {
	return dataURIRe.ReplaceAllLiteralString(s, "")
}

// ── Wire types ───────────────────────────────────────────────────

type userAppID struct {
	UserID string `json:"user_id"`
	AppID  string `json:"app_id"`
}

type imageData struct {
	Base64 string `json:"base64"`
}

type inputData struct {
	Image imageData `json:"image"`
}

type input struct {
	Data inputData `json:"data"`
}

// payload is the request body for the outputs endpoint.
type payload struct {
	UserAppID userAppID `json:"user_app_id"`
	Inputs    []input   `json:"inputs"`
}

type wireConcept struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// apiResponse is the response envelope; concepts live under
// outputs[0].data.concepts.
type apiResponse struct {
	Status  apiStatus `json:"status"`
	Outputs []struct {
		Data struct {
			Concepts []wireConcept `json:"concepts"`
		} `json:"data"`
	} `json:"outputs"`
}

// apiStatus carries the service's own error description on failures.
type apiStatus struct {
	Description string `json:"description"`
	Details     string `json:"details"`
}

// ── Client ───────────────────────────────────────────────────────

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithUserApp sets the account and namespace the model is addressed
// under. Empty values fall back to the documented defaults at call
// time.
func WithUserApp(userID, appID string) Option {
	return func(c *Client) {
		c.userID = userID
		c.appID = appID
	}
}

// WithModelID overrides the recognition model.
func WithModelID(modelID string) Option {
	return func(c *Client) { c.modelID = modelID }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client talks to a Clarifai-style vision endpoint.
type Client struct {
	baseURL string
	apiKey  string
	userID  string
	appID   string
	modelID string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a vision client authenticated with the given
// key-style token.
func NewClient(apiKey string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		modelID: DefaultModelID,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Detect submits a base64 image (with or without a data-URI prefix)
// to the recognition model and returns the concepts scoring above the
// confidence threshold plus the full concept list, both in service
// order.
func (c *Client) Detect(ctx context.Context, image string) (*domain.Detection, error) {
	image = NormalizeImage(image)

	user, app := c.userID, c.appID
	if user == "" {
		user = DefaultUserID
	}
	if app == "" {
		app = DefaultAppID
	}

	body := payload{
		UserAppID: userAppID{UserID: user, AppID: app},
		Inputs:    []input{{Data: inputData{Image: imageData{Base64: image}}}},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", domain.ErrIngredientDetection, err)
	}

	url := fmt.Sprintf("%s/v2/users/%s/apps/%s/models/%s/outputs", c.baseURL, user, app, c.modelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrIngredientDetection, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.apiKey)

	c.log.Debug("vision: POST %s (%d image bytes)", url, len(image))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIngredientDetection, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrIngredientDetection, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrIngredientDetection, extractMessage(respBody, resp.Status))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %v", domain.ErrIngredientDetection, err)
	}
	if len(result.Outputs) == 0 {
		return nil, fmt.Errorf("%w: empty response (no outputs)", domain.ErrIngredientDetection)
	}

	detection := shapeDetection(result.Outputs[0].Data.Concepts)
	c.log.Debug("vision: %d concepts, %d above threshold", len(detection.Concepts), len(detection.Ingredients))
	return detection, nil
}

// shapeDetection filters concepts by the confidence threshold while
// preserving service order.
func shapeDetection(concepts []wireConcept) *domain.Detection {
	d := &domain.Detection{
		Concepts: make([]domain.Concept, len(concepts)),
	}
	for i, wc := range concepts {
		d.Concepts[i] = domain.Concept{Name: wc.Name, Score: wc.Value}
		if wc.Value > ConfidenceThreshold {
			d.Ingredients = append(d.Ingredients, wc.Name)
		}
	}
	return d
}

// extractMessage pulls the service's error description out of a
// failure body, preferring description plus details, then description
// alone, then the transport-level fallback.
func extractMessage(body []byte, fallback string) string {
	var envelope struct {
		Status apiStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Status.Description != "" && envelope.Status.Details != "":
			return envelope.Status.Description + ": " + envelope.Status.Details
		case envelope.Status.Description != "":
			return envelope.Status.Description
		}
	}
	return fallback
}
