// Package recipes provides a client for a Spoonacular-style recipe
// API: ingredient-based search followed by a per-recipe detail lookup.
package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// DefaultBaseURL is the production recipe API host.
const DefaultBaseURL = "https://api.spoonacular.com"

const (
	// searchLimit caps how many matches a search returns.
	searchLimit = 5
	// rankingMaxUsed asks the service to maximize used ingredients.
	rankingMaxUsed = 2
)

// ── Wire types ───────────────────────────────────────────────────

type wireIngredient struct {
	Name string `json:"name"`
}

// summary is one search result. Only a subset of the record is
// needed; the rest comes from the information call.
type summary struct {
	ID                int64            `json:"id"`
	Title             string           `json:"title"`
	Image             string           `json:"image"`
	UsedIngredients   []wireIngredient `json:"usedIngredients"`
	MissedIngredients []wireIngredient `json:"missedIngredients"`
}

// information is the per-recipe detail record.
type information struct {
	Instructions   string `json:"instructions"`
	SourceURL      string `json:"sourceUrl"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Servings       int    `json:"servings"`
}

// ── Client ───────────────────────────────────────────────────────

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client talks to a Spoonacular-style recipe API. The API key rides
// along as a query parameter on every call.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *logger.Logger
}

// NewClient creates a recipe client.
func NewClient(apiKey string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FindByIngredients searches for recipes matching the given
// ingredients, then fetches the detail record for every match
// concurrently and merges it in. The returned slice preserves search
// order. One failing detail call fails the whole batch; there is no
// partial result.
func (c *Client) FindByIngredients(ctx context.Context, ingredients []string) ([]domain.Recipe, error) {
	summaries, err := c.search(ctx, ingredients)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, nil
	}

	c.log.Debug("recipes: %d matches, fetching details", len(summaries))

	// Fan out one detail call per summary; merge back positionally so
	// arrival order cannot reorder the results.
	out := make([]domain.Recipe, len(summaries))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range summaries {
		i, s := i, s
		g.Go(func() error {
			info, err := c.information(ctx, s.ID)
			if err != nil {
				return err
			}
			out[i] = merge(s, info)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// search performs the ingredient-based search call.
func (c *Client) search(ctx context.Context, ingredients []string) ([]summary, error) {
	q := url.Values{}
	q.Set("ingredients", strings.Join(ingredients, ","))
	q.Set("number", strconv.Itoa(searchLimit))
	q.Set("ranking", strconv.Itoa(rankingMaxUsed))
	q.Set("ignorePantry", "true")
	q.Set("apiKey", c.apiKey)

	body, err := c.get(ctx, c.baseURL+"/recipes/findByIngredients?"+q.Encode(), "/recipes/findByIngredients")
	if err != nil {
		return nil, err
	}

	var summaries []summary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("%w: unmarshal search response: %v", domain.ErrRecipeSearch, err)
	}
	return summaries, nil
}

// information fetches the detail record for one recipe.
func (c *Client) information(ctx context.Context, id int64) (*information, error) {
	path := fmt.Sprintf("/recipes/%d/information", id)

	q := url.Values{}
	q.Set("apiKey", c.apiKey)

	body, err := c.get(ctx, c.baseURL+path+"?"+q.Encode(), path)
	if err != nil {
		return nil, err
	}

	var info information
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("%w: unmarshal information response: %v", domain.ErrRecipeSearch, err)
	}
	return &info, nil
}

// get issues a GET and returns the body, wrapping every failure mode
// into domain.ErrRecipeSearch. logPath keeps the API key out of the
// debug log.
func (c *Client) get(ctx context.Context, fullURL, logPath string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", domain.ErrRecipeSearch, err)
	}

	c.log.Debug("recipes: GET %s", logPath)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRecipeSearch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrRecipeSearch, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", domain.ErrRecipeSearch, extractMessage(body, resp.Status))
	}
	return body, nil
}

// merge combines a search summary with its detail record, keeping
// every summary field.
func merge(s summary, info *information) domain.Recipe {
	return domain.Recipe{
		ID:                s.ID,
		Title:             s.Title,
		Image:             s.Image,
		UsedIngredients:   toIngredients(s.UsedIngredients),
		MissedIngredients: toIngredients(s.MissedIngredients),
		Instructions:      info.Instructions,
		SourceURL:         info.SourceURL,
		ReadyInMinutes:    info.ReadyInMinutes,
		Servings:          info.Servings,
	}
}

func toIngredients(wire []wireIngredient) []domain.Ingredient {
	if len(wire) == 0 {
		return nil
	}
	out := make([]domain.Ingredient, len(wire))
	for i, w := range wire {
		out[i] = domain.Ingredient{Name: w.Name}
	}
	return out
}

// extractMessage pulls the service's own error message out of a
// failure body, falling back to the transport-level message.
func extractMessage(body []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return fallback
}
