// Package assistant composes the chat, vision, and recipe clients
// behind a single conversational cooking assistant. It is the one
// entry-point consumers use; the only state it owns is the
// conversation history.
package assistant

import (
	"context"

	"souschef/internal/chat"
	"souschef/internal/domain"
	"souschef/internal/history"
	"souschef/internal/logger"
	"souschef/internal/recipes"
	"souschef/internal/vision"
)

// Credential names reported by MissingCredentialError.
const (
	CredentialChatKey   = "chat API key"
	CredentialVisionKey = "vision API key"
	CredentialRecipeKey = "recipe API key"
)

// Config carries the credentials the assistant needs. The three keys
// are required; the vision account and namespace are optional and
// default inside the vision client when left empty.
type Config struct {
	ChatKey   string
	VisionKey string
	RecipeKey string

	VisionUserID string
	VisionAppID  string
}

// Option configures the Assistant. The forwarding options exist so an
// embedding application (or a test) can redirect a client at another
// endpoint or transport.
type Option func(*Assistant)

// WithChatOptions forwards options to the chat client.
func WithChatOptions(opts ...chat.Option) Option {
	return func(a *Assistant) { a.chatOpts = append(a.chatOpts, opts...) }
}

// WithVisionOptions forwards options to the vision client.
func WithVisionOptions(opts ...vision.Option) Option {
	return func(a *Assistant) { a.visionOpts = append(a.visionOpts, opts...) }
}

// WithRecipeOptions forwards options to the recipe client.
func WithRecipeOptions(opts ...recipes.Option) Option {
	return func(a *Assistant) { a.recipeOpts = append(a.recipeOpts, opts...) }
}

// Assistant answers cooking questions, recognizes ingredients in
// photos, and finds recipes for a list of ingredients.
type Assistant struct {
	chat    *chat.Client
	vision  *vision.Client
	recipes *recipes.Client
	history *history.Log
	log     *logger.Logger

	chatOpts   []chat.Option
	visionOpts []vision.Option
	recipeOpts []recipes.Option
}

// New validates the configuration and wires the three clients. A
// missing required key fails with a MissingCredentialError naming it.
func New(cfg Config, log *logger.Logger, opts ...Option) (*Assistant, error) {
	switch {
	case cfg.ChatKey == "":
		return nil, &domain.MissingCredentialError{Credential: CredentialChatKey}
	case cfg.VisionKey == "":
		return nil, &domain.MissingCredentialError{Credential: CredentialVisionKey}
	case cfg.RecipeKey == "":
		return nil, &domain.MissingCredentialError{Credential: CredentialRecipeKey}
	}

	a := &Assistant{
		history: history.New(log),
		log:     log,
	}
	for _, o := range opts {
		o(a)
	}

	visionOpts := append([]vision.Option{vision.WithUserApp(cfg.VisionUserID, cfg.VisionAppID)}, a.visionOpts...)

	a.chat = chat.NewClient(cfg.ChatKey, log, a.chatOpts...)
	a.vision = vision.NewClient(cfg.VisionKey, log, visionOpts...)
	a.recipes = recipes.NewClient(cfg.RecipeKey, log, a.recipeOpts...)
	return a, nil
}

// Ask sends the question with the full running conversation history
// to the chat service and returns the reply. On success the exchange
// is appended to the history as a user/assistant pair; on failure the
// history is left untouched.
//
// The network call runs outside the history lock, so two concurrent
// Ask calls may send overlapping context snapshots — but the stored
// history can never interleave mid-pair.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	reply, err := a.chat.Send(ctx, question, Preamble, a.history.Snapshot())
	if err != nil {
		return "", err
	}

	a.history.AppendExchange(question, reply)
	return reply, nil
}

// ClearHistory resets the conversation history to empty.
func (a *Assistant) ClearHistory() {
	a.history.Clear()
}

// History returns a copy of the conversation history in order.
func (a *Assistant) History() []domain.Turn {
	return a.history.Snapshot()
}

// HistoryLen returns the number of recorded turns.
func (a *Assistant) HistoryLen() int {
	return a.history.Len()
}

// DetectIngredients recognizes ingredients in a base64 image string,
// with or without a data-URI prefix.
func (a *Assistant) DetectIngredients(ctx context.Context, image string) (*domain.Detection, error) {
	if image == "" {
		return nil, &domain.InvalidInputError{Reason: "please provide an image"}
	}
	return a.vision.Detect(ctx, image)
}

// FindRecipes searches for recipes matching the given ingredients and
// enriches every match with its detail record. Fails before any
// network call when the ingredient list is empty.
func (a *Assistant) FindRecipes(ctx context.Context, ingredients []string) ([]domain.Recipe, error) {
	if len(ingredients) == 0 {
		return nil, &domain.InvalidInputError{Reason: "please provide ingredients"}
	}
	return a.recipes.FindByIngredients(ctx, ingredients)
}
