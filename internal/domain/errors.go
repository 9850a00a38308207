package domain

import "errors"

// Sentinel errors for remote-call failures. Every transport or remote
// error is wrapped into exactly one of these at the call site; raw
// transport errors never escape a client.
var (
	ErrAssistantCall       = errors.New("assistant call failed")
	ErrIngredientDetection = errors.New("ingredient detection failed")
	ErrRecipeSearch        = errors.New("recipe search failed")
)

// MissingCredentialError reports a required credential that was empty
// or absent at construction. It names the specific missing field.
type MissingCredentialError struct {
	Credential string
}

func (e *MissingCredentialError) Error() string {
	return "missing credential: " + e.Credential
}

// InvalidInputError reports an empty or absent required argument.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}
