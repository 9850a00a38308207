package chat

import "encoding/json"

// extractMessage pulls the service's own error message out of an error
// response body. The fallback chain: a top-level `message` field, then
// a nested `error.message` field, then the transport-level fallback.
// Pure — no network, no state.
func extractMessage(body []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error.Message != "" {
			return envelope.Error.Message
		}
	}
	return fallback
}
