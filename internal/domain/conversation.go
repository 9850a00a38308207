// Package domain defines the core types and error taxonomy for the
// souschef assistant. All other packages depend on domain; domain
// depends on nothing.
package domain

// Role tags a conversation turn by speaker.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation history.
type Turn struct {
	Role Role
	Text string
}

// Concept is a label with a confidence score in [0,1] returned by the
// vision service.
type Concept struct {
	Name  string
	Score float64
}

// Detection is the result of ingredient recognition: the concept names
// that cleared the confidence threshold, plus the full concept list in
// the order the service returned it.
type Detection struct {
	Ingredients []string
	Concepts    []Concept
}
