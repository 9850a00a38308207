// Package history keeps the in-memory conversation log for a single
// assistant instance.
package history

import (
	"sync"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

// Log is an append-only conversation history. Exchanges are appended
// as an atomic user/assistant pair, so concurrent callers can never
// interleave a turn inside another call's pair. Safe for concurrent
// use. Never persisted; Clear is the only way to shrink it.
type Log struct {
	mu    sync.RWMutex
	turns []domain.Turn
	log   *logger.Logger
}

// New creates an empty conversation log.
func New(log *logger.Logger) *Log {
	return &Log{log: log}
}

// AppendExchange records one completed exchange: the user's question
// followed by the assistant's reply.
func (l *Log) AppendExchange(question, reply string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns,
		domain.Turn{Role: domain.RoleUser, Text: question},
		domain.Turn{Role: domain.RoleAssistant, Text: reply},
	)
	l.log.Debug("history: %d turns after append", len(l.turns))
}

// Snapshot returns a copy of the current history in order.
func (l *Log) Snapshot() []domain.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of recorded turns.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// Clear resets the history to empty.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = nil
	l.log.Debug("history: cleared")
}
