package history

import (
	"sync"
	"testing"

	"souschef/internal/domain"
	"souschef/internal/logger"
)

func TestAppendExchange(t *testing.T) {
	log := New(logger.New(logger.LevelOff, nil))

	log.AppendExchange("how long do I boil eggs?", "About ten minutes for hard-boiled.")

	if log.Len() != 2 {
		t.Fatalf("expected 2 turns, got %d", log.Len())
	}

	turns := log.Snapshot()
	if turns[0].Role != domain.RoleUser || turns[0].Text != "how long do I boil eggs?" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != domain.RoleAssistant || turns[1].Text != "About ten minutes for hard-boiled." {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	log := New(logger.New(logger.LevelOff, nil))
	log.AppendExchange("q", "a")

	snap := log.Snapshot()
	snap[0].Text = "mutated"

	if got := log.Snapshot()[0].Text; got != "q" {
		t.Fatalf("snapshot mutation leaked into the log: %q", got)
	}
}

func TestClear(t *testing.T) {
	log := New(logger.New(logger.LevelOff, nil))
	log.AppendExchange("q1", "a1")
	log.AppendExchange("q2", "a2")

	log.Clear()

	if log.Len() != 0 {
		t.Fatalf("expected empty history after clear, got %d turns", log.Len())
	}

	// Clearing an already-empty log is fine.
	log.Clear()
	if log.Len() != 0 {
		t.Fatalf("expected empty history, got %d turns", log.Len())
	}
}

func TestConcurrentExchangesStayPaired(t *testing.T) {
	log := New(logger.New(logger.LevelOff, nil))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.AppendExchange("q", "a")
		}()
	}
	wg.Wait()

	turns := log.Snapshot()
	if len(turns) != 100 {
		t.Fatalf("expected 100 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		want := domain.RoleUser
		if i%2 == 1 {
			want = domain.RoleAssistant
		}
		if turn.Role != want {
			t.Fatalf("turn %d: role %s, want %s", i, turn.Role, want)
		}
	}
}
