package handlers

import (
	"fmt"
	"testing"

	"github.com/krishisahayak/sahayak/internal/database"
)

func TestSessionsBindAndLookup(t *testing.T) {
	t.Parallel()

	s := NewSessions()

	if got := s.FarmerName(1); got != "" {
		t.Errorf("FarmerName(unbound) = %q, want empty", got)
	}

	s.Bind(1, "Ravi")
	if got := s.FarmerName(1); got != "Ravi" {
		t.Errorf("FarmerName() = %q, want Ravi", got)
	}

	// Rebinding resets the conversation.
	s.AppendTurn(1, database.Interaction{Query: "q", Response: "a"})
	s.Bind(1, "Asha")
	if got := s.History(1); len(got) != 0 {
		t.Errorf("History() after rebind = %d turns, want 0", len(got))
	}
}

func TestSessionsHistoryCap(t *testing.T) {
	t.Parallel()

	s := NewSessions()
	s.Bind(7, "Ravi")

	for i := 0; i < maxSessionTurns+5; i++ {
		s.AppendTurn(7, database.Interaction{
			Query:    fmt.Sprintf("q%d", i),
			Response: fmt.Sprintf("a%d", i),
		})
	}

	history := s.History(7)
	if len(history) != maxSessionTurns {
		t.Fatalf("History() = %d turns, want cap %d", len(history), maxSessionTurns)
	}
	if history[0].Query != "q5" {
		t.Errorf("oldest kept turn = %q, want q5", history[0].Query)
	}
	if got := s.LastReply(7); got != fmt.Sprintf("a%d", maxSessionTurns+4) {
		t.Errorf("LastReply() = %q", got)
	}
}

func TestSessionsClearHistoryKeepsBinding(t *testing.T) {
	t.Parallel()

	s := NewSessions()
	s.Bind(3, "Mina")
	s.AppendTurn(3, database.Interaction{Query: "q", Response: "a"})

	s.ClearHistory(3)

	if got := s.FarmerName(3); got != "Mina" {
		t.Errorf("FarmerName() after clear = %q, want Mina", got)
	}
	if got := s.History(3); len(got) != 0 {
		t.Errorf("History() after clear = %d turns, want 0", len(got))
	}
	if got := s.LastReply(3); got != "" {
		t.Errorf("LastReply() after clear = %q, want empty", got)
	}
}

func TestSessionsAppendToUnboundChatIsNoop(t *testing.T) {
	t.Parallel()

	s := NewSessions()
	s.AppendTurn(99, database.Interaction{Query: "q", Response: "a"})
	if got := s.History(99); len(got) != 0 {
		t.Errorf("History(unbound) = %d turns, want 0", len(got))
	}
}
