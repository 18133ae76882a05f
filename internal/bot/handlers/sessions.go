package handlers

import (
	"sync"

	"github.com/krishisahayak/sahayak/internal/database"
)

// maxSessionTurns caps how many prior turns travel to the model per chat.
const maxSessionTurns = 10

// Session is the in-memory conversation state for one chat: which farmer
// the chat speaks for, the session's prior turns, and the last successful
// reply (for /speak).
type Session struct {
	FarmerName string
	History    []database.Interaction
	LastReply  string
}

// Sessions tracks per-chat conversation state. Session history is
// intentionally not persisted; a restart starts conversations fresh while
// the interaction log in the database keeps the durable record.
type Sessions struct {
	mu    sync.Mutex
	chats map[int64]*Session
}

// NewSessions creates an empty session tracker.
func NewSessions() *Sessions {
	return &Sessions{chats: make(map[int64]*Session)}
}

// Bind attaches a chat to a farmer profile and resets the conversation.
func (s *Sessions) Bind(chatID int64, farmerName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chats[chatID] = &Session{FarmerName: farmerName}
}

// FarmerName returns the farmer bound to the chat, or "" when unbound.
func (s *Sessions) FarmerName(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.chats[chatID]; ok {
		return sess.FarmerName
	}
	return ""
}

// History returns a copy of the chat's prior turns, oldest first.
func (s *Sessions) History(chatID int64) []database.Interaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.chats[chatID]
	if !ok {
		return nil
	}
	history := make([]database.Interaction, len(sess.History))
	copy(history, sess.History)
	return history
}

// AppendTurn records a successful turn in the chat's session history,
// evicting the oldest turn beyond the cap.
func (s *Sessions) AppendTurn(chatID int64, turn database.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.chats[chatID]
	if !ok {
		return
	}
	sess.History = append(sess.History, turn)
	if len(sess.History) > maxSessionTurns {
		sess.History = sess.History[len(sess.History)-maxSessionTurns:]
	}
	sess.LastReply = turn.Response
}

// LastReply returns the chat's last successful reply, or "".
func (s *Sessions) LastReply(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.chats[chatID]; ok {
		return sess.LastReply
	}
	return ""
}

// ClearHistory drops the chat's conversation state but keeps the farmer
// binding. Called after profile edits so stale-language turns don't leak
// into the next prompt.
func (s *Sessions) ClearHistory(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.chats[chatID]; ok {
		sess.History = nil
		sess.LastReply = ""
	}
}
