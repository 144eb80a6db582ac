// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"sync"

	"github.com/pdiddy/arxivhub/pkg/types"
)

// sessionRegistry serializes turns per conversation thread and keeps the
// in-memory message history between turns.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[string]*session)}
}

// acquire returns the session for threadID with its turn lock held. The
// caller must release it when the turn finishes.
func (r *sessionRegistry) acquire(threadID string) *session {
	r.mu.Lock()
	sess, ok := r.sessions[threadID]
	if !ok {
		sess = &session{}
		r.sessions[threadID] = sess
	}
	r.mu.Unlock()

	sess.turn.Lock()
	return sess
}

// session is one conversation thread's history plus its turn lock.
type session struct {
	turn     sync.Mutex
	messages []types.Message
}

// history returns a copy of the thread's prior messages.
func (s *session) history() []types.Message {
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// append records the turn's messages. Must be called with the turn lock
// held.
func (s *session) append(msgs ...types.Message) {
	s.messages = append(s.messages, msgs...)
}

func (s *session) release() {
	s.turn.Unlock()
}
