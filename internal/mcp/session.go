package mcp

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"

	nucleonnet "github.com/peterkuimelis/nucleon/internal/net"
)

// EconomySession holds the economy driven through MCP tools.
type EconomySession struct {
	sess *nucleonnet.Session
	seed int64
}

var (
	// activeSession is the singleton economy (one per stdio process).
	activeSession *EconomySession

	// sessionConfig is shared by every economy this process creates, set by main.
	sessionConfig nucleonnet.SessionConfig

	mu sync.Mutex
)

// SetSessionConfig sets the element table, catalog, balance and store used
// for new economies.
func SetSessionConfig(sc nucleonnet.SessionConfig) {
	mu.Lock()
	defer mu.Unlock()
	sessionConfig = sc
}

// NewEconomySession creates a fresh economy. A non-zero seed makes molecule
// draws reproducible.
func NewEconomySession(sc nucleonnet.SessionConfig, seed int64) (*EconomySession, error) {
	if seed != 0 {
		sc.Rand = rand.New(rand.NewSource(seed))
	}
	sess, err := nucleonnet.NewSession(sc)
	if err != nil {
		return nil, err
	}
	return &EconomySession{sess: sess, seed: seed}, nil
}

// Handle forwards one protocol request to the economy.
func (s *EconomySession) Handle(msg nucleonnet.ClientMessage) nucleonnet.ServerMessage {
	return s.sess.Handle(msg)
}

// ID returns the economy's id.
func (s *EconomySession) ID() string {
	return s.sess.Engine().ID.String()
}

// current returns the running session, or nil.
func current() *EconomySession {
	mu.Lock()
	defer mu.Unlock()
	return activeSession
}

// resetSession drops the running economy. Used by tests.
func resetSession() {
	mu.Lock()
	defer mu.Unlock()
	activeSession = nil
}

// respondJSON marshals a tool response to a JSON string.
func respondJSON(resp any) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
