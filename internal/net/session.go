package net

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/peterkuimelis/nucleon/internal/chem"
	"github.com/peterkuimelis/nucleon/internal/economy"
	"github.com/peterkuimelis/nucleon/internal/log"
)

// Persister stores economies between sessions. *store.DB implements it.
type Persister interface {
	SaveEngine(id string, s economy.SaveState) error
	LoadEngine(id string) (economy.SaveState, error)
	SaveEvents(id string, events []log.Event) error
}

// SessionConfig holds what every session on a server shares.
type SessionConfig struct {
	Config  *economy.Config
	Index   *chem.Index
	Recipes []chem.Recipe
	Store   Persister          // optional; "save" and "load" fail without it
	Rand    economy.RandomSource // optional; seeded from the clock if nil
}

// Session binds one client to one economy engine. Handle is safe for
// concurrent use.
type Session struct {
	engine  *economy.Engine
	logger  *log.MemoryLogger
	recipes []chem.Recipe
	store   Persister
	rng     economy.RandomSource

	mu    sync.Mutex
	cards []string // cards created by the request in flight
}

// NewSession creates a session with a fresh engine.
func NewSession(sc SessionConfig) (*Session, error) {
	s := &Session{
		logger:  log.NewMemoryLogger(),
		recipes: sc.Recipes,
		store:   sc.Store,
		rng:     sc.Rand,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	engine, err := economy.NewEngine(economy.EngineConfig{
		Config:   sc.Config,
		Index:    sc.Index,
		Logger:   s.logger,
		CardSink: s.collect,
	})
	if err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	s.engine = engine
	return s, nil
}

// Engine returns the session's engine.
func (s *Session) Engine() *economy.Engine {
	return s.engine
}

func (s *Session) collect(symbol string) {
	s.cards = append(s.cards, symbol)
}

// Handle runs one request against the engine. Every response carries the
// cards and events the request produced and a fresh state snapshot.
func (s *Session) Handle(msg ClientMessage) ServerMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards = nil
	resp, err := s.dispatch(msg)
	if err != nil {
		resp = ServerMessage{Type: MsgError, Error: err.Error()}
	}

	events := s.logger.Drain()
	if s.store != nil && len(events) > 0 {
		if err := s.store.SaveEvents(s.engine.ID.String(), events); err != nil {
			slog.Warn("event history not saved", "economy", s.engine.ID, "error", err)
		}
	}

	resp.Cards = s.cards
	resp.Events = EventViews(events)
	snap := s.engine.Snapshot()
	resp.State = &snap
	return resp
}

func (s *Session) dispatch(msg ClientMessage) (ServerMessage, error) {
	switch msg.Type {
	case MsgFuse:
		z, err := economy.ParseTarget(msg.Z)
		if err != nil {
			return ServerMessage{}, err
		}
		res := s.engine.PerformFusion(z)
		return ServerMessage{Type: MsgFuse, Fusion: &res}, nil

	case MsgBatch:
		targets := make([]int, len(msg.Targets))
		for i, v := range msg.Targets {
			z, err := economy.ParseTarget(v)
			if err != nil {
				return ServerMessage{}, fmt.Errorf("entry %d: %w", i, err)
			}
			targets[i] = z
		}
		res := s.engine.PerformBatchFusion(targets)
		return ServerMessage{Type: MsgBatch, Batch: &res}, nil

	case MsgCompress:
		return ServerMessage{Type: MsgCompress, Compression: s.engine.RunCompressionCascade()}, nil

	case MsgUpgrade:
		t, ok := economy.ParseTrack(msg.Track)
		if !ok {
			return ServerMessage{}, fmt.Errorf("unknown equipment track %q", msg.Track)
		}
		return ServerMessage{Type: MsgUpgrade, Upgraded: s.engine.UpgradeEquipment(t)}, nil

	case MsgCooldown:
		return ServerMessage{Type: MsgCooldown, Vented: s.engine.Cooldown()}, nil

	case MsgGrant:
		if err := s.engine.Grant(msg.Symbol, msg.Amount); err != nil {
			return ServerMessage{}, err
		}
		return ServerMessage{Type: MsgGrant}, nil

	case MsgDraw:
		r, err := s.engine.DrawMolecule(s.recipes, s.rng)
		if errors.Is(err, economy.ErrNoCandidates) {
			sym, err := s.engine.DrawElement(s.rng)
			if err != nil {
				return ServerMessage{}, fmt.Errorf("%w at element cap %d", err, s.engine.ElementCap())
			}
			return ServerMessage{Type: MsgDraw, Element: sym}, nil
		}
		if err != nil {
			return ServerMessage{}, err
		}
		return ServerMessage{Type: MsgDraw, Molecule: &r}, nil

	case MsgState:
		return ServerMessage{Type: MsgState}, nil

	case MsgSave:
		if s.store == nil {
			return ServerMessage{}, errors.New("no store configured")
		}
		id := msg.ID
		if id == "" {
			id = s.engine.ID.String()
		}
		if err := s.store.SaveEngine(id, s.engine.SaveState()); err != nil {
			return ServerMessage{}, err
		}
		return ServerMessage{Type: MsgSave, ID: id}, nil

	case MsgLoad:
		if s.store == nil {
			return ServerMessage{}, errors.New("no store configured")
		}
		if msg.ID == "" {
			return ServerMessage{}, errors.New("load needs an id")
		}
		saved, err := s.store.LoadEngine(msg.ID)
		if err != nil {
			return ServerMessage{}, err
		}
		s.engine.LoadState(saved)
		return ServerMessage{Type: MsgLoad, ID: msg.ID}, nil

	default:
		return ServerMessage{}, fmt.Errorf("unknown message type %q", msg.Type)
	}
}
