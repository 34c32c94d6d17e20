package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/peterkuimelis/nucleon/internal/chem"
	nucleonnet "github.com/peterkuimelis/nucleon/internal/net"
	"github.com/peterkuimelis/nucleon/internal/store"
)

//go:embed static
var staticFiles embed.FS

// ElementInfo is the JSON representation of an element for the /api/elements endpoint.
type ElementInfo struct {
	Number int    `json:"number"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Attack int    `json:"attack"`
	Health int    `json:"health"`
	// Energy cost of fusing toward this element with no upgrades, absent for hydrogen.
	BaseCost *int `json:"baseCost,omitempty"`
	Required int  `json:"required,omitempty"`
}

// MoleculeInfo is the JSON representation of a recipe for the /api/molecules endpoint.
type MoleculeInfo struct {
	chem.Recipe
	MaxElement int `json:"maxElement"`
	Atoms      int `json:"atoms"`
}

// Server is the nucleon web UI server.
type Server struct {
	session nucleonnet.SessionConfig
	store   *store.DB
	mux     *http.ServeMux
}

// NewServer creates a new web server. db may be nil, in which case the
// economy listing is unavailable and sessions cannot save.
func NewServer(sc nucleonnet.SessionConfig, db *store.DB) *Server {
	if sc.Index == nil {
		sc.Index = chem.StaticIndex()
	}
	if db != nil {
		sc.Store = db
	}
	s := &Server{
		session: sc,
		store:   db,
		mux:     http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	staticFS, _ := fs.Sub(staticFiles, "static")

	s.mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		f, err := staticFS.Open("index.html")
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer f.Close()
		io.Copy(w, f.(io.Reader))
	})

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	s.mux.HandleFunc("GET /api/elements", s.handleElements)
	s.mux.HandleFunc("GET /api/molecules", s.handleMolecules)
	s.mux.HandleFunc("GET /api/economies", s.handleEconomies)

	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleElements(w http.ResponseWriter, r *http.Request) {
	elems := s.session.Index.Elements()
	out := make([]ElementInfo, 0, len(elems))
	for _, e := range elems {
		info := ElementInfo{
			Number: e.Number,
			Symbol: e.Symbol,
			Name:   e.Name,
			Attack: e.Attack,
			Health: e.Health,
		}
		if cost, err := economyBaseCost(e.Number, s.session); err == nil {
			info.BaseCost = &cost
			info.Required, _ = requiredCount(e.Number)
		}
		out = append(out, info)
	}
	writeJSON(w, out)
}

func (s *Server) handleMolecules(w http.ResponseWriter, r *http.Request) {
	out := make([]MoleculeInfo, 0, len(s.session.Recipes))
	for _, rec := range s.session.Recipes {
		out = append(out, MoleculeInfo{
			Recipe:     rec,
			MaxElement: rec.MaxElement(),
			Atoms:      rec.ElementCount(),
		})
	}
	writeJSON(w, out)
}

func (s *Server) handleEconomies(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "no store configured", http.StatusNotFound)
		return
	}
	list, err := s.store.ListEngines()
	if err != nil {
		slog.Error("list economies", "error", err)
		http.Error(w, "could not list economies", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []store.EngineSummary{}
	}
	writeJSON(w, list)
}

// handleWebSocket runs one economy session per websocket. Each text frame is
// a ClientMessage and gets exactly one ServerMessage back.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		slog.Warn("websocket accept", "error", err)
		return
	}
	defer wsConn.CloseNow()

	sess, err := nucleonnet.NewSession(s.session)
	if err != nil {
		slog.Error("session setup failed", "error", err)
		wsConn.Close(websocket.StatusInternalError, "session setup failed")
		return
	}

	ctx := r.Context()
	slog.Info("websocket session started", "remote", r.RemoteAddr, "economy", sess.Engine().ID)

	for {
		_, data, err := wsConn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && !errors.Is(err, context.Canceled) {
				slog.Debug("websocket read", "error", err)
			}
			return
		}

		var resp nucleonnet.ServerMessage
		var msg nucleonnet.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			resp = nucleonnet.ServerMessage{Type: nucleonnet.MsgError, Error: "bad request: " + err.Error()}
		} else {
			resp = sess.Handle(msg)
		}

		out, err := json.Marshal(resp)
		if err != nil {
			slog.Error("encode response", "error", err)
			return
		}
		if err := wsConn.Write(ctx, websocket.MessageText, out); err != nil {
			slog.Debug("websocket write", "error", err)
			return
		}
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", "error", err)
	}
}
