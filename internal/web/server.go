// Package web adapts the QA engine to an interactive HTTP surface.
package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/chat"
	"github.com/RiCkSaNcHeZ162/Bajaj-Hackathon/internal/qa"
)

// Server owns no business logic; it translates between HTTP and the
// engine and renders the debug-friendly form page.
type Server struct {
	engine         *qa.Engine
	defaultSession string
	tmpl           *template.Template
}

func NewServer(engine *qa.Engine, defaultSession string) *Server {
	if defaultSession == "" {
		defaultSession = "default_session"
	}
	return &Server{
		engine:         engine,
		defaultSession: defaultSession,
		tmpl:           template.Must(template.New("page").Parse(pageTemplate)),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

type pageData struct {
	SessionID string
	Answer    *qa.Answer
	Error     string
	Sessions  map[string][]chat.Turn
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = s.defaultSession
	}
	s.render(w, pageData{
		SessionID: sessionID,
		Sessions:  s.engine.Sessions(),
	})
}

// askRequest is the JSON body for POST /ask.
type askRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	log := slog.With("request_id", reqID)

	wantJSON := strings.Contains(r.Header.Get("Content-Type"), "application/json") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")

	var sessionID, question string
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		sessionID, question = req.SessionID, req.Question
	} else {
		sessionID = r.FormValue("session_id")
		question = r.FormValue("question")
	}
	if sessionID == "" {
		sessionID = s.defaultSession
	}

	// No question submitted means nothing to do, not an error.
	if strings.TrimSpace(question) == "" {
		if wantJSON {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, "/?session_id="+sessionID, http.StatusSeeOther)
		return
	}

	log.Info("handling question", "session", sessionID)

	ans, err := s.engine.Ask(r.Context(), sessionID, question)
	if err != nil {
		var ue *qa.UpstreamError
		status := http.StatusInternalServerError
		if errors.As(err, &ue) {
			status = http.StatusBadGateway
		}
		log.Error("request failed", "session", sessionID, "error", err)

		if wantJSON {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		w.WriteHeader(status)
		s.render(w, pageData{
			SessionID: sessionID,
			Error:     err.Error(),
			Sessions:  s.engine.Sessions(),
		})
		return
	}

	if wantJSON {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(ans)
		return
	}
	s.render(w, pageData{
		SessionID: sessionID,
		Answer:    ans,
		Sessions:  s.engine.Sessions(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	if err := s.tmpl.Execute(w, data); err != nil {
		slog.Error("render page failed", "error", err)
	}
}
