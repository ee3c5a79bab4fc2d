package api

import (
	"encoding/json"
	"net/http"

	"github.com/checkmarble/llmchat/internal/chat"
	"github.com/sirupsen/logrus"
)

// Server exposes the chat orchestrator over HTTP.
type Server struct {
	chat       *chat.Orchestrator
	staticDir  string
	corsOrigin string
}

type Option func(*Server)

// WithStaticDir serves the files of a directory on "/".
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithCorsOrigin sets the origin allowed to call the API from a browser.
func WithCorsOrigin(origin string) Option {
	return func(s *Server) {
		s.corsOrigin = origin
	}
}

func NewServer(orchestrator *chat.Orchestrator, opts ...Option) *Server {
	s := Server{
		chat:       orchestrator,
		corsOrigin: "*",
	}

	for _, opt := range opts {
		opt(&s)
	}

	return &s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/clear", s.handleClear)
	mux.HandleFunc("GET /api/models", s.handleModels)
	mux.HandleFunc("GET /api/history", s.handleHistory)
	mux.HandleFunc("GET /health", s.handleHealth)

	if s.staticDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.staticDir)))
	}

	return recoverMiddleware(corsMiddleware(s.corsOrigin, mux))
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("could not write response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJson(w, status, map[string]string{"error": message})
}
