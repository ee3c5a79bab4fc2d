package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/checkmarble/llmchat/internal/chat"
	"github.com/checkmarble/llmchat/internal/session"
	"github.com/cockroachdb/errors"
	"github.com/simonfrey/jsonl"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const (
	defaultSessionID  = "default"
	defaultMemoryMode = "active"

	maxBodySize = 1 << 20
)

// readObject reads a request body that must be a JSON object.
func readObject(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrap(err, "could not read request body")
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, errors.New("request body is not a JSON object")
	}

	return body, nil
}

func stringField(body []byte, path, fallback string) string {
	if value := gjson.GetBytes(body, path); value.Exists() {
		return value.String()
	}

	return fallback
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := readObject(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Server error: %s", err))
		return
	}

	msg := chat.Message{
		SessionID:              stringField(body, "session_id", defaultSessionID),
		Text:                   stringField(body, "message", ""),
		Provider:               stringField(body, "model_type", chat.DefaultProvider),
		MemoryMode:             session.ParseMemoryMode(stringField(body, "memory_mode", defaultMemoryMode)),
		InitialContext:         stringField(body, "initial_context", ""),
		UseContextPersistently: gjson.GetBytes(body, "use_context_persistently").Bool(),
	}

	if msg.Text == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	response, err := s.chat.SendMessage(r.Context(), msg)
	if err != nil {
		var turnErr *chat.TurnError

		if errors.As(err, &turnErr) {
			writeError(w, http.StatusOK, turnErr.Message)
			return
		}

		logrus.WithError(err).Error("unexpected chat failure")
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Server error: %s", err))

		return
	}

	writeJson(w, http.StatusOK, map[string]any{
		"response": response,
		"success":  true,
	})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	body, err := readObject(w, r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Server error: %s", err))
		return
	}

	s.chat.Clear(stringField(body, "session_id", defaultSessionID))

	writeJson(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Conversation cleared",
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, map[string]any{
		"models": s.chat.Models(),
	})
}

// handleHistory exports the turn log of a session, one JSON record per line.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		sessionID = defaultSessionID
	}

	turns, err := s.chat.History(sessionID)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}

		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Server error: %s", err))
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	out := jsonl.NewWriter(w)

	for _, turn := range turns {
		if err := out.Write(turn); err != nil {
			logrus.WithError(err).WithField("session_id", sessionID).Warn("could not write history")
			return
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, map[string]string{"status": "ok"})
}
