package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"bakehound/internal/app/chat"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type chatReply struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireIdentity(w, r); !ok {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := s.chat.Send(r.Context(), req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "message is required")
		case errors.Is(err, chat.ErrWebhookUnavailable):
			writeError(w, http.StatusBadGateway, "assistant is unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "failed to send message")
		}
		return
	}

	writeData(w, http.StatusOK, chatReply{Reply: reply})
}
