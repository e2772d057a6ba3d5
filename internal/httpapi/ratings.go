package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"bakehound/internal/store"

	"github.com/google/uuid"
)

type ratingRequest struct {
	BakeryID string `json:"bakeryId"`
	Score    int    `json:"score"`
}

type ratingResponse struct {
	Success   bool    `json:"success"`
	NewRating float64 `json:"newRating"`
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bakeryID, err := uuid.Parse(req.BakeryID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid bakery id")
		return
	}

	newRating, err := s.ratings.Submit(r.Context(), userID, bakeryID, req.Score)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidRating):
			writeError(w, http.StatusBadRequest, "score must be between 1 and 5")
		case errors.Is(err, store.ErrBakeryNotFound):
			writeError(w, http.StatusNotFound, "Bakery not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to submit rating")
		}
		return
	}

	writeJSON(w, http.StatusOK, ratingResponse{Success: true, NewRating: newRating})
}
