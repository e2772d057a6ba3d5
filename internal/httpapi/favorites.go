package httpapi

import (
	"errors"
	"net/http"

	"bakehound/internal/store"
)

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	bakeryID, idOK := pathID(r)
	if !idOK {
		writeError(w, http.StatusBadRequest, "invalid bakery id")
		return
	}

	favorite, err := s.favorites.Add(r.Context(), userID, bakeryID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrFavoriteExists):
			// Clients key on this exact message to reconcile a stale local state.
			writeError(w, http.StatusConflict, "Already a favorite")
		case errors.Is(err, store.ErrBakeryNotFound):
			writeError(w, http.StatusNotFound, "Bakery not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to add favorite")
		}
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Data:    favorite,
		Message: "Added to favorites",
	})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	bakeryID, idOK := pathID(r)
	if !idOK {
		writeError(w, http.StatusBadRequest, "invalid bakery id")
		return
	}

	if err := s.favorites.Remove(r.Context(), userID, bakeryID); err != nil {
		switch {
		case errors.Is(err, store.ErrFavoriteNotFound):
			writeError(w, http.StatusNotFound, "Favorite not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to remove favorite")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Removed from favorites")
}

func (s *Server) handleMyFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	bakeries, err := s.favorites.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list favorites")
		return
	}
	if bakeries == nil {
		bakeries = []store.Bakery{}
	}

	writeData(w, http.StatusOK, bakeries)
}
