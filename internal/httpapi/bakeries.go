package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bakehound/internal/store"
)

func (s *Server) handleListBakeries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := store.BakeryFilter{
		Search: query.Get("search"),
		Status: query.Get("status"),
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid page parameter")
			return
		}
		filter.Page = page
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		filter.Limit = limit
	}

	// Normalize here so the pagination envelope echoes the effective values.
	filter = filter.Normalize()

	bakeries, total, err := s.bakeries.List(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidBakery):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to list bakeries")
		}
		return
	}
	if bakeries == nil {
		bakeries = []store.Bakery{}
	}

	totalPages := total / filter.Limit
	if total%filter.Limit != 0 {
		totalPages++
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    bakeries,
		Pagination: &pagination{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		},
	})
}

func (s *Server) handleGetBakery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid bakery id")
		return
	}

	bakery, err := s.bakeries.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrBakeryNotFound):
			writeError(w, http.StatusNotFound, "Bakery not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to load bakery")
		}
		return
	}

	writeData(w, http.StatusOK, bakery)
}

type bakeryRequest struct {
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Specialties  string   `json:"specialties"`
	AveragePrice *float64 `json:"average_price"`
	OpeningHours string   `json:"opening_hours"`
	Status       string   `json:"status"`
	ImageURL     string   `json:"image_url"`
}

func (s *Server) handleCreateBakery(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	var req bakeryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bakery, err := s.bakeries.Create(r.Context(), userID, store.Bakery{
		Name:         req.Name,
		City:         req.City,
		Specialties:  req.Specialties,
		AveragePrice: req.AveragePrice,
		OpeningHours: req.OpeningHours,
		Status:       req.Status,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidBakery):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create bakery")
		}
		return
	}

	writeData(w, http.StatusCreated, bakery)
}

type bakeryPatchRequest struct {
	Name         *string  `json:"name"`
	City         *string  `json:"city"`
	Specialties  *string  `json:"specialties"`
	AveragePrice *float64 `json:"average_price"`
	OpeningHours *string  `json:"opening_hours"`
	Status       *string  `json:"status"`
	ImageURL     *string  `json:"image_url"`
}

func (s *Server) handleUpdateBakery(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	id, idOK := pathID(r)
	if !idOK {
		writeError(w, http.StatusBadRequest, "invalid bakery id")
		return
	}

	var req bakeryPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bakery, err := s.bakeries.Update(r.Context(), userID, id, store.BakeryPatch{
		Name:         req.Name,
		City:         req.City,
		Specialties:  req.Specialties,
		AveragePrice: req.AveragePrice,
		OpeningHours: req.OpeningHours,
		Status:       req.Status,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidBakery):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrForbidden):
			writeError(w, http.StatusForbidden, "only the creator can modify this bakery")
		case errors.Is(err, store.ErrBakeryNotFound):
			writeError(w, http.StatusNotFound, "Bakery not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update bakery")
		}
		return
	}

	writeData(w, http.StatusOK, bakery)
}

func (s *Server) handleDeleteBakery(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireIdentity(w, r)
	if !ok {
		return
	}

	id, idOK := pathID(r)
	if !idOK {
		writeError(w, http.StatusBadRequest, "invalid bakery id")
		return
	}

	if err := s.bakeries.Delete(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, store.ErrForbidden):
			writeError(w, http.StatusForbidden, "only the creator can delete this bakery")
		case errors.Is(err, store.ErrBakeryNotFound):
			writeError(w, http.StatusNotFound, "Bakery not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete bakery")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Deleted successfully")
}
