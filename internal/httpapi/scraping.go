package httpapi

import (
	"encoding/json"
	"net/http"

	"bakehound/internal/scrape"
)

type scrapingRequest struct {
	BusinessType string `json:"businessType"`
	City         string `json:"city"`
	Country      string `json:"country"`
	MaxLeads     int    `json:"maxLeads"`
}

func (s *Server) handleScrapingTrigger(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireIdentity(w, r); !ok {
		return
	}

	var req scrapingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.BusinessType == "" {
		writeError(w, http.StatusBadRequest, "businessType is required")
		return
	}

	result, err := s.scraping.Trigger(r.Context(), scrape.Params{
		BusinessType: req.BusinessType,
		City:         req.City,
		Country:      req.Country,
		MaxLeads:     req.MaxLeads,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Scraping failed")
		return
	}

	writeData(w, http.StatusOK, result)
}
