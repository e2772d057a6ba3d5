package scraping

import (
	"context"

	"bakehound/internal/scrape"
	"bakehound/internal/store"
)

// Collector gathers leads from the external directory.
type Collector interface {
	Collect(ctx context.Context, p scrape.Params) ([]store.ScrapeLead, error)
}

// Store persists collected leads.
type Store interface {
	SaveLeads(ctx context.Context, leads []store.ScrapeLead) error
}

// Result summarizes one completed scraping run.
type Result struct {
	Count    int    `json:"count"`
	SheetURL string `json:"sheetUrl,omitempty"`
}

// Service runs externally-triggered scraping actions.
type Service interface {
	Trigger(ctx context.Context, p scrape.Params) (Result, error)
}

type service struct {
	collector Collector
	store     Store
	sheetURL  string
}

// New constructs a scraping Service. sheetURL points at the spreadsheet
// exported by the downstream pipeline and is echoed back to the caller.
func New(collector Collector, st Store, sheetURL string) Service {
	return &service{collector: collector, store: st, sheetURL: sheetURL}
}

func (s *service) Trigger(ctx context.Context, p scrape.Params) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	leads, err := s.collector.Collect(ctx, p)
	if err != nil {
		return Result{}, err
	}

	if err := s.store.SaveLeads(ctx, leads); err != nil {
		return Result{}, err
	}

	return Result{Count: len(leads), SheetURL: s.sheetURL}, nil
}
