package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScrapeLead is a business contact collected by a scraping run. Leads live in
// their own table and never become bakeries without review.
type ScrapeLead struct {
	ID           uuid.UUID `json:"id"`
	BusinessType string    `json:"business_type"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Website      string    `json:"website,omitempty"`
	SourceURL    string    `json:"source_url"`
	CreatedAt    time.Time `json:"created_at"`
}

// SaveLeads stores the results of one scraping run atomically.
func (s *Store) SaveLeads(ctx context.Context, leads []ScrapeLead) error {
	if len(leads) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	for _, lead := range leads {
		id := lead.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO scrape_leads (id, business_type, name, city, country, address, phone, website, source_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, id, lead.BusinessType, lead.Name, lead.City, lead.Country,
			nullIfEmpty(lead.Address), nullIfEmpty(lead.Phone), nullIfEmpty(lead.Website), lead.SourceURL); err != nil {
			return fmt.Errorf("insert lead: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit leads: %w", err)
	}
	tx = nil

	return nil
}
