// Package scrape collects business leads from an external directory site.
// Runs are triggered explicitly over the API; results land in the scrape_leads
// table for later review.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bakehound/internal/store"

	"github.com/PuerkitoBio/goquery"
)

// Params narrows a collection run.
type Params struct {
	BusinessType string
	City         string
	Country      string
	MaxLeads     int
}

const defaultMaxLeads = 25

// Collector fetches and parses lead cards from the configured directory.
type Collector struct {
	baseURL string
	client  *http.Client
}

// New builds a Collector against the given directory base URL.
func New(baseURL string) *Collector {
	return &Collector{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Collect fetches one result page and extracts up to MaxLeads leads.
func (c *Collector) Collect(ctx context.Context, p Params) ([]store.ScrapeLead, error) {
	if p.MaxLeads < 1 {
		p.MaxLeads = defaultMaxLeads
	}

	target := c.searchURL(p)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch directory: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("parse directory page: %w", err)
	}

	var leads []store.ScrapeLead
	doc.Find(".listing-card").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		name := strings.TrimSpace(sel.Find(".name").Text())
		if name == "" {
			return true
		}

		city := strings.TrimSpace(sel.Find(".city").Text())
		if city == "" {
			city = p.City
		}

		website, _ := sel.Find("a.website").Attr("href")

		leads = append(leads, store.ScrapeLead{
			BusinessType: p.BusinessType,
			Name:         name,
			City:         city,
			Country:      p.Country,
			Address:      strings.TrimSpace(sel.Find(".address").Text()),
			Phone:        strings.TrimSpace(sel.Find(".phone").Text()),
			Website:      strings.TrimSpace(website),
			SourceURL:    target,
		})
		return len(leads) < p.MaxLeads
	})

	return leads, nil
}

func (c *Collector) searchURL(p Params) string {
	q := url.Values{}
	q.Set("what", strings.TrimSpace(p.BusinessType))
	q.Set("where", strings.TrimSpace(p.City))
	if country := strings.TrimSpace(p.Country); country != "" {
		q.Set("country", country)
	}
	return c.baseURL + "/search?" + q.Encode()
}
