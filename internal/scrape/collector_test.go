package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const directoryPage = `<!doctype html>
<html><body>
<div class="results">
  <div class="listing-card">
    <span class="name">Le Fournil</span>
    <span class="city">Lyon</span>
    <span class="address">12 Rue des Artisans</span>
    <span class="phone">+33 4 00 00 00 01</span>
    <a class="website" href="https://lefournil.example">site</a>
  </div>
  <div class="listing-card">
    <span class="name">Painpain</span>
    <span class="phone">+33 4 00 00 00 02</span>
  </div>
  <div class="listing-card">
    <span class="name"></span>
  </div>
  <div class="listing-card">
    <span class="name">Maison Doree</span>
    <span class="city">Lyon</span>
  </div>
</div>
</body></html>`

func TestCollectParsesLeadCards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("what"); got != "bakery" {
			t.Errorf("expected what=bakery, got %q", got)
		}
		w.Write([]byte(directoryPage))
	}))
	defer srv.Close()

	c := New(srv.URL)
	leads, err := c.Collect(context.Background(), Params{
		BusinessType: "bakery",
		City:         "Lyon",
		Country:      "FR",
		MaxLeads:     10,
	})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if len(leads) != 3 {
		t.Fatalf("expected 3 leads (nameless card skipped), got %d", len(leads))
	}

	first := leads[0]
	if first.Name != "Le Fournil" || first.City != "Lyon" {
		t.Fatalf("unexpected first lead: %+v", first)
	}
	if first.Website != "https://lefournil.example" {
		t.Fatalf("expected website attr, got %q", first.Website)
	}
	if first.BusinessType != "bakery" || first.Country != "FR" {
		t.Fatalf("params not propagated: %+v", first)
	}

	// City falls back to the requested city when the card omits it.
	if leads[1].City != "Lyon" {
		t.Fatalf("expected fallback city Lyon, got %q", leads[1].City)
	}
}

func TestCollectHonorsMaxLeads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directoryPage))
	}))
	defer srv.Close()

	leads, err := New(srv.URL).Collect(context.Background(), Params{BusinessType: "bakery", MaxLeads: 1})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("expected 1 lead, got %d", len(leads))
	}
}

func TestCollectSurfacesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Collect(context.Background(), Params{BusinessType: "bakery"}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
