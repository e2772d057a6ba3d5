// Package client is a Go consumer of the bakehound HTTP API. It mirrors the
// behavior expected of front-end clients: bearer-token auth, favorite toggling
// that reconciles against server conflicts, and local rating validation.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bakehound/internal/store"

	"github.com/google/uuid"
)

// ErrInvalidScore is returned before any network call when a rating is out of range.
var ErrInvalidScore = errors.New("client: score must be between 1 and 5")

// ErrUnauthenticated is returned when an operation requires a login first.
var ErrUnauthenticated = errors.New("client: not logged in")

// Client talks to a bakehound server and tracks session state locally.
type Client struct {
	baseURL string
	http    *http.Client

	token     string
	user      store.User
	favorites map[uuid.UUID]bool
}

// Page is one page of bakery results along with the server's pagination echo.
type Page struct {
	Bakeries   []store.Bakery
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// New builds a Client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
		favorites: make(map[uuid.UUID]bool),
	}
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Pagination *struct {
		Total      int `json:"total"`
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, envelope, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, envelope{}, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, envelope{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, envelope{}, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, envelope{}, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, env, nil
}

// Login authenticates against the server and stores the session token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	b, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	var payload struct {
		Success bool       `json:"success"`
		Token   string     `json:"token"`
		User    store.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}

	c.token = payload.Token
	c.user = payload.User
	return c.RefreshFavorites(ctx)
}

// User returns the logged-in user profile.
func (c *Client) User() store.User { return c.user }

// FetchBakeries loads one page of bakeries matching the optional search prefix.
func (c *Client) FetchBakeries(ctx context.Context, search string, page, limit int) (Page, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/items"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	status, env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Page{}, err
	}
	if status != http.StatusOK {
		return Page{}, fmt.Errorf("list bakeries: status %d: %s", status, env.Message)
	}

	var bakeries []store.Bakery
	if err := json.Unmarshal(env.Data, &bakeries); err != nil {
		return Page{}, fmt.Errorf("decode bakeries: %w", err)
	}

	result := Page{Bakeries: bakeries}
	if env.Pagination != nil {
		result.Total = env.Pagination.Total
		result.Page = env.Pagination.Page
		result.Limit = env.Pagination.Limit
		result.TotalPages = env.Pagination.TotalPages
	}
	return result, nil
}

// IsFavorite reports whether the bakery is in the locally tracked favorite set.
func (c *Client) IsFavorite(bakeryID uuid.UUID) bool {
	return c.favorites[bakeryID]
}

// RefreshFavorites reloads the favorite set from the server, replacing local state.
func (c *Client) RefreshFavorites(ctx context.Context) error {
	if c.token == "" {
		return ErrUnauthenticated
	}

	status, env, err := c.do(ctx, http.MethodGet, "/api/favorites/my-favorites", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("list favorites: status %d: %s", status, env.Message)
	}

	var bakeries []store.Bakery
	if err := json.Unmarshal(env.Data, &bakeries); err != nil {
		return fmt.Errorf("decode favorites: %w", err)
	}

	favorites := make(map[uuid.UUID]bool, len(bakeries))
	for _, b := range bakeries {
		favorites[b.ID] = true
	}
	c.favorites = favorites
	return nil
}

// ToggleFavorite flips the favorite status of a bakery. Local state only
// changes on a confirmed server response, so a toggle that races a stale
// local view converges on the server's state: an add that conflicts because
// the bakery is already a favorite falls through to a remove.
func (c *Client) ToggleFavorite(ctx context.Context, bakeryID uuid.UUID) (bool, error) {
	if c.token == "" {
		return false, ErrUnauthenticated
	}

	if c.favorites[bakeryID] {
		if err := c.removeFavorite(ctx, bakeryID); err != nil {
			return true, err
		}
		delete(c.favorites, bakeryID)
		return false, nil
	}

	status, env, err := c.do(ctx, http.MethodPost, "/api/favorites/"+bakeryID.String(), nil)
	if err != nil {
		return false, err
	}
	switch {
	case status == http.StatusCreated:
		c.favorites[bakeryID] = true
		return true, nil
	case status == http.StatusConflict && env.Message == "Already a favorite":
		// Server already has it; the toggle intent is therefore a removal.
		c.favorites[bakeryID] = true
		if err := c.removeFavorite(ctx, bakeryID); err != nil {
			return true, err
		}
		delete(c.favorites, bakeryID)
		return false, nil
	default:
		return false, fmt.Errorf("add favorite: status %d: %s", status, env.Message)
	}
}

func (c *Client) removeFavorite(ctx context.Context, bakeryID uuid.UUID) error {
	status, env, err := c.do(ctx, http.MethodDelete, "/api/favorites/"+bakeryID.String(), nil)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		// Already gone server-side; treat the removal as done.
		return nil
	default:
		return fmt.Errorf("remove favorite: status %d: %s", status, env.Message)
	}
}

// SubmitRating validates the score locally, submits it, and returns the
// bakery's new aggregate rating from the server.
func (c *Client) SubmitRating(ctx context.Context, bakeryID uuid.UUID, score int) (float64, error) {
	if score < 1 || score > 5 {
		return 0, ErrInvalidScore
	}
	if c.token == "" {
		return 0, ErrUnauthenticated
	}

	b, err := json.Marshal(map[string]any{"bakeryId": bakeryID.String(), "score": score})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ratings", bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var payload struct {
		Success   bool    `json:"success"`
		NewRating float64 `json:"newRating"`
		Message   string  `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode rating response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("submit rating: status %d: %s", resp.StatusCode, payload.Message)
	}
	return payload.NewRating, nil
}
