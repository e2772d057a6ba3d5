package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"bakehound/internal/app/scraping"
	"bakehound/internal/scrape"
	"bakehound/internal/store"

	"github.com/google/uuid"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, email, username, password string) (store.User, error)
	Login(ctx context.Context, email, password string) (store.User, string, error)
	Me(ctx context.Context, userID uuid.UUID) (store.User, error)
}

// BakeryService describes listing query and mutation workflows.
type BakeryService interface {
	List(ctx context.Context, filter store.BakeryFilter) ([]store.Bakery, int, error)
	Get(ctx context.Context, id uuid.UUID) (store.Bakery, error)
	Create(ctx context.Context, actor uuid.UUID, b store.Bakery) (store.Bakery, error)
	Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, patch store.BakeryPatch) (store.Bakery, error)
	Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) error
}

// FavoriteService coordinates favoriting workflows.
type FavoriteService interface {
	Add(ctx context.Context, userID, bakeryID uuid.UUID) (store.Favorite, error)
	Remove(ctx context.Context, userID, bakeryID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]store.Bakery, error)
}

// RatingService coordinates rating submissions.
type RatingService interface {
	Submit(ctx context.Context, userID, bakeryID uuid.UUID, score int) (float64, error)
}

// ScrapingService runs externally-triggered lead collection.
type ScrapingService interface {
	Trigger(ctx context.Context, p scrape.Params) (scraping.Result, error)
}

// ChatService relays messages to the assistant webhook.
type ChatService interface {
	Send(ctx context.Context, sessionID, message string) (string, error)
}

// TokenVerifier validates a bearer credential and yields the caller identity.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	bakeries  BakeryService
	favorites FavoriteService
	ratings   RatingService
	scraping  ScrapingService
	chat      ChatService
	verifier  TokenVerifier
}

// New configures a Server with the given service implementations.
func New(
	users UserService,
	bakeries BakeryService,
	favorites FavoriteService,
	ratings RatingService,
	scraping ScrapingService,
	chat ChatService,
	verifier TokenVerifier,
) *Server {
	return &Server{
		users:     users,
		bakeries:  bakeries,
		favorites: favorites,
		ratings:   ratings,
		scraping:  scraping,
		chat:      chat,
		verifier:  verifier,
	}
}

// Routes exposes the HTTP handlers for the directory API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/auth/me", s.handleMe)

	mux.HandleFunc("GET /api/items", s.handleListBakeries)
	mux.HandleFunc("GET /api/items/{id}", s.handleGetBakery)
	mux.HandleFunc("POST /api/items", s.handleCreateBakery)
	mux.HandleFunc("PUT /api/items/{id}", s.handleUpdateBakery)
	mux.HandleFunc("DELETE /api/items/{id}", s.handleDeleteBakery)

	mux.HandleFunc("GET /api/favorites/my-favorites", s.handleMyFavorites)
	mux.HandleFunc("POST /api/favorites/{id}", s.handleAddFavorite)
	mux.HandleFunc("DELETE /api/favorites/{id}", s.handleRemoveFavorite)

	mux.HandleFunc("POST /api/ratings", s.handleSubmitRating)

	mux.HandleFunc("POST /api/scraping/trigger", s.handleScrapingTrigger)
	mux.HandleFunc("POST /api/chat", s.handleChat)

	return mux
}

// response is the common JSON envelope for every endpoint.
type response struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *pagination `json:"pagination,omitempty"`
}

type pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// identity extracts and verifies the caller identity if a bearer credential is
// present. Absent or invalid tokens simply leave the request anonymous; read
// endpoints tolerate that, write endpoints go through requireIdentity.
func (s *Server) identity(r *http.Request) (uuid.UUID, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return uuid.Nil, false
	}
	userID, err := s.verifier.Verify(token)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// requireIdentity resolves the caller identity or writes a 401 and reports failure.
func (s *Server) requireIdentity(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := s.identity(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing or invalid bearer token")
		return uuid.Nil, false
	}
	return userID, true
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}
