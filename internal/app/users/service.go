package users

import (
	"context"

	"bakehound/internal/store"

	"github.com/google/uuid"
)

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateUser(ctx context.Context, email, username, password string) (store.User, error)
	Authenticate(ctx context.Context, email, password string) (store.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (store.User, error)
}

// TokenIssuer mints bearer credentials for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// Service exposes account workflows.
type Service interface {
	Register(ctx context.Context, email, username, password string) (store.User, error)
	Login(ctx context.Context, email, password string) (store.User, string, error)
	Me(ctx context.Context, userID uuid.UUID) (store.User, error)
}

type service struct {
	store  Store
	tokens TokenIssuer
}

// New wires a Service backed by the provided Store and token issuer.
func New(store Store, tokens TokenIssuer) Service {
	return &service{store: store, tokens: tokens}
}

func (s *service) Register(ctx context.Context, email, username, password string) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.CreateUser(ctx, email, username, password)
}

func (s *service) Login(ctx context.Context, email, password string) (store.User, string, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, "", err
	}

	user, err := s.store.Authenticate(ctx, email, password)
	if err != nil {
		return store.User{}, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return store.User{}, "", err
	}

	return user, token, nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.UserByID(ctx, userID)
}
