package favorites

import (
	"context"

	"bakehound/internal/store"

	"github.com/google/uuid"
)

// Store defines persistence operations required for favorites workflows.
type Store interface {
	AddFavorite(ctx context.Context, userID, bakeryID uuid.UUID) (store.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, bakeryID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]store.Bakery, error)
}

// Service describes high level favorites operations used by HTTP handlers.
type Service interface {
	Add(ctx context.Context, userID, bakeryID uuid.UUID) (store.Favorite, error)
	Remove(ctx context.Context, userID, bakeryID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]store.Bakery, error)
}

type service struct {
	store Store
}

// New constructs a favorites Service backed by the given store.
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Add(ctx context.Context, userID, bakeryID uuid.UUID) (store.Favorite, error) {
	if err := ctx.Err(); err != nil {
		return store.Favorite{}, err
	}
	return s.store.AddFavorite(ctx, userID, bakeryID)
}

func (s *service) Remove(ctx context.Context, userID, bakeryID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.RemoveFavorite(ctx, userID, bakeryID)
}

func (s *service) ListByUser(ctx context.Context, userID uuid.UUID) ([]store.Bakery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListFavorites(ctx, userID)
}
