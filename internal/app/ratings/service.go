package ratings

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence hook for rating submissions.
type Store interface {
	SubmitRating(ctx context.Context, userID, bakeryID uuid.UUID, score int) (float64, error)
}

// Service coordinates rating submissions.
type Service interface {
	Submit(ctx context.Context, userID, bakeryID uuid.UUID, score int) (float64, error)
}

type service struct {
	store Store
}

// New constructs a ratings Service backed by the given Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) Submit(ctx context.Context, userID, bakeryID uuid.UUID, score int) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.store.SubmitRating(ctx, userID, bakeryID, score)
}
