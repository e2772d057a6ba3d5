package bakeries

import (
	"context"

	"bakehound/internal/store"

	"github.com/google/uuid"
)

// Store captures the persistence needs for bakery workflows.
type Store interface {
	CreateBakery(ctx context.Context, b store.Bakery, createdBy uuid.UUID) (store.Bakery, error)
	ListBakeries(ctx context.Context, filter store.BakeryFilter) ([]store.Bakery, int, error)
	BakeryByID(ctx context.Context, id uuid.UUID) (store.Bakery, error)
	UpdateBakery(ctx context.Context, id uuid.UUID, patch store.BakeryPatch, actor uuid.UUID) (store.Bakery, error)
	DeleteBakery(ctx context.Context, id uuid.UUID, actor uuid.UUID) error
}

// Service coordinates bakery listing operations.
type Service interface {
	List(ctx context.Context, filter store.BakeryFilter) ([]store.Bakery, int, error)
	Get(ctx context.Context, id uuid.UUID) (store.Bakery, error)
	Create(ctx context.Context, actor uuid.UUID, b store.Bakery) (store.Bakery, error)
	Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, patch store.BakeryPatch) (store.Bakery, error)
	Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) error
}

type service struct {
	store Store
}

// New constructs a Service backed by the provided Store.
func New(store Store) Service {
	return &service{store: store}
}

func (s *service) List(ctx context.Context, filter store.BakeryFilter) ([]store.Bakery, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return s.store.ListBakeries(ctx, filter)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (store.Bakery, error) {
	if err := ctx.Err(); err != nil {
		return store.Bakery{}, err
	}
	return s.store.BakeryByID(ctx, id)
}

func (s *service) Create(ctx context.Context, actor uuid.UUID, b store.Bakery) (store.Bakery, error) {
	if err := ctx.Err(); err != nil {
		return store.Bakery{}, err
	}
	return s.store.CreateBakery(ctx, b, actor)
}

func (s *service) Update(ctx context.Context, actor uuid.UUID, id uuid.UUID, patch store.BakeryPatch) (store.Bakery, error) {
	if err := ctx.Err(); err != nil {
		return store.Bakery{}, err
	}
	return s.store.UpdateBakery(ctx, id, patch, actor)
}

func (s *service) Delete(ctx context.Context, actor uuid.UUID, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteBakery(ctx, id, actor)
}
