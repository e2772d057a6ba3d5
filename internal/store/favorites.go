package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Favorite is the (user, bakery) bookmark relationship. Existence implies
// "favorited"; uniqueness per pair is enforced by the backend.
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	BakeryID  uuid.UUID `json:"bakery_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AddFavorite creates the favorite relationship for (user, bakery).
// A duplicate pair surfaces as ErrFavoriteExists via the unique constraint,
// a missing bakery as ErrBakeryNotFound via the foreign key.
func (s *Store) AddFavorite(ctx context.Context, userID, bakeryID uuid.UUID) (Favorite, error) {
	fav := Favorite{
		ID:       uuid.New(),
		UserID:   userID,
		BakeryID: bakeryID,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO favorites (id, user_id, bakery_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, fav.ID, fav.UserID, fav.BakeryID).Scan(&fav.CreatedAt)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return Favorite{}, ErrFavoriteExists
		}
		if isPgError(err, pgForeignKeyViolation) {
			return Favorite{}, ErrBakeryNotFound
		}
		return Favorite{}, fmt.Errorf("insert favorite: %w", err)
	}

	return fav, nil
}

// RemoveFavorite destroys the favorite relationship for (user, bakery).
func (s *Store) RemoveFavorite(ctx context.Context, userID, bakeryID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = $1 AND bakery_id = $2
	`, userID, bakeryID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrFavoriteNotFound
	}

	return nil
}

// ListFavorites returns the bakeries the user has favorited, newest favorite first.
func (s *Store) ListFavorites(ctx context.Context, userID uuid.UUID) ([]Bakery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.city, b.specialties, b.average_price, b.opening_hours, b.status, b.image_url, b.created_by, b.rating, b.ratings_count, b.created_at
		FROM favorites f
		JOIN bakeries b ON b.id = f.bakery_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select favorites: %w", err)
	}
	defer rows.Close()

	bakeries, err := scanBakeryRows(rows)
	if err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	return bakeries, nil
}
