package store

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// SubmitRating records the user's score for a bakery and returns the new
// aggregate. The aggregate is the mean of each user's current score: a
// resubmission replaces that user's previous score rather than appending.
// Upsert, recompute and persist run in one transaction.
func (s *Store) SubmitRating(ctx context.Context, userID, bakeryID uuid.UUID, score int) (float64, error) {
	if score < 1 || score > 5 {
		return 0, ErrInvalidRating
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ratings (user_id, bakery_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, bakery_id)
		DO UPDATE SET score = EXCLUDED.score, updated_at = NOW()
	`, userID, bakeryID, score); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return 0, ErrBakeryNotFound
		}
		return 0, fmt.Errorf("upsert rating: %w", err)
	}

	var (
		mean  float64
		count int
	)
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(score), 0), COUNT(*)
		FROM ratings
		WHERE bakery_id = $1
	`, bakeryID).Scan(&mean, &count); err != nil {
		return 0, fmt.Errorf("aggregate ratings: %w", err)
	}

	mean = math.Round(mean*10) / 10

	if _, err := tx.ExecContext(ctx, `
		UPDATE bakeries
		SET rating = $1, ratings_count = $2
		WHERE id = $3
	`, mean, count, bakeryID); err != nil {
		return 0, fmt.Errorf("update bakery rating: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rating: %w", err)
	}
	tx = nil

	return mean, nil
}
