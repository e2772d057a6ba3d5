package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestSubmitRatingRejectsOutOfRange(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	for _, score := range []int{0, 6, -3} {
		if _, err := s.SubmitRating(context.Background(), testOwnerID, testBakeryID, score); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("score %d: expected ErrInvalidRating, got %v", score, err)
		}
	}

	// Validation happens before any query is issued.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitRatingComputesMean(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO ratings (user_id, bakery_id, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, bakery_id)
		DO UPDATE SET score = EXCLUDED.score, updated_at = NOW()
	`)).
		WithArgs(testOwnerID, testBakeryID, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT COALESCE(AVG(score), 0), COUNT(*)
		FROM ratings
		WHERE bakery_id = $1
	`)).
		WithArgs(testBakeryID).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.25, 4))

	// The persisted aggregate is the mean rounded to one decimal place.
	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE bakeries
		SET rating = $1, ratings_count = $2
		WHERE id = $3
	`)).
		WithArgs(4.3, 4, testBakeryID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	newRating, err := s.SubmitRating(context.Background(), testOwnerID, testBakeryID, 5)
	if err != nil {
		t.Fatalf("SubmitRating error: %v", err)
	}
	if newRating != 4.3 {
		t.Fatalf("expected new rating 4.3, got %v", newRating)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSubmitRatingUnknownBakery(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO ratings (user_id, bakery_id, score)
	`)).
		WithArgs(testOwnerID, testBakeryID, 3).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	_, err := s.SubmitRating(context.Background(), testOwnerID, testBakeryID, 3)
	if !errors.Is(err, ErrBakeryNotFound) {
		t.Fatalf("expected ErrBakeryNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
