package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestAddFavoriteSuccess(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO favorites (id, user_id, bakery_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`)).
		WithArgs(sqlmock.AnyArg(), testOwnerID, testBakeryID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	fav, err := s.AddFavorite(context.Background(), testOwnerID, testBakeryID)
	if err != nil {
		t.Fatalf("AddFavorite error: %v", err)
	}
	if fav.UserID != testOwnerID || fav.BakeryID != testBakeryID {
		t.Fatalf("unexpected favorite: %+v", fav)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddFavoriteDuplicate(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO favorites (id, user_id, bakery_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`)).
		WithArgs(sqlmock.AnyArg(), testOwnerID, testBakeryID).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.AddFavorite(context.Background(), testOwnerID, testBakeryID)
	if !errors.Is(err, ErrFavoriteExists) {
		t.Fatalf("expected ErrFavoriteExists, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAddFavoriteUnknownBakery(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO favorites (id, user_id, bakery_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`)).
		WithArgs(sqlmock.AnyArg(), testOwnerID, testBakeryID).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := s.AddFavorite(context.Background(), testOwnerID, testBakeryID)
	if !errors.Is(err, ErrBakeryNotFound) {
		t.Fatalf("expected ErrBakeryNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveFavoriteNotFound(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM favorites
		WHERE user_id = $1 AND bakery_id = $2
	`)).
		WithArgs(testOwnerID, testBakeryID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.RemoveFavorite(context.Background(), testOwnerID, testBakeryID)
	if !errors.Is(err, ErrFavoriteNotFound) {
		t.Fatalf("expected ErrFavoriteNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveFavoriteSuccess(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM favorites
		WHERE user_id = $1 AND bakery_id = $2
	`)).
		WithArgs(testOwnerID, testBakeryID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.RemoveFavorite(context.Background(), testOwnerID, testBakeryID); err != nil {
		t.Fatalf("RemoveFavorite error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListFavoritesJoinsBakeries(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(`SELECT b\.id, b\.name, b\.city,.+FROM favorites f\s+JOIN bakeries b ON b\.id = f\.bakery_id\s+WHERE f\.user_id = \$1\s+ORDER BY f\.created_at DESC`).
		WithArgs(testOwnerID).
		WillReturnRows(bakeryRow(testBakeryID))

	bakeries, err := s.ListFavorites(context.Background(), testOwnerID)
	if err != nil {
		t.Fatalf("ListFavorites error: %v", err)
	}
	if len(bakeries) != 1 || bakeries[0].ID != testBakeryID {
		t.Fatalf("unexpected favorites: %+v", bakeries)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
