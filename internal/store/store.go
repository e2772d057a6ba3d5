package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUserExists signals the email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates a login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized indicates a missing or invalid caller identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidBakery indicates validation failure for bakery data.
	ErrInvalidBakery = errors.New("invalid bakery")
	// ErrBakeryNotFound signals a missing bakery record.
	ErrBakeryNotFound = errors.New("bakery not found")
	// ErrForbidden signals the actor is not the creator of the record.
	ErrForbidden = errors.New("not the owner of this bakery")

	// ErrFavoriteExists signals the (user, bakery) pair is already favorited.
	ErrFavoriteExists = errors.New("already a favorite")
	// ErrFavoriteNotFound signals no favorite exists for the (user, bakery) pair.
	ErrFavoriteNotFound = errors.New("favorite not found")

	// ErrInvalidRating indicates a score outside the accepted range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
