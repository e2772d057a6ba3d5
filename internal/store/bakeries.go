package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bakery models a directory listing created by a specific user.
type Bakery struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	City         string    `json:"city"`
	Specialties  string    `json:"specialties,omitempty"`
	AveragePrice *float64  `json:"average_price,omitempty"`
	OpeningHours string    `json:"opening_hours,omitempty"`
	Status       string    `json:"status"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedBy    uuid.UUID `json:"created_by"`
	Rating       float64   `json:"rating"`
	RatingsCount int       `json:"ratings_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// BakeryPatch carries a partial update. Nil fields are left untouched.
// The creator reference and creation timestamp are not patchable.
type BakeryPatch struct {
	Name         *string
	City         *string
	Specialties  *string
	AveragePrice *float64
	OpeningHours *string
	Status       *string
	ImageURL     *string
}

// BakeryFilter constrains the results returned by ListBakeries.
// Search matches names by case-insensitive prefix only.
type BakeryFilter struct {
	Search string
	Status string
	Page   int
	Limit  int
}

const (
	defaultPageLimit = 6
	maxPageLimit     = 50
)

// Normalize applies pagination defaults and the server-side limit cap.
func (f BakeryFilter) Normalize() BakeryFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	return f
}

var validStatuses = map[string]bool{
	"open":   true,
	"closed": true,
}

// CreateBakery inserts a new listing owned by the given creator.
// The creator reference is taken from the verified identity, never from client input.
func (s *Store) CreateBakery(ctx context.Context, b Bakery, createdBy uuid.UUID) (Bakery, error) {
	b.Name = strings.TrimSpace(b.Name)
	b.City = strings.TrimSpace(b.City)
	if b.Status == "" {
		b.Status = "open"
	}
	if err := validateBakery(b); err != nil {
		return Bakery{}, err
	}

	b.ID = uuid.New()
	b.CreatedBy = createdBy
	b.Rating = 0
	b.RatingsCount = 0

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO bakeries (id, name, city, specialties, average_price, opening_hours, status, image_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, b.ID, b.Name, b.City, nullIfEmpty(b.Specialties), b.AveragePrice, nullIfEmpty(b.OpeningHours),
		b.Status, nullIfEmpty(b.ImageURL), b.CreatedBy).Scan(&b.CreatedAt)
	if err != nil {
		return Bakery{}, fmt.Errorf("insert bakery: %w", err)
	}

	return b, nil
}

// ListBakeries returns one page of listings plus the unpaginated total,
// newest first.
func (s *Store) ListBakeries(ctx context.Context, filter BakeryFilter) ([]Bakery, int, error) {
	filter = filter.Normalize()

	var (
		clauses []string
		args    []any
	)

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, escapeLike(search)+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		args = append(args, status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bakeries"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bakeries: %w", err)
	}

	query := `
		SELECT id, name, city, specialties, average_price, opening_hours, status, image_url, created_by, rating, ratings_count, created_at
		FROM bakeries` + where
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, (filter.Page-1)*filter.Limit)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select bakeries: %w", err)
	}
	defer rows.Close()

	bakeries, err := scanBakeryRows(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bakeries: %w", err)
	}

	return bakeries, total, nil
}

// BakeryByID returns a single listing by its identifier.
func (s *Store) BakeryByID(ctx context.Context, id uuid.UUID) (Bakery, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, city, specialties, average_price, opening_hours, status, image_url, created_by, rating, ratings_count, created_at
		FROM bakeries
		WHERE id = $1
	`, id)

	bakery, err := scanBakeryRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bakery{}, ErrBakeryNotFound
		}
		return Bakery{}, err
	}
	return bakery, nil
}

// UpdateBakery applies a partial patch as a single conditional write scoped to
// the creator, so a non-owner can never mutate the record, without a separate
// ownership read.
func (s *Store) UpdateBakery(ctx context.Context, id uuid.UUID, patch BakeryPatch, actor uuid.UUID) (Bakery, error) {
	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Bakery{}, fmt.Errorf("%w: name is required", ErrInvalidBakery)
		}
		set("name", name)
	}
	if patch.City != nil {
		city := strings.TrimSpace(*patch.City)
		if city == "" {
			return Bakery{}, fmt.Errorf("%w: city is required", ErrInvalidBakery)
		}
		set("city", city)
	}
	if patch.Specialties != nil {
		set("specialties", nullIfEmpty(*patch.Specialties))
	}
	if patch.AveragePrice != nil {
		set("average_price", *patch.AveragePrice)
	}
	if patch.OpeningHours != nil {
		set("opening_hours", nullIfEmpty(*patch.OpeningHours))
	}
	if patch.Status != nil {
		if !validStatuses[*patch.Status] {
			return Bakery{}, fmt.Errorf("%w: unknown status %q", ErrInvalidBakery, *patch.Status)
		}
		set("status", *patch.Status)
	}
	if patch.ImageURL != nil {
		set("image_url", nullIfEmpty(*patch.ImageURL))
	}

	if len(sets) == 0 {
		return Bakery{}, fmt.Errorf("%w: no fields to update", ErrInvalidBakery)
	}

	args = append(args, id)
	idArg := len(args)
	args = append(args, actor)
	actorArg := len(args)

	query := fmt.Sprintf(`
		UPDATE bakeries
		SET %s
		WHERE id = $%d AND created_by = $%d
		RETURNING id, name, city, specialties, average_price, opening_hours, status, image_url, created_by, rating, ratings_count, created_at
	`, strings.Join(sets, ", "), idArg, actorArg)

	bakery, err := scanBakeryRow(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bakery{}, s.ownershipError(ctx, id)
		}
		return Bakery{}, fmt.Errorf("update bakery: %w", err)
	}

	return bakery, nil
}

// DeleteBakery removes a listing via a conditional write scoped to the creator.
func (s *Store) DeleteBakery(ctx context.Context, id uuid.UUID, actor uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM bakeries
		WHERE id = $1 AND created_by = $2
	`, id, actor)
	if err != nil {
		return fmt.Errorf("delete bakery: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return s.ownershipError(ctx, id)
	}

	return nil
}

// ownershipError disambiguates a zero-row conditional write: the record is
// either missing or owned by someone else.
func (s *Store) ownershipError(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM bakeries WHERE id = $1)
	`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check bakery: %w", err)
	}
	if exists {
		return ErrForbidden
	}
	return ErrBakeryNotFound
}

func validateBakery(b Bakery) error {
	switch {
	case b.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidBakery)
	case b.City == "":
		return fmt.Errorf("%w: city is required", ErrInvalidBakery)
	case !validStatuses[b.Status]:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidBakery, b.Status)
	case b.AveragePrice != nil && *b.AveragePrice < 0:
		return fmt.Errorf("%w: average price cannot be negative", ErrInvalidBakery)
	}
	return nil
}

// escapeLike neutralizes LIKE metacharacters so user input stays a literal prefix.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func nullIfEmpty(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

type bakeryScanner interface {
	Scan(dest ...any) error
}

func scanBakeryRow(scanner bakeryScanner) (Bakery, error) {
	var (
		b            Bakery
		specialties  sql.NullString
		averagePrice sql.NullFloat64
		openingHours sql.NullString
		imageURL     sql.NullString
	)

	if err := scanner.Scan(
		&b.ID,
		&b.Name,
		&b.City,
		&specialties,
		&averagePrice,
		&openingHours,
		&b.Status,
		&imageURL,
		&b.CreatedBy,
		&b.Rating,
		&b.RatingsCount,
		&b.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bakery{}, err
		}
		return Bakery{}, fmt.Errorf("scan bakery: %w", err)
	}

	b.Specialties = specialties.String
	if averagePrice.Valid {
		b.AveragePrice = &averagePrice.Float64
	}
	b.OpeningHours = openingHours.String
	b.ImageURL = imageURL.String

	return b, nil
}

func scanBakeryRows(rows *sql.Rows) ([]Bakery, error) {
	var bakeries []Bakery
	for rows.Next() {
		b, err := scanBakeryRow(rows)
		if err != nil {
			return nil, err
		}
		bakeries = append(bakeries, b)
	}
	return bakeries, nil
}
