package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

var (
	testBakeryID = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c2")
	testOwnerID  = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c1")
	testActorID  = uuid.MustParse("6ba7b812-9dad-11d1-80b4-00c04fd430c3")
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return New(db), mock, func() { db.Close() }
}

func bakeryColumns() []string {
	return []string{
		"id", "name", "city", "specialties", "average_price", "opening_hours",
		"status", "image_url", "created_by", "rating", "ratings_count", "created_at",
	}
}

func bakeryRow(id uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows(bakeryColumns()).
		AddRow(id.String(), "Le Fournil", "Lyon", "sourdough", 3.5, "7-19",
			"open", nil, testOwnerID.String(), 4.2, 12, time.Now())
}

func TestValidateBakery(t *testing.T) {
	price := -1.0
	tests := []struct {
		name    string
		bakery  Bakery
		wantErr bool
	}{
		{
			name:   "valid bakery",
			bakery: Bakery{Name: "Le Fournil", City: "Lyon", Status: "open"},
		},
		{
			name:    "missing name",
			bakery:  Bakery{City: "Lyon", Status: "open"},
			wantErr: true,
		},
		{
			name:    "missing city",
			bakery:  Bakery{Name: "Le Fournil", Status: "open"},
			wantErr: true,
		},
		{
			name:    "unknown status",
			bakery:  Bakery{Name: "Le Fournil", City: "Lyon", Status: "paused"},
			wantErr: true,
		},
		{
			name:    "negative price",
			bakery:  Bakery{Name: "Le Fournil", City: "Lyon", Status: "open", AveragePrice: &price},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := validateBakery(tc.bakery)
			if tc.wantErr && !errors.Is(err, ErrInvalidBakery) {
				t.Fatalf("expected ErrInvalidBakery, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil error but got %v", err)
			}
		})
	}
}

func TestFilterNormalize(t *testing.T) {
	f := BakeryFilter{Page: 0, Limit: 0}.Normalize()
	if f.Page != 1 || f.Limit != 6 {
		t.Fatalf("expected defaults page=1 limit=6, got %+v", f)
	}

	f = BakeryFilter{Page: 3, Limit: 500}.Normalize()
	if f.Limit != 50 {
		t.Fatalf("expected limit capped at 50, got %d", f.Limit)
	}
	if f.Page != 3 {
		t.Fatalf("expected page preserved, got %d", f.Page)
	}
}

func TestCreateBakerySuccess(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO bakeries (id, name, city, specialties, average_price, opening_hours, status, image_url, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`)).
		WithArgs(sqlmock.AnyArg(), "Le Fournil", "Lyon", nil, nil, nil, "open", nil, testOwnerID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	got, err := s.CreateBakery(context.Background(), Bakery{
		Name: "  Le Fournil ",
		City: " Lyon  ",
	}, testOwnerID)
	if err != nil {
		t.Fatalf("CreateBakery error: %v", err)
	}

	if got.Name != "Le Fournil" || got.City != "Lyon" {
		t.Fatalf("expected trimmed name/city, got %q / %q", got.Name, got.City)
	}
	if got.Status != "open" {
		t.Fatalf("expected empty status to default to open, got %q", got.Status)
	}
	if got.CreatedBy != testOwnerID {
		t.Fatalf("expected creator %s, got %s", testOwnerID, got.CreatedBy)
	}
	if got.Rating != 0 || got.RatingsCount != 0 {
		t.Fatalf("expected zeroed rating aggregate, got %v/%d", got.Rating, got.RatingsCount)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBakeryInvalid(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	_, err := s.CreateBakery(context.Background(), Bakery{Name: "No City"}, testOwnerID)
	if !errors.Is(err, ErrInvalidBakery) {
		t.Fatalf("expected ErrInvalidBakery, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListBakeriesPrefixSearch(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM bakeries WHERE name ILIKE $1`)).
		WithArgs(`Le%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT id, name, city,.+FROM bakeries WHERE name ILIKE \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(`Le%`, 6, 0).
		WillReturnRows(bakeryRow(testBakeryID))

	bakeries, total, err := s.ListBakeries(context.Background(), BakeryFilter{Search: "Le"})
	if err != nil {
		t.Fatalf("ListBakeries error: %v", err)
	}
	if total != 1 || len(bakeries) != 1 {
		t.Fatalf("expected one result, got total=%d len=%d", total, len(bakeries))
	}
	if bakeries[0].Name != "Le Fournil" {
		t.Fatalf("unexpected bakery: %+v", bakeries[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListBakeriesEscapesLikeMetacharacters(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM bakeries WHERE name ILIKE $1`)).
		WithArgs(`50\% Off`+`%`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`SELECT id, name, city,.+ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(`50\% Off`+`%`, 6, 0).
		WillReturnRows(sqlmock.NewRows(bakeryColumns()))

	bakeries, total, err := s.ListBakeries(context.Background(), BakeryFilter{Search: "50% Off"})
	if err != nil {
		t.Fatalf("ListBakeries error: %v", err)
	}
	if total != 0 || len(bakeries) != 0 {
		t.Fatalf("expected no results, got total=%d len=%d", total, len(bakeries))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListBakeriesPaginationOffset(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM bakeries`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	mock.ExpectQuery(`SELECT id, name, city,.+FROM bakeries ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 20).
		WillReturnRows(bakeryRow(testBakeryID))

	_, total, err := s.ListBakeries(context.Background(), BakeryFilter{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("ListBakeries error: %v", err)
	}
	if total != 25 {
		t.Fatalf("expected total 25, got %d", total)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBakeryByIDNotFound(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(`SELECT id, name, city,.+FROM bakeries\s+WHERE id = \$1`).
		WithArgs(testBakeryID).
		WillReturnRows(sqlmock.NewRows(bakeryColumns()))

	_, err := s.BakeryByID(context.Background(), testBakeryID)
	if !errors.Is(err, ErrBakeryNotFound) {
		t.Fatalf("expected ErrBakeryNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateBakerySuccess(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(`UPDATE bakeries\s+SET name = \$1, status = \$2\s+WHERE id = \$3 AND created_by = \$4\s+RETURNING`).
		WithArgs("New Name", "closed", testBakeryID, testOwnerID).
		WillReturnRows(bakeryRow(testBakeryID))

	name := " New Name "
	status := "closed"
	_, err := s.UpdateBakery(context.Background(), testBakeryID, BakeryPatch{Name: &name, Status: &status}, testOwnerID)
	if err != nil {
		t.Fatalf("UpdateBakery error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateBakeryEmptyPatch(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	_, err := s.UpdateBakery(context.Background(), testBakeryID, BakeryPatch{}, testOwnerID)
	if !errors.Is(err, ErrInvalidBakery) {
		t.Fatalf("expected ErrInvalidBakery, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateBakeryForbidden(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(`UPDATE bakeries\s+SET name = \$1\s+WHERE id = \$2 AND created_by = \$3`).
		WithArgs("New Name", testBakeryID, testActorID).
		WillReturnRows(sqlmock.NewRows(bakeryColumns()))

	// The record exists but belongs to someone else.
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM bakeries WHERE id = $1)
	`)).
		WithArgs(testBakeryID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	name := "New Name"
	_, err := s.UpdateBakery(context.Background(), testBakeryID, BakeryPatch{Name: &name}, testActorID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateBakeryNotFound(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectQuery(`UPDATE bakeries\s+SET name = \$1\s+WHERE id = \$2 AND created_by = \$3`).
		WithArgs("New Name", testBakeryID, testActorID).
		WillReturnRows(sqlmock.NewRows(bakeryColumns()))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM bakeries WHERE id = $1)
	`)).
		WithArgs(testBakeryID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	name := "New Name"
	_, err := s.UpdateBakery(context.Background(), testBakeryID, BakeryPatch{Name: &name}, testActorID)
	if !errors.Is(err, ErrBakeryNotFound) {
		t.Fatalf("expected ErrBakeryNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteBakerySuccess(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM bakeries
		WHERE id = $1 AND created_by = $2
	`)).
		WithArgs(testBakeryID, testOwnerID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.DeleteBakery(context.Background(), testBakeryID, testOwnerID); err != nil {
		t.Fatalf("DeleteBakery error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteBakeryForbidden(t *testing.T) {
	s, mock, done := newMockStore(t)
	defer done()

	mock.ExpectExec(regexp.QuoteMeta(`
		DELETE FROM bakeries
		WHERE id = $1 AND created_by = $2
	`)).
		WithArgs(testBakeryID, testActorID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM bakeries WHERE id = $1)
	`)).
		WithArgs(testBakeryID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := s.DeleteBakery(context.Background(), testBakeryID, testActorID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`a%b_c\d`); got != `a\%b\_c\\d` {
		t.Fatalf("unexpected escape result: %q", got)
	}
}
