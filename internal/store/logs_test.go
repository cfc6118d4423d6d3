package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
)

var logCols = []string{"id", "date", "food", "calories", "protein", "carbs", "fats", "water_ml", "created_at"}

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewWithDB(mock), mock
}

func expectationsMet(t *testing.T, mock pgxmock.PgxPoolIface) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_RequiresFoodAndDate(t *testing.T) {
	tests := []struct {
		name  string
		entry LogEntry
	}{
		{"missing food", LogEntry{Date: "2026-09-01"}},
		{"missing date", LogEntry{Food: "2 eggs"}},
		{"blank food", LogEntry{Food: "   ", Date: "2026-09-01"}},
		{"unparseable date", LogEntry{Food: "2 eggs", Date: "yesterday-ish"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			_, err := s.Create(context.Background(), tt.entry)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Create() error = %v, want ErrValidation", err)
			}
			// The table must never be touched on a validation failure.
			expectationsMet(t, mock)
		})
	}
}

func TestCreate_RoundTrip(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO logs`).
		WithArgs("1756700000000", "2026-09-01", "2 eggs", 140, 12, 1, 10, 0).
		WillReturnRows(pgxmock.NewRows(logCols).
			AddRow("1756700000000", "2026-09-01", "2 eggs", 140, 12, 1, 10, 0, now))

	got, err := s.Create(context.Background(), LogEntry{
		ID:       "1756700000000",
		Date:     "2026-09-01",
		Food:     "2 eggs",
		Calories: 140,
		Protein:  12,
		Carbs:    1,
		Fats:     10,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.ID != "1756700000000" || got.Food != "2 eggs" {
		t.Errorf("Create() returned %+v", got)
	}
	if got.Calories != 140 || got.Protein != 12 || got.Carbs != 1 || got.Fats != 10 || got.WaterML != 0 {
		t.Errorf("numeric fields not preserved: %+v", got)
	}
	expectationsMet(t, mock)
}

func TestCreate_CanonicalisesLegacyDate(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	// US-locale date from old client versions must be stored as YYYY-MM-DD.
	mock.ExpectQuery(`INSERT INTO logs`).
		WithArgs("id-1", "2025-12-31", "dal", 180, 8, 30, 4, 0).
		WillReturnRows(pgxmock.NewRows(logCols).
			AddRow("id-1", "2025-12-31", "dal", 180, 8, 30, 4, 0, now))

	got, err := s.Create(context.Background(), LogEntry{
		ID: "id-1", Date: "12/31/2025", Food: "dal",
		Calories: 180, Protein: 8, Carbs: 30, Fats: 4,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.Date != "2025-12-31" {
		t.Errorf("Create() date = %q, want canonical form", got.Date)
	}
	expectationsMet(t, mock)
}

func TestCreate_ClampsNegativeValues(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO logs`).
		WithArgs("id-2", "2026-09-01", "mystery shake", 0, 0, 0, 0, 250).
		WillReturnRows(pgxmock.NewRows(logCols).
			AddRow("id-2", "2026-09-01", "mystery shake", 0, 0, 0, 0, 250, now))

	_, err := s.Create(context.Background(), LogEntry{
		ID: "id-2", Date: "2026-09-01", Food: "mystery shake",
		Calories: -5, Protein: -1, Carbs: -2, Fats: -3, WaterML: 250,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	expectationsMet(t, mock)
}

func TestCreate_DuplicateID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO logs`).
		WithArgs("dup", "2026-09-01", "2 eggs", 0, 0, 0, 0, 0).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	_, err := s.Create(context.Background(), LogEntry{ID: "dup", Date: "2026-09-01", Food: "2 eggs"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Create() error = %v, want ErrDuplicateID", err)
	}
	expectationsMet(t, mock)
}

func TestList_OrderedAndCanonicalised(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT`).
		WillReturnRows(pgxmock.NewRows(logCols).
			AddRow("b", "2026-09-01", "toast", 80, 3, 15, 1, 0, now).
			AddRow("a", "8/31/2026", "paneer", 300, 18, 6, 22, 0, now.Add(-time.Hour)))

	entries, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(entries))
	}
	if entries[0].ID != "b" || entries[1].ID != "a" {
		t.Errorf("List() order = [%s, %s], want [b, a]", entries[0].ID, entries[1].ID)
	}
	// Legacy stored date is normalised on read.
	if entries[1].Date != "2026-08-31" {
		t.Errorf("legacy date = %q, want 2026-08-31", entries[1].Date)
	}
	expectationsMet(t, mock)
}

func TestDelete_Idempotent(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM logs`).
		WithArgs("no-such-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := s.Delete(context.Background(), "no-such-id"); err != nil {
		t.Errorf("Delete() of absent id should succeed, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestDelete_StorageError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM logs`).
		WithArgs("id").
		WillReturnError(errors.New("connection reset"))

	if err := s.Delete(context.Background(), "id"); err == nil {
		t.Error("Delete() should surface storage errors")
	}
	expectationsMet(t, mock)
}

func TestCanonicalDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2026-09-01", "2026-09-01", true},
		{"9/1/2026", "2026-09-01", true},
		{"12/31/2025", "2025-12-31", true},
		{"2026-09-01T08:30:00Z", "2026-09-01", true},
		{" 2026-09-01 ", "2026-09-01", true},
		{"not a date", "not a date", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalDate(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("CanonicalDate(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
