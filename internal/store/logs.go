package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// LogEntry is one ingestion event: a dated food/water record. Entries are
// immutable once created; corrections are delete + recreate.
type LogEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Food      string    `json:"food"`
	Calories  int       `json:"calories"`
	Protein   int       `json:"protein"`
	Carbs     int       `json:"carbs"`
	Fats      int       `json:"fats"`
	WaterML   int       `json:"water_ml"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	// ErrValidation marks a create rejected for missing or malformed
	// required fields.
	ErrValidation = errors.New("invalid log entry")
	// ErrDuplicateID marks a create whose id already exists.
	ErrDuplicateID = errors.New("duplicate log id")
)

const uniqueViolation = "23505"

const logColumns = "id, date, food, calories, protein, carbs, fats, water_ml, created_at"

// Create inserts a new entry. Food and date are required; the date is
// canonicalised before it hits the table, numeric fields are floored at
// zero, and a missing id gets a millisecond-timestamp value.
func (s *Store) Create(ctx context.Context, e LogEntry) (*LogEntry, error) {
	if strings.TrimSpace(e.Food) == "" {
		return nil, fmt.Errorf("%w: food is required", ErrValidation)
	}
	if strings.TrimSpace(e.Date) == "" {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}
	date, ok := CanonicalDate(e.Date)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognised date %q", ErrValidation, e.Date)
	}
	if e.ID == "" {
		e.ID = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO logs (id, date, food, calories, protein, carbs, fats, water_ml)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+logColumns,
		e.ID, date, e.Food,
		clampNonNegative(e.Calories), clampNonNegative(e.Protein),
		clampNonNegative(e.Carbs), clampNonNegative(e.Fats),
		clampNonNegative(e.WaterML),
	)

	var out LogEntry
	if err := scanLogEntry(row, &out); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, e.ID)
		}
		return nil, fmt.Errorf("insert log: %w", err)
	}
	return &out, nil
}

// List returns all entries, most recently created first.
func (s *Store) List(ctx context.Context) ([]LogEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+logColumns+`
		FROM logs
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var e LogEntry
		if err := scanLogEntry(rows, &e); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return entries, nil
}

// Delete removes an entry by id. Deleting an absent id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM logs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete log: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLogEntry(row rowScanner, e *LogEntry) error {
	if err := row.Scan(&e.ID, &e.Date, &e.Food, &e.Calories, &e.Protein, &e.Carbs, &e.Fats, &e.WaterML, &e.CreatedAt); err != nil {
		return err
	}
	// Legacy rows may predate canonical writes.
	if date, ok := CanonicalDate(e.Date); ok {
		e.Date = date
	}
	return nil
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
