package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/postfetch"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ postfetch.ExtractionService = (*ExtractionService)(nil)

// ExtractionService implements postfetch.ExtractionService using SQLite.
type ExtractionService struct {
	db *DB
}

// NewExtractionService creates a new ExtractionService.
func NewExtractionService(db *DB) *ExtractionService {
	return &ExtractionService{db: db}
}

const extractionColumns = "id, url, method, valid_post_set, post_count, error, result, result_hash, created_at"

// CreateExtraction stores a new extraction.
func (s *ExtractionService) CreateExtraction(ctx context.Context, e *postfetch.Extraction) error {
	if err := e.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(e.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()
	e.ResultHash = hashContent(data)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO extractions (`+extractionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.URL, string(e.Method), nullBool(e.Valid), e.PostCount, e.Error, string(data),
		e.ResultHash, e.CreatedAt.Format(timeLayout))

	return err
}

// FindExtractionByID retrieves an extraction by ID.
func (s *ExtractionService) FindExtractionByID(ctx context.Context, id string) (*postfetch.Extraction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+extractionColumns+` FROM extractions WHERE id = ?`, id)

	e, err := scanExtraction(row)
	if err == sql.ErrNoRows {
		return nil, postfetch.Errorf(postfetch.ENOTFOUND, "extraction not found")
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FindExtractions retrieves extractions matching the filter, newest first.
func (s *ExtractionService) FindExtractions(ctx context.Context, filter postfetch.ExtractionFilter) ([]*postfetch.Extraction, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + extractionColumns + " FROM extractions WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Method != nil {
		query.WriteString(" AND method = ?")
		args = append(args, string(*filter.Method))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*postfetch.Extraction
	for rows.Next() {
		e, err := scanExtraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// DeleteExtraction permanently removes an extraction.
func (s *ExtractionService) DeleteExtraction(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM extractions WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return postfetch.Errorf(postfetch.ENOTFOUND, "extraction not found")
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExtraction(row scanner) (*postfetch.Extraction, error) {
	var e postfetch.Extraction
	var method, data, createdAt string
	var valid sql.NullBool

	if err := row.Scan(&e.ID, &e.URL, &method, &valid, &e.PostCount, &e.Error, &data,
		&e.ResultHash, &createdAt); err != nil {
		return nil, err
	}

	e.Method = postfetch.Method(method)
	e.Valid = boolPtr(valid)

	var r postfetch.Result
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	e.Result = &r

	var err error
	if e.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}

	return &e, nil
}
