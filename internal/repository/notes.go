package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var notesTable = recordTable{
	name:     "notes",
	columns:  "id, owner_id, title, content, tags, is_favorite, created_at, updated_at",
	document: "to_tsvector('simple', title || ' ' || content)",
}

// PostgresNoteRepository implements note persistence against a PostgreSQL database.
// Every statement is scoped by owner_id.
type PostgresNoteRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresNoteRepository creates a new PostgresNoteRepository using the provided *sql.DB.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

// Insert stores n under a freshly generated ID and returns it with the
// store-assigned timestamps. n.Owner must already be the verified owner.
func (r *PostgresNoteRepository) Insert(ctx context.Context, n models.Note) (*models.Note, error) {
	n.ID = uuid.NewString()
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO notes (id, owner_id, title, content, tags, is_favorite)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`, n.ID, n.Owner, n.Title, n.Content, pq.Array(n.Tags), n.IsFavorite).Scan(&n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return &n, nil
}

// GetByID returns the note with the given ID owned by owner, or
// models.ErrNotFound.
func (r *PostgresNoteRepository) GetByID(ctx context.Context, owner, id string) (*models.Note, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+notesTable.columns+" FROM notes WHERE id = $1 AND owner_id = $2", id, owner)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

// List returns owner's notes matching f, most recently created first.
// The result is never nil.
func (r *PostgresNoteRepository) List(ctx context.Context, owner string, f models.ListFilter) ([]models.Note, error) {
	query, args := listQuery(notesTable, owner, f)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]models.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Update applies the non-nil fields of p to the note {id, owner} in a single
// conditional statement and returns the updated note, or models.ErrNotFound.
// Tags in p must already be normalized.
func (r *PostgresNoteRepository) Update(ctx context.Context, owner, id string, p models.NotePatch) (*models.Note, error) {
	var set []assignment
	if p.Title != nil {
		set = append(set, assignment{"title", *p.Title})
	}
	if p.Content != nil {
		set = append(set, assignment{"content", *p.Content})
	}
	if p.Tags != nil {
		set = append(set, assignment{"tags", pq.Array(*p.Tags)})
	}
	if p.IsFavorite != nil {
		set = append(set, assignment{"is_favorite", *p.IsFavorite})
	}

	query, args := updateQuery(notesTable, owner, id, set)
	n, err := scanNote(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("update note: %w", err)
	}
	return n, nil
}

// Delete removes the note {id, owner}. It returns models.ErrNotFound when
// nothing matched.
func (r *PostgresNoteRepository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(s rowScanner) (*models.Note, error) {
	var n models.Note
	err := s.Scan(&n.ID, &n.Owner, &n.Title, &n.Content, pq.Array(&n.Tags), &n.IsFavorite, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
