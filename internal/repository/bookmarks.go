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

var bookmarksTable = recordTable{
	name:     "bookmarks",
	columns:  "id, owner_id, url, title, description, tags, is_favorite, created_at, updated_at",
	document: "to_tsvector('simple', title || ' ' || description)",
}

// PostgresBookmarkRepository implements bookmark persistence against a PostgreSQL database.
type PostgresBookmarkRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresBookmarkRepository creates a new PostgresBookmarkRepository using the provided *sql.DB.
func NewPostgresBookmarkRepository(db *sql.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{DB: db}
}

// Insert stores b under a freshly generated ID and returns it with the
// store-assigned timestamps.
func (r *PostgresBookmarkRepository) Insert(ctx context.Context, b models.Bookmark) (*models.Bookmark, error) {
	b.ID = uuid.NewString()
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO bookmarks (id, owner_id, url, title, description, tags, is_favorite)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, b.ID, b.Owner, b.URL, b.Title, b.Description, pq.Array(b.Tags), b.IsFavorite).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert bookmark: %w", err)
	}
	return &b, nil
}

// GetByID returns the bookmark with the given ID owned by owner, or
// models.ErrNotFound.
func (r *PostgresBookmarkRepository) GetByID(ctx context.Context, owner, id string) (*models.Bookmark, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+bookmarksTable.columns+" FROM bookmarks WHERE id = $1 AND owner_id = $2", id, owner)
	b, err := scanBookmark(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get bookmark: %w", err)
	}
	return b, nil
}

// List returns owner's bookmarks matching f, most recently created first.
func (r *PostgresBookmarkRepository) List(ctx context.Context, owner string, f models.ListFilter) ([]models.Bookmark, error) {
	query, args := listQuery(bookmarksTable, owner, f)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	bookmarks := make([]models.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		bookmarks = append(bookmarks, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return bookmarks, nil
}

// Update applies the non-nil fields of p to the bookmark {id, owner}.
func (r *PostgresBookmarkRepository) Update(ctx context.Context, owner, id string, p models.BookmarkPatch) (*models.Bookmark, error) {
	var set []assignment
	if p.URL != nil {
		set = append(set, assignment{"url", *p.URL})
	}
	if p.Title != nil {
		set = append(set, assignment{"title", *p.Title})
	}
	if p.Description != nil {
		set = append(set, assignment{"description", *p.Description})
	}
	if p.Tags != nil {
		set = append(set, assignment{"tags", pq.Array(*p.Tags)})
	}
	if p.IsFavorite != nil {
		set = append(set, assignment{"is_favorite", *p.IsFavorite})
	}

	query, args := updateQuery(bookmarksTable, owner, id, set)
	b, err := scanBookmark(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("update bookmark: %w", err)
	}
	return b, nil
}

// Delete removes the bookmark {id, owner}.
func (r *PostgresBookmarkRepository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = $1 AND owner_id = $2`, id, owner)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanBookmark(s rowScanner) (*models.Bookmark, error) {
	var b models.Bookmark
	err := s.Scan(&b.ID, &b.Owner, &b.URL, &b.Title, &b.Description, pq.Array(&b.Tags), &b.IsFavorite, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
