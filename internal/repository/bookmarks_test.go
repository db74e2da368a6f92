package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/GophNotes/internal/models"
	"github.com/lib/pq"
)

var bookmarkColumns = []string{"id", "owner_id", "url", "title", "description", "tags", "is_favorite", "created_at", "updated_at"}

func setupBookmarksMock(t *testing.T) (*PostgresBookmarkRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresBookmarkRepository(db), mock, func() { db.Close() }
}

func TestBookmarkInsert_Success(t *testing.T) {
	repo, mock, cleanup := setupBookmarksMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO bookmarks (id, owner_id, url, title, description, tags, is_favorite)`)).
		WithArgs(sqlmock.AnyArg(), "u1", "https://go.dev", "Go", "", pq.Array([]string{}), false).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	b, err := repo.Insert(context.Background(), models.Bookmark{
		Owner: "u1", URL: "https://go.dev", Title: "Go", Tags: []string{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID == "" || b.Owner != "u1" {
		t.Errorf("unexpected bookmark: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBookmarkGetByID(t *testing.T) {
	repo, mock, cleanup := setupBookmarksMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM bookmarks WHERE id = $1 AND owner_id = $2`)).
		WithArgs("b1", "u1").
		WillReturnRows(sqlmock.NewRows(bookmarkColumns).
			AddRow("b1", "u1", "https://go.dev", "Go", "lang", "{}", false, now, now))

	b, err := repo.GetByID(context.Background(), "u1", "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.URL != "https://go.dev" || b.Description != "lang" {
		t.Errorf("unexpected bookmark: %+v", b)
	}
	if b.Tags == nil || len(b.Tags) != 0 {
		t.Errorf("tags = %#v; want empty", b.Tags)
	}
}

func TestBookmarkGetByID_NotFound(t *testing.T) {
	repo, mock, cleanup := setupBookmarksMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM bookmarks WHERE id = $1 AND owner_id = $2`)).
		WithArgs("b1", "u2").
		WillReturnRows(sqlmock.NewRows(bookmarkColumns))

	if _, err := repo.GetByID(context.Background(), "u2", "b1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBookmarkList_TagsOnly(t *testing.T) {
	repo, mock, cleanup := setupBookmarksMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM bookmarks WHERE owner_id = $1 AND tags && $2::text[] ORDER BY created_at DESC, id DESC`)).
		WithArgs("u1", pq.Array([]string{"work"})).
		WillReturnRows(sqlmock.NewRows(bookmarkColumns).
			AddRow("b1", "u1", "https://go.dev", "Go", "", "{work}", false, now, now))

	list, err := repo.List(context.Background(), "u1", models.ListFilter{Tags: []string{"work"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].ID != "b1" {
		t.Errorf("unexpected bookmarks: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBookmarkUpdate_URL(t *testing.T) {
	repo, mock, cleanup := setupBookmarksMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE bookmarks SET url = $3, description = $4, updated_at = now() WHERE id = $1 AND owner_id = $2`)).
		WithArgs("b1", "u1", "https://pkg.go.dev", "docs").
		WillReturnRows(sqlmock.NewRows(bookmarkColumns).
			AddRow("b1", "u1", "https://pkg.go.dev", "Go", "docs", "{}", false, now, now))

	url, desc := "https://pkg.go.dev", "docs"
	b, err := repo.Update(context.Background(), "u1", "b1", models.BookmarkPatch{URL: &url, Description: &desc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.URL != url || b.Description != desc {
		t.Errorf("unexpected bookmark: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestBookmarkDelete_NotFound(t *testing.T) {
	repo, mock, cleanup := setupBookmarksMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bookmarks WHERE id = $1 AND owner_id = $2`)).
		WithArgs("b1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "u2", "b1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
