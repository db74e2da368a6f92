package http

import (
	"context"
	"errors"

	"github.com/atinyakov/GophNotes/internal/models"
)

type fakeNoteService struct {
	ListFunc   func(ctx context.Context, owner string, f models.ListFilter) ([]models.Note, error)
	GetFunc    func(ctx context.Context, owner, id string) (*models.Note, error)
	CreateFunc func(ctx context.Context, owner string, in models.NoteInput) (*models.Note, error)
	UpdateFunc func(ctx context.Context, owner, id string, p models.NotePatch) (*models.Note, error)
	DeleteFunc func(ctx context.Context, owner, id string) error
}

func (f *fakeNoteService) List(ctx context.Context, owner string, filter models.ListFilter) ([]models.Note, error) {
	return f.ListFunc(ctx, owner, filter)
}

func (f *fakeNoteService) Get(ctx context.Context, owner, id string) (*models.Note, error) {
	return f.GetFunc(ctx, owner, id)
}

func (f *fakeNoteService) Create(ctx context.Context, owner string, in models.NoteInput) (*models.Note, error) {
	return f.CreateFunc(ctx, owner, in)
}

func (f *fakeNoteService) Update(ctx context.Context, owner, id string, p models.NotePatch) (*models.Note, error) {
	return f.UpdateFunc(ctx, owner, id, p)
}

func (f *fakeNoteService) Delete(ctx context.Context, owner, id string) error {
	return f.DeleteFunc(ctx, owner, id)
}

type fakeBookmarkService struct {
	ListFunc   func(ctx context.Context, owner string, f models.ListFilter) ([]models.Bookmark, error)
	GetFunc    func(ctx context.Context, owner, id string) (*models.Bookmark, error)
	CreateFunc func(ctx context.Context, owner string, in models.BookmarkInput) (*models.Bookmark, error)
	UpdateFunc func(ctx context.Context, owner, id string, p models.BookmarkPatch) (*models.Bookmark, error)
	DeleteFunc func(ctx context.Context, owner, id string) error
}

func (f *fakeBookmarkService) List(ctx context.Context, owner string, filter models.ListFilter) ([]models.Bookmark, error) {
	return f.ListFunc(ctx, owner, filter)
}

func (f *fakeBookmarkService) Get(ctx context.Context, owner, id string) (*models.Bookmark, error) {
	return f.GetFunc(ctx, owner, id)
}

func (f *fakeBookmarkService) Create(ctx context.Context, owner string, in models.BookmarkInput) (*models.Bookmark, error) {
	return f.CreateFunc(ctx, owner, in)
}

func (f *fakeBookmarkService) Update(ctx context.Context, owner, id string, p models.BookmarkPatch) (*models.Bookmark, error) {
	return f.UpdateFunc(ctx, owner, id, p)
}

func (f *fakeBookmarkService) Delete(ctx context.Context, owner, id string) error {
	return f.DeleteFunc(ctx, owner, id)
}

// tokenVerifier maps fixed tokens to users.
type tokenVerifier map[string]string

func (v tokenVerifier) Verify(token string) (string, error) {
	if user, ok := v[token]; ok {
		return user, nil
	}
	return "", errors.New("unknown token")
}
