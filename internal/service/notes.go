package service

import (
	"context"

	"github.com/atinyakov/GophNotes/internal/cache"
	"github.com/atinyakov/GophNotes/internal/events"
	"github.com/atinyakov/GophNotes/internal/models"
)

// NoteRepository defines the owner-scoped persistence operations needed by
// the NoteService. Every method that takes an id matches on {id, owner} and
// returns models.ErrNotFound when nothing matches.
type NoteRepository interface {
	// Insert stores n and returns it with its assigned ID and timestamps.
	Insert(ctx context.Context, n models.Note) (*models.Note, error)
	// GetByID fetches a single note.
	GetByID(ctx context.Context, owner, id string) (*models.Note, error)
	// List returns the owner's notes matching f, newest first.
	List(ctx context.Context, owner string, f models.ListFilter) ([]models.Note, error)
	// Update applies the non-nil fields of p atomically.
	Update(ctx context.Context, owner, id string, p models.NotePatch) (*models.Note, error)
	// Delete removes a single note.
	Delete(ctx context.Context, owner, id string) error
}

// NoteService implements note operations for a verified owner.
type NoteService struct {
	repo NoteRepository
	support
}

// NewNoteService constructs a NoteService with the provided NoteRepository.
func NewNoteService(repo NoteRepository, opts ...Option) *NoteService {
	return &NoteService{repo: repo, support: newSupport(opts)}
}

// List returns owner's notes matching f.
func (s *NoteService) List(ctx context.Context, owner string, f models.ListFilter) ([]models.Note, error) {
	return s.repo.List(ctx, owner, f)
}

// Get returns the note {id, owner}, consulting the cache first.
func (s *NoteService) Get(ctx context.Context, owner, id string) (*models.Note, error) {
	key := cache.Key(KindNotes, owner, id)

	var cached models.Note
	read := s.load(ctx, key, &cached)
	if read.hit {
		return &cached, nil
	}

	n, err := s.repo.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	s.fill(ctx, key, n, read)
	return n, nil
}

// Create validates in and stores a new note owned by owner. Only the
// allow-listed input fields are copied; tags are normalized.
func (s *NoteService) Create(ctx context.Context, owner string, in models.NoteInput) (*models.Note, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	n, err := s.repo.Insert(ctx, models.Note{
		Owner:      owner,
		Title:      in.Title,
		Content:    in.Content,
		Tags:       models.NormalizeTags(in.Tags),
		IsFavorite: in.IsFavorite,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Created, KindNotes, owner, n.ID)
	return n, nil
}

// Update validates the provided fields of p and applies them to the note
// {id, owner}.
func (s *NoteService) Update(ctx context.Context, owner, id string, p models.NotePatch) (*models.Note, error) {
	var c fieldChecker
	if p.Title != nil {
		c.check("title", ruleRequired, *p.Title)
	}
	if p.Content != nil {
		c.check("content", ruleRequired, *p.Content)
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	if p.Tags != nil {
		tags := models.NormalizeTags(*p.Tags)
		p.Tags = &tags
	}

	n, err := s.repo.Update(ctx, owner, id, p)
	if err != nil {
		return nil, err
	}

	s.evict(ctx, cache.Key(KindNotes, owner, id))
	s.publish(ctx, events.Updated, KindNotes, owner, id)
	return n, nil
}

// Delete removes the note {id, owner}.
func (s *NoteService) Delete(ctx context.Context, owner, id string) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		return err
	}

	s.evict(ctx, cache.Key(KindNotes, owner, id))
	s.publish(ctx, events.Deleted, KindNotes, owner, id)
	return nil
}
