package services

import (
	"context"
	"errors"

	"github.com/inkwell-app/inkwell-diary/internal/feedback"
	"github.com/inkwell-app/inkwell-diary/internal/model"
	"github.com/inkwell-app/inkwell-diary/internal/store"
)

// DiaryService orchestrates the diary-entry lifecycle: feedback
// generation on create, then ownership-scoped store operations.
type DiaryService struct {
	store store.Store
	gen   feedback.Generator
}

func NewDiaryService(s store.Store, gen feedback.Generator) *DiaryService {
	return &DiaryService{store: s, gen: gen}
}

// Create generates AI feedback for the content and persists the entry.
// Feedback runs first; if it fails nothing is written, so there are no
// partial entries.
func (s *DiaryService) Create(ctx context.Context, ownerID, content, mood string) (*model.DiaryEntry, error) {
	if ownerID == "" {
		return nil, model.NewAuthentication("User not authenticated")
	}

	analysis, err := s.gen.Generate(ctx, content)
	if err != nil {
		return nil, err
	}

	return s.store.Diaries().Create(ctx, &model.DiaryEntry{
		Owner:      ownerID,
		Content:    content,
		Mood:       mood,
		AIAnalysis: analysis,
	})
}

// List returns the owner's entries, newest created first.
func (s *DiaryService) List(ctx context.Context, ownerID string) ([]*model.DiaryEntry, error) {
	if ownerID == "" {
		return nil, model.NewAuthentication("User not authenticated")
	}
	return s.store.Diaries().ListByOwner(ctx, ownerID)
}

// Get looks up a single entry scoped to the owner. A valid id owned by
// someone else yields the same not-found as a nonexistent id.
func (s *DiaryService) Get(ctx context.Context, ownerID, entryID string) (*model.DiaryEntry, error) {
	if ownerID == "" {
		return nil, model.NewAuthentication("User not authenticated")
	}
	out, err := s.store.Diaries().GetByID(ctx, ownerID, entryID)
	if err != nil {
		return nil, notFoundOrErr(err)
	}
	return out, nil
}

// Update rewrites content and mood only; the stored analysis is never
// regenerated or touched.
func (s *DiaryService) Update(ctx context.Context, ownerID, entryID, content, mood string) (*model.DiaryEntry, error) {
	if ownerID == "" {
		return nil, model.NewAuthentication("User not authenticated")
	}
	out, err := s.store.Diaries().Update(ctx, model.UpdateDiaryRequest{
		Owner:   ownerID,
		EntryID: entryID,
		Content: content,
		Mood:    mood,
	})
	if err != nil {
		return nil, notFoundOrErr(err)
	}
	return out, nil
}

// Delete removes an owned entry.
func (s *DiaryService) Delete(ctx context.Context, ownerID, entryID string) error {
	if ownerID == "" {
		return model.NewAuthentication("User not authenticated")
	}
	if err := s.store.Diaries().Delete(ctx, ownerID, entryID); err != nil {
		return notFoundOrErr(err)
	}
	return nil
}

func notFoundOrErr(err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return model.NewNotFound("Diary not found")
	}
	return err
}
