package store

import (
	"context"

	"github.com/inkwell-app/inkwell-diary/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Users() Users
	Diaries() Diaries
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

// Diaries is ownership-scoped by construction: every lookup and
// mutation filters on the owner, so a non-owned entry is
// indistinguishable from a nonexistent one. Update and Delete are
// single-statement find-and-mutate operations to avoid lost updates
// between concurrent requests.
type Diaries interface {
	Create(ctx context.Context, e *model.DiaryEntry) (*model.DiaryEntry, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.DiaryEntry, error)
	GetByID(ctx context.Context, ownerID, entryID string) (*model.DiaryEntry, error)
	Update(ctx context.Context, req model.UpdateDiaryRequest) (*model.DiaryEntry, error)
	Delete(ctx context.Context, ownerID, entryID string) error
}
