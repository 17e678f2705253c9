// Package memory provides a mutex-guarded in-memory Store used by tests
// and local experiments. Semantics mirror the SQL adapters, including
// ownership scoping and newest-first listing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell-diary/internal/model"
	"github.com/inkwell-app/inkwell-diary/internal/store"
)

type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*model.User
	byEmail map[string]string
	diaries map[string]*model.DiaryEntry
	seq     int
}

func New() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]string),
		diaries: make(map[string]*model.DiaryEntry),
	}
}

func (s *MemoryStore) Users() store.Users     { return &users{s} }
func (s *MemoryStore) Diaries() store.Diaries { return &diaries{s} }

type users struct{ p *MemoryStore }

func (u *users) Create(_ context.Context, m *model.User) (*model.User, error) {
	u.p.mu.Lock()
	defer u.p.mu.Unlock()
	if _, exists := u.p.byEmail[m.Email]; exists {
		return nil, model.ErrConflict
	}
	out := *m
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.CreatedAt = time.Now().UTC()
	u.p.users[out.ID] = &out
	u.p.byEmail[out.Email] = out.ID
	cp := out
	return &cp, nil
}

func (u *users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u.p.mu.RLock()
	defer u.p.mu.RUnlock()
	id, ok := u.p.byEmail[email]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *u.p.users[id]
	return &cp, nil
}

func (u *users) GetByID(_ context.Context, userID string) (*model.User, error) {
	u.p.mu.RLock()
	defer u.p.mu.RUnlock()
	m, ok := u.p.users[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

type diaries struct{ p *MemoryStore }

func (d *diaries) Create(_ context.Context, e *model.DiaryEntry) (*model.DiaryEntry, error) {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()
	out := *e
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	// seq breaks ties when two entries land within the clock resolution
	d.p.seq++
	out.CreatedAt = now.Add(time.Duration(d.p.seq) * time.Nanosecond)
	out.UpdatedAt = out.CreatedAt
	if e.AIAnalysis != nil {
		a := *e.AIAnalysis
		out.AIAnalysis = &a
	}
	d.p.diaries[out.ID] = &out
	cp := out
	return &cp, nil
}

func (d *diaries) ListByOwner(_ context.Context, ownerID string) ([]*model.DiaryEntry, error) {
	d.p.mu.RLock()
	defer d.p.mu.RUnlock()
	var res []*model.DiaryEntry
	for _, e := range d.p.diaries {
		if e.Owner == ownerID {
			cp := *e
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (d *diaries) GetByID(_ context.Context, ownerID, entryID string) (*model.DiaryEntry, error) {
	d.p.mu.RLock()
	defer d.p.mu.RUnlock()
	e, ok := d.p.diaries[entryID]
	if !ok || e.Owner != ownerID {
		return nil, model.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (d *diaries) Update(_ context.Context, req model.UpdateDiaryRequest) (*model.DiaryEntry, error) {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()
	e, ok := d.p.diaries[req.EntryID]
	if !ok || e.Owner != req.Owner {
		return nil, model.ErrNotFound
	}
	e.Content = req.Content
	e.Mood = req.Mood
	e.UpdatedAt = time.Now().UTC()
	cp := *e
	return &cp, nil
}

func (d *diaries) Delete(_ context.Context, ownerID, entryID string) error {
	d.p.mu.Lock()
	defer d.p.mu.Unlock()
	e, ok := d.p.diaries[entryID]
	if !ok || e.Owner != ownerID {
		return model.ErrNotFound
	}
	delete(d.p.diaries, entryID)
	return nil
}
