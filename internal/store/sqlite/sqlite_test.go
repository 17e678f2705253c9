package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell-diary/internal/model"
	"github.com/inkwell-app/inkwell-diary/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Bootstrap(context.Background(), db))
	return NewWithDB(db)
}

func mustCreateUser(t *testing.T, st store.Store, username, email string) *model.User {
	t.Helper()
	u, err := st.Users().Create(context.Background(), &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash",
	})
	require.NoError(t, err)
	return u
}

func TestUsers_CreateAndLookup(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	created := mustCreateUser(t, st, "alice", "alice@x.com")
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byEmail, err := st.Users().GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "alice", byEmail.Username)
	assert.Equal(t, "$2a$10$hash", byEmail.PasswordHash)

	byID, err := st.Users().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", byID.Email)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mustCreateUser(t, st, "alice", "alice@x.com")
	_, err := st.Users().Create(ctx, &model.User{
		Username:     "bob",
		Email:        "alice@x.com",
		PasswordHash: "x",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrConflict))
}

func TestUsers_NotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Users().GetByEmail(ctx, "nobody@x.com")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	_, err = st.Users().GetByID(ctx, "no-such-id")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func sampleAnalysis() *model.AIAnalysis {
	return &model.AIAnalysis{
		GeneralComment:         "Nicely written.",
		PositiveAspects:        []string{"clarity", "honesty"},
		ImprovementSuggestions: []string{"add detail"},
		OverallScore:           7.5,
	}
}

func TestDiaries_CreateRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	owner := mustCreateUser(t, st, "alice", "alice@x.com")

	created, err := st.Diaries().Create(ctx, &model.DiaryEntry{
		Owner:      owner.ID,
		Content:    "day one",
		Mood:       "calm",
		AIAnalysis: sampleAnalysis(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err := st.Diaries().GetByID(ctx, owner.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "day one", got.Content)
	assert.Equal(t, "calm", got.Mood)
	require.NotNil(t, got.AIAnalysis)
	assert.Equal(t, "Nicely written.", got.AIAnalysis.GeneralComment)
	assert.Equal(t, []string{"clarity", "honesty"}, got.AIAnalysis.PositiveAspects)
	assert.Equal(t, 7.5, got.AIAnalysis.OverallScore)
}

func TestDiaries_ListNewestFirstAndScoped(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, st, "alice", "alice@x.com")
	bob := mustCreateUser(t, st, "bob", "bob@x.com")

	first, err := st.Diaries().Create(ctx, &model.DiaryEntry{Owner: alice.ID, Content: "first"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := st.Diaries().Create(ctx, &model.DiaryEntry{Owner: alice.ID, Content: "second"})
	require.NoError(t, err)
	_, err = st.Diaries().Create(ctx, &model.DiaryEntry{Owner: bob.ID, Content: "other user"})
	require.NoError(t, err)

	entries, err := st.Diaries().ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)

	empty, err := st.Diaries().ListByOwner(ctx, "no-such-user")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDiaries_GetScopedToOwner(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, st, "alice", "alice@x.com")
	bob := mustCreateUser(t, st, "bob", "bob@x.com")

	created, err := st.Diaries().Create(ctx, &model.DiaryEntry{Owner: alice.ID, Content: "secret"})
	require.NoError(t, err)

	_, err = st.Diaries().GetByID(ctx, bob.ID, created.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestDiaries_UpdatePreservesAnalysis(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	owner := mustCreateUser(t, st, "alice", "alice@x.com")

	created, err := st.Diaries().Create(ctx, &model.DiaryEntry{
		Owner:      owner.ID,
		Content:    "original",
		Mood:       "sad",
		AIAnalysis: sampleAnalysis(),
	})
	require.NoError(t, err)

	updated, err := st.Diaries().Update(ctx, model.UpdateDiaryRequest{
		Owner:   owner.ID,
		EntryID: created.ID,
		Content: "revised",
		Mood:    "happy",
	})
	require.NoError(t, err)

	assert.Equal(t, "revised", updated.Content)
	assert.Equal(t, "happy", updated.Mood)
	assert.Equal(t, owner.ID, updated.Owner)
	require.NotNil(t, updated.AIAnalysis)
	assert.Equal(t, created.AIAnalysis.GeneralComment, updated.AIAnalysis.GeneralComment)
	assert.Equal(t, created.CreatedAt.UTC(), updated.CreatedAt.UTC())
}

func TestDiaries_UpdateScopedToOwner(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	alice := mustCreateUser(t, st, "alice", "alice@x.com")
	bob := mustCreateUser(t, st, "bob", "bob@x.com")

	created, err := st.Diaries().Create(ctx, &model.DiaryEntry{Owner: alice.ID, Content: "mine"})
	require.NoError(t, err)

	_, err = st.Diaries().Update(ctx, model.UpdateDiaryRequest{
		Owner:   bob.ID,
		EntryID: created.ID,
		Content: "hijacked",
	})
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestDiaries_Delete(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	owner := mustCreateUser(t, st, "alice", "alice@x.com")

	created, err := st.Diaries().Create(ctx, &model.DiaryEntry{Owner: owner.ID, Content: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, st.Diaries().Delete(ctx, owner.ID, created.ID))

	_, err = st.Diaries().GetByID(ctx, owner.ID, created.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = st.Diaries().Delete(ctx, owner.ID, created.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
