package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
	"github.com/hadiwyne/write-space/internal/repository/postgres"
)

type fakeDraftRepo struct {
	postgres.Draft

	drafts   map[int64]*model.Draft
	versions map[int64][]*model.DraftVersion
	nextID   int64
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{
		drafts:   make(map[int64]*model.Draft),
		versions: make(map[int64][]*model.DraftVersion),
	}
}

func (f *fakeDraftRepo) Create(ctx context.Context, draft model.Draft) (*model.Draft, error) {
	f.nextID++
	draft.ID = f.nextID
	draft.CreatedAt = time.Now()
	draft.UpdatedAt = draft.CreatedAt
	f.drafts[draft.ID] = &draft
	return &draft, nil
}

func (f *fakeDraftRepo) Update(ctx context.Context, draft model.Draft) error {
	if _, ok := f.drafts[draft.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.drafts[draft.ID] = &draft
	return nil
}

func (f *fakeDraftRepo) Delete(ctx context.Context, id int64) error {
	delete(f.drafts, id)
	return nil
}

func (f *fakeDraftRepo) FindByID(ctx context.Context, id int64) (*model.Draft, error) {
	if draft, ok := f.drafts[id]; ok {
		copied := *draft
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeDraftRepo) FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Draft, error) {
	var drafts []*model.Draft
	for _, draft := range f.drafts {
		if draft.AuthorID == authorID {
			drafts = append(drafts, draft)
		}
	}
	return drafts, nil
}

func (f *fakeDraftRepo) CreateVersion(ctx context.Context, v model.DraftVersion) error {
	f.versions[v.DraftID] = append(f.versions[v.DraftID], &v)
	return nil
}

func (f *fakeDraftRepo) FindVersions(ctx context.Context, draftID int64, limit int, offset int) ([]*model.DraftVersion, error) {
	return f.versions[draftID], nil
}

func newDraftFixture(t *testing.T) (*fakeDraftRepo, Draft) {
	t.Helper()

	drafts := newFakeDraftRepo()
	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{Draft: drafts},
	}

	return drafts, newDraftService(zap.NewNop(), repo)
}

func TestSaveCreatesDraftOnZeroID(t *testing.T) {
	_, svc := newDraftFixture(t)
	author := uuid.New()

	draft, err := svc.Save(context.Background(), author, dto.SaveDraftRequest{
		Title:   "wip",
		Content: "first words",
		Tags:    []string{"Go", "go"},
	})
	require.NoError(t, err)

	assert.NotZero(t, draft.ID)
	assert.Equal(t, author, draft.AuthorID)
	assert.Equal(t, []string{"go"}, draft.Tags)
	assert.Equal(t, DEFAULT_CONTENT_TYPE, draft.ContentType)

	versions, err := svc.GetVersions(context.Background(), draft.ID, author, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestSaveSnapshotsPreviousContent(t *testing.T) {
	_, svc := newDraftFixture(t)
	author := uuid.New()
	ctx := context.Background()

	draft, err := svc.Save(ctx, author, dto.SaveDraftRequest{Title: "v1", Content: "first"})
	require.NoError(t, err)

	draft, err = svc.Save(ctx, author, dto.SaveDraftRequest{ID: draft.ID, Title: "v2", Content: "second"})
	require.NoError(t, err)
	assert.Equal(t, "second", draft.Content)

	_, err = svc.Save(ctx, author, dto.SaveDraftRequest{ID: draft.ID, Title: "v3", Content: "third"})
	require.NoError(t, err)

	// Each autosave snapshots what it overwrote, oldest first here.
	versions, err := svc.GetVersions(ctx, draft.ID, author, 0, 0)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "first", versions[0].Content)
	assert.Equal(t, "v1", versions[0].Title)
	assert.Equal(t, "second", versions[1].Content)
}

func TestSaveForeignDraftIsNotFound(t *testing.T) {
	_, svc := newDraftFixture(t)
	ctx := context.Background()

	draft, err := svc.Save(ctx, uuid.New(), dto.SaveDraftRequest{Content: "private"})
	require.NoError(t, err)

	// Drafts are private: a foreign draft looks missing, never forbidden.
	_, err = svc.Save(ctx, uuid.New(), dto.SaveDraftRequest{ID: draft.ID, Content: "hijacked"})
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = svc.GetVersions(ctx, draft.ID, uuid.New(), 0, 0)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = svc.FindByID(ctx, draft.ID, uuid.New())
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestFindAllReturnsOnlyOwnDrafts(t *testing.T) {
	_, svc := newDraftFixture(t)
	ctx := context.Background()
	author := uuid.New()

	_, err := svc.Save(ctx, author, dto.SaveDraftRequest{Content: "mine"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, uuid.New(), dto.SaveDraftRequest{Content: "theirs"})
	require.NoError(t, err)

	drafts, err := svc.FindAll(ctx, author, 0, 0)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "mine", drafts[0].Content)
}

func TestDeleteDraftRequiresOwnership(t *testing.T) {
	drafts, svc := newDraftFixture(t)
	ctx := context.Background()
	author := uuid.New()

	draft, err := svc.Save(ctx, author, dto.SaveDraftRequest{Content: "doomed"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, draft.ID, uuid.New()), ErrDraftNotFound)
	require.NoError(t, svc.Delete(ctx, draft.ID, author))
	assert.Empty(t, drafts.drafts)
}
