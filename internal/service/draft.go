package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
)

type draftService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newDraftService(logger *zap.Logger, repo *repository.Repository) Draft {
	return &draftService{
		logger: logger,
		repo:   repo,
	}
}

// Save is the autosave entry point: a zero ID creates a draft, a non-zero ID
// overwrites one. The overwritten content is snapshotted as a version first,
// so the history always holds what the draft looked like before each save.
func (s *draftService) Save(ctx context.Context, authorID uuid.UUID, input dto.SaveDraftRequest) (*model.Draft, error) {
	contentType := input.ContentType
	if contentType == "" {
		contentType = DEFAULT_CONTENT_TYPE
	}

	if input.ID == 0 {
		created, err := s.repo.Postgres.Draft.Create(ctx, model.Draft{
			AuthorID:    authorID,
			Title:       input.Title,
			Content:     input.Content,
			ContentType: contentType,
			Tags:        normalizeTags(input.Tags),
		})
		if err != nil {
			s.logger.Sugar().Errorf("failed to create user(%s) draft: %s", authorID.String(), err.Error())
			return nil, ErrInternal
		}
		return created, nil
	}

	draft, err := s.findOwn(ctx, input.ID, authorID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Postgres.Draft.CreateVersion(ctx, model.DraftVersion{
		DraftID: draft.ID,
		Title:   draft.Title,
		Content: draft.Content,
		SavedAt: time.Now(),
	}); err != nil {
		s.logger.Sugar().Errorf("failed to snapshot draft(%d): %s", draft.ID, err.Error())
		return nil, ErrInternal
	}

	draft.Title = input.Title
	draft.Content = input.Content
	draft.ContentType = contentType
	draft.Tags = normalizeTags(input.Tags)

	if err := s.repo.Postgres.Draft.Update(ctx, *draft); err != nil {
		s.logger.Sugar().Errorf("failed to update draft(%d): %s", draft.ID, err.Error())
		return nil, ErrInternal
	}

	return draft, nil
}

func (s *draftService) FindByID(ctx context.Context, id int64, authorID uuid.UUID) (*model.Draft, error) {
	return s.findOwn(ctx, id, authorID)
}

func (s *draftService) FindAll(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Draft, error) {
	coercePage(&limit, &offset)

	drafts, err := s.repo.Postgres.Draft.FindByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) drafts: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	return drafts, nil
}

func (s *draftService) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	if _, err := s.findOwn(ctx, id, authorID); err != nil {
		return err
	}

	if err := s.repo.Postgres.Draft.Delete(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to delete draft(%d): %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *draftService) GetVersions(ctx context.Context, draftID int64, authorID uuid.UUID, limit int, offset int) ([]*model.DraftVersion, error) {
	coercePage(&limit, &offset)

	if _, err := s.findOwn(ctx, draftID, authorID); err != nil {
		return nil, err
	}

	versions, err := s.repo.Postgres.Draft.FindVersions(ctx, draftID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find draft(%d) versions: %s", draftID, err.Error())
		return nil, ErrInternal
	}

	return versions, nil
}

// findOwn loads a draft only for its author. Drafts are private, so a
// foreign draft is indistinguishable from a missing one.
func (s *draftService) findOwn(ctx context.Context, id int64, authorID uuid.UUID) (*model.Draft, error) {
	draft, err := s.repo.Postgres.Draft.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrDraftNotFound
		}

		s.logger.Sugar().Errorf("failed to find draft(%d): %s", id, err.Error())
		return nil, ErrInternal
	}
	if draft.AuthorID != authorID {
		return nil, ErrDraftNotFound
	}

	return draft, nil
}
