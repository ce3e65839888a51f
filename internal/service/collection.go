package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/hadiwyne/write-space/internal/dto"
	"github.com/hadiwyne/write-space/internal/model"
	"github.com/hadiwyne/write-space/internal/repository"
)

type collectionService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newCollectionService(logger *zap.Logger, repo *repository.Repository) Collection {
	return &collectionService{
		logger: logger,
		repo:   repo,
	}
}

// slugify derives the URL slug from a collection name: lowercase, runs of
// anything but letters and digits collapse to a single dash.
func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *collectionService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCollectionRequest) (*model.Collection, error) {
	slug := slugify(input.Name)
	if slug == "" {
		return nil, ErrInvalidCollectionName
	}

	created, err := s.repo.Postgres.Collection.Create(ctx, model.Collection{
		AuthorID:    authorID,
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCollectionSlugTaken
		}

		s.logger.Sugar().Errorf("failed to create user(%s) collection: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	return created, nil
}

func (s *collectionService) Edit(ctx context.Context, authorID uuid.UUID, input dto.EditCollectionRequest) (*model.Collection, error) {
	collection, err := s.findCollection(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if collection.AuthorID != authorID {
		return nil, ErrNotYourCollection
	}

	if input.Name != nil {
		slug := slugify(*input.Name)
		if slug == "" {
			return nil, ErrInvalidCollectionName
		}
		collection.Name = *input.Name
		collection.Slug = slug
	}
	if input.Description != nil {
		collection.Description = *input.Description
	}

	if err := s.repo.Postgres.Collection.Update(ctx, *collection); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCollectionSlugTaken
		}

		s.logger.Sugar().Errorf("failed to update collection(%d): %s", collection.ID, err.Error())
		return nil, ErrInternal
	}

	return collection, nil
}

func (s *collectionService) Delete(ctx context.Context, id int64, viewer model.Viewer) error {
	collection, err := s.findCollection(ctx, id)
	if err != nil {
		return err
	}
	if !viewer.Privileged && !viewer.Is(collection.AuthorID) {
		return ErrNotYourCollection
	}

	if err := s.repo.Postgres.Collection.Delete(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to delete collection(%d): %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *collectionService) FindUserCollections(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.Collection, error) {
	coercePage(&limit, &offset)

	collections, err := s.repo.Postgres.Collection.FindByAuthor(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) collections: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return collections, nil
}

func (s *collectionService) FindBySlug(ctx context.Context, ownerID uuid.UUID, slug string) (*model.Collection, error) {
	collection, err := s.repo.Postgres.Collection.FindBySlug(ctx, ownerID, slug)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCollectionNotFound
		}

		s.logger.Sugar().Errorf("failed to find collection(%s/%s): %s", ownerID.String(), slug, err.Error())
		return nil, ErrInternal
	}

	return collection, nil
}

func (s *collectionService) FindPosts(ctx context.Context, collectionID int64, viewer model.Viewer, limit int, offset int) ([]*model.FullPost, error) {
	coercePage(&limit, &offset)

	if _, err := s.findCollection(ctx, collectionID); err != nil {
		return nil, err
	}

	posts, err := s.repo.Postgres.Collection.FindPosts(ctx, collectionID, viewer, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find collection(%d) posts: %s", collectionID, err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *collectionService) AddPost(ctx context.Context, viewer model.Viewer, collectionID int64, postID int64) error {
	collection, err := s.findCollection(ctx, collectionID)
	if err != nil {
		return err
	}
	if !viewer.Is(collection.AuthorID) {
		return ErrNotYourCollection
	}

	// The curator can only add posts they can see themselves.
	if _, err := findVisiblePost(ctx, s.logger, s.repo, postID, viewer); err != nil {
		return err
	}

	if err := s.repo.Postgres.Collection.AddPost(ctx, collectionID, postID); err != nil {
		s.logger.Sugar().Errorf("failed to add post(%d) to collection(%d): %s", postID, collectionID, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *collectionService) RemovePost(ctx context.Context, viewer model.Viewer, collectionID int64, postID int64) error {
	collection, err := s.findCollection(ctx, collectionID)
	if err != nil {
		return err
	}
	if !viewer.Is(collection.AuthorID) {
		return ErrNotYourCollection
	}

	if err := s.repo.Postgres.Collection.RemovePost(ctx, collectionID, postID); err != nil {
		s.logger.Sugar().Errorf("failed to remove post(%d) from collection(%d): %s", postID, collectionID, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *collectionService) findCollection(ctx context.Context, id int64) (*model.Collection, error) {
	collection, err := s.repo.Postgres.Collection.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCollectionNotFound
		}

		s.logger.Sugar().Errorf("failed to find collection(%d): %s", id, err.Error())
		return nil, ErrInternal
	}

	return collection, nil
}
