package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hadiwyne/write-space/internal/model"
)

type draftRepo struct {
	db *pgxpool.Pool
}

func newDraftRepo(db *pgxpool.Pool) Draft {
	return &draftRepo{
		db: db,
	}
}

func (r *draftRepo) Create(ctx context.Context, draft model.Draft) (*model.Draft, error) {
	now := time.Now()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO drafts(author_id, title, content, content_type, tags, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6, $7) RETURNING id",
		draft.AuthorID,
		draft.Title,
		draft.Content,
		draft.ContentType,
		draft.Tags,
		draft.CreatedAt,
		draft.UpdatedAt,
	).Scan(&draft.ID); err != nil {
		return nil, err
	}

	return &draft, nil
}

func (r *draftRepo) Update(ctx context.Context, draft model.Draft) error {
	_, err := r.db.Exec(
		ctx,
		"UPDATE drafts SET title = $1, content = $2, content_type = $3, tags = $4, updated_at = $5 WHERE id = $6",
		draft.Title,
		draft.Content,
		draft.ContentType,
		draft.Tags,
		time.Now(),
		draft.ID,
	)
	return err
}

func (r *draftRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM drafts WHERE id = $1", id)
	return err
}

func (r *draftRepo) FindByID(ctx context.Context, id int64) (*model.Draft, error) {
	var draft model.Draft
	if err := r.db.QueryRow(
		ctx,
		"SELECT d.id, d.author_id, d.title, d.content, d.content_type, d.tags, d.created_at, d.updated_at FROM drafts d WHERE d.id = $1",
		id,
	).Scan(
		&draft.ID,
		&draft.AuthorID,
		&draft.Title,
		&draft.Content,
		&draft.ContentType,
		&draft.Tags,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &draft, nil
}

func (r *draftRepo) FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Draft, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT d.id, d.author_id, d.title, d.content, d.content_type, d.tags, d.created_at, d.updated_at
		FROM drafts d
		WHERE d.author_id = $1
		ORDER BY d.updated_at DESC, d.id DESC
		LIMIT $2 OFFSET $3`,
		authorID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*model.Draft
	for rows.Next() {
		var draft model.Draft
		if err := rows.Scan(
			&draft.ID,
			&draft.AuthorID,
			&draft.Title,
			&draft.Content,
			&draft.ContentType,
			&draft.Tags,
			&draft.CreatedAt,
			&draft.UpdatedAt,
		); err != nil {
			return nil, err
		}
		drafts = append(drafts, &draft)
	}

	return drafts, rows.Err()
}

func (r *draftRepo) CreateVersion(ctx context.Context, v model.DraftVersion) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO draft_versions(draft_id, title, content, saved_at) VALUES($1, $2, $3, $4)",
		v.DraftID,
		v.Title,
		v.Content,
		v.SavedAt,
	)
	return err
}

func (r *draftRepo) FindVersions(ctx context.Context, draftID int64, limit int, offset int) ([]*model.DraftVersion, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT v.id, v.draft_id, v.title, v.content, v.saved_at
		FROM draft_versions v
		WHERE v.draft_id = $1
		ORDER BY v.saved_at DESC, v.id DESC
		LIMIT $2 OFFSET $3`,
		draftID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []*model.DraftVersion
	for rows.Next() {
		var v model.DraftVersion
		if err := rows.Scan(&v.ID, &v.DraftID, &v.Title, &v.Content, &v.SavedAt); err != nil {
			return nil, err
		}
		versions = append(versions, &v)
	}

	return versions, rows.Err()
}
