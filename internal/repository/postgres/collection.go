package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hadiwyne/write-space/internal/model"
)

type collectionRepo struct {
	db *pgxpool.Pool
}

func newCollectionRepo(db *pgxpool.Pool) Collection {
	return &collectionRepo{
		db: db,
	}
}

const collectionSelect = `SELECT
c.id, c.author_id, c.name, c.slug, c.description, c.created_at, c.updated_at
FROM collections c`

func scanCollection(row interface {
	Scan(dest ...interface{}) error
}) (*model.Collection, error) {
	var c model.Collection
	if err := row.Scan(
		&c.ID,
		&c.AuthorID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *collectionRepo) Create(ctx context.Context, c model.Collection) (*model.Collection, error) {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := r.db.QueryRow(
		ctx,
		"INSERT INTO collections(author_id, name, slug, description, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6) RETURNING id",
		c.AuthorID,
		c.Name,
		c.Slug,
		c.Description,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *collectionRepo) Update(ctx context.Context, c model.Collection) error {
	_, err := r.db.Exec(
		ctx,
		"UPDATE collections SET name = $1, slug = $2, description = $3, updated_at = $4 WHERE id = $5",
		c.Name,
		c.Slug,
		c.Description,
		time.Now(),
		c.ID,
	)
	return err
}

func (r *collectionRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM collections WHERE id = $1", id)
	return err
}

func (r *collectionRepo) FindByID(ctx context.Context, id int64) (*model.Collection, error) {
	return scanCollection(r.db.QueryRow(ctx, collectionSelect+" WHERE c.id = $1", id))
}

func (r *collectionRepo) FindBySlug(ctx context.Context, authorID uuid.UUID, slug string) (*model.Collection, error) {
	return scanCollection(r.db.QueryRow(ctx, collectionSelect+" WHERE c.author_id = $1 AND c.slug = $2", authorID, slug))
}

func (r *collectionRepo) FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Collection, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		collectionSelect+" WHERE c.author_id = $1 ORDER BY c.updated_at DESC, c.id DESC LIMIT $2 OFFSET $3",
		authorID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []*model.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}

	return collections, rows.Err()
}

func (r *collectionRepo) AddPost(ctx context.Context, collectionID int64, postID int64) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO collection_posts(collection_id, post_id, added_at) VALUES($1, $2, $3) ON CONFLICT DO NOTHING",
		collectionID,
		postID,
		time.Now(),
	)
	return err
}

func (r *collectionRepo) RemovePost(ctx context.Context, collectionID int64, postID int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM collection_posts WHERE collection_id = $1 AND post_id = $2", collectionID, postID)
	return err
}

func (r *collectionRepo) FindPosts(ctx context.Context, collectionID int64, viewer model.Viewer, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	// Curation grants no access: every post in the collection still passes
	// the viewer's visibility predicate.
	args := []interface{}{collectionID}
	query := fullPostSelect +
		" JOIN collection_posts cp ON cp.post_id = p.id WHERE cp.collection_id = $1 AND " +
		visibilityClause(viewer, &args)
	args = append(args, limit, offset)
	query += " ORDER BY cp.added_at DESC, p.id DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return collectFullPosts(rows)
}
