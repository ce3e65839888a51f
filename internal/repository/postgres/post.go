package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hadiwyne/write-space/internal/model"
)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

const fullPostSelect = `SELECT
p.id, p.author_id, p.title, p.content, p.content_type, p.rendered_html, p.tags, p.image_urls,
p.is_published, p.published_at, p.archived_at, p.visibility, p.views, p.created_at, p.updated_at,
u.id, u.username, u.display_name, u.avatar_url,
(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id),
(SELECT COUNT(*) FROM reposts r WHERE r.post_id = p.id)
FROM posts p
JOIN cached_users u ON p.author_id = u.id`

func scanFullPost(row pgx.Row) (*model.FullPost, error) {
	var post model.FullPost
	if err := row.Scan(
		&post.Post.ID,
		&post.Post.AuthorID,
		&post.Post.Title,
		&post.Post.Content,
		&post.Post.ContentType,
		&post.Post.RenderedHTML,
		&post.Post.Tags,
		&post.Post.ImageURLs,
		&post.Post.IsPublished,
		&post.Post.PublishedAt,
		&post.Post.ArchivedAt,
		&post.Post.Visibility,
		&post.Post.Views,
		&post.Post.CreatedAt,
		&post.Post.UpdatedAt,
		&post.Author.ID,
		&post.Author.Username,
		&post.Author.DisplayName,
		&post.Author.AvatarURL,
		&post.Counts.Likes,
		&post.Counts.Comments,
		&post.Counts.Reposts,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func collectFullPosts(rows pgx.Rows) ([]*model.FullPost, error) {
	defer rows.Close()

	var posts []*model.FullPost
	for rows.Next() {
		post, err := scanFullPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Views = 0
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO posts(author_id, title, content, content_type, rendered_html, tags, image_urls, is_published, published_at, visibility, views, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		post.AuthorID,
		post.Title,
		post.Content,
		post.ContentType,
		post.RenderedHTML,
		post.Tags,
		post.ImageURLs,
		post.IsPublished,
		post.PublishedAt,
		post.Visibility,
		post.Views,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) Update(ctx context.Context, post model.Post) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE posts SET
		title = $1, content = $2, content_type = $3, rendered_html = $4, tags = $5,
		is_published = $6, published_at = $7, visibility = $8, updated_at = $9
		WHERE id = $10`,
		post.Title,
		post.Content,
		post.ContentType,
		post.RenderedHTML,
		post.Tags,
		post.IsPublished,
		post.PublishedAt,
		post.Visibility,
		time.Now(),
		post.ID,
	)
	return err
}

func (r *postRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	return err
}

func (r *postRepo) SetArchived(ctx context.Context, id int64, archived bool) (*model.Post, error) {
	var archivedAt *time.Time
	if archived {
		now := time.Now()
		archivedAt = &now
	}

	post, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.Exec(ctx, "UPDATE posts SET archived_at = $1, updated_at = $2 WHERE id = $3", archivedAt, time.Now(), id); err != nil {
		return nil, err
	}

	post.ArchivedAt = archivedAt
	return post, nil
}

func (r *postRepo) IncrViews(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "UPDATE posts SET views = views + 1 WHERE id = $1", id)
	return err
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, author_id, title, content, content_type, rendered_html, tags, image_urls,
		is_published, published_at, archived_at, visibility, views, created_at, updated_at
		FROM posts WHERE id = $1`,
		id,
	).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.ContentType,
		&post.RenderedHTML,
		&post.Tags,
		&post.ImageURLs,
		&post.IsPublished,
		&post.PublishedAt,
		&post.ArchivedAt,
		&post.Visibility,
		&post.Views,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindFullByID(ctx context.Context, id int64) (*model.FullPost, error) {
	return scanFullPost(r.db.QueryRow(ctx, fullPostSelect+" WHERE p.id = $1", id))
}

func (r *postRepo) FindFullByIDs(ctx context.Context, ids []int64) (map[int64]*model.FullPost, error) {
	if len(ids) == 0 {
		return map[int64]*model.FullPost{}, nil
	}

	rows, err := r.db.Query(ctx, fullPostSelect+" WHERE p.id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}

	posts, err := collectFullPosts(rows)
	if err != nil {
		return nil, err
	}

	postMap := make(map[int64]*model.FullPost, len(posts))
	for _, post := range posts {
		postMap[post.Post.ID] = post
	}

	return postMap, nil
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, viewer model.Viewer, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	args := []interface{}{authorID}
	query := fullPostSelect + " WHERE p.author_id = $1 AND " + visibilityClause(viewer, &args)
	args = append(args, limit, offset)
	query += " ORDER BY p.published_at DESC, p.id DESC LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return collectFullPosts(rows)
}

func (r *postRepo) FindArchivedPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		fullPostSelect+` WHERE p.author_id = $1 AND p.is_published AND p.archived_at IS NOT NULL
		ORDER BY p.archived_at DESC, p.id DESC LIMIT $2 OFFSET $3`,
		authorID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}

	return collectFullPosts(rows)
}

func (r *postRepo) Search(ctx context.Context, term string, tag string, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	if tag != "" {
		rows, err := r.db.Query(
			ctx,
			fullPostSelect+` WHERE p.is_published AND p.archived_at IS NULL AND p.visibility = 'PUBLIC' AND $1 = ANY(p.tags)
			ORDER BY p.published_at DESC, p.id DESC LIMIT $2 OFFSET $3`,
			tag,
			limit,
			offset,
		)
		if err != nil {
			return nil, err
		}
		return collectFullPosts(rows)
	}

	rows, err := r.db.Query(
		ctx,
		fullPostSelect+` WHERE p.is_published AND p.archived_at IS NULL AND p.visibility = 'PUBLIC'
		AND (p.title ILIKE '%' || $1 || '%' OR p.content ILIKE '%' || $1 || '%')
		ORDER BY p.published_at DESC, p.id DESC LIMIT $2 OFFSET $3`,
		term,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}

	return collectFullPosts(rows)
}
