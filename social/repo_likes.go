package social

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Likes stores post likes, one per user and post.
type Likes interface {
	Like(ctx context.Context, userID, postID uuid.UUID) (*PostLike, error)
	Unlike(ctx context.Context, userID, postID uuid.UUID) error
	HasLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error)
}

type likes struct {
	db    *bun.DB
	posts Posts
}

var _ Likes = (*likes)(nil)

// NewLikesRepository returns a likes store that keeps the post like counter
// in step with the rows.
func NewLikesRepository(db *bun.DB, posts Posts) Likes {
	return &likes{
		db:    db,
		posts: posts,
	}
}

func (a *likes) Like(ctx context.Context, userID, postID uuid.UUID) (*PostLike, error) {
	if _, err := a.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	record := &PostLike{
		UserID: userID,
		PostID: postID,
	}
	prepareLikeDefaults(record)

	if _, err := a.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}

	if err := bumpPostCounter(ctx, a.db, postID, "likes_count", 1); err != nil {
		return nil, err
	}

	return record, nil
}

func (a *likes) Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*PostLike)(nil)).
		Where("?TableAlias.user_id = ?", userID.String()).
		Where("?TableAlias.post_id = ?", postID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotLiked
	}

	return bumpPostCounter(ctx, a.db, postID, "likes_count", -1)
}

func (a *likes) HasLiked(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	count, err := a.db.NewSelect().
		Model((*PostLike)(nil)).
		Where("?TableAlias.user_id = ?", userID.String()).
		Where("?TableAlias.post_id = ?", postID.String()).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
