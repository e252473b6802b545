package social

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Comments stores post comments and replies.
type Comments interface {
	repository.Repository[*Comment]
	Create(ctx context.Context, record *Comment) (*Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*Comment, error)
}

type comments struct {
	repository.Repository[*Comment]
	db    *bun.DB
	posts Posts
}

var _ Comments = (*comments)(nil)

// NewCommentsRepository wires the generic repository with comment handlers.
// The posts repository is consulted to keep the post comment counter in step.
func NewCommentsRepository(db *bun.DB, posts Posts) Comments {
	repo := repository.NewRepository[*Comment](db, repository.ModelHandlers[*Comment]{
		NewRecord: func() *Comment { return &Comment{} },
		GetID: func(c *Comment) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Comment, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &comments{
		Repository: repo,
		db:         db,
		posts:      posts,
	}
}

func (a *comments) Create(ctx context.Context, record *Comment) (*Comment, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}

	// The post must exist and be live.
	if _, err := a.posts.FindByID(ctx, record.PostID); err != nil {
		return nil, err
	}

	// A reply must target a comment on the same post.
	if record.IsReply {
		parent, err := a.FindByID(ctx, *record.ReplyToID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != record.PostID {
			return nil, ErrReplyWrongPost
		}
	}

	prepareCommentDefaults(record)

	created, err := a.Repository.CreateTx(ctx, a.db, record)
	if err != nil {
		return nil, err
	}

	if err := bumpPostCounter(ctx, a.db, record.PostID, "comments_count", 1); err != nil {
		return nil, err
	}

	return created, nil
}

func (a *comments) FindByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	record := &Comment{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if isNoRows(err) {
			return nil, recordNotFound(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (a *comments) ListByPost(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*Comment, error) {
	var records []*Comment

	q := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.post_id = ?", postID.String()).
		Order("created_at ASC")

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}
