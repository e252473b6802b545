package social

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Post is a user publication. Exactly one of the three shapes applies:
// a text post (is_text, no media), a media post (media_url set), or a
// reel (is_reel, media required). Text and reel are mutually exclusive.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	IsText        bool       `bun:"is_text" json:"is_text"`
	TextContent   string     `bun:"text_content" json:"text_content,omitempty"`
	MediaURL      string     `bun:"media_url" json:"media_url,omitempty"`
	IsReel        bool       `bun:"is_reel" json:"is_reel"`
	Caption       string     `bun:"caption" json:"caption,omitempty"`
	LikesCount    int        `bun:"likes_count" json:"likes_count"`
	CommentsCount int        `bun:"comments_count" json:"comments_count"`
	ViewsCount    int        `bun:"views_count" json:"views_count"`
	ShareCount    int        `bun:"share_count" json:"share_count"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Comment belongs to a post. A reply is a comment whose reply_to_id points
// at another comment on the same post.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Content       string     `bun:"content,notnull" json:"content"`
	LikesCount    int        `bun:"likes_count" json:"likes_count"`
	IsReply       bool       `bun:"is_reply" json:"is_reply"`
	PostID        uuid.UUID  `bun:"post_id,notnull,type:uuid" json:"post_id"`
	AuthorID      uuid.UUID  `bun:"author_id,notnull,type:uuid" json:"author_id"`
	ReplyToID     *uuid.UUID `bun:"reply_to_id,type:uuid" json:"reply_to_id,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// PostLike records one user liking one post, at most once.
type PostLike struct {
	bun.BaseModel `bun:"table:post_likes,alias:plk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid,unique:uq_post_likes_user_post" json:"user_id"`
	PostID        uuid.UUID  `bun:"post_id,notnull,type:uuid,unique:uq_post_likes_user_post" json:"post_id"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// BlockedUser records that blocker no longer wants to see blocked.
type BlockedUser struct {
	bun.BaseModel `bun:"table:blocked_users,alias:blk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	BlockerID     uuid.UUID  `bun:"blocker_id,notnull,type:uuid,unique:uq_blocked_users_pair" json:"blocker_id"`
	BlockedID     uuid.UUID  `bun:"blocked_id,notnull,type:uuid,unique:uq_blocked_users_pair" json:"blocked_id"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Validate enforces the post shape invariants before persistence.
func (p *Post) Validate() error {
	if p.Title == "" {
		return ErrMissingTitle
	}
	if p.IsText && p.IsReel {
		return ErrPostKindConflict
	}
	if p.IsText && p.MediaURL != "" {
		return ErrTextPostWithMedia
	}
	if p.IsReel && p.MediaURL == "" {
		return ErrReelWithoutMedia
	}
	return nil
}

// Validate enforces the reply invariant.
func (c *Comment) Validate() error {
	if c.Content == "" {
		return ErrMissingContent
	}
	if c.IsReply && c.ReplyToID == nil {
		return ErrReplyTargetMissing
	}
	return nil
}

func preparePostDefaults(record *Post) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
		record.UpdatedAt = &now
	}
}

func prepareCommentDefaults(record *Comment) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
		record.UpdatedAt = &now
	}
}

func prepareLikeDefaults(record *PostLike) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}
}

func prepareBlockDefaults(record *BlockedUser) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}
}
