package social

import "github.com/goliatone/go-errors"

// ErrMissingTitle is returned when a post has no title.
var ErrMissingTitle = errors.New("post title is required", errors.CategoryValidation).
	WithTextCode("MISSING_TITLE").
	WithCode(errors.CodeBadRequest)

// ErrPostKindConflict is returned when a post claims to be both text and reel.
var ErrPostKindConflict = errors.New("post cannot be text and reel at the same time", errors.CategoryValidation).
	WithTextCode("POST_KIND_CONFLICT").
	WithCode(errors.CodeBadRequest)

// ErrTextPostWithMedia is returned when a text post carries a media url.
var ErrTextPostWithMedia = errors.New("text post cannot carry media", errors.CategoryValidation).
	WithTextCode("TEXT_POST_WITH_MEDIA").
	WithCode(errors.CodeBadRequest)

// ErrReelWithoutMedia is returned when a reel has no media url.
var ErrReelWithoutMedia = errors.New("reel requires media", errors.CategoryValidation).
	WithTextCode("REEL_WITHOUT_MEDIA").
	WithCode(errors.CodeBadRequest)

// ErrMissingContent is returned when a comment has no content.
var ErrMissingContent = errors.New("comment content is required", errors.CategoryValidation).
	WithTextCode("MISSING_CONTENT").
	WithCode(errors.CodeBadRequest)

// ErrReplyTargetMissing is returned when a reply names no parent comment.
var ErrReplyTargetMissing = errors.New("reply requires the comment it replies to", errors.CategoryValidation).
	WithTextCode("REPLY_TARGET_MISSING").
	WithCode(errors.CodeBadRequest)

// ErrReplyWrongPost is returned when a reply targets a comment on another post.
var ErrReplyWrongPost = errors.New("reply target belongs to a different post", errors.CategoryValidation).
	WithTextCode("REPLY_WRONG_POST").
	WithCode(errors.CodeBadRequest)

// ErrAlreadyLiked is returned when a user likes the same post twice.
var ErrAlreadyLiked = errors.New("post already liked", errors.CategoryConflict).
	WithTextCode("ALREADY_LIKED").
	WithCode(errors.CodeConflict)

// ErrNotLiked is returned when removing a like that does not exist.
var ErrNotLiked = errors.New("post not liked", errors.CategoryValidation).
	WithTextCode("NOT_LIKED").
	WithCode(errors.CodeBadRequest)

// ErrSelfBlock is returned when a user tries to block themselves.
var ErrSelfBlock = errors.New("cannot block yourself", errors.CategoryValidation).
	WithTextCode("SELF_BLOCK").
	WithCode(errors.CodeBadRequest)

// ErrAlreadyBlocked is returned when the pair is already blocked.
var ErrAlreadyBlocked = errors.New("user already blocked", errors.CategoryConflict).
	WithTextCode("ALREADY_BLOCKED").
	WithCode(errors.CodeConflict)
