package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mosaicsocial/mosaic/auth"
	"github.com/mosaicsocial/mosaic/social"
)

// SocialController serves comments, likes, and block lists.
type SocialController struct {
	Logger   auth.Logger
	Cfg      auth.Config
	Comments social.Comments
	Likes    social.Likes
	Blocks   social.Blocks
}

// CreateComment attaches a comment or reply to a post.
func (s *SocialController) CreateComment(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, s.Cfg)
	if err != nil {
		return fail(c, err)
	}

	payload := new(CreateCommentRequest)
	if err := c.BodyParser(payload); err != nil {
		s.Logger.Error("create comment parse payload", "error", err)
		return validationFailed(c, map[string]string{"payload": "failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		return validationFailed(c, FormatValidationErrorToMap(err))
	}

	comment, err := s.Comments.Create(c.UserContext(), &social.Comment{
		Content:   payload.Content,
		IsReply:   payload.IsReply,
		PostID:    payload.PostID,
		AuthorID:  uid,
		ReplyToID: payload.ReplyToID,
	})
	if err != nil {
		return fail(c, err)
	}

	return created(c, "comment created successfully", comment)
}

// ListComments answers with a page of a post's comments.
func (s *SocialController) ListComments(c *fiber.Ctx) error {
	if _, err := sessionUserID(c, s.Cfg); err != nil {
		return fail(c, err)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return validationFailed(c, map[string]string{"id": "invalid post id"})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	comments, err := s.Comments.ListByPost(c.UserContext(), postID, pageSize, (page-1)*pageSize)
	if err != nil {
		return fail(c, err)
	}

	return okPage(c, "comments fetched successfully", comments, page, pageSize)
}

// Like records the caller liking a post.
func (s *SocialController) Like(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, s.Cfg)
	if err != nil {
		return fail(c, err)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return validationFailed(c, map[string]string{"id": "invalid post id"})
	}

	like, err := s.Likes.Like(c.UserContext(), uid, postID)
	if err != nil {
		return fail(c, err)
	}

	return created(c, "post liked", like)
}

// Unlike removes the caller's like from a post.
func (s *SocialController) Unlike(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, s.Cfg)
	if err != nil {
		return fail(c, err)
	}

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return validationFailed(c, map[string]string{"id": "invalid post id"})
	}

	if err := s.Likes.Unlike(c.UserContext(), uid, postID); err != nil {
		return fail(c, err)
	}

	return ok(c, "like removed", nil)
}

// Block adds a user to the caller's block list.
func (s *SocialController) Block(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, s.Cfg)
	if err != nil {
		return fail(c, err)
	}

	blockedID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return validationFailed(c, map[string]string{"id": "invalid user id"})
	}

	block, err := s.Blocks.Block(c.UserContext(), uid, blockedID)
	if err != nil {
		return fail(c, err)
	}

	return created(c, "user blocked", block)
}

// Unblock removes a user from the caller's block list.
func (s *SocialController) Unblock(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, s.Cfg)
	if err != nil {
		return fail(c, err)
	}

	blockedID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return validationFailed(c, map[string]string{"id": "invalid user id"})
	}

	if err := s.Blocks.Unblock(c.UserContext(), uid, blockedID); err != nil {
		return fail(c, err)
	}

	return ok(c, "user unblocked", nil)
}

// ListBlocked answers with the caller's block list.
func (s *SocialController) ListBlocked(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, s.Cfg)
	if err != nil {
		return fail(c, err)
	}

	blocked, err := s.Blocks.ListBlocked(c.UserContext(), uid)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "blocked users fetched successfully", blocked)
}
