package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mosaicsocial/mosaic/auth"
	"github.com/mosaicsocial/mosaic/media"
	"github.com/mosaicsocial/mosaic/social"
)

const defaultPageSize = 20

// PostsController serves post CRUD and media upload for the authenticated user.
type PostsController struct {
	Logger    auth.Logger
	Cfg       auth.Config
	Posts     social.Posts
	Presigner *media.Presigner
}

// Create publishes a new post authored by the caller.
func (p *PostsController) Create(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, p.Cfg)
	if err != nil {
		return fail(c, err)
	}

	payload := new(CreatePostRequest)
	if err := c.BodyParser(payload); err != nil {
		p.Logger.Error("create post parse payload", "error", err)
		return validationFailed(c, map[string]string{"payload": "failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		return validationFailed(c, FormatValidationErrorToMap(err))
	}

	post, err := p.Posts.Create(c.UserContext(), &social.Post{
		Title:       payload.Title,
		IsText:      payload.IsText,
		TextContent: payload.TextContent,
		MediaURL:    payload.MediaURL,
		IsReel:      payload.IsReel,
		Caption:     payload.Caption,
		AuthorID:    uid,
	})
	if err != nil {
		return fail(c, err)
	}

	return created(c, "post created successfully", post)
}

// List answers with a page of the caller's own posts.
func (p *PostsController) List(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, p.Cfg)
	if err != nil {
		return fail(c, err)
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultPageSize
	}

	posts, err := p.Posts.ListByAuthor(c.UserContext(), uid, pageSize, (page-1)*pageSize)
	if err != nil {
		return fail(c, err)
	}

	return okPage(c, "posts fetched successfully", posts, page, pageSize)
}

// Get answers with one post and records the view.
func (p *PostsController) Get(c *fiber.Ctx) error {
	if _, err := sessionUserID(c, p.Cfg); err != nil {
		return fail(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return validationFailed(c, map[string]string{"id": "invalid post id"})
	}

	post, err := p.Posts.FindByID(c.UserContext(), id)
	if err != nil {
		return fail(c, err)
	}

	if err := p.Posts.RecordView(c.UserContext(), id); err != nil {
		p.Logger.Warn("record view failed", "error", err, "post_id", id)
	}

	return ok(c, "post fetched successfully", post)
}

// Delete tombstones the caller's post.
func (p *PostsController) Delete(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, p.Cfg)
	if err != nil {
		return fail(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return validationFailed(c, map[string]string{"id": "invalid post id"})
	}

	if err := p.Posts.SoftDelete(c.UserContext(), id, uid); err != nil {
		return fail(c, err)
	}

	return ok(c, "post deleted successfully", nil)
}

// UploadURL hands out a presigned PUT target for post media. The client
// uploads directly and then records the storage key as the post media_url.
func (p *PostsController) UploadURL(c *fiber.Ctx) error {
	if _, err := sessionUserID(c, p.Cfg); err != nil {
		return fail(c, err)
	}

	if p.Presigner == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(Response{
			Message:    "media storage is not configured",
			Status:     "Error",
			StatusCode: fiber.StatusNotImplemented,
		})
	}

	key, url, err := p.Presigner.PresignedPutURL(c.UserContext())
	if err != nil {
		p.Logger.Error("presign upload failed", "error", err)
		return fail(c, err)
	}

	return ok(c, "upload url issued", fiber.Map{
		"storage_key": key,
		"upload_url":  url,
	})
}

// MediaURL answers with a presigned GET for the given storage key.
func (p *PostsController) MediaURL(c *fiber.Ctx) error {
	if _, err := sessionUserID(c, p.Cfg); err != nil {
		return fail(c, err)
	}

	if p.Presigner == nil {
		return c.Status(fiber.StatusNotImplemented).JSON(Response{
			Message:    "media storage is not configured",
			Status:     "Error",
			StatusCode: fiber.StatusNotImplemented,
		})
	}

	key := c.Query("key")
	if key == "" {
		return validationFailed(c, map[string]string{"key": "storage key is required"})
	}

	url, err := p.Presigner.PresignedGetURL(c.UserContext(), key)
	if err != nil {
		p.Logger.Error("presign download failed", "error", err)
		return fail(c, err)
	}

	return ok(c, "media url issued", fiber.Map{"media_url": url})
}
