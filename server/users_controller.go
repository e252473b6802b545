package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mosaicsocial/mosaic/auth"
)

// UsersController serves the profile endpoints for the authenticated user.
type UsersController struct {
	Logger auth.Logger
	Cfg    auth.Config
	Users  auth.CredentialStore
}

// Fetch answers with the caller's own profile. The password hash never
// serializes; the model tags guarantee it.
func (u *UsersController) Fetch(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, u.Cfg)
	if err != nil {
		return fail(c, err)
	}

	user, err := u.Users.FindByID(c.UserContext(), uid)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "user fetched successfully", user)
}

// Update applies the whitelisted profile patch to the caller's account.
func (u *UsersController) Update(c *fiber.Ctx) error {
	uid, err := sessionUserID(c, u.Cfg)
	if err != nil {
		return fail(c, err)
	}

	payload := new(UpdateUserRequest)
	if err := c.BodyParser(payload); err != nil {
		u.Logger.Error("update user parse payload", "error", err)
		return validationFailed(c, map[string]string{"payload": "failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		return validationFailed(c, FormatValidationErrorToMap(err))
	}

	user, err := u.Users.UpdateProfile(c.UserContext(), uid, auth.UserPatch{
		FullName:       payload.FullName,
		Bio:            payload.Bio,
		ProfilePicture: payload.ProfilePicture,
	})
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "user updated successfully", user)
}
