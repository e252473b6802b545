package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"

	"github.com/mosaicsocial/mosaic/auth"
)

// AuthController serves the authentication endpoints.
type AuthController struct {
	Debug  bool
	Logger auth.Logger
	Cfg    auth.Config
	Auther *auth.Auther
}

// Register creates the account and answers with the first token pair.
func (a *AuthController) Register(c *fiber.Ctx) error {
	payload := new(RegisterRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return validationFailed(c, map[string]string{"payload": "failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register validate payload", "error", err)
		return validationFailed(c, FormatValidationErrorToMap(err))
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	user, pair, err := a.Auther.Register(c.UserContext(), auth.RegisterInput{
		Username:        payload.Username,
		Email:           payload.Email,
		FullName:        payload.FullName,
		Bio:             payload.Bio,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
	})
	if err != nil {
		return fail(c, err)
	}

	return created(c, "user registered successfully", fiber.Map{
		"user":   user,
		"tokens": pair,
	})
}

// Login verifies the credentials and answers with a fresh token pair.
func (a *AuthController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return validationFailed(c, map[string]string{"payload": "failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		return validationFailed(c, FormatValidationErrorToMap(err))
	}

	pair, err := a.Auther.Login(c.UserContext(), auth.LoginInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "login successful", pair)
}

// Logout revokes the token presented on this request. Runs behind the Bearer
// middleware, so the token has already verified.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	token := sessionToken(c)
	if token == "" {
		return fail(c, auth.ErrTokenInvalid)
	}

	if err := a.Auther.Logout(c.UserContext(), token); err != nil {
		return fail(c, err)
	}

	return ok(c, "logged out", nil)
}

// Refresh mints a new access token from a refresh token.
func (a *AuthController) Refresh(c *fiber.Ctx) error {
	payload := new(RefreshRequest)

	if err := c.BodyParser(payload); err != nil {
		return validationFailed(c, map[string]string{"payload": "failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		return validationFailed(c, FormatValidationErrorToMap(err))
	}

	access, err := a.Auther.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, "token refreshed", fiber.Map{"access_token": access})
}

// PasswordReset stores a new password for the account under the given email.
// Reset link delivery is handled elsewhere; this is the change step only.
func (a *AuthController) PasswordReset(c *fiber.Ctx) error {
	payload := new(PasswordResetRequest)

	if err := c.BodyParser(payload); err != nil {
		return validationFailed(c, map[string]string{"payload": "failed to parse body"})
	}

	if err := payload.Validate(); err != nil {
		return validationFailed(c, FormatValidationErrorToMap(err))
	}

	if err := a.Auther.ResetPassword(c.UserContext(), payload.Email, payload.Password, payload.ConfirmPassword); err != nil {
		return fail(c, err)
	}

	return ok(c, "password updated", nil)
}
