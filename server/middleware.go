package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/mosaicsocial/mosaic/auth"
)

// tokenLocalsKey stores the raw bearer token alongside the claims so logout
// can revoke exactly what was presented.
const tokenLocalsKey = "auth_token"

// Bearer guards a route group with the session verifier. On success the
// verified claims land in c.Locals under the configured context key; every
// failure answers 401 with the same opaque message.
func Bearer(cfg auth.Config, verifier *auth.SessionVerifier) fiber.Handler {
	scheme := cfg.GetAuthScheme()
	if scheme == "" {
		scheme = "Bearer"
	}

	return func(c *fiber.Ctx) error {
		token, err := extractBearerToken(c.Get(fiber.HeaderAuthorization), scheme)
		if err != nil {
			return fail(c, auth.ErrTokenInvalid)
		}

		claims, err := verifier.Verify(c.UserContext(), token)
		if err != nil {
			return fail(c, err)
		}

		c.Locals(cfg.GetContextKey(), claims)
		c.Locals(tokenLocalsKey, token)

		return c.Next()
	}
}

func extractBearerToken(header, scheme string) (string, error) {
	if header == "" {
		return "", auth.ErrTokenInvalid
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", auth.ErrTokenInvalid
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", auth.ErrTokenInvalid
	}

	return token, nil
}

// sessionClaims pulls the verified claims stored by the Bearer middleware.
func sessionClaims(c *fiber.Ctx, cfg auth.Config) (*auth.JWTClaims, error) {
	claims, ok := c.Locals(cfg.GetContextKey()).(*auth.JWTClaims)
	if !ok || claims == nil {
		return nil, auth.ErrTokenInvalid
	}
	return claims, nil
}

func sessionUserID(c *fiber.Ctx, cfg auth.Config) (uuid.UUID, error) {
	claims, err := sessionClaims(c, cfg)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserUUID()
}

func sessionToken(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenLocalsKey).(string)
	return token
}
