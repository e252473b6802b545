package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// SessionVerifier answers "is this token currently valid, and for which
// active user?". It orchestrates the revocation registry, the token codec,
// and the credential store.
type SessionVerifier struct {
	tokens   TokenService
	registry RevocationRegistry
	store    CredentialStore
	logger   Logger
	now      func() time.Time
}

// NewSessionVerifier returns a verifier over the given collaborators.
func NewSessionVerifier(tokens TokenService, registry RevocationRegistry, store CredentialStore) *SessionVerifier {
	return &SessionVerifier{
		tokens:   tokens,
		registry: registry,
		store:    store,
		logger:   defLogger{},
		now:      time.Now,
	}
}

func (v *SessionVerifier) WithLogger(logger Logger) *SessionVerifier {
	if logger != nil {
		v.logger = logger
	}
	return v
}

// WithClock overrides the clock, useful for tests.
func (v *SessionVerifier) WithClock(now func() time.Time) *SessionVerifier {
	if now != nil {
		v.now = now
	}
	return v
}

// Verify runs the checks in a fixed order, short-circuiting at the first
// failure:
//
//  1. revocation, before any cryptographic work, so a revoked token is dead
//     even while the credential store is briefly inconsistent
//  2. signature and structure
//  3. expiry, strict: exp < now is expired
//  4. subject presence
//  5. user exists and can authenticate, checked last so a deactivation after
//     issuance locks the user out on the next verification
//
// Every rejection returns the same opaque ErrTokenInvalid; only credential
// store faults surface as internal errors.
func (v *SessionVerifier) Verify(ctx context.Context, token string) (*JWTClaims, error) {
	revoked, err := v.registry.IsRevoked(ctx, token)
	if err != nil {
		v.logger.Error("SessionVerifier revocation lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "revocation registry unavailable")
	}
	if revoked {
		return nil, ErrTokenInvalid
	}

	claims, err := v.tokens.Decode(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	exp := claims.Expires()
	if exp.IsZero() || exp.Before(v.now()) {
		return nil, ErrTokenInvalid
	}

	if claims.UserID() == "" {
		return nil, ErrTokenInvalid
	}

	uid, err := claims.UserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := v.store.FindByID(ctx, uid)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrTokenInvalid
		}
		v.logger.Error("SessionVerifier user lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "credential store unavailable")
	}

	if !user.CanAuthenticate() {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
