package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// Authenticator holds the public auth operations. A session moves through
// three states: anonymous before Login or Register, authenticated while its
// tokens verify, and logged out once the presented token is revoked.
type Authenticator interface {
	Register(ctx context.Context, input RegisterInput) (*User, *TokenPair, error)
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Verifier() *SessionVerifier
}

// RegisterInput is the registration payload. Transport-level validation
// happens at the HTTP boundary; the checks here are the core invariants.
type RegisterInput struct {
	Username        string
	Email           string
	FullName        string
	Bio             string
	Password        string
	ConfirmPassword string
}

// LoginInput carries the credentials. Username and email are mutually
// exclusive selectors; when both are present username takes precedence.
type LoginInput struct {
	Username string
	Email    string
	Password string
}

// Auther implements Authenticator.
type Auther struct {
	store            CredentialStore
	tokens           TokenService
	registry         RevocationRegistry
	verifier         *SessionVerifier
	logger           Logger
	deterministicIDs bool
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store CredentialStore, tokens TokenService, registry RevocationRegistry) *Auther {
	return &Auther{
		store:    store,
		tokens:   tokens,
		registry: registry,
		verifier: NewSessionVerifier(tokens, registry, store),
		logger:   defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
		s.verifier = s.verifier.WithLogger(logger)
	}
	return s
}

// WithDeterministicIDs derives new user ids from the registered email
// instead of random UUIDs, so repeated imports stay stable.
func (s *Auther) WithDeterministicIDs() *Auther {
	s.deterministicIDs = true
	return s
}

// Verifier exposes the SessionVerifier for middleware use.
func (s *Auther) Verifier() *SessionVerifier {
	return s.verifier
}

// Register creates the user and issues its first token pair. Creation and
// issuance are not atomic: when issuance fails the user record survives and
// the caller should retry issuance through Login, not registration.
func (s *Auther) Register(ctx context.Context, input RegisterInput) (*User, *TokenPair, error) {
	if input.Password == "" {
		return nil, nil, ErrMissingPassword
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		return nil, nil, ErrPasswordMismatch
	}

	if _, err := s.store.FindByEmail(ctx, input.Email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !repository.IsRecordNotFound(err) {
		return nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to check registered email")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, nil, richErr
		}
		return nil, nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		Bio:          input.Bio,
		PasswordHash: hash,
		IsActive:     true,
	}

	if s.deterministicIDs {
		if id, err := hashid.NewUUID(input.Email); err == nil {
			user.ID = id
		}
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.IssuePair(created.ID.String())
	if err != nil {
		s.logger.Error("Register token issuance failed", "error", err, "user_id", created.ID)
		return created, nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue token pair")
	}

	return created, pair, nil
}

// Login verifies the credentials and issues a fresh token pair. Rejections
// here carry specific reasons; this asymmetry with token verification is
// intentional.
func (s *Auther) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	if input.Username == "" && input.Email == "" {
		return nil, ErrMissingIdentifier
	}
	if input.Password == "" {
		return nil, ErrMissingPassword
	}

	var user *User
	var err error

	if input.Username != "" {
		user, err = s.store.FindByUsername(ctx, input.Username)
	} else {
		user, err = s.store.FindByEmail(ctx, input.Email)
	}

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if user.Status() == UserStatusBanned || user.Status() == UserStatusDeleted {
		return nil, ErrUserBanned
	}

	if err := ComparePasswordAndHash(input.Password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to verify password")
	}

	pair, err := s.tokens.IssuePair(user.ID.String())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue token pair")
	}

	if user.Status() != UserStatusActive {
		if err := s.store.SetStatus(ctx, user.ID, UserStatusActive); err != nil {
			s.logger.Error("Login failed to mark user active", "error", err, "user_id", user.ID)
		}
	}

	return pair, nil
}

// Logout revokes the presented token and marks the user inactive. Only the
// presented token dies: a paired refresh token stays valid until its own
// expiry unless separately revoked.
func (s *Auther) Logout(ctx context.Context, token string) error {
	claims, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return err
	}

	if err := s.registry.Revoke(ctx, token, claims.Expires()); err != nil {
		return err
	}

	uid, err := claims.UserUUID()
	if err != nil {
		return ErrTokenInvalid
	}

	if err := s.store.SetStatus(ctx, uid, UserStatusInactive); err != nil {
		s.logger.Error("Logout failed to mark user inactive", "error", err, "user_id", uid)
		return errors.Wrap(err, errors.CategoryInternal, "failed to deactivate user")
	}

	return nil
}

// Refresh mints a new access token from a valid refresh token. Access tokens
// are rejected here even when cryptographically and temporally fine, so a
// short-lived token cannot mint more of itself. The refresh token is not
// rotated; it stays usable until its own expiry.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.verifier.Verify(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	if claims.Kind() != KindRefresh {
		return "", ErrTokenInvalid
	}

	return s.tokens.Issue(claims.UserID(), KindAccess, 0)
}

// ResetPassword stores a new password hash for the account registered under
// the given email. Delivery of reset links is out of scope; callers gate
// access to this operation.
func (s *Auther) ResetPassword(ctx context.Context, email, password, confirm string) error {
	if password == "" {
		return ErrMissingPassword
	}
	if password != confirm {
		return ErrPasswordMismatch
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrUserNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user for password reset")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	return s.store.SetPassword(ctx, user.ID, hash)
}

// Impersonate issues a token pair for the given user id without credentials.
// Admin tooling only; never exposed over a public route.
func (s *Auther) Impersonate(ctx context.Context, id uuid.UUID) (*TokenPair, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user for impersonation")
	}

	if !user.CanAuthenticate() {
		return nil, ErrUserBanned
	}

	return s.tokens.IssuePair(user.ID.String())
}
