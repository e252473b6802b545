package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mosaicsocial/mosaic/auth"
)

type authFixture struct {
	store  *MockCredentialStore
	tokens *auth.TokenServiceImpl
	auther *auth.Auther
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	f := &authFixture{
		store:  &MockCredentialStore{},
		tokens: newTokenService(),
	}
	f.auther = auth.NewAuthenticator(f.store, f.tokens, auth.NewDenylist())
	return f
}

func credentialedUser(id uuid.UUID, password string) *auth.User {
	hash, err := auth.HashPassword(password)
	if err != nil {
		panic(err)
	}
	u := activeUser(id)
	u.PasswordHash = hash
	return u
}

func TestAuther_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user and issues a pair", func(t *testing.T) {
		f := newAuthFixture(t)

		f.store.On("FindByEmail", ctx, "alice@x.com").Return(nil, repository.ErrRecordNotFound)
		f.store.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(
			func(ctx context.Context, u *auth.User) (*auth.User, error) {
				u.ID = uuid.New()
				return u, nil
			})

		user, pair, err := f.auther.Register(ctx, auth.RegisterInput{
			Username:        "alice",
			Email:           "alice@x.com",
			Password:        "s3cret-pass",
			ConfirmPassword: "s3cret-pass",
		})
		require.NoError(t, err)
		require.NotNil(t, user)
		require.NotNil(t, pair)

		assert.True(t, user.IsActive)
		assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
		assert.NoError(t, auth.ComparePasswordAndHash("s3cret-pass", user.PasswordHash))

		claims, err := f.tokens.Decode(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID())
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		f := newAuthFixture(t)

		_, _, err := f.auther.Register(ctx, auth.RegisterInput{Email: "alice@x.com"})
		assert.ErrorIs(t, err, auth.ErrMissingPassword)
	})

	t.Run("rejects a mismatched confirmation", func(t *testing.T) {
		f := newAuthFixture(t)

		_, _, err := f.auther.Register(ctx, auth.RegisterInput{
			Email:           "alice@x.com",
			Password:        "one",
			ConfirmPassword: "two",
		})
		assert.ErrorIs(t, err, auth.ErrPasswordMismatch)
	})

	t.Run("rejects an already registered email", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByEmail", ctx, "alice@x.com").Return(activeUser(uid), nil)

		_, _, err := f.auther.Register(ctx, auth.RegisterInput{
			Email:    "alice@x.com",
			Password: "s3cret-pass",
		})
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
		f.store.AssertNotCalled(t, "Create")
	})

	t.Run("derives stable ids from the email when enabled", func(t *testing.T) {
		f := newAuthFixture(t)
		f.auther = f.auther.WithDeterministicIDs()

		f.store.On("FindByEmail", ctx, "alice@x.com").Return(nil, repository.ErrRecordNotFound)
		f.store.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(
			func(ctx context.Context, u *auth.User) (*auth.User, error) {
				return u, nil
			})

		user, _, err := f.auther.Register(ctx, auth.RegisterInput{
			Username:        "alice",
			Email:           "alice@x.com",
			Password:        "s3cret-pass",
			ConfirmPassword: "s3cret-pass",
		})
		require.NoError(t, err)

		expected, err := hashid.NewUUID("alice@x.com")
		require.NoError(t, err)
		assert.Equal(t, expected, user.ID)
	})

	t.Run("returns the created user even when issuance fails", func(t *testing.T) {
		f := newAuthFixture(t)
		broken := auth.NewAuthenticator(f.store, brokenTokenService{}, auth.NewDenylist())

		f.store.On("FindByEmail", ctx, "alice@x.com").Return(nil, repository.ErrRecordNotFound)
		f.store.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(
			func(ctx context.Context, u *auth.User) (*auth.User, error) {
				u.ID = uuid.New()
				return u, nil
			})

		user, pair, err := broken.Register(ctx, auth.RegisterInput{
			Email:    "alice@x.com",
			Password: "s3cret-pass",
		})
		require.Error(t, err)
		assert.Nil(t, pair)
		assert.NotNil(t, user)
	})
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a pair on valid credentials", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByUsername", ctx, "alice").Return(credentialedUser(uid, "s3cret-pass"), nil)

		pair, err := f.auther.Login(ctx, auth.LoginInput{Username: "alice", Password: "s3cret-pass"})
		require.NoError(t, err)

		claims, err := f.tokens.Decode(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uid.String(), claims.UserID())
	})

	t.Run("requires an identifier", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.auther.Login(ctx, auth.LoginInput{Password: "s3cret-pass"})
		assert.ErrorIs(t, err, auth.ErrMissingIdentifier)
	})

	t.Run("requires a password", func(t *testing.T) {
		f := newAuthFixture(t)

		_, err := f.auther.Login(ctx, auth.LoginInput{Username: "alice"})
		assert.ErrorIs(t, err, auth.ErrMissingPassword)
	})

	t.Run("username wins when both identifiers are present", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByUsername", ctx, "alice").Return(credentialedUser(uid, "s3cret-pass"), nil)

		_, err := f.auther.Login(ctx, auth.LoginInput{
			Username: "alice",
			Email:    "someone-else@x.com",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		f.store.AssertNotCalled(t, "FindByEmail")
	})

	t.Run("reports unknown users", func(t *testing.T) {
		f := newAuthFixture(t)

		f.store.On("FindByUsername", ctx, "nobody").Return(nil, repository.ErrRecordNotFound)

		_, err := f.auther.Login(ctx, auth.LoginInput{Username: "nobody", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("reports wrong passwords", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByUsername", ctx, "alice").Return(credentialedUser(uid, "s3cret-pass"), nil)

		_, err := f.auther.Login(ctx, auth.LoginInput{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, auth.ErrInvalidPassword)
	})

	t.Run("rejects banned users before checking the password", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		user := credentialedUser(uid, "s3cret-pass")
		user.IsBanned = true
		f.store.On("FindByUsername", ctx, "alice").Return(user, nil)

		_, err := f.auther.Login(ctx, auth.LoginInput{Username: "alice", Password: "s3cret-pass"})
		assert.ErrorIs(t, err, auth.ErrUserBanned)
	})

	t.Run("marks a dormant user active again", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		user := credentialedUser(uid, "s3cret-pass")
		user.IsActive = false
		f.store.On("FindByUsername", ctx, "alice").Return(user, nil)
		f.store.On("SetStatus", ctx, uid, auth.UserStatusActive).Return(nil)

		_, err := f.auther.Login(ctx, auth.LoginInput{Username: "alice", Password: "s3cret-pass"})
		require.NoError(t, err)
		f.store.AssertCalled(t, "SetStatus", ctx, uid, auth.UserStatusActive)
	})
}

func TestAuther_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the presented token only", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByID", ctx, uid).Return(activeUser(uid), nil)
		f.store.On("SetStatus", ctx, uid, auth.UserStatusInactive).Return(nil)

		pair, err := f.tokens.IssuePair(uid.String())
		require.NoError(t, err)

		require.NoError(t, f.auther.Logout(ctx, pair.AccessToken))

		// The presented access token is dead.
		_, err = f.auther.Verifier().Verify(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)

		// Its sibling refresh token lives on.
		_, err = f.auther.Verifier().Verify(ctx, pair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("rejects tokens that fail verification", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.auther.Logout(ctx, "garbage")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
		f.store.AssertNotCalled(t, "SetStatus")
	})

	t.Run("a second logout with the same token fails", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByID", ctx, uid).Return(activeUser(uid), nil)
		f.store.On("SetStatus", ctx, uid, auth.UserStatusInactive).Return(nil)

		token, err := f.tokens.Issue(uid.String(), auth.KindAccess, 0)
		require.NoError(t, err)

		require.NoError(t, f.auther.Logout(ctx, token))
		assert.ErrorIs(t, f.auther.Logout(ctx, token), auth.ErrTokenInvalid)
	})
}

func TestAuther_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("mints a fresh access token", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByID", ctx, uid).Return(activeUser(uid), nil)

		refresh, err := f.tokens.Issue(uid.String(), auth.KindRefresh, 0)
		require.NoError(t, err)

		access, err := f.auther.Refresh(ctx, refresh)
		require.NoError(t, err)

		claims, err := f.tokens.Decode(access)
		require.NoError(t, err)
		assert.Equal(t, auth.KindAccess, claims.Kind())
		assert.Equal(t, uid.String(), claims.UserID())
	})

	t.Run("rejects access tokens", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByID", ctx, uid).Return(activeUser(uid), nil)

		access, err := f.tokens.Issue(uid.String(), auth.KindAccess, 0)
		require.NoError(t, err)

		_, err = f.auther.Refresh(ctx, access)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})

	t.Run("rejects revoked refresh tokens", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByID", ctx, uid).Return(activeUser(uid), nil)
		f.store.On("SetStatus", ctx, uid, auth.UserStatusInactive).Return(nil)

		refresh, err := f.tokens.Issue(uid.String(), auth.KindRefresh, 0)
		require.NoError(t, err)

		require.NoError(t, f.auther.Logout(ctx, refresh))

		_, err = f.auther.Refresh(ctx, refresh)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})

	t.Run("does not rotate the refresh token", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByID", ctx, uid).Return(activeUser(uid), nil)

		refresh, err := f.tokens.Issue(uid.String(), auth.KindRefresh, 0)
		require.NoError(t, err)

		_, err = f.auther.Refresh(ctx, refresh)
		require.NoError(t, err)
		_, err = f.auther.Refresh(ctx, refresh)
		require.NoError(t, err)
	})
}

func TestAuther_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("stores the new hash", func(t *testing.T) {
		f := newAuthFixture(t)

		uid := uuid.New()
		f.store.On("FindByEmail", ctx, "alice@x.com").Return(activeUser(uid), nil)
		f.store.On("SetPassword", ctx, uid, mock.AnythingOfType("string")).Return(nil)

		require.NoError(t, f.auther.ResetPassword(ctx, "alice@x.com", "new-pass", "new-pass"))

		call := f.store.Calls[len(f.store.Calls)-1]
		hash := call.Arguments.String(2)
		assert.NoError(t, auth.ComparePasswordAndHash("new-pass", hash))
	})

	t.Run("rejects mismatched confirmation", func(t *testing.T) {
		f := newAuthFixture(t)

		err := f.auther.ResetPassword(ctx, "alice@x.com", "one", "two")
		assert.ErrorIs(t, err, auth.ErrPasswordMismatch)
	})

	t.Run("reports unknown emails", func(t *testing.T) {
		f := newAuthFixture(t)

		f.store.On("FindByEmail", ctx, "nobody@x.com").Return(nil, repository.ErrRecordNotFound)

		err := f.auther.ResetPassword(ctx, "nobody@x.com", "new-pass", "new-pass")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}

func TestAuther_Impersonate(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	uid := uuid.New()
	f.store.On("FindByID", ctx, uid).Return(activeUser(uid), nil)

	pair, err := f.auther.Impersonate(ctx, uid)
	require.NoError(t, err)

	claims, err := f.tokens.Decode(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uid.String(), claims.UserID())
}

// brokenTokenService fails every issuance, for exercising the non-atomic
// register path.
type brokenTokenService struct{}

func (brokenTokenService) Issue(string, auth.TokenKind, time.Duration) (string, error) {
	return "", fmt.Errorf("signer unavailable")
}

func (brokenTokenService) IssuePair(string) (*auth.TokenPair, error) {
	return nil, fmt.Errorf("signer unavailable")
}

func (brokenTokenService) Decode(string) (*auth.JWTClaims, error) {
	return nil, fmt.Errorf("signer unavailable")
}
