package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger is the minimal logging surface the auth core needs. The variadic
// args are key value pairs, slog style. The server binary wires a slog-backed
// implementation; tests inject mocks.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// TokenKind discriminates access tokens from refresh tokens.
type TokenKind = string

const (
	// KindAccess is a short lived credential authorizing a single request.
	KindAccess TokenKind = "access"
	// KindRefresh is a long lived credential used solely to mint new access tokens.
	KindRefresh TokenKind = "refresh"
)

// RefreshTokenTTL is the fixed validity window for refresh tokens.
const RefreshTokenTTL = 7 * 24 * time.Hour

// DefaultAccessTokenTTL applies when configuration does not set one.
const DefaultAccessTokenTTL = 300 * time.Second

// TokenPair bundles the access and refresh token minted for a session.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetAccessTokenTTL() time.Duration
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
}

// TokenService encodes and decodes signed expiring tokens. Decode verifies
// signature and structure only; expiry and revocation are the
// SessionVerifier's responsibility.
type TokenService interface {
	Issue(userID string, kind TokenKind, ttl time.Duration) (string, error)
	IssuePair(userID string) (*TokenPair, error)
	Decode(token string) (*JWTClaims, error)
}

// RevocationRegistry is the process-wide set of tokens that must be treated
// as invalid regardless of signature or expiry validity. Implementations must
// be safe for concurrent use; Revoke is idempotent and there is no removal
// operation besides expiry-based purging.
type RevocationRegistry interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// UserPatch is the whitelist of externally updatable profile fields. Anything
// not listed here, the password hash in particular, cannot be touched through
// a patch.
type UserPatch struct {
	FullName       *string
	Bio            *string
	ProfilePicture *string
}

// CredentialStore persists user records. Absence is reported as a record not
// found error distinguishable via IsRecordNotFound.
type CredentialStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch UserPatch) (*User, error)
	SetStatus(ctx context.Context, id uuid.UUID, status UserStatus) error
	SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args) }
func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args) }

func (d defLogger) print(level, msg string, args []any) {
	var sb strings.Builder
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
	}
	fmt.Printf("[%s] AUTH %s%s\n", level, msg, sb.String())
}
