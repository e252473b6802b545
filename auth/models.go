package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential store record. The password hash is never serialized
// and never leaves the store boundary except for verification inside this
// package.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	FullName       string     `bun:"full_name" json:"full_name,omitempty"`
	Bio            string     `bun:"bio" json:"bio,omitempty"`
	ProfilePicture string     `bun:"profile_picture" json:"profile_picture,omitempty"`
	PasswordHash   string     `bun:"password_hash,notnull" json:"-"`
	FollowersCount int        `bun:"followers_count" json:"followers_count"`
	FollowingCount int        `bun:"following_count" json:"following_count"`
	IsActive       bool       `bun:"is_active" json:"is_active"`
	IsBanned       bool       `bun:"is_banned" json:"is_banned"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// CanAuthenticate reports whether tokens for this user should verify.
func (u *User) CanAuthenticate() bool {
	if u == nil {
		return false
	}
	return u.IsActive && !u.IsBanned && u.DeletedAt == nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
		record.UpdatedAt = &now
	}
}
