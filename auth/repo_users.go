package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var setUserPasswordSQL = `UPDATE "users" AS "usr"
SET
	"password_hash" = ?,
	"updated_at" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
);`

var setUserStatusSQL = `UPDATE "users" AS "usr"
SET
	"is_active" = ?,
	"is_banned" = ?,
	"deleted_at" = ?,
	"updated_at" = ?
WHERE
	"usr"."deleted_at" IS NULL
AND (
	"usr"."id" = ?
);`

// Users is the bun-backed credential store.
type Users interface {
	repository.Repository[*User]
	CredentialStore
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ CredentialStore              = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

// NewUsersRepository wires the generic repository with user model handlers.
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.findByColumn(ctx, a.db, "id", id.String())
}

func (a *users) FindByUsername(ctx context.Context, username string) (*User, error) {
	return a.findByColumn(ctx, a.db, "username", strings.TrimSpace(username))
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.findByColumn(ctx, a.db, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (a *users) findByColumn(ctx context.Context, tx bun.IDB, column, value string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if isNoRows(err) {
			return nil, recordNotFound(map[string]any{column: value})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	prepareUserDefaults(record)
	record.Email = strings.ToLower(strings.TrimSpace(record.Email))
	record.Username = strings.TrimSpace(record.Username)

	created, err := a.Repository.CreateTx(ctx, tx, record)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return created, nil
}

// UpdateProfile applies the whitelisted profile patch. Flags, counters, and
// the password hash are not reachable through this path.
func (a *users) UpdateProfile(ctx context.Context, id uuid.UUID, patch UserPatch) (*User, error) {
	record := &User{ID: id}
	columns := []string{"updated_at"}

	if patch.FullName != nil {
		record.FullName = *patch.FullName
		columns = append(columns, "full_name")
	}
	if patch.Bio != nil {
		record.Bio = *patch.Bio
		columns = append(columns, "bio")
	}
	if patch.ProfilePicture != nil {
		record.ProfilePicture = *patch.ProfilePicture
		columns = append(columns, "profile_picture")
	}

	now := time.Now()
	record.UpdatedAt = &now

	res, err := a.db.NewUpdate().
		Model(record).
		Column(columns...).
		WherePK().
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, recordNotFound(map[string]any{"id": id.String()})
	}

	return a.FindByID(ctx, id)
}

// SetStatus validates the lifecycle transition before flipping the flags.
// The raw statement keeps the flag update atomic with respect to concurrent
// verifier reads.
func (a *users) SetStatus(ctx context.Context, id uuid.UUID, status UserStatus) error {
	user, err := a.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := validateTransition(user, status); err != nil {
		return err
	}

	now := time.Now()
	applyStatus(user, status, now)

	_, err = a.db.NewRaw(setUserStatusSQL,
		user.IsActive, user.IsBanned, user.DeletedAt, now, id.String(),
	).Exec(ctx)
	return err
}

func (a *users) SetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	res, err := a.db.NewRaw(setUserPasswordSQL, passwordHash, time.Now(), id.String()).Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return recordNotFound(map[string]any{"id": id.String()})
	}

	return nil
}

// recordNotFound wraps the repository sentinel so the absence stays
// detectable through repository.IsRecordNotFound while carrying the category
// and code the HTTP layer maps to a 404.
func recordNotFound(meta map[string]any) error {
	return errors.Wrap(repository.ErrRecordNotFound, errors.CategoryNotFound, "record not found").
		WithCode(errors.CodeNotFound).
		WithMetadata(meta)
}

func isNoRows(err error) bool {
	if err == nil {
		return false
	}
	return repository.IsRecordNotFound(err) ||
		strings.Contains(err.Error(), "no rows in result set")
}

// mapUniqueViolation translates driver-level unique index failures into the
// conflict errors the registration flow reports.
func mapUniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") &&
		!strings.Contains(msg, "duplicate key value") {
		return err
	}

	switch {
	case strings.Contains(msg, "email"):
		return ErrEmailTaken
	case strings.Contains(msg, "username"):
		return ErrUsernameTaken
	default:
		return errors.Wrap(err, errors.CategoryConflict, "user already exists")
	}
}
