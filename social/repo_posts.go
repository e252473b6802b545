package social

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var softDeletePostSQL = `UPDATE "posts" AS "pst"
SET
	"deleted_at" = ?,
	"updated_at" = ?
WHERE
	"pst"."deleted_at" IS NULL
AND (
	"pst"."id" = ?
AND	"pst"."author_id" = ?
);`

var bumpPostCounterSQL = `UPDATE "posts" AS "pst"
SET
	%s = MAX(0, %s + ?),
	"updated_at" = ?
WHERE
	"pst"."deleted_at" IS NULL
AND (
	"pst"."id" = ?
);`

// Posts stores user publications.
type Posts interface {
	repository.Repository[*Post]
	Create(ctx context.Context, record *Post) (*Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*Post, error)
	SoftDelete(ctx context.Context, id, authorID uuid.UUID) error
	RecordView(ctx context.Context, id uuid.UUID) error
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var _ Posts = (*posts)(nil)

// NewPostsRepository wires the generic repository with post model handlers.
func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &posts{
		Repository: repo,
		db:         db,
	}
}

func (a *posts) Create(ctx context.Context, record *Post) (*Post, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *posts) CreateTx(ctx context.Context, tx bun.IDB, record *Post) (*Post, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	preparePostDefaults(record)

	return a.Repository.CreateTx(ctx, tx, record)
}

func (a *posts) FindByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	record := &Post{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if isNoRows(err) {
			return nil, recordNotFound(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (a *posts) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]*Post, error) {
	var records []*Post

	q := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.author_id = ?", authorID.String()).
		Order("created_at DESC")

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

// SoftDelete tombstones the post. The author filter makes ownership part of
// the statement, so a non-author delete reads as not found.
func (a *posts) SoftDelete(ctx context.Context, id, authorID uuid.UUID) error {
	now := time.Now()

	res, err := a.db.NewRaw(softDeletePostSQL, now, now, id.String(), authorID.String()).Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return recordNotFound(map[string]any{"id": id.String()})
	}

	return nil
}

// RecordView bumps the view counter without touching the rest of the row.
func (a *posts) RecordView(ctx context.Context, id uuid.UUID) error {
	return bumpPostCounter(ctx, a.db, id, "views_count", 1)
}

func bumpPostCounter(ctx context.Context, db *bun.DB, id uuid.UUID, column string, delta int) error {
	stmt := strings.ReplaceAll(bumpPostCounterSQL, "%s", `"`+column+`"`)
	_, err := db.NewRaw(stmt, delta, time.Now(), id.String()).Exec(ctx)
	return err
}

func isNoRows(err error) bool {
	if err == nil {
		return false
	}
	return repository.IsRecordNotFound(err) ||
		strings.Contains(err.Error(), "no rows in result set")
}

// recordNotFound wraps the repository sentinel so the absence stays
// detectable through repository.IsRecordNotFound while carrying the category
// and code the HTTP layer maps to a 404.
func recordNotFound(meta map[string]any) error {
	return errors.Wrap(repository.ErrRecordNotFound, errors.CategoryNotFound, "record not found").
		WithCode(errors.CodeNotFound).
		WithMetadata(meta)
}
