package social

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Blocks stores which users have blocked which.
type Blocks interface {
	Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*BlockedUser, error)
	Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	IsBlocked(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
	ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]*BlockedUser, error)
}

type blocks struct {
	db *bun.DB
}

var _ Blocks = (*blocks)(nil)

// NewBlocksRepository returns the block list store.
func NewBlocksRepository(db *bun.DB) Blocks {
	return &blocks{db: db}
}

func (a *blocks) Block(ctx context.Context, blockerID, blockedID uuid.UUID) (*BlockedUser, error) {
	if blockerID == blockedID {
		return nil, ErrSelfBlock
	}

	record := &BlockedUser{
		BlockerID: blockerID,
		BlockedID: blockedID,
	}
	prepareBlockDefaults(record)

	if _, err := a.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyBlocked
		}
		return nil, err
	}

	return record, nil
}

func (a *blocks) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	_, err := a.db.NewDelete().
		Model((*BlockedUser)(nil)).
		Where("?TableAlias.blocker_id = ?", blockerID.String()).
		Where("?TableAlias.blocked_id = ?", blockedID.String()).
		Exec(ctx)
	return err
}

func (a *blocks) IsBlocked(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	count, err := a.db.NewSelect().
		Model((*BlockedUser)(nil)).
		Where("?TableAlias.blocker_id = ?", blockerID.String()).
		Where("?TableAlias.blocked_id = ?", blockedID.String()).
		Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (a *blocks) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]*BlockedUser, error) {
	var records []*BlockedUser

	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.blocker_id = ?", blockerID.String()).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}
