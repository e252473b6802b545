package auth

import (
	"time"

	"github.com/goliatone/go-errors"
)

// UserStatus is the coarse lifecycle state derived from the user flags.
type UserStatus = string

const (
	// UserStatusActive users hold valid sessions and can log in.
	UserStatusActive UserStatus = "active"
	// UserStatusInactive users exist but hold no valid session; login
	// reactivates them.
	UserStatusInactive UserStatus = "inactive"
	// UserStatusBanned users are locked out until reinstated.
	UserStatusBanned UserStatus = "banned"
	// UserStatusDeleted is terminal.
	UserStatusDeleted UserStatus = "deleted"
)

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = errors.New("invalid user status transition", errors.CategoryValidation).
	WithTextCode("INVALID_USER_STATUS_TRANSITION").
	WithCode(errors.CodeBadRequest)

// ErrTerminalStatus is returned when attempting to move away from a deleted user.
var ErrTerminalStatus = errors.New("user status is terminal", errors.CategoryConflict).
	WithTextCode("TERMINAL_USER_STATUS").
	WithCode(errors.CodeConflict)

var userTransitions = map[UserStatus][]UserStatus{
	UserStatusActive:   {UserStatusInactive, UserStatusBanned, UserStatusDeleted},
	UserStatusInactive: {UserStatusActive, UserStatusBanned, UserStatusDeleted},
	UserStatusBanned:   {UserStatusInactive, UserStatusDeleted},
	UserStatusDeleted:  {},
}

// Status derives the lifecycle state from the persisted flags.
func (u *User) Status() UserStatus {
	switch {
	case u == nil || u.DeletedAt != nil:
		return UserStatusDeleted
	case u.IsBanned:
		return UserStatusBanned
	case u.IsActive:
		return UserStatusActive
	default:
		return UserStatusInactive
	}
}

// CanTransition reports whether moving between the two statuses is allowed.
// Transitions to the current status are permitted so logout and login stay
// idempotent for concurrent sessions.
func CanTransition(from, to UserStatus) bool {
	if from == to {
		return from != UserStatusDeleted
	}
	for _, allowed := range userTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// applyStatus mutates the user flags to reflect the target status. Callers
// must have validated the transition first.
func applyStatus(u *User, status UserStatus, now time.Time) {
	switch status {
	case UserStatusActive:
		u.IsActive = true
		u.IsBanned = false
	case UserStatusInactive:
		u.IsActive = false
	case UserStatusBanned:
		u.IsActive = false
		u.IsBanned = true
	case UserStatusDeleted:
		u.IsActive = false
		u.DeletedAt = &now
	}
	u.UpdatedAt = &now
}

func validateTransition(u *User, target UserStatus) error {
	from := u.Status()
	if from == UserStatusDeleted {
		return ErrTerminalStatus
	}
	if !CanTransition(from, target) {
		return errors.Wrap(ErrInvalidTransition, errors.CategoryValidation, "cannot transition user status").
			WithMetadata(map[string]any{"from": from, "to": target})
	}
	return nil
}
