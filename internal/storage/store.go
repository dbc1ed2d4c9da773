// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a referenced user or group does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a write duplicates a unique value, such as
	// an email, a group ID or a group membership.
	ErrAlreadyExists = errors.New("already exists")

	// ErrConflict is returned when the group's round advanced underneath the caller.
	ErrConflict = errors.New("conflict")
)

// Store is the append-only fact log behind the ledger.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Expenses and settlements are never updated or deleted. Every append bumps the
// group's Version.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are assigned when empty.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser returns ErrNotFound if the user does not exist.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// CreateGroup persists a new group in round 1 with no settlement lock.
	// Every member must be an existing user.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members, lock, round and version.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups ordered by creation time, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// AddGroupMembers appends users to a group's member list.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// CreateExpense appends an expense and its splits in one transaction. The
	// expense is stamped with the group's current round.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpenses returns a group's expenses for one round in append order.
	ListExpenses(ctx context.Context, groupID string, round int64) ([]models.Expense, error)

	// AppendSettlement appends a settlement and applies the resulting lock in one
	// transaction. settlement.Round must equal the group's current round or
	// ErrConflict is returned. When closeRound is set the lock is cleared and the
	// group moves to the next round; otherwise the lock is set to lock.
	AppendSettlement(ctx context.Context, settlement *models.Settlement, lock models.SettlementMethod, closeRound bool) error

	// ListSettlements returns a group's settlements for one round in append order.
	ListSettlements(ctx context.Context, groupID string, round int64) ([]models.Settlement, error)

	// Close releases any resources held by the store.
	Close() error
}
