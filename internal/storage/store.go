// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/costcircle/internal/models"
)

var (
	// ErrNotFound is wrapped by stores when a requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is wrapped by stores when a unique constraint would be violated.
	ErrAlreadyExists = errors.New("already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a new group and adds group.CreatedBy as its first member.
	// The group.ID and group.CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns the groups the user belongs to, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMember adds a user to a group. Returns ErrAlreadyExists for duplicates.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// ListGroupMembers returns members in the order they joined.
	ListGroupMembers(ctx context.Context, groupID string) ([]*models.Member, error)

	// IsGroupMember reports whether the user belongs to the group.
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)
}

// LedgerStore persists expenses and settle-up payments.
type LedgerStore interface {
	// CreateExpense persists an expense and all of its splits atomically.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses with splits, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreatePayment records a settle-up payment.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPaymentsByGroup returns a group's payments, oldest first.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)
}

// Store defines the full storage surface used by the service layer.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	LedgerStore

	// Close releases any resources held by the store.
	Close() error
}
