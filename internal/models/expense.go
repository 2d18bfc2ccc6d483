package models

import "github.com/mmynk/costcircle/internal/money"

// Expense is an amount one member paid on behalf of the group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// PaidBy is the user who paid the full amount.
	PaidBy string

	// Description is a short label (e.g., "Dinner", "Cab to airport").
	Description string

	// Amount is the expense total.
	Amount money.Cents

	// SplitType is the policy used to compute Splits (EQUAL, EXACT, PERCENTAGE).
	SplitType string

	// Splits are the per-participant shares. They always sum to Amount.
	Splits []ExpenseSplit

	// CreatedBy is the user who recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ExpenseSplit is one participant's share of an expense.
type ExpenseSplit struct {
	UserID string
	Amount money.Cents
}
