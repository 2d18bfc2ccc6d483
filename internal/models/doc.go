// Package models defines the persisted domain records for CostCircle.
//
// # Models
//
//   - User: registered account, identified by a UUID
//   - Group: shared-expense circle; members are Users
//   - Expense: an amount paid by one member, divided into ExpenseSplits
//   - Payment: a recorded settle-up transfer between two members
//
// Amounts are money.Cents. Balances and settlement plans are never stored;
// they are derived from expenses and payments on every read.
//
// # Design Principles
//
//  1. Use ID strings instead of pointers for relationships
//  2. Timestamps are Unix seconds
//  3. Ledger rows are append-only except for explicit deletes
package models
