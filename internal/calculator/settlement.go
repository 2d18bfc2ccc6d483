package calculator

import (
	"sort"

	"github.com/mmynk/costcircle/internal/money"
)

// settledThreshold is the magnitude below which a balance counts as settled.
const settledThreshold money.Cents = 1

// Balance is one user's signed net position within a group.
type Balance struct {
	UserID string
	Name   string
	Amount money.Cents // Positive = owed money, Negative = owes money
}

// Transfer is a proposed payment from a debtor to a creditor.
type Transfer struct {
	FromUserID string // Person who owes
	FromName   string
	ToUserID   string // Person who is owed
	ToName     string
	Amount     money.Cents
}

// Order selects how debtors and creditors are queued before matching.
type Order string

const (
	// OrderInsertion pairs parties in the order they were supplied.
	OrderInsertion Order = "insertion"
	// OrderLargestFirst queues the largest magnitudes first. Ties keep input order.
	OrderLargestFirst Order = "magnitude"
)

// ComputeSettlements returns transfers that settle the given balances,
// pairing the head debtor with the head creditor in input order.
//
// Balances within one cent of zero are ignored. The input slice is never
// modified, so repeated calls with the same input return the same plan.
func ComputeSettlements(balances []Balance) []Transfer {
	return ComputeSettlementsOrdered(balances, OrderInsertion)
}

// ComputeSettlementsOrdered is ComputeSettlements with an explicit queue order.
// Unknown orders fall back to OrderInsertion.
func ComputeSettlementsOrdered(balances []Balance, order Order) []Transfer {
	// Create lists of creditors (owed money) and debtors (owe money).
	// Appending copies the values, so the loop below only touches local state.
	var creditors, debtors []Balance
	for _, b := range balances {
		switch {
		case b.Amount > settledThreshold:
			creditors = append(creditors, b)
		case b.Amount < -settledThreshold:
			debtors = append(debtors, b)
		}
	}

	if order == OrderLargestFirst {
		sort.SliceStable(creditors, func(a, b int) bool {
			return creditors[a].Amount > creditors[b].Amount
		})
		sort.SliceStable(debtors, func(a, b int) bool {
			return debtors[a].Amount < debtors[b].Amount
		})
	}

	transfers := make([]Transfer, 0, max(len(creditors)+len(debtors)-1, 0))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := min(debtor.Amount.Abs(), creditor.Amount)

		transfers = append(transfers, Transfer{
			FromUserID: debtor.UserID,
			FromName:   debtor.Name,
			ToUserID:   creditor.UserID,
			ToName:     creditor.Name,
			Amount:     amount,
		})

		debtor.Amount += amount
		creditor.Amount -= amount

		if debtor.Amount.Abs() < settledThreshold {
			i++
		}
		if creditor.Amount < settledThreshold {
			j++
		}
	}

	return transfers
}

// Imbalance returns the sum of all balances. A consistent ledger yields zero.
func Imbalance(balances []Balance) money.Cents {
	var sum money.Cents
	for _, b := range balances {
		sum += b.Amount
	}
	return sum
}

// ApplyTransfers returns a copy of balances with every transfer applied.
func ApplyTransfers(balances []Balance, transfers []Transfer) []Balance {
	out := make([]Balance, len(balances))
	copy(out, balances)

	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.UserID] = i
	}
	for _, t := range transfers {
		if i, ok := index[t.FromUserID]; ok {
			out[i].Amount += t.Amount
		}
		if j, ok := index[t.ToUserID]; ok {
			out[j].Amount -= t.Amount
		}
	}
	return out
}
