package calculator

import "github.com/mmynk/costcircle/internal/money"

// Member identifies a group member for balance reporting.
type Member struct {
	UserID string
	Name   string
}

// ExpenseForBalance is an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	PaidBy string
	Amount money.Cents
	Shares []Share
}

// PaymentForBalance is a settle-up payment with the minimal information needed for balance calculations.
type PaymentForBalance struct {
	FromUserID string // Who paid (debtor settling up)
	ToUserID   string // Who received (creditor being paid)
	Amount     money.Cents
}

// MemberBalance is the balance information for one group member.
type MemberBalance struct {
	UserID           string
	Name             string
	TotalPaid        money.Cents // Expenses this member paid for
	TotalOwed        money.Cents // Sum of this member's expense shares
	PaymentsSent     money.Cents
	PaymentsReceived money.Cents
	Net              money.Cents // Positive = owed money, Negative = owes money
}

// Balance strips the breakdown, leaving the settlement input.
func (m MemberBalance) Balance() Balance {
	return Balance{UserID: m.UserID, Name: m.Name, Amount: m.Net}
}

// CalculateBalances aggregates expenses and settle-up payments into per-member balances.
//
//	net = paid - owed + payments sent - payments received
//
// Results follow members order. Users referenced by ledger rows who are not
// in members (e.g. removed later) are appended in first-seen order.
func CalculateBalances(members []Member, expenses []ExpenseForBalance, payments []PaymentForBalance) []MemberBalance {
	balances := make([]MemberBalance, 0, len(members))
	index := make(map[string]int, len(members))

	get := func(userID string) *MemberBalance {
		if i, ok := index[userID]; ok {
			return &balances[i]
		}
		index[userID] = len(balances)
		balances = append(balances, MemberBalance{UserID: userID, Name: userID})
		return &balances[len(balances)-1]
	}

	for _, m := range members {
		get(m.UserID).Name = m.Name
	}

	for _, e := range expenses {
		// Skip expenses without payer (can't attribute them)
		if e.PaidBy == "" {
			continue
		}
		get(e.PaidBy).TotalPaid += e.Amount
		for _, s := range e.Shares {
			get(s.UserID).TotalOwed += s.Amount
		}
	}

	for _, p := range payments {
		get(p.FromUserID).PaymentsSent += p.Amount
		get(p.ToUserID).PaymentsReceived += p.Amount
	}

	for i := range balances {
		b := &balances[i]
		b.Net = b.TotalPaid - b.TotalOwed + b.PaymentsSent - b.PaymentsReceived
	}

	return balances
}

// Balances converts member balances to settlement input.
func Balances(members []MemberBalance) []Balance {
	out := make([]Balance, len(members))
	for i, m := range members {
		out[i] = m.Balance()
	}
	return out
}
