// Package calculator holds the pure money math: expense splits, member
// balances and the settlement plan. Nothing here performs I/O.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/costcircle/internal/money"
)

// SplitType is the policy used to divide an expense.
type SplitType string

const (
	SplitEqual      SplitType = "EQUAL"
	SplitExact      SplitType = "EXACT"
	SplitPercentage SplitType = "PERCENTAGE"
)

// Valid reports whether t is a supported split policy.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitExact, SplitPercentage:
		return true
	}
	return false
}

var (
	hundred             = decimal.NewFromInt(100)
	percentageTolerance = decimal.New(1, -1) // 0.1
)

// exactTolerance is how far EXACT amounts may drift from the total.
const exactTolerance money.Cents = 1

// SplitParticipant is one person taking part in an expense.
// Amount is read for EXACT splits, Percentage for PERCENTAGE splits.
type SplitParticipant struct {
	UserID     string
	Amount     money.Cents
	Percentage decimal.Decimal
}

// Share is the amount one participant owes for an expense.
type Share struct {
	UserID string
	Amount money.Cents
}

// ComputeSplits divides total among participants according to splitType.
// Shares are returned in participant order and always sum to total exactly.
//
// Rounding remainders go to the first participant(s) in list order:
// EQUAL hands out leftover cents one each from the front of the list, while
// EXACT and PERCENTAGE add the whole residual to the first participant.
func ComputeSplits(total money.Cents, splitType SplitType, participants []SplitParticipant) ([]Share, error) {
	if len(participants) == 0 {
		return nil, newValidationError(KindNoParticipants, "must have at least one participant")
	}
	if total < 0 {
		return nil, newValidationError(KindNegativeAmount, "total %s is negative", total)
	}
	if total > money.MaxAmount {
		return nil, newValidationError(KindAmountOutOfRange, "total %s exceeds %s", total, money.MaxAmount)
	}

	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if seen[p.UserID] {
			return nil, newValidationError(KindDuplicateParticipant, "participant %s listed twice", p.UserID)
		}
		seen[p.UserID] = true
	}

	switch splitType {
	case SplitEqual:
		return splitEqual(total, participants), nil
	case SplitExact:
		return splitExact(total, participants)
	case SplitPercentage:
		return splitPercentage(total, participants)
	default:
		return nil, newValidationError(KindUnknownSplitType, "unknown split type %q", splitType)
	}
}

func splitEqual(total money.Cents, participants []SplitParticipant) []Share {
	n := money.Cents(len(participants))
	base := total / n
	remainder := total - base*n

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := base
		if money.Cents(i) < remainder {
			amount++
		}
		shares[i] = Share{UserID: p.UserID, Amount: amount}
	}
	return shares
}

func splitExact(total money.Cents, participants []SplitParticipant) ([]Share, error) {
	shares := make([]Share, len(participants))
	var sum money.Cents
	for i, p := range participants {
		if p.Amount < 0 {
			return nil, newValidationError(KindNegativeAmount, "amount for %s is negative", p.UserID)
		}
		// sum never exceeds total+tolerance, so the addition cannot overflow.
		if p.Amount-exactTolerance > total-sum {
			return nil, newValidationError(KindSplitSumMismatch,
				"split amounts exceed expense total %s", total)
		}
		shares[i] = Share{UserID: p.UserID, Amount: p.Amount}
		sum += p.Amount
	}

	diff := total - sum
	if diff.Abs() > exactTolerance {
		return nil, newValidationError(KindSplitSumMismatch,
			"split amounts sum to %s, expense total is %s", sum, total)
	}
	return absorbRemainder(shares, diff)
}

func splitPercentage(total money.Cents, participants []SplitParticipant) ([]Share, error) {
	sumPct := decimal.Zero
	for _, p := range participants {
		if p.Percentage.IsNegative() {
			return nil, newValidationError(KindNegativeAmount, "percentage for %s is negative", p.UserID)
		}
		sumPct = sumPct.Add(p.Percentage)
	}
	if sumPct.Sub(hundred).Abs().GreaterThan(percentageTolerance) {
		return nil, newValidationError(KindPercentageSumMismatch,
			"percentages sum to %s, must be 100", sumPct.String())
	}

	totalDec := decimal.NewFromInt(int64(total))
	shares := make([]Share, len(participants))
	var sum money.Cents
	for i, p := range participants {
		amount := money.Cents(totalDec.Mul(p.Percentage).Div(hundred).Round(0).IntPart())
		shares[i] = Share{UserID: p.UserID, Amount: amount}
		sum += amount
	}
	return absorbRemainder(shares, total-sum)
}

// absorbRemainder adds diff to the first share.
func absorbRemainder(shares []Share, diff money.Cents) ([]Share, error) {
	if diff == 0 {
		return shares, nil
	}
	shares[0].Amount += diff
	if shares[0].Amount < 0 {
		return nil, newValidationError(KindNegativeShare,
			"rounding remainder leaves %s with a negative share", shares[0].UserID)
	}
	return shares, nil
}
