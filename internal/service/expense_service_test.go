package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/costcircle/internal/calculator"
	"github.com/mmynk/costcircle/pkg/api"
)

func TestCalculateSplit_Equal(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	_, token := env.user(t, "alice@example.com", "Alice")

	resp, err := env.expenses.CalculateSplit(context.Background(), authed(token, &api.CalculateSplitRequest{
		Amount:       dec("100"),
		SplitType:    "EQUAL",
		Participants: []*api.SplitParticipant{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}},
	}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Shares, 3)
	assertAmount(t, "33.34", resp.Msg.Shares[0].Amount)
	assertAmount(t, "33.33", resp.Msg.Shares[1].Amount)
	assertAmount(t, "33.33", resp.Msg.Shares[2].Amount)
}

func TestCalculateSplit_Percentage(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	_, token := env.user(t, "alice@example.com", "Alice")

	resp, err := env.expenses.CalculateSplit(context.Background(), authed(token, &api.CalculateSplitRequest{
		Amount:    dec("200"),
		SplitType: "percentage",
		Participants: []*api.SplitParticipant{
			{UserID: "a", Percentage: dec("50")},
			{UserID: "b", Percentage: dec("49.95")},
		},
	}))
	require.NoError(t, err)
	assertAmount(t, "100.10", resp.Msg.Shares[0].Amount)
	assertAmount(t, "99.90", resp.Msg.Shares[1].Amount)
}

func TestCalculateSplit_Rejections(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	_, token := env.user(t, "alice@example.com", "Alice")
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *api.CalculateSplitRequest
		kind    calculator.ErrorKind
		message string
	}{
		{
			name: "exact sum mismatch",
			req: &api.CalculateSplitRequest{
				Amount:    dec("50"),
				SplitType: "EXACT",
				Participants: []*api.SplitParticipant{
					{UserID: "a", Amount: dec("4")},
					{UserID: "b", Amount: dec("6")},
				},
			},
			kind:    calculator.KindSplitSumMismatch,
			message: "SPLIT_SUM_MISMATCH: split amounts sum to 10.00, expense total is 50.00",
		},
		{
			name: "percentages off",
			req: &api.CalculateSplitRequest{
				Amount:    dec("10"),
				SplitType: "PERCENTAGE",
				Participants: []*api.SplitParticipant{
					{UserID: "a", Percentage: dec("50")},
					{UserID: "b", Percentage: dec("40")},
				},
			},
			kind: calculator.KindPercentageSumMismatch,
		},
		{
			name: "no participants",
			req:  &api.CalculateSplitRequest{Amount: dec("10"), SplitType: "EQUAL"},
			kind: calculator.KindNoParticipants,
		},
		{
			name: "unknown split type",
			req: &api.CalculateSplitRequest{
				Amount:       dec("10"),
				SplitType:    "SHARES",
				Participants: []*api.SplitParticipant{{UserID: "a"}},
			},
			kind: calculator.KindUnknownSplitType,
		},
		{
			name: "duplicate participant",
			req: &api.CalculateSplitRequest{
				Amount:       dec("10"),
				SplitType:    "EQUAL",
				Participants: []*api.SplitParticipant{{UserID: "a"}, {UserID: "a"}},
			},
			kind: calculator.KindDuplicateParticipant,
		},
		{
			name: "negative total",
			req: &api.CalculateSplitRequest{
				Amount:       dec("-5"),
				SplitType:    "EQUAL",
				Participants: []*api.SplitParticipant{{UserID: "a"}},
			},
			kind: calculator.KindNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.expenses.CalculateSplit(ctx, authed(token, tt.req))
			assertCode(t, connect.CodeInvalidArgument, err)
			assert.Contains(t, errorMessage(err), string(tt.kind))
			if tt.message != "" {
				assert.Equal(t, tt.message, errorMessage(err))
			}
			assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.SplitRejections.WithLabelValues(string(tt.kind))))
		})
	}
}

func TestCalculateSplit_SubCentAmount(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	_, token := env.user(t, "alice@example.com", "Alice")

	_, err := env.expenses.CalculateSplit(context.Background(), authed(token, &api.CalculateSplitRequest{
		Amount:       dec("10.005"),
		SplitType:    "EQUAL",
		Participants: []*api.SplitParticipant{{UserID: "a"}},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestExpenseLifecycle(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	ctx := context.Background()
	alice, aliceToken := env.user(t, "alice@example.com", "Alice")
	bob, bobToken := env.user(t, "bob@example.com", "Bob")
	groupID := env.group(t, aliceToken, "Flat", bob)

	created, err := env.expenses.CreateExpense(ctx, authed(aliceToken, &api.CreateExpenseRequest{
		GroupID:     groupID,
		PaidBy:      bob.ID,
		Description: " Groceries ",
		Amount:      dec("0.05"),
		SplitType:   "EQUAL",
		Participants: []*api.SplitParticipant{
			{UserID: alice.ID}, {UserID: bob.ID},
		},
	}))
	require.NoError(t, err)
	expense := created.Msg.Expense
	require.NotNil(t, expense)
	assert.NotEmpty(t, expense.ID)
	assert.Equal(t, "Groceries", expense.Description)
	assert.Equal(t, alice.ID, expense.CreatedBy)
	require.Len(t, expense.Shares, 2)
	assertAmount(t, "0.03", expense.Shares[0].Amount)
	assertAmount(t, "0.02", expense.Shares[1].Amount)

	got, err := env.expenses.GetExpense(ctx, authed(bobToken, &api.GetExpenseRequest{ExpenseID: expense.ID}))
	require.NoError(t, err)
	assertAmount(t, "0.05", got.Msg.Expense.Amount)
	assert.Equal(t, "EQUAL", got.Msg.Expense.SplitType)

	list, err := env.expenses.ListExpenses(ctx, authed(bobToken, &api.ListExpensesRequest{GroupID: groupID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 1)

	_, err = env.expenses.DeleteExpense(ctx, authed(bobToken, &api.DeleteExpenseRequest{ExpenseID: expense.ID}))
	require.NoError(t, err)

	_, err = env.expenses.GetExpense(ctx, authed(bobToken, &api.GetExpenseRequest{ExpenseID: expense.ID}))
	assertCode(t, connect.CodeNotFound, err)
}

func TestCreateExpense_Rejections(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	ctx := context.Background()
	alice, aliceToken := env.user(t, "alice@example.com", "Alice")
	outsider, outsiderToken := env.user(t, "out@example.com", "Outsider")
	groupID := env.group(t, aliceToken, "Flat")

	t.Run("participant outside group", func(t *testing.T) {
		_, err := env.expenses.CreateExpense(ctx, authed(aliceToken, &api.CreateExpenseRequest{
			GroupID:      groupID,
			PaidBy:       alice.ID,
			Amount:       dec("10"),
			SplitType:    "EQUAL",
			Participants: []*api.SplitParticipant{{UserID: alice.ID}, {UserID: outsider.ID}},
		}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("caller outside group", func(t *testing.T) {
		_, err := env.expenses.CreateExpense(ctx, authed(outsiderToken, &api.CreateExpenseRequest{
			GroupID:      groupID,
			PaidBy:       alice.ID,
			Amount:       dec("10"),
			SplitType:    "EQUAL",
			Participants: []*api.SplitParticipant{{UserID: alice.ID}},
		}))
		assertCode(t, connect.CodePermissionDenied, err)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := env.expenses.CreateExpense(ctx, authed(aliceToken, &api.CreateExpenseRequest{
			GroupID:      groupID,
			PaidBy:       alice.ID,
			Amount:       dec("0"),
			SplitType:    "EQUAL",
			Participants: []*api.SplitParticipant{{UserID: alice.ID}},
		}))
		assertCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("nothing persisted", func(t *testing.T) {
		list, err := env.expenses.ListExpenses(ctx, authed(aliceToken, &api.ListExpensesRequest{GroupID: groupID}))
		require.NoError(t, err)
		assert.Empty(t, list.Msg.Expenses)
	})

	t.Run("outsider cannot read expenses", func(t *testing.T) {
		_, err := env.expenses.ListExpenses(ctx, authed(outsiderToken, &api.ListExpensesRequest{GroupID: groupID}))
		assertCode(t, connect.CodePermissionDenied, err)
	})
}

func TestCalculateSplit_IgnoresUnusedAmounts(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	_, token := env.user(t, "alice@example.com", "Alice")
	ctx := context.Background()

	resp, err := env.expenses.CalculateSplit(ctx, authed(token, &api.CalculateSplitRequest{
		Amount:    dec("10"),
		SplitType: "EQUAL",
		Participants: []*api.SplitParticipant{
			{UserID: "a", Amount: dec("0.001")},
			{UserID: "b"},
		},
	}))
	require.NoError(t, err)
	assertAmount(t, "5.00", resp.Msg.Shares[0].Amount)

	resp, err = env.expenses.CalculateSplit(ctx, authed(token, &api.CalculateSplitRequest{
		Amount:    dec("10"),
		SplitType: "PERCENTAGE",
		Participants: []*api.SplitParticipant{
			{UserID: "a", Percentage: dec("60"), Amount: dec("1.234")},
			{UserID: "b", Percentage: dec("40")},
		},
	}))
	require.NoError(t, err)
	assertAmount(t, "6.00", resp.Msg.Shares[0].Amount)

	_, err = env.expenses.CalculateSplit(ctx, authed(token, &api.CalculateSplitRequest{
		Amount:       dec("10"),
		SplitType:    "EXACT",
		Participants: []*api.SplitParticipant{{UserID: "a", Amount: dec("10.001")}},
	}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestCreateExpense_HugeExactAmountsRejected(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	ctx := context.Background()
	alice, aliceToken := env.user(t, "alice@example.com", "Alice")
	bob, _ := env.user(t, "bob@example.com", "Bob")
	groupID := env.group(t, aliceToken, "Flat", bob)

	tests := []struct {
		name         string
		amount       string
		participants []*api.SplitParticipant
	}{
		{
			name:   "shares that wrap around int64",
			amount: "0.01",
			participants: []*api.SplitParticipant{
				{UserID: alice.ID, Amount: dec("92233720368547758.07")},
				{UserID: bob.ID, Amount: dec("92233720368547758.07")},
			},
		},
		{
			name:   "share above total",
			amount: "0.01",
			participants: []*api.SplitParticipant{
				{UserID: alice.ID, Amount: dec("1000000")},
				{UserID: bob.ID, Amount: dec("0")},
			},
		},
		{
			name:         "total above max amount",
			amount:       "100000000000.01",
			participants: []*api.SplitParticipant{{UserID: alice.ID, Amount: dec("100000000000.01")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.expenses.CreateExpense(ctx, authed(aliceToken, &api.CreateExpenseRequest{
				GroupID:      groupID,
				PaidBy:       alice.ID,
				Amount:       dec(tt.amount),
				SplitType:    "EXACT",
				Participants: tt.participants,
			}))
			assertCode(t, connect.CodeInvalidArgument, err)
		})
	}

	summary, err := env.groups.GetFinancialSummary(ctx, authed(aliceToken, &api.GetFinancialSummaryRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Empty(t, summary.Msg.Settlements)
	for _, b := range summary.Msg.Balances {
		assertAmount(t, "0.00", b.Balance, b.Name)
	}
}
