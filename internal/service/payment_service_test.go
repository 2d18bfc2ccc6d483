package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/costcircle/internal/calculator"
	"github.com/mmynk/costcircle/pkg/api"
)

func TestSettleUp_ClearsDebt(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	ctx := context.Background()
	alice, aliceToken := env.user(t, "alice@example.com", "Alice")
	bob, bobToken := env.user(t, "bob@example.com", "Bob")
	groupID := env.group(t, aliceToken, "Flat", bob)

	_, err := env.expenses.CreateExpense(ctx, authed(aliceToken, &api.CreateExpenseRequest{
		GroupID:      groupID,
		PaidBy:       alice.ID,
		Amount:       dec("40"),
		SplitType:    "EQUAL",
		Participants: []*api.SplitParticipant{{UserID: alice.ID}, {UserID: bob.ID}},
	}))
	require.NoError(t, err)

	paid, err := env.payments.SettleUp(ctx, authed(bobToken, &api.SettleUpRequest{
		GroupID:    groupID,
		ReceiverID: alice.ID,
		Amount:     dec("20"),
		Note:       "rent",
	}))
	require.NoError(t, err)
	assert.Equal(t, bob.ID, paid.Msg.Payment.PayerID)
	assert.Equal(t, "rent", paid.Msg.Payment.Note)
	assertAmount(t, "20.00", paid.Msg.Payment.Amount)

	summary, err := env.groups.GetFinancialSummary(ctx, authed(aliceToken, &api.GetFinancialSummaryRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Empty(t, summary.Msg.Settlements)
	for _, b := range summary.Msg.Balances {
		assertAmount(t, "0.00", b.Balance, b.Name)
	}
	assertAmount(t, "20.00", summary.Msg.Balances[1].PaymentsSent)
	assertAmount(t, "20.00", summary.Msg.Balances[0].PaymentsReceived)

	list, err := env.payments.ListPayments(ctx, authed(aliceToken, &api.ListPaymentsRequest{GroupID: groupID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Payments, 1)
	assert.Equal(t, paid.Msg.Payment.ID, list.Msg.Payments[0].ID)
}

func TestSettleUp_Rejections(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	ctx := context.Background()
	alice, aliceToken := env.user(t, "alice@example.com", "Alice")
	bob, bobToken := env.user(t, "bob@example.com", "Bob")
	outsider, outsiderToken := env.user(t, "out@example.com", "Outsider")
	groupID := env.group(t, aliceToken, "Flat", bob)

	tests := []struct {
		name  string
		token string
		req   *api.SettleUpRequest
		code  connect.Code
	}{
		{
			name:  "pay yourself",
			token: bobToken,
			req:   &api.SettleUpRequest{GroupID: groupID, ReceiverID: bob.ID, Amount: dec("5")},
			code:  connect.CodeInvalidArgument,
		},
		{
			name:  "zero amount",
			token: bobToken,
			req:   &api.SettleUpRequest{GroupID: groupID, ReceiverID: alice.ID, Amount: dec("0")},
			code:  connect.CodeInvalidArgument,
		},
		{
			name:  "negative amount",
			token: bobToken,
			req:   &api.SettleUpRequest{GroupID: groupID, ReceiverID: alice.ID, Amount: dec("-5")},
			code:  connect.CodeInvalidArgument,
		},
		{
			name:  "receiver outside group",
			token: bobToken,
			req:   &api.SettleUpRequest{GroupID: groupID, ReceiverID: outsider.ID, Amount: dec("5")},
			code:  connect.CodeInvalidArgument,
		},
		{
			name:  "payer outside group",
			token: outsiderToken,
			req:   &api.SettleUpRequest{GroupID: groupID, ReceiverID: alice.ID, Amount: dec("5")},
			code:  connect.CodePermissionDenied,
		},
		{
			name:  "unknown group",
			token: bobToken,
			req:   &api.SettleUpRequest{GroupID: "nope", ReceiverID: alice.ID, Amount: dec("5")},
			code:  connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.payments.SettleUp(ctx, authed(tt.token, tt.req))
			assertCode(t, tt.code, err)
		})
	}

	list, err := env.payments.ListPayments(ctx, authed(aliceToken, &api.ListPaymentsRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Empty(t, list.Msg.Payments)
}
