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

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	alice, token := env.user(t, "alice@example.com", "Alice")

	resp, err := env.groups.CreateGroup(context.Background(), authed(token, &api.CreateGroupRequest{Name: "Roommates"}))
	require.NoError(t, err)
	require.NotNil(t, resp.Msg.Group)
	assert.NotEmpty(t, resp.Msg.Group.ID)
	assert.Equal(t, "Roommates", resp.Msg.Group.Name)
	assert.Equal(t, alice.ID, resp.Msg.Group.CreatedBy)
	assert.NotZero(t, resp.Msg.Group.CreatedAt)

	got, err := env.groups.GetGroup(context.Background(), authed(token, &api.GetGroupRequest{GroupID: resp.Msg.Group.ID}))
	require.NoError(t, err)
	require.Len(t, got.Msg.Members, 1)
	assert.Equal(t, alice.ID, got.Msg.Members[0].UserID)
}

func TestCreateGroup_EmptyName(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	_, token := env.user(t, "alice@example.com", "Alice")

	_, err := env.groups.CreateGroup(context.Background(), authed(token, &api.CreateGroupRequest{}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestListGroups(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	ctx := context.Background()
	alice, aliceToken := env.user(t, "alice@example.com", "Alice")
	_, bobToken := env.user(t, "bob@example.com", "Bob")

	env.group(t, aliceToken, "Flat")
	env.group(t, bobToken, "Trip", alice)

	resp, err := env.groups.ListGroups(ctx, authed(aliceToken, &api.ListGroupsRequest{}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Groups, 2)
	assert.Equal(t, "Trip", resp.Msg.Groups[0].Name)
	assert.Equal(t, "Flat", resp.Msg.Groups[1].Name)

	resp, err = env.groups.ListGroups(ctx, authed(bobToken, &api.ListGroupsRequest{}))
	require.NoError(t, err)
	assert.Len(t, resp.Msg.Groups, 1)
}

func TestGetGroup_Access(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	ctx := context.Background()
	_, aliceToken := env.user(t, "alice@example.com", "Alice")
	_, malloryToken := env.user(t, "mallory@example.com", "Mallory")
	groupID := env.group(t, aliceToken, "Flat")

	_, err := env.groups.GetGroup(ctx, authed(malloryToken, &api.GetGroupRequest{GroupID: groupID}))
	assertCode(t, connect.CodePermissionDenied, err)

	_, err = env.groups.GetGroup(ctx, authed(aliceToken, &api.GetGroupRequest{GroupID: "nonexistent-id"}))
	assertCode(t, connect.CodeNotFound, err)

	_, err = env.groups.GetGroup(ctx, connect.NewRequest(&api.GetGroupRequest{GroupID: groupID}))
	assertCode(t, connect.CodeUnauthenticated, err)
}

func TestAddMember(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	ctx := context.Background()
	_, aliceToken := env.user(t, "alice@example.com", "Alice")
	bob, bobToken := env.user(t, "bob@example.com", "Bob")
	_, malloryToken := env.user(t, "mallory@example.com", "Mallory")
	groupID := env.group(t, aliceToken, "Flat")

	resp, err := env.groups.AddMember(ctx, authed(aliceToken, &api.AddMemberRequest{GroupID: groupID, Email: "BOB@example.com"}))
	require.NoError(t, err)
	assert.Equal(t, bob.ID, resp.Msg.Member.UserID)
	assert.Equal(t, "Bob", resp.Msg.Member.DisplayName)

	t.Run("new member can read the group", func(t *testing.T) {
		members, err := env.groups.ListMembers(ctx, authed(bobToken, &api.ListMembersRequest{GroupID: groupID}))
		require.NoError(t, err)
		require.Len(t, members.Msg.Members, 2)
		assert.Equal(t, "Alice", members.Msg.Members[0].DisplayName)
		assert.Equal(t, "Bob", members.Msg.Members[1].DisplayName)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := env.groups.AddMember(ctx, authed(aliceToken, &api.AddMemberRequest{GroupID: groupID, Email: "bob@example.com"}))
		assertCode(t, connect.CodeAlreadyExists, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.groups.AddMember(ctx, authed(aliceToken, &api.AddMemberRequest{GroupID: groupID, Email: "nobody@example.com"}))
		assertCode(t, connect.CodeNotFound, err)
	})

	t.Run("non-member cannot add", func(t *testing.T) {
		_, err := env.groups.AddMember(ctx, authed(malloryToken, &api.AddMemberRequest{GroupID: groupID, Email: "mallory@example.com"}))
		assertCode(t, connect.CodePermissionDenied, err)
	})
}

func TestGetFinancialSummary(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	ctx := context.Background()
	alice, aliceToken := env.user(t, "alice@example.com", "Alice")
	bob, bobToken := env.user(t, "bob@example.com", "Bob")
	carol, _ := env.user(t, "carol@example.com", "Carol")
	groupID := env.group(t, aliceToken, "Flat", bob, carol)

	_, err := env.expenses.CreateExpense(ctx, authed(aliceToken, &api.CreateExpenseRequest{
		GroupID:   groupID,
		PaidBy:    alice.ID,
		Amount:    dec("90"),
		SplitType: "EQUAL",
		Participants: []*api.SplitParticipant{
			{UserID: alice.ID}, {UserID: bob.ID}, {UserID: carol.ID},
		},
	}))
	require.NoError(t, err)

	summary, err := env.groups.GetFinancialSummary(ctx, authed(bobToken, &api.GetFinancialSummaryRequest{GroupID: groupID}))
	require.NoError(t, err)
	require.Len(t, summary.Msg.Balances, 3)
	assertAmount(t, "60.00", summary.Msg.Balances[0].Balance)
	assertAmount(t, "90.00", summary.Msg.Balances[0].TotalPaid)
	assertAmount(t, "30.00", summary.Msg.Balances[0].TotalOwed)
	assertAmount(t, "-30.00", summary.Msg.Balances[1].Balance)
	assertAmount(t, "-30.00", summary.Msg.Balances[2].Balance)
	assertAmount(t, "0.00", summary.Msg.Imbalance)

	require.Len(t, summary.Msg.Settlements, 2)
	assert.Equal(t, bob.ID, summary.Msg.Settlements[0].FromUserID)
	assert.Equal(t, "Alice", summary.Msg.Settlements[0].ToName)
	assertAmount(t, "30.00", summary.Msg.Settlements[0].Amount)
	assert.Equal(t, carol.ID, summary.Msg.Settlements[1].FromUserID)
	assertAmount(t, "30.00", summary.Msg.Settlements[1].Amount)

	balances, err := env.groups.GetGroupBalances(ctx, authed(aliceToken, &api.GetGroupBalancesRequest{GroupID: groupID}))
	require.NoError(t, err)
	require.Len(t, balances.Msg.Balances, 3)
	assert.Equal(t, "Carol", balances.Msg.Balances[2].Name)
}

func TestGetFinancialSummary_LargestFirst(t *testing.T) {
	env := setupTestServer(t, calculator.OrderLargestFirst)
	ctx := context.Background()
	alice, aliceToken := env.user(t, "alice@example.com", "Alice")
	bob, _ := env.user(t, "bob@example.com", "Bob")
	carol, _ := env.user(t, "carol@example.com", "Carol")
	groupID := env.group(t, aliceToken, "Flat", bob, carol)

	// Bob owes 10, Carol owes 50.
	_, err := env.expenses.CreateExpense(ctx, authed(aliceToken, &api.CreateExpenseRequest{
		GroupID:   groupID,
		PaidBy:    alice.ID,
		Amount:    dec("60"),
		SplitType: "EXACT",
		Participants: []*api.SplitParticipant{
			{UserID: bob.ID, Amount: dec("10")},
			{UserID: carol.ID, Amount: dec("50")},
		},
	}))
	require.NoError(t, err)

	summary, err := env.groups.GetFinancialSummary(ctx, authed(aliceToken, &api.GetFinancialSummaryRequest{GroupID: groupID}))
	require.NoError(t, err)
	require.Len(t, summary.Msg.Settlements, 2)
	assert.Equal(t, carol.ID, summary.Msg.Settlements[0].FromUserID)
	assertAmount(t, "50.00", summary.Msg.Settlements[0].Amount)
	assert.Equal(t, bob.ID, summary.Msg.Settlements[1].FromUserID)
}

func TestGetFinancialSummary_EmptyGroup(t *testing.T) {
	env := setupTestServer(t, calculator.OrderInsertion)
	_, token := env.user(t, "alice@example.com", "Alice")
	groupID := env.group(t, token, "Flat")

	summary, err := env.groups.GetFinancialSummary(context.Background(), authed(token, &api.GetFinancialSummaryRequest{GroupID: groupID}))
	require.NoError(t, err)
	assert.Empty(t, summary.Msg.Settlements)
	require.Len(t, summary.Msg.Balances, 1)
	assertAmount(t, "0.00", summary.Msg.Balances[0].Balance)
}
