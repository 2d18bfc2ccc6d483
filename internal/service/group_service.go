package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/costcircle/internal/calculator"
	"github.com/mmynk/costcircle/internal/metrics"
	"github.com/mmynk/costcircle/internal/models"
	"github.com/mmynk/costcircle/internal/storage"
	"github.com/mmynk/costcircle/pkg/api"
	"github.com/mmynk/costcircle/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store   storage.Store
	metrics *metrics.Metrics
	order   calculator.Order
}

// NewGroupService creates a GroupService. order controls how the settlement
// planner queues debtors and creditors.
func NewGroupService(store storage.Store, m *metrics.Metrics, order calculator.Order) *GroupService {
	return &GroupService{store: store, metrics: m, order: order}
}

// CreateGroup creates a group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group := &models.Group{Name: req.Msg.Name, CreatedBy: userID}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, storageError(err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups returns the caller's groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		slog.Error("ListGroups failed", "user_id", userID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Group, len(groups))
	for i, g := range groups {
		out[i] = groupToAPI(g)
	}

	slog.Info("ListGroups successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// GetGroup returns a group with its members.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	group, err := requireMember(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		slog.Warn("GetGroup rejected", "group_id", req.Msg.GroupID, "error", err)
		return nil, err
	}

	members, err := s.listMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group), Members: members}), nil
}

// AddMember adds a registered user, looked up by email, to the group.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "email", req.Msg.Email)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Msg.Email)
	if err != nil {
		slog.Warn("AddMember: user lookup failed", "email", req.Msg.Email, "error", err)
		return nil, storageError(err)
	}

	if err := s.store.AddGroupMember(ctx, req.Msg.GroupID, user.ID); err != nil {
		slog.Warn("AddMember failed", "group_id", req.Msg.GroupID, "user_id", user.ID, "error", err)
		return nil, storageError(err)
	}

	members, err := s.listMembers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.UserID == user.ID {
			slog.Info("Member added", "group_id", req.Msg.GroupID, "user_id", user.ID)
			return connect.NewResponse(&api.AddMemberResponse{Member: m}), nil
		}
	}
	return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("member %s missing after insert", user.ID))
}

// ListMembers returns the group's members in join order.
func (s *GroupService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	members, err := s.listMembers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.ListMembersResponse{Members: members}), nil
}

// GetGroupBalances returns each member's paid, owed and net amounts.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	balances, err := groupBalances(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroupBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = memberBalanceToAPI(b)
	}
	return connect.NewResponse(&api.GetGroupBalancesResponse{Balances: out}), nil
}

// GetFinancialSummary returns member balances plus the transfers that would
// settle the group.
func (s *GroupService) GetFinancialSummary(ctx context.Context, req *connect.Request[api.GetFinancialSummaryRequest]) (*connect.Response[api.GetFinancialSummaryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetFinancialSummary request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	memberBalances, err := groupBalances(ctx, s.store, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetFinancialSummary failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	balances := calculator.Balances(memberBalances)
	imbalance := calculator.Imbalance(balances)
	if imbalance != 0 {
		// Settlements are still computed; the caller sees the residual.
		slog.Warn("Group balances do not sum to zero", "group_id", req.Msg.GroupID, "imbalance", imbalance.String())
		s.metrics.ImbalancedLedgers.Inc()
	}

	transfers := calculator.ComputeSettlementsOrdered(balances, s.order)
	s.metrics.SettlementTransfer.Observe(float64(len(transfers)))

	resp := &api.GetFinancialSummaryResponse{
		GroupID:     req.Msg.GroupID,
		Balances:    make([]*api.MemberBalance, len(memberBalances)),
		Settlements: make([]*api.Transfer, len(transfers)),
		Imbalance:   imbalance.Decimal(),
	}
	for i, b := range memberBalances {
		resp.Balances[i] = memberBalanceToAPI(b)
	}
	for i, t := range transfers {
		resp.Settlements[i] = transferToAPI(t)
	}

	slog.Info("GetFinancialSummary successful", "group_id", req.Msg.GroupID, "transfers", len(transfers))
	return connect.NewResponse(resp), nil
}

func (s *GroupService) listMembers(ctx context.Context, groupID string) ([]*api.Member, error) {
	members, err := s.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		slog.Error("ListGroupMembers failed", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}
	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = memberToAPI(m)
	}
	return out, nil
}

// groupBalances loads the group's ledger and derives member balances.
func groupBalances(ctx context.Context, store storage.Store, groupID string) ([]calculator.MemberBalance, error) {
	members, err := store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	expenses, err := store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	payments, err := store.ListPaymentsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	calcMembers := make([]calculator.Member, len(members))
	for i, m := range members {
		calcMembers[i] = calculator.Member{UserID: m.UserID, Name: m.DisplayName}
	}

	calcExpenses := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		shares := make([]calculator.Share, len(e.Splits))
		for j, sp := range e.Splits {
			shares[j] = calculator.Share{UserID: sp.UserID, Amount: sp.Amount}
		}
		calcExpenses[i] = calculator.ExpenseForBalance{PaidBy: e.PaidBy, Amount: e.Amount, Shares: shares}
	}

	calcPayments := make([]calculator.PaymentForBalance, len(payments))
	for i, p := range payments {
		calcPayments[i] = calculator.PaymentForBalance{FromUserID: p.PayerID, ToUserID: p.ReceiverID, Amount: p.Amount}
	}

	return calculator.CalculateBalances(calcMembers, calcExpenses, calcPayments), nil
}
