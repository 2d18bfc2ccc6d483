package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/costcircle/internal/calculator"
	"github.com/mmynk/costcircle/internal/metrics"
	"github.com/mmynk/costcircle/internal/models"
	"github.com/mmynk/costcircle/internal/money"
	"github.com/mmynk/costcircle/internal/storage"
	"github.com/mmynk/costcircle/pkg/api"
	"github.com/mmynk/costcircle/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{store: store, metrics: m}
}

// CalculateSplit previews how an amount would be divided. Nothing is stored.
func (s *ExpenseService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	slog.Info("CalculateSplit request received",
		"amount", req.Msg.Amount.String(),
		"split_type", req.Msg.SplitType,
		"participants_count", len(req.Msg.Participants),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	_, shares, err := s.computeShares(req.Msg.Amount, req.Msg.SplitType, req.Msg.Participants)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.CalculateSplitResponse{Shares: sharesToAPI(shares)}), nil
}

// CreateExpense splits the amount and records the expense with its shares.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateExpense request received",
		"group_id", req.Msg.GroupID,
		"paid_by", req.Msg.PaidBy,
		"amount", req.Msg.Amount.String(),
		"split_type", req.Msg.SplitType,
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}
	if req.Msg.Amount.IsZero() {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("amount must be greater than zero"))
	}

	total, shares, err := s.computeShares(req.Msg.Amount, req.Msg.SplitType, req.Msg.Participants)
	if err != nil {
		return nil, err
	}

	// The payer and everyone sharing the cost must already be in the group.
	involved := make([]string, 0, len(shares)+1)
	involved = append(involved, req.Msg.PaidBy)
	for _, sh := range shares {
		involved = append(involved, sh.UserID)
	}
	if err := s.requireAllMembers(ctx, req.Msg.GroupID, involved); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     req.Msg.GroupID,
		PaidBy:      req.Msg.PaidBy,
		Description: strings.TrimSpace(req.Msg.Description),
		Amount:      total,
		SplitType:   strings.ToUpper(req.Msg.SplitType),
		Splits:      make([]models.ExpenseSplit, len(shares)),
		CreatedBy:   userID,
	}
	for i, sh := range shares {
		expense.Splits[i] = models.ExpenseSplit{UserID: sh.UserID, Amount: sh.Amount}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID, "amount", expense.Amount.String())
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// GetExpense returns one expense with its shares.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}

	expense, err := s.memberExpense(ctx, req.Msg.ExpenseID, userID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses returns the group's expenses, oldest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense and its shares.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if _, err := s.memberExpense(ctx, req.Msg.ExpenseID, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// computeShares converts the wire participants and runs the split calculator.
// Participant amounts are only read for EXACT splits. Rejections are counted by kind.
func (s *ExpenseService) computeShares(amount decimal.Decimal, splitType string, participants []*api.SplitParticipant) (money.Cents, []calculator.Share, error) {
	total, err := toCents("amount", amount)
	if err != nil {
		return 0, nil, err
	}

	kind := calculator.SplitType(strings.ToUpper(splitType))
	calcParticipants := make([]calculator.SplitParticipant, len(participants))
	for i, p := range participants {
		calcParticipants[i] = calculator.SplitParticipant{UserID: p.UserID, Percentage: p.Percentage}
		if kind == calculator.SplitExact {
			cents, err := toCents("participants["+p.UserID+"].amount", p.Amount)
			if err != nil {
				return 0, nil, err
			}
			calcParticipants[i].Amount = cents
		}
	}

	shares, err := calculator.ComputeSplits(total, kind, calcParticipants)
	if err != nil {
		var verr *calculator.ValidationError
		if errors.As(err, &verr) {
			s.metrics.SplitRejections.WithLabelValues(string(verr.Kind)).Inc()
		}
		slog.Warn("Split rejected", "split_type", splitType, "error", err)
		return 0, nil, splitError(err)
	}
	return total, shares, nil
}

// memberExpense loads an expense the caller is allowed to see.
func (s *ExpenseService) memberExpense(ctx context.Context, expenseID, userID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		slog.Warn("GetExpense failed", "expense_id", expenseID, "error", err)
		return nil, storageError(err)
	}
	if _, err := requireMember(ctx, s.store, expense.GroupID, userID); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) requireAllMembers(ctx context.Context, groupID string, userIDs []string) error {
	members, err := s.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return storageError(err)
	}
	inGroup := make(map[string]bool, len(members))
	for _, m := range members {
		inGroup[m.UserID] = true
	}
	for _, id := range userIDs {
		if !inGroup[id] {
			return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user %s is not a member of group %s", id, groupID))
		}
	}
	return nil
}
