// Package service implements the Connect handlers for CostCircle.
//
// Handlers validate the request, check that the caller belongs to the group
// being touched, convert decimal wire amounts to money.Cents, and delegate
// the arithmetic to the calculator package.
package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/costcircle/internal/calculator"
	"github.com/mmynk/costcircle/internal/middleware"
	"github.com/mmynk/costcircle/internal/models"
	"github.com/mmynk/costcircle/internal/money"
	"github.com/mmynk/costcircle/internal/storage"
	"github.com/mmynk/costcircle/pkg/api"
)

var (
	errNotMember = errors.New("caller is not a member of this group")

	validate = validator.New()
)

// validateRequest checks the struct tags on msg.
func validateRequest(msg any) error {
	if err := validate.Struct(msg); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}

// callerID returns the authenticated user, or Unauthenticated.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	return userID, nil
}

// requireMember fails with NotFound for unknown groups and PermissionDenied
// when userID is not in the group.
func requireMember(ctx context.Context, groups storage.GroupStore, groupID, userID string) (*models.Group, error) {
	group, err := groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storageError(err)
	}
	ok, err := groups.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, connect.NewError(connect.CodePermissionDenied, errNotMember)
	}
	return group, nil
}

// storageError maps store sentinels to Connect codes.
func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// toCents converts a wire amount, rejecting sub-cent precision.
func toCents(field string, d decimal.Decimal) (money.Cents, error) {
	c, err := money.FromDecimal(d)
	if err != nil {
		return 0, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s: %w", field, err))
	}
	return c, nil
}

// splitError converts a calculator validation failure to InvalidArgument.
func splitError(err error) error {
	var verr *calculator.ValidationError
	if errors.As(err, &verr) {
		return connect.NewError(connect.CodeInvalidArgument, verr)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func groupToAPI(g *models.Group) *api.Group {
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}

func memberToAPI(m *models.Member) *api.Member {
	return &api.Member{
		UserID:      m.UserID,
		DisplayName: m.DisplayName,
		Email:       m.Email,
		JoinedAt:    m.JoinedAt,
	}
}

func sharesToAPI(shares []calculator.Share) []*api.Share {
	out := make([]*api.Share, len(shares))
	for i, s := range shares {
		out[i] = &api.Share{UserID: s.UserID, Amount: s.Amount.Decimal()}
	}
	return out
}

func expenseToAPI(e *models.Expense) *api.Expense {
	shares := make([]*api.Share, len(e.Splits))
	for i, s := range e.Splits {
		shares[i] = &api.Share{UserID: s.UserID, Amount: s.Amount.Decimal()}
	}
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PaidBy:      e.PaidBy,
		Description: e.Description,
		Amount:      e.Amount.Decimal(),
		SplitType:   e.SplitType,
		Shares:      shares,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func paymentToAPI(p *models.Payment) *api.Payment {
	return &api.Payment{
		ID:         p.ID,
		GroupID:    p.GroupID,
		PayerID:    p.PayerID,
		ReceiverID: p.ReceiverID,
		Amount:     p.Amount.Decimal(),
		Note:       p.Note,
		CreatedAt:  p.CreatedAt,
	}
}

func memberBalanceToAPI(b calculator.MemberBalance) *api.MemberBalance {
	return &api.MemberBalance{
		UserID:           b.UserID,
		Name:             b.Name,
		TotalPaid:        b.TotalPaid.Decimal(),
		TotalOwed:        b.TotalOwed.Decimal(),
		PaymentsSent:     b.PaymentsSent.Decimal(),
		PaymentsReceived: b.PaymentsReceived.Decimal(),
		Balance:          b.Net.Decimal(),
	}
}

func transferToAPI(t calculator.Transfer) *api.Transfer {
	return &api.Transfer{
		FromUserID: t.FromUserID,
		FromName:   t.FromName,
		ToUserID:   t.ToUserID,
		ToName:     t.ToName,
		Amount:     t.Amount.Decimal(),
	}
}
