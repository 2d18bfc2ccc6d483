package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/costcircle/internal/models"
	"github.com/mmynk/costcircle/internal/storage"
	"github.com/mmynk/costcircle/pkg/api"
	"github.com/mmynk/costcircle/pkg/api/apiconnect"
)

var _ apiconnect.PaymentServiceHandler = (*PaymentService)(nil)

// PaymentService records settle-up payments between members.
type PaymentService struct {
	store storage.Store
}

// NewPaymentService creates a new PaymentService with the given storage backend.
func NewPaymentService(store storage.Store) *PaymentService {
	return &PaymentService{store: store}
}

// SettleUp records that the caller paid the receiver.
func (s *PaymentService) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SettleUp request received",
		"group_id", req.Msg.GroupID,
		"payer_id", userID,
		"receiver_id", req.Msg.ReceiverID,
		"amount", req.Msg.Amount.String(),
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, err
	}
	if req.Msg.ReceiverID == userID {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("cannot settle up with yourself"))
	}

	amount, err := toCents("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("amount must be greater than zero"))
	}

	if _, err := requireMember(ctx, s.store, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}
	ok, err := s.store.IsGroupMember(ctx, req.Msg.GroupID, req.Msg.ReceiverID)
	if err != nil {
		return nil, storageError(err)
	}
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("receiver is not a member of this group"))
	}

	payment := &models.Payment{
		GroupID:    req.Msg.GroupID,
		PayerID:    userID,
		ReceiverID: req.Msg.ReceiverID,
		Amount:     amount,
		Note:       strings.TrimSpace(req.Msg.Note),
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("SettleUp failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Payment recorded", "payment_id", payment.ID, "group_id", payment.GroupID, "amount", payment.Amount.String())
	return connect.NewResponse(&api.SettleUpResponse{Payment: paymentToAPI(payment)}), nil
}

// ListPayments returns the group's payments, oldest first.
func (s *PaymentService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
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

	payments, err := s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListPayments failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.Payment, len(payments))
	for i, p := range payments {
		out[i] = paymentToAPI(p)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}
