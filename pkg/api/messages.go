package api

import "github.com/shopspring/decimal"

// User is a registered account as exposed to clients.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at,omitempty"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required,max=100"`
	Password    string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

// CheckUserRequest asks whether an account exists before inviting it to a group.
type CheckUserRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CheckUserResponse struct {
	Exists bool `json:"exists"`
}

// Group is a shared-expense circle.
type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at"`
}

// Member is a user inside a group.
type Member struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	JoinedAt    int64  `json:"joined_at"`
}

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetGroupResponse struct {
	Group   *Group    `json:"group"`
	Members []*Member `json:"members"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type ListMembersRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

// MemberBalance is one member's position in a group.
// Balance is positive when the member is owed money.
type MemberBalance struct {
	UserID           string          `json:"user_id"`
	Name             string          `json:"name"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	TotalOwed        decimal.Decimal `json:"total_owed"`
	PaymentsSent     decimal.Decimal `json:"payments_sent"`
	PaymentsReceived decimal.Decimal `json:"payments_received"`
	Balance          decimal.Decimal `json:"balance"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetGroupBalancesResponse struct {
	Balances []*MemberBalance `json:"balances"`
}

// Transfer is a suggested payment that moves the group toward settled.
type Transfer struct {
	FromUserID string          `json:"from_user_id"`
	FromName   string          `json:"from_name"`
	ToUserID   string          `json:"to_user_id"`
	ToName     string          `json:"to_name"`
	Amount     decimal.Decimal `json:"amount"`
}

type GetFinancialSummaryRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetFinancialSummaryResponse struct {
	GroupID     string           `json:"group_id"`
	Balances    []*MemberBalance `json:"balances"`
	Settlements []*Transfer      `json:"settlements"`
	// Imbalance is the sum of all balances; non-zero means the ledger is inconsistent.
	Imbalance decimal.Decimal `json:"imbalance"`
}

// SplitParticipant is one person in an expense split request.
// Amount is used by EXACT splits, Percentage by PERCENTAGE splits.
type SplitParticipant struct {
	UserID     string          `json:"user_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Share is one participant's portion of an expense.
type Share struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

type CalculateSplitRequest struct {
	Amount       decimal.Decimal     `json:"amount"`
	SplitType    string              `json:"split_type"`
	Participants []*SplitParticipant `json:"participants" validate:"dive,required"`
}

type CalculateSplitResponse struct {
	Shares []*Share `json:"shares"`
}

// Expense is a recorded group expense with its computed shares.
type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PaidBy      string          `json:"paid_by"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	SplitType   string          `json:"split_type"`
	Shares      []*Share        `json:"shares"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   int64           `json:"created_at"`
}

type CreateExpenseRequest struct {
	GroupID      string              `json:"group_id" validate:"required"`
	PaidBy       string              `json:"paid_by" validate:"required"`
	Description  string              `json:"description" validate:"max=200"`
	Amount       decimal.Decimal     `json:"amount"`
	SplitType    string              `json:"split_type"`
	Participants []*SplitParticipant `json:"participants" validate:"dive,required"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id" validate:"required"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id" validate:"required"`
}

type DeleteExpenseResponse struct{}

// Payment is a recorded settle-up between two members.
type Payment struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	PayerID    string          `json:"payer_id"`
	ReceiverID string          `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

type SettleUpRequest struct {
	GroupID    string          `json:"group_id" validate:"required"`
	ReceiverID string          `json:"receiver_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note" validate:"max=200"`
}

type SettleUpResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}
