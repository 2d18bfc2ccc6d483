// Package apiconnect wires the CostCircle services to Connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/costcircle/pkg/api"
)

const (
	AuthServiceName    = "costcircle.v1.AuthService"
	GroupServiceName   = "costcircle.v1.GroupService"
	ExpenseServiceName = "costcircle.v1.ExpenseService"
	PaymentServiceName = "costcircle.v1.PaymentService"
)

// Procedure paths, in the form "/<service>/<method>".
const (
	AuthServiceRegisterProcedure       = "/costcircle.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/costcircle.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/costcircle.v1.AuthService/GetCurrentUser"
	AuthServiceCheckUserProcedure      = "/costcircle.v1.AuthService/CheckUser"

	GroupServiceCreateGroupProcedure         = "/costcircle.v1.GroupService/CreateGroup"
	GroupServiceListGroupsProcedure          = "/costcircle.v1.GroupService/ListGroups"
	GroupServiceGetGroupProcedure            = "/costcircle.v1.GroupService/GetGroup"
	GroupServiceAddMemberProcedure           = "/costcircle.v1.GroupService/AddMember"
	GroupServiceListMembersProcedure         = "/costcircle.v1.GroupService/ListMembers"
	GroupServiceGetGroupBalancesProcedure    = "/costcircle.v1.GroupService/GetGroupBalances"
	GroupServiceGetFinancialSummaryProcedure = "/costcircle.v1.GroupService/GetFinancialSummary"

	ExpenseServiceCalculateSplitProcedure = "/costcircle.v1.ExpenseService/CalculateSplit"
	ExpenseServiceCreateExpenseProcedure  = "/costcircle.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure     = "/costcircle.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure   = "/costcircle.v1.ExpenseService/ListExpenses"
	ExpenseServiceDeleteExpenseProcedure  = "/costcircle.v1.ExpenseService/DeleteExpense"

	PaymentServiceSettleUpProcedure     = "/costcircle.v1.PaymentService/SettleUp"
	PaymentServiceListPaymentsProcedure = "/costcircle.v1.PaymentService/ListPayments"
)

// unary builds a JSON unary handler.
func unary[Req, Res any](
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) *connect.Handler {
	return connect.NewUnaryHandler(procedure, fn, append([]connect.HandlerOption{api.Codec()}, opts...)...)
}

// route serves the handlers under the service path prefix.
func route(serviceName string, handlers map[string]*connect.Handler) (string, http.Handler) {
	return "/" + serviceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// newClient builds a JSON unary client for procedure on baseURL.
func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](
		httpClient,
		strings.TrimRight(baseURL, "/")+procedure,
		append([]connect.ClientOption{api.Codec()}, opts...)...,
	)
}

// AuthServiceHandler is implemented by the account service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	CheckUser(context.Context, *connect.Request[api.CheckUserRequest]) (*connect.Response[api.CheckUserResponse], error)
}

// NewAuthServiceHandler returns the path prefix and handler for AuthService.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return route(AuthServiceName, map[string]*connect.Handler{
		AuthServiceRegisterProcedure:       unary(AuthServiceRegisterProcedure, svc.Register, opts),
		AuthServiceLoginProcedure:          unary(AuthServiceLoginProcedure, svc.Login, opts),
		AuthServiceGetCurrentUserProcedure: unary(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts),
		AuthServiceCheckUserProcedure:      unary(AuthServiceCheckUserProcedure, svc.CheckUser, opts),
	})
}

// AuthServiceClient calls AuthService.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
	CheckUser(context.Context, *connect.Request[api.CheckUserRequest]) (*connect.Response[api.CheckUserResponse], error)
}

// NewAuthServiceClient constructs a client for AuthService at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	return &authServiceClient{
		register:       newClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL, AuthServiceRegisterProcedure, opts),
		login:          newClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL, AuthServiceLoginProcedure, opts),
		getCurrentUser: newClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL, AuthServiceGetCurrentUserProcedure, opts),
		checkUser:      newClient[api.CheckUserRequest, api.CheckUserResponse](httpClient, baseURL, AuthServiceCheckUserProcedure, opts),
	}
}

type authServiceClient struct {
	register       *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
	checkUser      *connect.Client[api.CheckUserRequest, api.CheckUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

func (c *authServiceClient) CheckUser(ctx context.Context, req *connect.Request[api.CheckUserRequest]) (*connect.Response[api.CheckUserResponse], error) {
	return c.checkUser.CallUnary(ctx, req)
}

// GroupServiceHandler is implemented by the group service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetFinancialSummary(context.Context, *connect.Request[api.GetFinancialSummaryRequest]) (*connect.Response[api.GetFinancialSummaryResponse], error)
}

// NewGroupServiceHandler returns the path prefix and handler for GroupService.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return route(GroupServiceName, map[string]*connect.Handler{
		GroupServiceCreateGroupProcedure:         unary(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts),
		GroupServiceListGroupsProcedure:          unary(GroupServiceListGroupsProcedure, svc.ListGroups, opts),
		GroupServiceGetGroupProcedure:            unary(GroupServiceGetGroupProcedure, svc.GetGroup, opts),
		GroupServiceAddMemberProcedure:           unary(GroupServiceAddMemberProcedure, svc.AddMember, opts),
		GroupServiceListMembersProcedure:         unary(GroupServiceListMembersProcedure, svc.ListMembers, opts),
		GroupServiceGetGroupBalancesProcedure:    unary(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts),
		GroupServiceGetFinancialSummaryProcedure: unary(GroupServiceGetFinancialSummaryProcedure, svc.GetFinancialSummary, opts),
	})
}

// GroupServiceClient calls GroupService.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error)
	ListGroups(context.Context, *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error)
	GetGroup(context.Context, *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error)
	AddMember(context.Context, *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error)
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	GetGroupBalances(context.Context, *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error)
	GetFinancialSummary(context.Context, *connect.Request[api.GetFinancialSummaryRequest]) (*connect.Response[api.GetFinancialSummaryResponse], error)
}

// NewGroupServiceClient constructs a client for GroupService at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	return &groupServiceClient{
		createGroup:         newClient[api.CreateGroupRequest, api.CreateGroupResponse](httpClient, baseURL, GroupServiceCreateGroupProcedure, opts),
		listGroups:          newClient[api.ListGroupsRequest, api.ListGroupsResponse](httpClient, baseURL, GroupServiceListGroupsProcedure, opts),
		getGroup:            newClient[api.GetGroupRequest, api.GetGroupResponse](httpClient, baseURL, GroupServiceGetGroupProcedure, opts),
		addMember:           newClient[api.AddMemberRequest, api.AddMemberResponse](httpClient, baseURL, GroupServiceAddMemberProcedure, opts),
		listMembers:         newClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL, GroupServiceListMembersProcedure, opts),
		getGroupBalances:    newClient[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse](httpClient, baseURL, GroupServiceGetGroupBalancesProcedure, opts),
		getFinancialSummary: newClient[api.GetFinancialSummaryRequest, api.GetFinancialSummaryResponse](httpClient, baseURL, GroupServiceGetFinancialSummaryProcedure, opts),
	}
}

type groupServiceClient struct {
	createGroup         *connect.Client[api.CreateGroupRequest, api.CreateGroupResponse]
	listGroups          *connect.Client[api.ListGroupsRequest, api.ListGroupsResponse]
	getGroup            *connect.Client[api.GetGroupRequest, api.GetGroupResponse]
	addMember           *connect.Client[api.AddMemberRequest, api.AddMemberResponse]
	listMembers         *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	getGroupBalances    *connect.Client[api.GetGroupBalancesRequest, api.GetGroupBalancesResponse]
	getFinancialSummary *connect.Client[api.GetFinancialSummaryRequest, api.GetFinancialSummaryResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetFinancialSummary(ctx context.Context, req *connect.Request[api.GetFinancialSummaryRequest]) (*connect.Response[api.GetFinancialSummaryResponse], error) {
	return c.getFinancialSummary.CallUnary(ctx, req)
}

// ExpenseServiceHandler is implemented by the expense service.
type ExpenseServiceHandler interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
}

// NewExpenseServiceHandler returns the path prefix and handler for ExpenseService.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return route(ExpenseServiceName, map[string]*connect.Handler{
		ExpenseServiceCalculateSplitProcedure: unary(ExpenseServiceCalculateSplitProcedure, svc.CalculateSplit, opts),
		ExpenseServiceCreateExpenseProcedure:  unary(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts),
		ExpenseServiceGetExpenseProcedure:     unary(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts),
		ExpenseServiceListExpensesProcedure:   unary(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts),
		ExpenseServiceDeleteExpenseProcedure:  unary(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts),
	})
}

// ExpenseServiceClient calls ExpenseService.
type ExpenseServiceClient interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	CreateExpense(context.Context, *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
}

// NewExpenseServiceClient constructs a client for ExpenseService at baseURL.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	return &expenseServiceClient{
		calculateSplit: newClient[api.CalculateSplitRequest, api.CalculateSplitResponse](httpClient, baseURL, ExpenseServiceCalculateSplitProcedure, opts),
		createExpense:  newClient[api.CreateExpenseRequest, api.CreateExpenseResponse](httpClient, baseURL, ExpenseServiceCreateExpenseProcedure, opts),
		getExpense:     newClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL, ExpenseServiceGetExpenseProcedure, opts),
		listExpenses:   newClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL, ExpenseServiceListExpensesProcedure, opts),
		deleteExpense:  newClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL, ExpenseServiceDeleteExpenseProcedure, opts),
	}
}

type expenseServiceClient struct {
	calculateSplit *connect.Client[api.CalculateSplitRequest, api.CalculateSplitResponse]
	createExpense  *connect.Client[api.CreateExpenseRequest, api.CreateExpenseResponse]
	getExpense     *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	listExpenses   *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	deleteExpense  *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
}

func (c *expenseServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

// PaymentServiceHandler is implemented by the settle-up service.
type PaymentServiceHandler interface {
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
}

// NewPaymentServiceHandler returns the path prefix and handler for PaymentService.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return route(PaymentServiceName, map[string]*connect.Handler{
		PaymentServiceSettleUpProcedure:     unary(PaymentServiceSettleUpProcedure, svc.SettleUp, opts),
		PaymentServiceListPaymentsProcedure: unary(PaymentServiceListPaymentsProcedure, svc.ListPayments, opts),
	})
}

// PaymentServiceClient calls PaymentService.
type PaymentServiceClient interface {
	SettleUp(context.Context, *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
}

// NewPaymentServiceClient constructs a client for PaymentService at baseURL.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	return &paymentServiceClient{
		settleUp:     newClient[api.SettleUpRequest, api.SettleUpResponse](httpClient, baseURL, PaymentServiceSettleUpProcedure, opts),
		listPayments: newClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL, PaymentServiceListPaymentsProcedure, opts),
	}
}

type paymentServiceClient struct {
	settleUp     *connect.Client[api.SettleUpRequest, api.SettleUpResponse]
	listPayments *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
}

func (c *paymentServiceClient) SettleUp(ctx context.Context, req *connect.Request[api.SettleUpRequest]) (*connect.Response[api.SettleUpResponse], error) {
	return c.settleUp.CallUnary(ctx, req)
}

func (c *paymentServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}
