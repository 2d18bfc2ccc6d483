package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/costcircle/internal/auth"
	"github.com/mmynk/costcircle/internal/calculator"
	"github.com/mmynk/costcircle/internal/metrics"
	"github.com/mmynk/costcircle/internal/middleware"
	"github.com/mmynk/costcircle/internal/models"
	"github.com/mmynk/costcircle/internal/storage/sqlite"
	"github.com/mmynk/costcircle/pkg/api"
	"github.com/mmynk/costcircle/pkg/api/apiconnect"
)

type testEnv struct {
	store    *sqlite.SQLiteStore
	jwt      *auth.JWTManager
	metrics  *metrics.Metrics
	auth     apiconnect.AuthServiceClient
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
	payments apiconnect.PaymentServiceClient
}

// setupTestServer serves every service over httptest, backed by a temp SQLite
// database and the real auth interceptor.
func setupTestServer(t *testing.T, order calculator.Order) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	jwtManager := auth.NewJWTManager("test-secret-that-is-long-enough!!", time.Hour)
	m := metrics.New(prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
	)

	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, m, order), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, m), interceptors))
	mux.Handle(apiconnect.NewPaymentServiceHandler(NewPaymentService(store), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		store:    store,
		jwt:      jwtManager,
		metrics:  m,
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		payments: apiconnect.NewPaymentServiceClient(http.DefaultClient, server.URL),
	}
}

// user creates an account directly in the store and returns it with a token.
func (e *testEnv) user(t *testing.T, email, name string) (*models.User, string) {
	t.Helper()

	u := models.NewUser(email, name, "unused")
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	token, err := e.jwt.Generate(u)
	require.NoError(t, err)
	return u, token
}

// group creates a group owned by the token holder and adds the given users.
func (e *testEnv) group(t *testing.T, token, name string, members ...*models.User) string {
	t.Helper()

	resp, err := e.groups.CreateGroup(context.Background(), authed(token, &api.CreateGroupRequest{Name: name}))
	require.NoError(t, err)
	for _, m := range members {
		_, err := e.groups.AddMember(context.Background(), authed(token, &api.AddMemberRequest{
			GroupID: resp.Msg.Group.ID,
			Email:   m.Email,
		}))
		require.NoError(t, err)
	}
	return resp.Msg.Group.ID
}

func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

func errorMessage(err error) string {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Message()
	}
	return err.Error()
}
