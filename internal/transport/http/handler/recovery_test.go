package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/donationswap/api/internal/application/recovery"
	"github.com/donationswap/api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecoveryService struct{ mock.Mock }

func (m *mockRecoveryService) SendOTP(ctx context.Context, req recovery.SendOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}
func (m *mockRecoveryService) VerifyOTP(ctx context.Context, req recovery.VerifyOTPRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *mockRecoveryService) ResetPassword(ctx context.Context, req recovery.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func newRecoveryRouter(svc recovery.Service) http.Handler {
	r := chi.NewRouter()
	r.Post("/password-recovery/{action}", NewRecoveryHandler(svc).Action)
	return r
}

func TestRecovery_SendOTP_OK(t *testing.T) {
	svc := &mockRecoveryService{}
	svc.On("SendOTP", mock.Anything, recovery.SendOTPRequest{Email: "a@b.com"}).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/password-recovery/send-otp",
		strings.NewReader(`{"email":"a@b.com"}`))
	rr := httptest.NewRecorder()
	newRecoveryRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestRecovery_SendOTP_BadBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/password-recovery/send-otp",
		strings.NewReader(`{not json`))
	rr := httptest.NewRecorder()
	newRecoveryRouter(&mockRecoveryService{}).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecovery_VerifyOTP_ReturnsToken(t *testing.T) {
	svc := &mockRecoveryService{}
	svc.On("VerifyOTP", mock.Anything, recovery.VerifyOTPRequest{Email: "a@b.com", OTP: "123456"}).
		Return("cafe01", nil)

	req := httptest.NewRequest(http.MethodPost, "/password-recovery/verify-otp",
		strings.NewReader(`{"email":"a@b.com","otp":"123456"}`))
	rr := httptest.NewRecorder()
	newRecoveryRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true,"token":"cafe01"}`, rr.Body.String())
}

func TestRecovery_UnknownAction(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/password-recovery/do-magic",
		strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	newRecoveryRouter(&mockRecoveryService{}).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRecovery_ErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"bad request", fmt.Errorf("missing fields: %w", domain.ErrBadRequest), http.StatusBadRequest},
		{"unauthorized", fmt.Errorf("invalid code: %w", domain.ErrUnauthorized), http.StatusUnauthorized},
		{"expired", fmt.Errorf("code expired: %w", domain.ErrExpired), http.StatusGone},
		{"conflict", fmt.Errorf("already consumed: %w", domain.ErrConflict), http.StatusConflict},
		{"internal", fmt.Errorf("dynamo unreachable"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockRecoveryService{}
			svc.On("VerifyOTP", mock.Anything, mock.Anything).Return("", tc.err)

			req := httptest.NewRequest(http.MethodPost, "/password-recovery/verify-otp",
				strings.NewReader(`{"email":"a@b.com","otp":"123456"}`))
			rr := httptest.NewRecorder()
			newRecoveryRouter(svc).ServeHTTP(rr, req)

			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestRecovery_InternalError_DoesNotLeakDetail(t *testing.T) {
	svc := &mockRecoveryService{}
	svc.On("ResetPassword", mock.Anything, mock.Anything).
		Return(fmt.Errorf("dynamodb: connection refused at 10.0.0.3"))

	req := httptest.NewRequest(http.MethodPost, "/password-recovery/reset-password",
		strings.NewReader(`{"email":"a@b.com","token":"t","new_password":"longenough"}`))
	rr := httptest.NewRecorder()
	newRecoveryRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "10.0.0.3")
	assert.Contains(t, rr.Body.String(), "internal server error")
}
