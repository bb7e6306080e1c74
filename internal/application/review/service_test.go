package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/donationswap/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVerificationStore struct{ mock.Mock }

func (m *mockVerificationStore) Get(ctx context.Context, userID string) (*domain.Verification, error) {
	args := m.Called(ctx, userID)
	if v, _ := args.Get(0).(*domain.Verification); v != nil {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockVerificationStore) SetReview(ctx context.Context, userID, status, reason, reviewerID string, at time.Time) error {
	return m.Called(ctx, userID, status, reason, reviewerID, at).Error(0)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

type mockAuditStore struct{ mock.Mock }

func (m *mockAuditStore) Put(ctx context.Context, e *domain.AuditEntry) error {
	return m.Called(ctx, e).Error(0)
}

func admin() *domain.User { return &domain.User{UserID: "adm", Role: domain.RoleAdmin} }

func TestReview_UnknownAction(t *testing.T) {
	svc := NewService(nil, nil, nil)
	err := svc.Review(context.Background(), "adm", "u1", ReviewRequest{Action: "escalate"})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestReview_NonAdminForbidden(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "u9").Return(&domain.User{UserID: "u9", Role: domain.RoleUser}, nil)

	svc := NewService(nil, users, nil)
	err := svc.Review(context.Background(), "u9", "u1", ReviewRequest{Action: ActionApprove})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestReview_UnknownTarget(t *testing.T) {
	users := &mockUserStore{}
	verifications := &mockVerificationStore{}
	users.On("Get", mock.Anything, "adm").Return(admin(), nil)
	verifications.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := NewService(verifications, users, nil)
	err := svc.Review(context.Background(), "adm", "ghost", ReviewRequest{Action: ActionApprove})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReview_Approve_MarksVerifiedAndAudits(t *testing.T) {
	users := &mockUserStore{}
	verifications := &mockVerificationStore{}
	audit := &mockAuditStore{}

	users.On("Get", mock.Anything, "adm").Return(admin(), nil)
	verifications.On("Get", mock.Anything, "u1").
		Return(&domain.Verification{UserID: "u1", Status: domain.VerificationPending}, nil)
	verifications.On("SetReview", mock.Anything, "u1", domain.VerificationApproved, "", "adm", mock.Anything).Return(nil)
	users.On("Update", mock.Anything, "u1", map[string]interface{}{"verified": true}).Return(nil)
	audit.On("Put", mock.Anything, mock.MatchedBy(func(e *domain.AuditEntry) bool {
		return e.Action == "verification.approve" && e.ActorID == "adm" && e.TargetID == "u1"
	})).Return(nil)

	svc := NewService(verifications, users, audit)
	require.NoError(t, svc.Review(context.Background(), "adm", "u1", ReviewRequest{Action: ActionApprove}))
	verifications.AssertExpectations(t)
	users.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestReview_Reject_DoesNotTouchUserFlag(t *testing.T) {
	users := &mockUserStore{}
	verifications := &mockVerificationStore{}
	audit := &mockAuditStore{}

	users.On("Get", mock.Anything, "adm").Return(admin(), nil)
	verifications.On("Get", mock.Anything, "u1").
		Return(&domain.Verification{UserID: "u1", Status: domain.VerificationPending}, nil)
	verifications.On("SetReview", mock.Anything, "u1", domain.VerificationRejected, "blurry photo", "adm", mock.Anything).Return(nil)
	audit.On("Put", mock.Anything, mock.MatchedBy(func(e *domain.AuditEntry) bool {
		return e.Action == "verification.reject"
	})).Return(nil)

	svc := NewService(verifications, users, audit)
	require.NoError(t, svc.Review(context.Background(), "adm", "u1", ReviewRequest{Action: ActionReject, Reason: "blurry photo"}))
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
