package recovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/donationswap/api/internal/domain"
	"github.com/donationswap/api/internal/pkg/id"
	"github.com/donationswap/api/internal/pkg/otp"
	pkgtoken "github.com/donationswap/api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpDigits   = 6
	otpTTL      = 5 * time.Minute
	tokenTTL    = 5 * time.Minute
	minPassword = 6
)

type SendOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// OTPStore is the slice of the OTP store this service needs.
type OTPStore interface {
	UpsertRequest(ctx context.Context, email string) error
	AppendCode(ctx context.Context, c *domain.OTPCode) error
	FindUnusedByDigest(ctx context.Context, email, digest string) (*domain.OTPCode, error)
	Consume(ctx context.Context, email, codeID string, at time.Time) error
}

// TokenStore is the slice of the reset-token store this service needs.
type TokenStore interface {
	Put(ctx context.Context, t *domain.ResetToken) error
	Get(ctx context.Context, token string) (*domain.ResetToken, error)
	MarkUsed(ctx context.Context, token string, at time.Time) error
}

// UserStore is the identity-provider boundary: account lookup by email and
// credential overwrite.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetPasswordHash(ctx context.Context, userID, hash string) error
}

type Mailer interface {
	SendEmail(to, subject, body string) error
}

type Service interface {
	SendOTP(ctx context.Context, req SendOTPRequest) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (token string, err error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type service struct {
	otps   OTPStore
	tokens TokenStore
	users  UserStore
	mailer Mailer
}

func NewService(otps OTPStore, tokens TokenStore, users UserStore, mailer Mailer) Service {
	return &service{otps: otps, tokens: tokens, users: users, mailer: mailer}
}

// SendOTP issues a fresh one-time code for the email and delivers it by mail.
// Issuance accumulates: earlier live codes for the same email stay valid.
// The code record is persisted before the mail goes out, so a mail failure
// surfaces as an error without rolling the record back.
func (s *service) SendOTP(ctx context.Context, req SendOTPRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email: %w", domain.ErrBadRequest)
	}

	code, err := otp.RandomCode(otpDigits)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.otps.UpsertRequest(ctx, email); err != nil {
		return err
	}
	if err := s.otps.AppendCode(ctx, &domain.OTPCode{
		Email:     email,
		CodeID:    id.New(),
		Digest:    otp.Digest(code),
		CreatedAt: now,
		ExpiresAt: now.Add(otpTTL).Unix(),
		Used:      false,
	}); err != nil {
		return err
	}

	body := fmt.Sprintf("Your OTP is %s. It expires in 5 minutes.", code)
	if err := s.mailer.SendEmail(email, "Your OTP Code", body); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// VerifyOTP checks a submitted code and, on success, mints the single-use
// reset token. This is the only place the token is ever disclosed.
//
// "Invalid code" deliberately covers never-issued and already-used alike; the
// caller learns nothing about which it was. Consuming the code is guarded by
// a conditional write, so of two racing verifications only one can win — the
// loser is told "invalid code" as well.
func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (string, error) {
	email := normalizeEmail(req.Email)
	code := strings.TrimSpace(req.OTP)
	if email == "" || code == "" {
		return "", fmt.Errorf("missing email or otp: %w", domain.ErrBadRequest)
	}

	c, err := s.otps.FindUnusedByDigest(ctx, email, otp.Digest(code))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("invalid code: %w", domain.ErrUnauthorized)
		}
		return "", err
	}

	now := time.Now().UTC()
	if now.Unix() > c.ExpiresAt {
		return "", fmt.Errorf("code expired: %w", domain.ErrExpired)
	}

	if err := s.otps.Consume(ctx, email, c.CodeID, now); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return "", fmt.Errorf("invalid code: %w", domain.ErrUnauthorized)
		}
		return "", err
	}

	tok, err := pkgtoken.NewResetToken()
	if err != nil {
		return "", err
	}
	if err := s.tokens.Put(ctx, &domain.ResetToken{
		Token:     tok,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(tokenTTL).Unix(),
		Used:      false,
	}); err != nil {
		return "", err
	}
	return tok, nil
}

// ResetPassword consumes a reset token and overwrites the account credential.
// Check order: existence, consumed, email ownership, expiry. The first three
// all answer with the same coarse permission error. The credential is changed
// before the token is marked used; a crash between the two leaves the token
// reusable, which is accepted and documented rather than masked.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" || req.Token == "" {
		return fmt.Errorf("missing fields: %w", domain.ErrBadRequest)
	}
	if len(req.NewPassword) < minPassword {
		return fmt.Errorf("password must be at least %d characters: %w", minPassword, domain.ErrBadRequest)
	}

	t, err := s.tokens.Get(ctx, req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
		}
		return err
	}

	now := time.Now().UTC()
	if t.Used {
		return fmt.Errorf("token already used: %w", domain.ErrUnauthorized)
	}
	if t.Email != email {
		return fmt.Errorf("token/email mismatch: %w", domain.ErrUnauthorized)
	}
	if now.Unix() > t.ExpiresAt {
		return fmt.Errorf("token expired: %w", domain.ErrExpired)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("account lookup: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.SetPasswordHash(ctx, u.UserID, string(hash)); err != nil {
		return err
	}
	return s.tokens.MarkUsed(ctx, req.Token, now)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
