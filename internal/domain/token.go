package domain

import "time"

// ResetToken bridges a successful OTP verification to a password reset.
// The token string is the partition key and the secret itself; it is stored
// as presented, not digested. Created exactly once by verification, consumed
// at most once by a reset.
type ResetToken struct {
	Token     string    `json:"-" dynamodbav:"token"`
	Email     string    `json:"email" dynamodbav:"email"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"`
	Used      bool      `json:"used" dynamodbav:"used"`
	UsedAt    *int64    `json:"used_at,omitempty" dynamodbav:"used_at,omitempty"`
}
