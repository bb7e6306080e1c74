package domain

import "time"

// OTPRequest is the per-email parent record under which issued codes hang.
// Upserted with merge semantics on every issuance; the email key is normalized
// (trimmed, lower-cased) before it ever reaches the store.
type OTPRequest struct {
	Email string `json:"email" dynamodbav:"email"`
}

// OTPCode is a single issued one-time code. Only the SHA-256 digest of the
// code is persisted. A code is mutated exactly once: the used flag flips to
// true on successful verification and never flips back.
//
// ExpiresAt and UsedAt are Unix seconds so the expiry sweeper can compare them
// numerically in filter expressions.
type OTPCode struct {
	Email     string    `json:"email" dynamodbav:"email"`
	CodeID    string    `json:"id" dynamodbav:"code_id"`
	Digest    string    `json:"-" dynamodbav:"otp_hash"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"`
	Used      bool      `json:"used" dynamodbav:"used"`
	UsedAt    *int64    `json:"used_at,omitempty" dynamodbav:"used_at,omitempty"`
}
