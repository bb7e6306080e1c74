package domain

import "time"

const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// Verification is a user's identity-verification submission awaiting admin
// review.
type Verification struct {
	UserID     string     `json:"user_id" dynamodbav:"user_id"`
	Status     string     `json:"status" dynamodbav:"status"`
	Reason     string     `json:"reason,omitempty" dynamodbav:"reason"`
	ReviewedBy string     `json:"reviewed_by,omitempty" dynamodbav:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty" dynamodbav:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created" dynamodbav:"created_at"`
}
