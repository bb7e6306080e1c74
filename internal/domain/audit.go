package domain

import "time"

// AuditEntry records an administrative action for later inspection.
type AuditEntry struct {
	AuditID   string    `json:"id" dynamodbav:"audit_id"`
	ActorID   string    `json:"actor_id" dynamodbav:"actor_id"`
	Action    string    `json:"action" dynamodbav:"action"`
	TargetID  string    `json:"target_id" dynamodbav:"target_id"`
	Reason    string    `json:"reason,omitempty" dynamodbav:"reason"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}
