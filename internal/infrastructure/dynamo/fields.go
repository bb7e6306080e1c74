package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEmail           = "email"
	fieldLastRequestedAt = "last_requested_at"
	fieldUsed            = "used"
	fieldUsedAt          = "used_at"
	fieldExpiresAt       = "expires_at"
	fieldPasswordHash    = "password_hash"
	fieldVerified        = "verified"
	fieldStatus          = "status"
	fieldReason          = "reason"
	fieldReviewedBy      = "reviewed_by"
	fieldReviewedAt      = "reviewed_at"
	fieldUpdatedAt       = "updated_at"
)
