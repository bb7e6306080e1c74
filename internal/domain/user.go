package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the account record. It doubles as the identity-provider target for
// password resets (password_hash) and as the holder of the rating aggregate.
//
// RatingCount, RatingSum and RatingAvg are written only by the rating fold in
// the rating aggregator; no other path may touch them. AggregateVersion is the
// optimistic-concurrency counter guarding that fold.
type User struct {
	UserID           string    `json:"id" dynamodbav:"user_id"`
	Email            string    `json:"email" dynamodbav:"email"`
	PasswordHash     string    `json:"-" dynamodbav:"password_hash"`
	Role             string    `json:"role" dynamodbav:"role"`
	DisplayName      string    `json:"display_name" dynamodbav:"display_name"`
	Verified         bool      `json:"verified" dynamodbav:"verified"`
	PushEndpointARN  string    `json:"-" dynamodbav:"push_endpoint_arn"`
	RatingCount      int64     `json:"rating_count" dynamodbav:"rating_count"`
	RatingSum        float64   `json:"rating_sum" dynamodbav:"rating_sum"`
	RatingAvg        float64   `json:"rating_avg" dynamodbav:"rating_avg"`
	AggregateVersion int64     `json:"-" dynamodbav:"aggregate_version"`
	CreatedAt        time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt        time.Time `json:"updated" dynamodbav:"updated_at"`
}
