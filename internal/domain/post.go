package domain

import "time"

// Post is a time-limited donation listing. Once expires_at passes, the
// sweeper may remove the record at any time.
type Post struct {
	PostID    string    `json:"id" dynamodbav:"post_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Title     string    `json:"title" dynamodbav:"title"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	ExpiresAt int64     `json:"expires_at" dynamodbav:"expires_at"`
}
