package domain

import "time"

// MessageKind is the closed set of chat message payload shapes.
type MessageKind string

const (
	MessageText   MessageKind = "text"
	MessageImage  MessageKind = "image"
	MessageSystem MessageKind = "system"
)

// Valid reports whether k is one of the known message kinds.
func (k MessageKind) Valid() bool {
	switch k {
	case MessageText, MessageImage, MessageSystem:
		return true
	}
	return false
}

// Message is a chat message. Creating one dispatches a push notification to
// the recipient.
type Message struct {
	MessageID   string      `json:"id" dynamodbav:"message_id"`
	SenderID    string      `json:"sender_id" dynamodbav:"sender_id"`
	RecipientID string      `json:"recipient_id" dynamodbav:"recipient_id"`
	Kind        MessageKind `json:"kind" dynamodbav:"kind"`
	Text        string      `json:"text,omitempty" dynamodbav:"text"`
	ImageURL    string      `json:"image_url,omitempty" dynamodbav:"image_url"`
	CreatedAt   time.Time   `json:"created" dynamodbav:"created_at"`
}
