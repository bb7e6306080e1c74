package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/donationswap/api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMessageStore struct{ mock.Mock }

func (m *mockMessageStore) Put(ctx context.Context, msg *domain.Message) error {
	return m.Called(ctx, msg).Error(0)
}
func (m *mockMessageStore) ListByRecipient(ctx context.Context, recipientID string) ([]domain.Message, error) {
	args := m.Called(ctx, recipientID)
	if msgs, _ := args.Get(0).([]domain.Message); msgs != nil {
		return msgs, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPushSender struct{ mock.Mock }

func (m *mockPushSender) Push(ctx context.Context, endpointARN, title, body string) error {
	return m.Called(ctx, endpointARN, title, body).Error(0)
}

func TestSend_UnknownKindRejected(t *testing.T) {
	svc := NewService(nil, nil, nil)
	_, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientID: "u2", Kind: domain.MessageKind("sticker"), Text: "hi",
	})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSend_TextMessageRequiresText(t *testing.T) {
	svc := NewService(nil, nil, nil)
	_, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientID: "u2", Kind: domain.MessageText,
	})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSend_ImageMessageRequiresURL(t *testing.T) {
	svc := NewService(nil, nil, nil)
	_, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientID: "u2", Kind: domain.MessageImage, Text: "not a url field",
	})
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSend_UnknownRecipient(t *testing.T) {
	users := &mockUserStore{}
	users.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	svc := NewService(nil, users, nil)
	_, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientID: "ghost", Kind: domain.MessageText, Text: "hi",
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSend_PersistsAndPushes(t *testing.T) {
	messages := &mockMessageStore{}
	users := &mockUserStore{}
	push := &mockPushSender{}

	users.On("Get", mock.Anything, "u2").
		Return(&domain.User{UserID: "u2", PushEndpointARN: "arn:aws:sns:ep"}, nil)
	messages.On("Put", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)
	push.On("Push", mock.Anything, "arn:aws:sns:ep", "New message", "hello there").Return(nil)

	svc := NewService(messages, users, push)
	m, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientID: "u2", Kind: domain.MessageText, Text: "hello there",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, m.MessageID)
	assert.Equal(t, "u1", m.SenderID)
	assert.Equal(t, "u2", m.RecipientID)
	push.AssertExpectations(t)
}

func TestSend_ImagePushUsesPlaceholderPreview(t *testing.T) {
	messages := &mockMessageStore{}
	users := &mockUserStore{}
	push := &mockPushSender{}

	users.On("Get", mock.Anything, "u2").
		Return(&domain.User{UserID: "u2", PushEndpointARN: "arn:aws:sns:ep"}, nil)
	messages.On("Put", mock.Anything, mock.Anything).Return(nil)
	push.On("Push", mock.Anything, "arn:aws:sns:ep", "New message", "Sent you an image").Return(nil)

	svc := NewService(messages, users, push)
	_, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientID: "u2", Kind: domain.MessageImage, ImageURL: "https://cdn.example/img.jpg",
	})
	require.NoError(t, err)
	push.AssertExpectations(t)
}

func TestSend_PushFailureDoesNotFailSend(t *testing.T) {
	messages := &mockMessageStore{}
	users := &mockUserStore{}
	push := &mockPushSender{}

	users.On("Get", mock.Anything, "u2").
		Return(&domain.User{UserID: "u2", PushEndpointARN: "arn:aws:sns:ep"}, nil)
	messages.On("Put", mock.Anything, mock.Anything).Return(nil)
	push.On("Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("endpoint disabled"))

	svc := NewService(messages, users, push)
	m, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientID: "u2", Kind: domain.MessageText, Text: "hi",
	})
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestSend_NoEndpoint_SkipsPush(t *testing.T) {
	messages := &mockMessageStore{}
	users := &mockUserStore{}
	push := &mockPushSender{}

	users.On("Get", mock.Anything, "u2").Return(&domain.User{UserID: "u2"}, nil)
	messages.On("Put", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(messages, users, push)
	_, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientID: "u2", Kind: domain.MessageText, Text: "hi",
	})
	require.NoError(t, err)
	push.AssertNotCalled(t, "Push", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
