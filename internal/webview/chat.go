package webview

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/refixai/refix/internal/api"
	"github.com/refixai/refix/internal/core/review"
	"github.com/refixai/refix/internal/core/settings"
)

// Fallback assistant replies appended when a chat call fails.
const (
	ReplyRequestFailed      = "An error occurred."
	ReplyCommunicationError = "Communication error."
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrChatBusy     = errors.New("a reply is still pending")
)

// ChatClient sends one chat turn.
type ChatClient interface {
	Chat(ctx context.Context, creds settings.Settings, reviewID review.ID, req api.ChatRequest) (review.ChatMessage, error)
}

// ChatSession is the mentor conversation about one panel of a review.
type ChatSession struct {
	client   ChatClient
	creds    settings.Settings
	reviewID review.ID
	panel    review.Panel

	mu       sync.Mutex
	messages []review.ChatMessage
	pending  bool
}

// NewChatSession starts a session seeded with the review's existing history.
func NewChatSession(client ChatClient, creds settings.Settings, r review.Review, panel review.Panel) *ChatSession {
	return &ChatSession{
		client:   client,
		creds:    creds,
		reviewID: r.ID,
		panel:    panel,
		messages: slices.Clone(r.ChatMessages),
	}
}

// Messages returns a copy of the transcript.
func (c *ChatSession) Messages() []review.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

// Pending reports whether a reply is outstanding.
func (c *ChatSession) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Topic is the panel title the conversation is about.
func (c *ChatSession) Topic() string {
	return c.panel.Title
}

// Send appends input as a user message, then the assistant reply. When the
// call fails a fallback assistant message is appended instead and the error
// is returned alongside it.
func (c *ChatSession) Send(ctx context.Context, input string) (review.ChatMessage, error) {
	if strings.TrimSpace(input) == "" {
		return review.ChatMessage{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return review.ChatMessage{}, ErrChatBusy
	}
	c.pending = true
	c.messages = append(c.messages, localMessage(review.RoleUser, input))
	c.mu.Unlock()

	reply, err := c.client.Chat(ctx, c.creds, c.reviewID, api.ChatRequest{
		UserMessage:           input,
		OriginalReviewContext: c.panel.ChatContext(),
	})
	if err != nil {
		content := ReplyRequestFailed
		if errors.Is(err, api.ErrCommunication) {
			content = ReplyCommunicationError
		}
		reply = localMessage(review.RoleAssistant, content)
	}

	c.mu.Lock()
	c.messages = append(c.messages, reply)
	c.pending = false
	c.mu.Unlock()

	return reply, err
}

// localMessage builds a message that has not been persisted by the backend.
// Its id is a random uuid so it never collides with server ids.
func localMessage(role review.Role, content string) review.ChatMessage {
	return review.ChatMessage{
		ID:        review.ID(uuid.NewString()),
		Role:      role,
		Content:   content,
		CreatedAt: review.Now(),
	}
}
