package chat

import (
	"context"
	"sort"
	"strings"
	"time"

	"community-app-go/pkg/logger"
	"github.com/google/uuid"
)

// Moderator is the external content classifier. Implementations are
// fail-closed: any fault reads as a rejection.
type Moderator interface {
	Moderate(ctx context.Context, content string) bool
}

// UserChecker reports whether a user id exists.
type UserChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// NameResolver maps user ids to profile display names. Users without a
// profile are absent from the result.
type NameResolver interface {
	DisplayNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

type Service struct {
	repo      Repository
	moderator Moderator
	users     UserChecker
	names     NameResolver
	log       logger.Logger
}

func NewService(repo Repository, moderator Moderator, users UserChecker, names NameResolver, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		moderator: moderator,
		users:     users,
		names:     names,
		log:       log,
	}
}

// ListConversations derives the user's distinct conversations from the flat
// ledger: messages are grouped by the unordered participant pair, only the
// chronologically latest message per pair survives, and the result is ordered
// by that message's timestamp, newest conversation first.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	messages, err := s.repo.ListInvolving(ctx, userID)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]Message, len(messages))
	for _, msg := range messages {
		key := pairKey(msg.SenderID, msg.ReceiverID)
		if current, ok := latest[key]; !ok || msg.CreatedAt.After(current.CreatedAt) {
			latest[key] = msg
		}
	}

	conversations := make([]Conversation, 0, len(latest))
	for _, msg := range latest {
		conversations = append(conversations, Conversation{
			CounterpartID: counterpartOf(msg, userID),
			LatestMessage: msg,
		})
	}
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LatestMessage.CreatedAt.After(conversations[j].LatestMessage.CreatedAt)
	})

	if len(conversations) == 0 {
		return conversations, nil
	}

	ids := make([]string, 0, len(conversations)+1)
	ids = append(ids, userID)
	for _, conversation := range conversations {
		ids = append(ids, conversation.CounterpartID)
	}
	names, err := s.names.DisplayNames(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range conversations {
		conversations[i].SelfName = names[userID]
		conversations[i].CounterpartName = names[conversations[i].CounterpartID]
	}

	return conversations, nil
}

// GetThread returns every message between the user and the counterpart,
// newest first, and advances the read marker: the latest message sent by the
// counterpart to the user gets updated_at set to now. Marker failures are
// logged and swallowed; the read itself still succeeds.
func (s *Service) GetThread(ctx context.Context, userID, counterpartID string) ([]Message, error) {
	messages, err := s.repo.ListBetween(ctx, userID, counterpartID)
	if err != nil {
		return nil, err
	}

	var lastReceived *Message
	for i := range messages {
		msg := &messages[i]
		if msg.SenderID != counterpartID || msg.ReceiverID != userID {
			continue
		}
		if lastReceived == nil || msg.CreatedAt.After(lastReceived.CreatedAt) {
			lastReceived = msg
		}
	}
	if lastReceived != nil {
		if err := s.repo.Touch(ctx, lastReceived.ID, time.Now().UTC()); err != nil {
			s.log.InternalError("chat: read marker update failed", err,
				"message_id", lastReceived.ID, "user_id", userID)
		}
	}

	return messages, nil
}

// Send validates the receiver, moderates the content and appends a message to
// the ledger. No conversation row exists to create; conversations are a
// derived view.
func (s *Service) Send(ctx context.Context, senderID, receiverID, content string) (*Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	receiverID = strings.TrimSpace(receiverID)
	if receiverID == "" {
		return nil, ErrReceiverNotFound
	}
	exists, err := s.users.Exists(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrReceiverNotFound
	}

	if !s.moderator.Moderate(ctx, content) {
		return nil, ErrModerationRejected
	}

	now := time.Now().UTC()
	message := Message{
		ID:         uuid.NewString(),
		Content:    content,
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// pairKey builds the unordered-pair grouping key for two participants.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

func counterpartOf(msg Message, userID string) string {
	if msg.SenderID == userID {
		return msg.ReceiverID
	}
	return msg.SenderID
}
