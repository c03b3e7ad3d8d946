package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/internal/domain"
	"github.com/whisperbox/whisperbox-backend/internal/repository"
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
	"gorm.io/gorm"
)

// DefaultMaxMessageLength is the character limit on message content
const DefaultMaxMessageLength = 300

var messagesSubmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "whisperbox_messages_submitted_total",
		Help: "Messages stored, by sender type",
	},
	[]string{"sender_type"},
)

// MessageNotifier pushes new-message events to the receiver
type MessageNotifier interface {
	MessageReceived(receiverID string, msg *domain.Message)
}

// SubmitInput is one message submission
type SubmitInput struct {
	ReceiverUsername string
	Content          string
	// SenderAccountID is empty for visitors without a session
	SenderAccountID string
	Env             ClientEnv
}

// MessageService handles message submission
type MessageService struct {
	messages                  repository.MessageRepository
	profiles                  repository.ProfileRepository
	collector                 *MetadataCollector
	notifier                  MessageNotifier
	maxLength                 int
	captureRegisteredMetadata bool
}

// NewMessageService creates a new MessageService. notifier may be nil.
func NewMessageService(
	messages repository.MessageRepository,
	profiles repository.ProfileRepository,
	collector *MetadataCollector,
	notifier MessageNotifier,
	maxLength int,
	captureRegisteredMetadata bool,
) *MessageService {
	if maxLength <= 0 {
		maxLength = DefaultMaxMessageLength
	}
	return &MessageService{
		messages:                  messages,
		profiles:                  profiles,
		collector:                 collector,
		notifier:                  notifier,
		maxLength:                 maxLength,
		captureRegisteredMetadata: captureRegisteredMetadata,
	}
}

// ValidateContent trims content and checks the length limit
func (s *MessageService) ValidateContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", common.ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > s.maxLength {
		return "", common.ErrMessageTooLong
	}
	return trimmed, nil
}

// Submit validates and stores a message for the profile named in input
func (s *MessageService) Submit(ctx context.Context, input SubmitInput) (*domain.Message, error) {
	content, err := s.ValidateContent(input.Content)
	if err != nil {
		return nil, err
	}

	receiver, err := s.profiles.FindByUsername(ctx, input.ReceiverUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load receiver: %w", err)
	}

	msg := &domain.Message{
		Content:    content,
		ReceiverID: receiver.UserID,
		SenderType: domain.SenderAnonymous,
	}
	if input.SenderAccountID != "" {
		sender := input.SenderAccountID
		msg.SenderType = domain.SenderRegistered
		msg.SenderUserID = &sender
	}
	if msg.IsAnonymous() || s.captureRegisteredMetadata {
		msg.SenderMetadata = s.collector.Collect(ctx, input.Env)
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	messagesSubmitted.WithLabelValues(string(msg.SenderType)).Inc()
	pkglogger.GetLogger().Info().
		Str("message_id", msg.ID).
		Str("receiver_id", msg.ReceiverID).
		Str("sender_type", string(msg.SenderType)).
		Msg("message submitted")

	if s.notifier != nil {
		s.notifier.MessageReceived(msg.ReceiverID, msg)
	}
	return msg, nil
}
