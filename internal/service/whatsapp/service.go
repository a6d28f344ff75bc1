package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lordskyzw/pygwan"
	"github.com/lordskyzw/pygwan/internal/config"
	"github.com/lordskyzw/pygwan/internal/domain/models"
	"github.com/lordskyzw/pygwan/internal/repository/mongodb"
)

const sendTimeout = 10 * time.Second

// Sender is the narrow slice of the WhatsApp client the service depends on.
type Sender interface {
	SendText(ctx context.Context, msg pygwan.TextMessage) (*pygwan.MessageResponse, error)
	ReplyToMessage(ctx context.Context, msg pygwan.ReplyMessage) (*pygwan.MessageResponse, error)
	SendTemplate(ctx context.Context, msg pygwan.TemplateMessage) (*pygwan.MessageResponse, error)
	MarkAsRead(ctx context.Context, messageID string) (*pygwan.StatusResponse, error)
}

// CommandDispatcher executes parsed commands on behalf of the service.
type CommandDispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (models.CommandReply, error)
}

// MessagingService describes the operations the HTTP layer and the scheduler
// can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	ValidateSignature(body []byte, signature string) bool
	HandleNotification(ctx context.Context, notification *pygwan.Notification) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
	SendOutboundTemplate(ctx context.Context, req models.OutboundTemplateRequest) error
	BroadcastDigest(ctx context.Context, body string) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg         config.WhatsAppConfig
	adminWaID   string
	client      Sender
	dispatcher  CommandDispatcher
	subscribers *SubscriberRegistry
	messages    mongodb.Repository
	logger      *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, adminWaID string, client Sender, dispatcher CommandDispatcher, subscribers *SubscriberRegistry, messages mongodb.Repository, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:         cfg,
		adminWaID:   adminWaID,
		client:      client,
		dispatcher:  dispatcher,
		subscribers: subscribers,
		messages:    messages,
		logger:      logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// ValidateSignature checks the webhook body signature. Enforcement is
// disabled when no app secret is configured.
func (s *MetaWhatsAppService) ValidateSignature(body []byte, signature string) bool {
	if s.cfg.AppSecret == "" {
		return true
	}
	return pygwan.ValidateSignature(body, signature, s.cfg.AppSecret)
}

// HandleNotification processes inbound webhook notifications.
func (s *MetaWhatsAppService) HandleNotification(ctx context.Context, notification *pygwan.Notification) error {
	if notification == nil || len(notification.Entry) == 0 {
		return nil
	}

	var firstErr error

	for _, entry := range notification.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			for _, status := range value.Statuses {
				s.recordStatus(ctx, status)
			}

			for i := range value.Messages {
				msg := &value.Messages[i]
				if err := s.handleInboundMessage(ctx, value.Contacts, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, contacts []pygwan.Contact, msg *pygwan.InboundMessage) error {
	s.markAsRead(ctx, msg.ID)

	text := extractMessageText(msg)
	s.recordMessage(ctx, models.MessageRecord{
		Direction: models.DirectionInbound,
		WaID:      msg.From,
		Name:      senderName(contacts, msg.From),
		MessageID: msg.ID,
		Type:      msg.Type,
		Body:      text,
		Timestamp: msg.Timestamp,
	})

	if text == "" {
		s.logger.Debug("ignoring message without text content",
			zap.String("message_id", msg.ID),
			zap.String("type", msg.Type))
		return nil
	}

	var outbound string
	if models.IsCommand(text) {
		cmd := models.ParseCommand(text)
		s.logger.Info("parsed inbound command",
			zap.String("from", msg.From),
			zap.String("command", string(cmd.Type)),
			zap.Any("args", cmd.Args))

		reply, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
		if err != nil {
			s.logger.Error("command dispatch failed", zap.Error(err), zap.String("command", string(cmd.Type)))
			reply = models.CommandReply{
				Title:   "Command Help",
				Message: "Something went wrong handling that command. Please try again.",
			}
		}
		outbound = fmt.Sprintf("%s\n%s", reply.Title, reply.Message)
	} else {
		outbound = "You said: " + text
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.ReplyToMessage(ctxWithTimeout, pygwan.ReplyMessage{
		To:        msg.From,
		Body:      outbound,
		MessageID: msg.ID,
	})
	if err != nil {
		return err
	}

	s.recordMessage(ctx, models.MessageRecord{
		Direction: models.DirectionOutbound,
		WaID:      msg.From,
		MessageID: resp.MessageID(),
		Type:      "text",
		Body:      outbound,
	})
	return nil
}

// SendOutbound lets internal operators push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.SendText(ctxWithTimeout, pygwan.TextMessage{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		return err
	}

	s.recordMessage(ctx, models.MessageRecord{
		Direction: models.DirectionOutbound,
		WaID:      req.To,
		MessageID: resp.MessageID(),
		Type:      "text",
		Body:      req.Message,
	})
	return nil
}

// SendOutboundTemplate sends a pre-approved template via HTTP.
func (s *MetaWhatsAppService) SendOutboundTemplate(ctx context.Context, req models.OutboundTemplateRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resp, err := s.client.SendTemplate(ctxWithTimeout, pygwan.TemplateMessage{
		To:       req.To,
		Name:     req.Template,
		Language: req.Language,
	})
	if err != nil {
		return err
	}

	s.recordMessage(ctx, models.MessageRecord{
		Direction: models.DirectionOutbound,
		WaID:      req.To,
		MessageID: resp.MessageID(),
		Type:      "template",
		Body:      req.Template,
	})
	return nil
}

// BroadcastDigest sends the digest text to the admin and every subscriber.
func (s *MetaWhatsAppService) BroadcastDigest(ctx context.Context, body string) error {
	recipients := append([]string{s.adminWaID}, s.subscribers.List()...)

	var firstErr error
	seen := make(map[string]struct{}, len(recipients))

	for _, to := range recipients {
		if to == "" {
			continue
		}
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}

		if err := s.SendOutbound(ctx, models.OutboundMessageRequest{To: to, Message: body}); err != nil {
			s.logger.Error("failed to send digest", zap.Error(err), zap.String("to", to))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) markAsRead(ctx context.Context, messageID string) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, err := s.client.MarkAsRead(ctxWithTimeout, messageID); err != nil {
		s.logger.Warn("failed to mark message as read", zap.Error(err), zap.String("message_id", messageID))
	}
}

func (s *MetaWhatsAppService) recordStatus(ctx context.Context, status pygwan.MessageStatus) {
	s.recordMessage(ctx, models.MessageRecord{
		Direction: models.DirectionStatus,
		WaID:      status.RecipientID,
		MessageID: status.ID,
		Type:      "status",
		Status:    status.Status,
		Timestamp: status.Timestamp,
	})
}

// recordMessage appends to the message log. Logging failures must never break
// message handling, so they are only surfaced as warnings.
func (s *MetaWhatsAppService) recordMessage(ctx context.Context, record models.MessageRecord) {
	if s.messages == nil {
		return
	}

	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}

	if err := s.messages.SaveMessage(ctx, record); err != nil {
		s.logger.Warn("failed to record message",
			zap.Error(err),
			zap.String("direction", string(record.Direction)),
			zap.String("message_id", record.MessageID))
	}
}

func extractMessageText(msg *pygwan.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}

	return ""
}

func senderName(contacts []pygwan.Contact, waID string) string {
	for _, contact := range contacts {
		if contact.WaID == waID {
			return contact.Profile.Name
		}
	}
	return ""
}
