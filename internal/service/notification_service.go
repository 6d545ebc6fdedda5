package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lead-capture-service/internal/config"
	"github.com/spec-kit/lead-capture-service/internal/email"
	"github.com/spec-kit/lead-capture-service/internal/events"
	"github.com/spec-kit/lead-capture-service/internal/markdown"
)

// NotificationService turns domain events into outbound email.
type NotificationService struct {
	dispatcher  events.Dispatcher
	sender      email.Sender
	logger      *zap.Logger
	cfg         config.NotificationConfig
	companyName string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender email.Sender, logger *zap.Logger, cfg config.NotificationConfig, companyName string) *NotificationService {
	return &NotificationService{
		dispatcher:  dispatcher,
		sender:      sender,
		logger:      logger,
		cfg:         cfg,
		companyName: companyName,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubmissionReceived, n.handleSubmissionReceived)
	n.dispatcher.Subscribe(events.EventSubmissionRead, n.handleSubmissionRead)
	n.dispatcher.Subscribe(events.EventSubmissionResponded, n.handleSubmissionResponded)
	n.dispatcher.Subscribe(events.EventLeadStatusChanged, n.handleLeadStatusChanged)
}

func (n *NotificationService) handleSubmissionReceived(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SubmissionReceivedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("SubmissionReceived", zap.String("collection", string(event.Collection)), zap.String("form", payload.Form))

	inbox := strings.TrimSpace(n.cfg.SalesInbox)
	if inbox == "" {
		return nil
	}

	var body strings.Builder
	fmt.Fprintf(&body, "## New %s submission\n\n", strings.ReplaceAll(payload.Form, "_", " "))
	fmt.Fprintf(&body, "- **Name:** %s\n- **Email:** %s\n", payload.Name, payload.Email)
	if payload.Company != "" {
		fmt.Fprintf(&body, "- **Company:** %s\n", payload.Company)
	}
	if payload.Message != "" {
		fmt.Fprintf(&body, "\n%s\n", payload.Message)
	}

	return n.send(ctx, email.SendRequest{
		To:      []string{inbox},
		Subject: fmt.Sprintf("New lead: %s (%s)", payload.Name, payload.Form),
		ReplyTo: payload.Email,
	}, body.String())
}

func (n *NotificationService) handleSubmissionRead(_ context.Context, event events.Event) error {
	n.logger.Info("SubmissionRead", zap.String("submission_id", event.SubmissionID))
	return nil
}

func (n *NotificationService) handleSubmissionResponded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SubmissionRespondedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("SubmissionResponded", zap.String("submission_id", event.SubmissionID))

	if strings.TrimSpace(payload.Email) == "" {
		return nil
	}
	body := fmt.Sprintf("Hi %s,\n\n%s\n\n%s team", payload.Name, payload.Response, n.companyName)
	return n.send(ctx, email.SendRequest{
		To:      []string{payload.Email},
		Subject: fmt.Sprintf("Re: your message to %s", n.companyName),
	}, body)
}

func (n *NotificationService) handleLeadStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("LeadStatusChanged",
		zap.String("collection", string(event.Collection)),
		zap.String("submission_id", event.SubmissionID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) send(ctx context.Context, req email.SendRequest, markdownBody string) error {
	if n.sender == nil {
		return nil
	}
	html, err := markdown.ToHTML(markdownBody)
	if err != nil {
		return fmt.Errorf("render email body: %w", err)
	}
	req.HTML = string(html)
	if req.From == "" {
		req.From = n.cfg.EmailFrom
	}
	_, err = n.sender.Send(ctx, req)
	return err
}
