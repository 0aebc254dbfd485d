package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// EmailSender delivers a single email. Implementations are best-effort; the
// engine never observes delivery failures.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogEmailSender records outgoing mail in the log instead of delivering it.
// Real SMTP transport is out of scope for this service.
type LogEmailSender struct {
	logger *zap.Logger
	from   string
}

// NewLogEmailSender constructs the sender.
func NewLogEmailSender(logger *zap.Logger, cfg config.NotificationConfig) *LogEmailSender {
	return &LogEmailSender{logger: logger, from: cfg.EmailFrom}
}

// Send logs the email.
func (s *LogEmailSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("email notification",
		zap.String("from", s.from),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}

// NotificationService subscribes to domain events and emails the affected
// counterparty. Every failure here is logged and swallowed; a notification
// problem must never turn a committed state change into a reported error.
type NotificationService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	sender  EmailSender
	logger  *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(tickets repository.TicketRepository, users repository.UserRepository, sender EmailSender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		tickets: tickets,
		users:   users,
		sender:  sender,
		logger:  logger,
	}
}

// RegisterHandlers subscribes to the dispatcher.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketAssigned, n.handleTicketAssigned)
	dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleStatusChanged)
	dispatcher.Subscribe(events.EventTicketUpdated, n.handleTicketUpdated)
	dispatcher.Subscribe(events.EventCommentAdded, n.handleComment("New Comment Added To Ticket", "A new comment has been added to ticket #%s."))
	dispatcher.Subscribe(events.EventCommentUpdated, n.handleComment("Comment Updated on Ticket", "A comment on ticket #%s has been updated."))
	dispatcher.Subscribe(events.EventCommentDeleted, n.handleComment("Comment Deleted from Ticket", "A comment on ticket #%s has been deleted."))
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	managers, err := n.users.ListByRole(ctx, domain.RoleManager)
	if err != nil {
		n.logger.Warn("notification skipped: cannot load managers", zap.Error(err))
		return nil
	}
	for _, manager := range managers {
		n.send(ctx, manager.Email, "New Ticket Created",
			fmt.Sprintf("A new ticket #%s has been created.", event.TicketID))
	}
	return nil
}

func (n *NotificationService) handleTicketAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	assignee, err := n.users.GetByID(ctx, payload.AssigneeID)
	if err != nil {
		n.logger.Warn("notification skipped: cannot load assignee", zap.Error(err))
		return nil
	}
	n.send(ctx, assignee.Email, "Ticket Assigned To You",
		fmt.Sprintf("You've been assigned ticket #%s. Please check it.", event.TicketID))
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	n.notifyCounterparty(ctx, event, "Ticket Status Updated",
		fmt.Sprintf("The status of ticket #%s has been updated to %s.", event.TicketID, payload.NewStatus))
	return nil
}

func (n *NotificationService) handleTicketUpdated(ctx context.Context, event events.Event) error {
	n.notifyCounterparty(ctx, event, "Ticket Has Been Updated",
		fmt.Sprintf("Ticket #%s has been updated.", event.TicketID))
	return nil
}

func (n *NotificationService) handleComment(subject, bodyFormat string) events.EventHandler {
	return func(ctx context.Context, event events.Event) error {
		n.notifyCounterparty(ctx, event, subject, fmt.Sprintf(bodyFormat, event.TicketID))
		return nil
	}
}

// notifyCounterparty resolves the other party of the creator/assignee pair
// relative to the acting user and emails them. Managers acting on a ticket
// they are not party to produce no counterparty notification.
func (n *NotificationService) notifyCounterparty(ctx context.Context, event events.Event, subject, body string) {
	ticket, err := n.tickets.GetByID(ctx, event.TicketID)
	if err != nil {
		n.logger.Warn("notification skipped: cannot load ticket",
			zap.String("ticket_id", event.TicketID), zap.Error(err))
		return
	}

	var recipientID string
	switch {
	case ticket.CreatedByID == event.Actor.UserID && ticket.AssignedToID != nil:
		recipientID = *ticket.AssignedToID
	case ticket.AssignedToID != nil && *ticket.AssignedToID == event.Actor.UserID:
		recipientID = ticket.CreatedByID
	default:
		return
	}

	recipient, err := n.users.GetByID(ctx, recipientID)
	if err != nil {
		n.logger.Warn("notification skipped: cannot load recipient",
			zap.String("user_id", recipientID), zap.Error(err))
		return
	}
	n.send(ctx, recipient.Email, subject, body)
}

func (n *NotificationService) send(ctx context.Context, to, subject, body string) {
	if err := n.sender.Send(ctx, to, subject, body); err != nil {
		n.logger.Warn("email send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
	}
}
