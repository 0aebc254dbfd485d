package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AssignmentService handles ticket assignment. Assignment is one-shot: a
// ticket with an assignee cannot be reassigned through this path. Caller
// role enforcement is a transport concern.
type AssignmentService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// AssignToEmployee sets the assignee, forces status to Assigned, appends
// the audit row atomically with the status change, and notifies the new
// assignee.
func (s *AssignmentService) AssignToEmployee(ctx context.Context, actor domain.ActorContext, ticketID, employeeID string) (*domain.Ticket, error) {
	employee, err := s.users.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.AssignedToID != nil && *ticket.AssignedToID != "" {
		return nil, apperrors.NewAlreadyAssigned("ticket is already assigned", map[string]any{
			"ticket_id":   ticketID,
			"assigned_to": *ticket.AssignedToID,
		})
	}

	ticket.AssignedToID = &employee.ID
	ticket.Status = domain.TicketStatusAssigned
	ticket.UpdatedByID = actor.UserID
	detail := &domain.TicketDetail{
		TicketID:    ticket.ID,
		CreatedByID: actor.UserID,
		Status:      domain.TicketStatusAssigned,
	}
	if err := s.tickets.UpdateWithDetail(ctx, ticket, detail); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConcurrencyConflict("ticket was modified concurrently")
		}
		return nil, apperrors.MapError(err)
	}
	ticket.Details = append(ticket.Details, *detail)

	s.publishEvent(ctx, actor, ticket.ID, employee.ID)
	return ticket, nil
}

func (s *AssignmentService) publishEvent(ctx context.Context, actor domain.ActorContext, ticketID, assigneeID string) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketAssigned,
		TicketID:  ticketID,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload:   events.TicketAssignedPayload{AssigneeID: assigneeID},
	}
	_ = s.dispatcher.Publish(ctx, event)
}
