package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService owns the ticket lifecycle: the status state machine, the
// authorization rules gating each transition, comment and attachment
// mutation rules, and audit-trail emission.
type TicketService struct {
	tickets     repository.TicketRepository
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	details     repository.TicketDetailRepository
	users       repository.UserRepository
	blobs       storage.BlobStore
	dispatcher  events.Dispatcher
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	DetailRepo     repository.TicketDetailRepository
	UserRepo       repository.UserRepository
	Blobs          storage.BlobStore
	Dispatcher     events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		details:     deps.DetailRepo,
		users:       deps.UserRepo,
		blobs:       deps.Blobs,
		dispatcher:  deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload. Attachment blobs are
// raw bytes, already decoded from the transport encoding.
type TicketCreateInput struct {
	ProductID          string
	TicketTypeID       string
	ProblemDescription string
	Attachments        [][]byte
}

// TicketUpdateInput describes the replaceable ticket fields. When
// Attachments is non-empty the existing set is deleted from storage and
// replaced wholesale; partial replacement is not supported.
type TicketUpdateInput struct {
	ProblemDescription string
	ProductID          string
	TicketTypeID       string
	Attachments        [][]byte
}

// AttachmentContent pairs an attachment's name with its resolved bytes.
type AttachmentContent struct {
	FileName string
	Data     []byte
}

// TicketView is a ticket aggregate with attachment bytes resolved.
type TicketView struct {
	Ticket      *domain.Ticket
	Attachments []AttachmentContent
}

// CreateTicket files a new ticket with status New. A ticket with zero
// attachments is valid. All managers are notified of the new ticket.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.ActorContext, input TicketCreateInput) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		CreatedByID:        actor.UserID,
		ProductID:          input.ProductID,
		TicketTypeID:       input.TicketTypeID,
		ProblemDescription: strings.TrimSpace(input.ProblemDescription),
		Status:             domain.TicketStatusNew,
		UpdatedByID:        actor.UserID,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	for _, blob := range input.Attachments {
		path, name, err := s.blobs.Write(blob)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		attachment := &domain.TicketAttachment{
			TicketID:    ticket.ID,
			FilePath:    path,
			FileName:    name,
			CreatedByID: actor.UserID,
			UpdatedByID: actor.UserID,
		}
		if err := s.attachments.Create(ctx, attachment); err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.Attachments = append(ticket.Attachments, *attachment)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			CreatorID:       actor.UserID,
			ProductID:       ticket.ProductID,
			TicketTypeID:    ticket.TicketTypeID,
			AttachmentCount: len(ticket.Attachments),
		},
	})
	return ticket, nil
}

// UpdateStatus applies the lifecycle transition guard chain and, on
// success, commits the status change together with its audit row. The
// counterparty is notified after commit; notification outcome is never
// observed by the caller.
func (s *TicketService) UpdateStatus(ctx context.Context, actor domain.ActorContext, ticketID string, target domain.TicketStatus) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewTerminalState("cannot update a ticket that is already closed or canceled")
	}
	if !isParty(ticket, actor.UserID) {
		return nil, apperrors.NewForbidden("only the ticket creator or assignee may update its status")
	}
	if ticket.Status == domain.TicketStatusNew || ticket.AssignedToID == nil {
		return nil, apperrors.NewInvalidTransition("cannot update a new or unassigned ticket")
	}
	if target == domain.TicketStatusConfirmed && actor.Role != domain.RoleClient {
		return nil, apperrors.NewRoleNotPermitted("only clients can confirm resolution")
	}
	if target == domain.TicketStatusClosed && ticket.Status != domain.TicketStatusConfirmed && actor.Role == domain.RoleSupport {
		return nil, apperrors.NewRoleNotPermitted("support cannot close an unconfirmed ticket")
	}

	oldStatus := ticket.Status
	ticket.Status = target
	ticket.UpdatedByID = actor.UserID
	detail := &domain.TicketDetail{
		TicketID:    ticket.ID,
		CreatedByID: actor.UserID,
		Status:      target,
	}
	if err := s.tickets.UpdateWithDetail(ctx, ticket, detail); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConcurrencyConflict("ticket was modified concurrently")
		}
		return nil, apperrors.MapError(err)
	}
	ticket.Details = append(ticket.Details, *detail)

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: target,
		},
	})
	return ticket, nil
}

// UpdateTicket replaces the ticket's editable fields under the same guard
// rails as a status update. The audit row is tagged with the ticket's
// current status; no status change occurs here.
func (s *TicketService) UpdateTicket(ctx context.Context, actor domain.ActorContext, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetWithDetails(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewTerminalState("cannot update a ticket that is already closed or canceled")
	}
	if !isParty(ticket, actor.UserID) {
		return nil, apperrors.NewForbidden("only the ticket creator or assignee may update it")
	}
	if ticket.Status == domain.TicketStatusNew || ticket.AssignedToID == nil {
		return nil, apperrors.NewInvalidTransition("cannot update a new or unassigned ticket")
	}

	ticket.ProblemDescription = strings.TrimSpace(input.ProblemDescription)
	ticket.ProductID = input.ProductID
	ticket.TicketTypeID = input.TicketTypeID
	ticket.UpdatedByID = actor.UserID

	replaced := false
	if len(input.Attachments) > 0 {
		if err := s.replaceAttachments(ctx, actor, ticket, input.Attachments); err != nil {
			return nil, err
		}
		replaced = true
	}

	detail := &domain.TicketDetail{
		TicketID:    ticket.ID,
		CreatedByID: actor.UserID,
		Status:      ticket.Status,
	}
	if err := s.tickets.UpdateWithDetail(ctx, ticket, detail); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.NewConcurrencyConflict("ticket was modified concurrently")
		}
		return nil, apperrors.MapError(err)
	}
	ticket.Details = append(ticket.Details, *detail)

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload: events.TicketUpdatedPayload{
			Status:              ticket.Status,
			AttachmentsReplaced: replaced,
		},
	})
	return ticket, nil
}

// replaceAttachments deletes every existing attachment from storage and the
// ticket, then stores the supplied set.
func (s *TicketService) replaceAttachments(ctx context.Context, actor domain.ActorContext, ticket *domain.Ticket, blobs [][]byte) error {
	for _, attachment := range ticket.Attachments {
		if err := s.blobs.Delete(attachment.FilePath); err != nil {
			return apperrors.MapError(err)
		}
	}
	if err := s.attachments.DeleteByTicket(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}
	ticket.Attachments = nil

	for _, blob := range blobs {
		path, name, err := s.blobs.Write(blob)
		if err != nil {
			return apperrors.MapError(err)
		}
		attachment := &domain.TicketAttachment{
			TicketID:    ticket.ID,
			FilePath:    path,
			FileName:    name,
			CreatedByID: actor.UserID,
			UpdatedByID: actor.UserID,
		}
		if err := s.attachments.Create(ctx, attachment); err != nil {
			return apperrors.MapError(err)
		}
		ticket.Attachments = append(ticket.Attachments, *attachment)
	}
	return nil
}

// GetTicketByID loads the full aggregate and enforces read visibility:
// creator, assignee, or any manager. Attachment bytes are resolved at read
// time; blobs missing from storage are silently skipped.
func (s *TicketService) GetTicketByID(ctx context.Context, actor domain.ActorContext, ticketID string) (*TicketView, error) {
	ticket, err := s.tickets.GetWithDetails(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !isParty(ticket, actor.UserID) && actor.Role != domain.RoleManager {
		return nil, apperrors.NewForbidden("access denied")
	}

	view := &TicketView{Ticket: ticket}
	for _, attachment := range ticket.Attachments {
		data, err := s.blobs.Read(attachment.FilePath)
		if errors.Is(err, storage.ErrMissing) {
			continue
		}
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		view.Attachments = append(view.Attachments, AttachmentContent{
			FileName: attachment.FileName,
			Data:     data,
		})
	}
	return view, nil
}

// GetAllTickets loads the full ticket set and narrows it in a fixed order:
// status filter, then role filter, then the 1-indexed page slice. Managers
// see all tickets, support only tickets assigned to them, clients only
// tickets they created.
func (s *TicketService) GetAllTickets(ctx context.Context, actor domain.ActorContext, pageNumber, pageSize int, statusFilter *domain.TicketStatus) ([]domain.Ticket, error) {
	tickets, err := s.tickets.GetAllWithDetails(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if statusFilter != nil {
		tickets = filterTickets(tickets, func(t *domain.Ticket) bool {
			return t.Status == *statusFilter
		})
	}

	switch actor.Role {
	case domain.RoleManager:
	case domain.RoleSupport:
		tickets = filterTickets(tickets, func(t *domain.Ticket) bool {
			return t.AssignedToID != nil && *t.AssignedToID == actor.UserID
		})
	case domain.RoleClient:
		tickets = filterTickets(tickets, func(t *domain.Ticket) bool {
			return t.CreatedByID == actor.UserID
		})
	}

	return paginate(tickets, pageNumber, pageSize), nil
}

// GetTicketsByUser lists tickets visible for the given user, applying that
// user's role scope. Clients may only query themselves.
func (s *TicketService) GetTicketsByUser(ctx context.Context, actor domain.ActorContext, userID string) ([]domain.Ticket, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if actor.Role == domain.RoleClient && user.ID != actor.UserID {
		return nil, apperrors.NewForbidden("clients may only list their own tickets")
	}

	tickets, err := s.tickets.GetAllWithDetails(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	switch user.Role {
	case domain.RoleManager:
	case domain.RoleSupport:
		tickets = filterTickets(tickets, func(t *domain.Ticket) bool {
			return t.AssignedToID != nil && *t.AssignedToID == user.ID
		})
	case domain.RoleClient:
		tickets = filterTickets(tickets, func(t *domain.Ticket) bool {
			return t.CreatedByID == user.ID
		})
	}
	return tickets, nil
}

// DeleteTicket removes the ticket, its owned children and its stored
// attachment blobs. Role enforcement (manager only) is a transport concern.
func (s *TicketService) DeleteTicket(ctx context.Context, ticketID string) error {
	ticket, err := s.tickets.GetWithDetails(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	for _, attachment := range ticket.Attachments {
		if err := s.blobs.Delete(attachment.FilePath); err != nil {
			return apperrors.MapError(err)
		}
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// AddComment appends a comment. Comments require an engaged ticket: a New
// ticket has no assignee to converse with, and terminal tickets are frozen.
func (s *TicketService) AddComment(ctx context.Context, actor domain.ActorContext, ticketID, text string) (*domain.Comment, error) {
	ticket, err := s.tickets.GetWithDetails(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewTerminalState("cannot add comments to a closed or canceled ticket")
	}
	if ticket.Status == domain.TicketStatusNew {
		return nil, apperrors.NewInvalidState("cannot add comments to a new ticket")
	}

	comment := &domain.Comment{
		TicketID:    ticket.ID,
		CreatedByID: actor.UserID,
		UpdatedByID: actor.UserID,
		Text:        strings.TrimSpace(text),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		Payload:  events.CommentPayload{CommentID: comment.ID},
	})
	return comment, nil
}

// UpdateComment replaces a comment's text. Any actor holding ticket access
// may edit any comment on the ticket; there is no per-comment author check.
func (s *TicketService) UpdateComment(ctx context.Context, actor domain.ActorContext, ticketID, commentID, newText string) (*domain.Comment, error) {
	if strings.TrimSpace(newText) == "" {
		return nil, apperrors.NewValidationError("comment text required", nil)
	}
	ticket, comment, err := s.findMutableComment(ctx, ticketID, commentID)
	if err != nil {
		return nil, err
	}

	comment.Text = strings.TrimSpace(newText)
	comment.UpdatedByID = actor.UserID
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventCommentUpdated,
		TicketID: ticket.ID,
		Payload:  events.CommentPayload{CommentID: comment.ID},
	})
	return comment, nil
}

// DeleteComment removes a comment from a non-terminal ticket.
func (s *TicketService) DeleteComment(ctx context.Context, actor domain.ActorContext, ticketID, commentID string) error {
	ticket, comment, err := s.findMutableComment(ctx, ticketID, commentID)
	if err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, actor, events.Event{
		Type:     events.EventCommentDeleted,
		TicketID: ticket.ID,
		Payload:  events.CommentPayload{CommentID: comment.ID},
	})
	return nil
}

// StatusHistory returns the ticket's audit rows ordered by timestamp.
func (s *TicketService) StatusHistory(ctx context.Context, actor domain.ActorContext, ticketID string) ([]domain.TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	if !isParty(ticket, actor.UserID) && actor.Role != domain.RoleManager {
		return nil, apperrors.NewForbidden("access denied")
	}
	details, err := s.details.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return details, nil
}

// findMutableComment loads the ticket and resolves the comment. The terminal
// guard runs before the comment lookup: a frozen ticket rejects the mutation
// whether or not the comment id exists.
func (s *TicketService) findMutableComment(ctx context.Context, ticketID, commentID string) (*domain.Ticket, *domain.Comment, error) {
	ticket, err := s.tickets.GetWithDetails(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if ticket.Status.IsTerminal() {
		return nil, nil, apperrors.NewTerminalState("cannot modify comments on a closed or canceled ticket")
	}
	for i := range ticket.Comments {
		if ticket.Comments[i].ID == commentID {
			return ticket, &ticket.Comments[i], nil
		}
	}
	return nil, nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
}

func isParty(ticket *domain.Ticket, userID string) bool {
	if ticket.CreatedByID == userID {
		return true
	}
	return ticket.AssignedToID != nil && *ticket.AssignedToID == userID
}

func filterTickets(tickets []domain.Ticket, keep func(*domain.Ticket) bool) []domain.Ticket {
	filtered := tickets[:0:0]
	for i := range tickets {
		if keep(&tickets[i]) {
			filtered = append(filtered, tickets[i])
		}
	}
	return filtered
}

// paginate slices out a 1-indexed page; page and size below 1 fall back to
// defaults.
func paginate(tickets []domain.Ticket, pageNumber, pageSize int) []domain.Ticket {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	start := (pageNumber - 1) * pageSize
	if start >= len(tickets) {
		return []domain.Ticket{}
	}
	end := start + pageSize
	if end > len(tickets) {
		end = len(tickets)
	}
	return tickets[start:end]
}

func (s *TicketService) publishEvent(ctx context.Context, actor domain.ActorContext, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Actor = events.Actor{UserID: actor.UserID, Role: actor.Role}
	_ = s.dispatcher.Publish(ctx, event)
}
