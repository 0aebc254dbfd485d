package handlers

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler exposes the ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, assignmentService *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, assignments: assignmentService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ProductID == "" || req.TicketTypeID == "" || strings.TrimSpace(req.ProblemDescription) == "" {
		return apperrors.NewValidationError("product_id, ticket_type_id, problem_description required", nil)
	}
	blobs, err := decodeAttachments(req.Attachments)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), principal.Actor(), service.TicketCreateInput{
		ProductID:          req.ProductID,
		TicketTypeID:       req.TicketTypeID,
		ProblemDescription: req.ProblemDescription,
		Attachments:        blobs,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	var statusFilter *domain.TicketStatus
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseTicketStatus(raw)
		if !ok {
			return apperrors.NewValidationError("unknown status", map[string]any{"status": raw})
		}
		statusFilter = &status
	}

	tickets, err := h.tickets.GetAllTickets(c.Context(), principal.Actor(), page, pageSize, statusFilter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items, "page": page, "page_size": pageSize})
}

// ListTicketsByUser GET /users/:id/tickets.
func (h *TicketsHandler) ListTicketsByUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.tickets.GetTicketsByUser(c.Context(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	view, err := h.tickets.GetTicketByID(c.Context(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(view)})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	blobs, err := decodeAttachments(req.Attachments)
	if err != nil {
		return err
	}

	ticket, err := h.tickets.UpdateTicket(c.Context(), principal.Actor(), c.Params("id"), service.TicketUpdateInput{
		ProblemDescription: req.ProblemDescription,
		ProductID:          req.ProductID,
		TicketTypeID:       req.TicketTypeID,
		Attachments:        blobs,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, ok := domain.ParseTicketStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": req.Status})
	}

	ticket, err := h.tickets.UpdateStatus(c.Context(), principal.Actor(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AssignTicket POST /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EmployeeID == "" {
		return apperrors.NewValidationError("employee_id required", nil)
	}

	ticket, err := h.assignments.AssignToEmployee(c.Context(), principal.Actor(), c.Params("id"), req.EmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	if err := h.tickets.DeleteTicket(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// StatusHistory GET /tickets/:id/history.
func (h *TicketsHandler) StatusHistory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	details, err := h.tickets.StatusHistory(c.Context(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": detailResponses(details)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}

	comment, err := h.tickets.AddComment(c.Context(), principal.Actor(), c.Params("id"), req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// UpdateComment PUT /tickets/:id/comments/:commentId.
func (h *TicketsHandler) UpdateComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.tickets.UpdateComment(c.Context(), principal.Actor(), c.Params("id"), c.Params("commentId"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponse(comment)})
}

// DeleteComment DELETE /tickets/:id/comments/:commentId.
func (h *TicketsHandler) DeleteComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.tickets.DeleteComment(c.Context(), principal.Actor(), c.Params("id"), c.Params("commentId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func decodeAttachments(encoded []string) ([][]byte, error) {
	blobs := make([][]byte, 0, len(encoded))
	for i, item := range encoded {
		data, err := base64.StdEncoding.DecodeString(item)
		if err != nil {
			return nil, apperrors.NewValidationError("attachment is not valid base64", map[string]any{"index": i})
		}
		blobs = append(blobs, data)
	}
	return blobs, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:                 ticket.ID,
		CreatedByID:        ticket.CreatedByID,
		AssignedToID:       ticket.AssignedToID,
		ProductID:          ticket.ProductID,
		TicketTypeID:       ticket.TicketTypeID,
		ProblemDescription: ticket.ProblemDescription,
		Status:             ticket.Status,
		CreatedAt:          ticket.CreatedAt,
		UpdatedAt:          ticket.UpdatedAt,
	}
}

func ticketResponse(view *service.TicketView) dto.TicketResponse {
	ticket := view.Ticket
	comments := make([]dto.CommentResponse, 0, len(ticket.Comments))
	for i := range ticket.Comments {
		comments = append(comments, commentResponse(&ticket.Comments[i]))
	}

	content := make(map[string]string, len(view.Attachments))
	for _, att := range view.Attachments {
		content[att.FileName] = base64.StdEncoding.EncodeToString(att.Data)
	}
	attachments := make([]dto.AttachmentResponse, 0, len(ticket.Attachments))
	for _, att := range ticket.Attachments {
		attachments = append(attachments, dto.AttachmentResponse{
			ID:       att.ID,
			FileName: att.FileName,
			Content:  content[att.FileName],
		})
	}

	return dto.TicketResponse{
		TicketSummary: ticketSummary(ticket),
		Comments:      comments,
		Attachments:   attachments,
		History:       detailResponses(ticket.Details),
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:          comment.ID,
		CreatedByID: comment.CreatedByID,
		Text:        comment.Text,
		CreatedAt:   comment.CreatedAt,
		UpdatedAt:   comment.UpdatedAt,
	}
}

func detailResponses(details []domain.TicketDetail) []dto.TicketDetailResponse {
	resp := make([]dto.TicketDetailResponse, 0, len(details))
	for _, detail := range details {
		resp = append(resp, dto.TicketDetailResponse{
			ID:          detail.ID,
			CreatedByID: detail.CreatedByID,
			Status:      detail.Status,
			CreatedAt:   detail.CreatedAt,
		})
	}
	return resp
}
