package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// LookupHandler exposes product, ticket-type and category endpoints.
type LookupHandler struct {
	lookups *service.LookupService
}

// NewLookupHandler constructs handler.
func NewLookupHandler(lookupService *service.LookupService) *LookupHandler {
	return &LookupHandler{lookups: lookupService}
}

// CreateProduct POST /products.
func (h *LookupHandler) CreateProduct(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	product, err := h.lookups.CreateProduct(c.Context(), principal.Actor(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": productResponse(product)})
}

// UpdateProduct PUT /products/:id.
func (h *LookupHandler) UpdateProduct(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	product, err := h.lookups.UpdateProduct(c.Context(), principal.Actor(), c.Params("id"), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// GetProduct GET /products/:id.
func (h *LookupHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.lookups.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// ListProducts GET /products.
func (h *LookupHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.lookups.ListProducts(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, productResponse(&products[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteProduct DELETE /products/:id.
func (h *LookupHandler) DeleteProduct(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.lookups.DeleteProduct(c.Context(), principal.Actor(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateTicketType POST /ticket-types.
func (h *LookupHandler) CreateTicketType(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticketType, err := h.lookups.CreateTicketType(c.Context(), principal.Actor(), req.Name, req.CategoryID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketTypeResponse(ticketType)})
}

// UpdateTicketType PUT /ticket-types/:id.
func (h *LookupHandler) UpdateTicketType(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticketType, err := h.lookups.UpdateTicketType(c.Context(), principal.Actor(), c.Params("id"), req.Name, req.CategoryID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketTypeResponse(ticketType)})
}

// GetTicketType GET /ticket-types/:id.
func (h *LookupHandler) GetTicketType(c *fiber.Ctx) error {
	ticketType, err := h.lookups.GetTicketType(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketTypeResponse(ticketType)})
}

// ListTicketTypes GET /ticket-types.
func (h *LookupHandler) ListTicketTypes(c *fiber.Ctx) error {
	types, err := h.lookups.ListTicketTypes(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TicketTypeResponse, 0, len(types))
	for i := range types {
		items = append(items, ticketTypeResponse(&types[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteTicketType DELETE /ticket-types/:id.
func (h *LookupHandler) DeleteTicketType(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.lookups.DeleteTicketType(c.Context(), principal.Actor(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateTicketCategory POST /ticket-categories.
func (h *LookupHandler) CreateTicketCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TicketCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.lookups.CreateTicketCategory(c.Context(), principal.Actor(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": categoryResponse(category)})
}

// UpdateTicketCategory PUT /ticket-categories/:id.
func (h *LookupHandler) UpdateTicketCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TicketCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.lookups.UpdateTicketCategory(c.Context(), principal.Actor(), c.Params("id"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(category)})
}

// ListTicketCategories GET /ticket-categories.
func (h *LookupHandler) ListTicketCategories(c *fiber.Ctx) error {
	categories, err := h.lookups.ListTicketCategories(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.TicketCategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteTicketCategory DELETE /ticket-categories/:id.
func (h *LookupHandler) DeleteTicketCategory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.lookups.DeleteTicketCategory(c.Context(), principal.Actor(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListTicketStatuses GET /ticket-statuses.
func (h *LookupHandler) ListTicketStatuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.lookups.ListTicketStatuses()})
}

func productResponse(product *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func ticketTypeResponse(ticketType *domain.TicketType) dto.TicketTypeResponse {
	return dto.TicketTypeResponse{
		ID:         ticketType.ID,
		Name:       ticketType.Name,
		CategoryID: ticketType.CategoryID,
		CreatedAt:  ticketType.CreatedAt,
		UpdatedAt:  ticketType.UpdatedAt,
	}
}

func categoryResponse(category *domain.TicketCategory) dto.TicketCategoryResponse {
	return dto.TicketCategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}
