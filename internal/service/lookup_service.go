package service

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// LookupService manages products, ticket types and ticket categories.
// Reads are open to any authenticated role; writes are manager-only.
type LookupService struct {
	products   repository.ProductRepository
	types      repository.TicketTypeRepository
	categories repository.TicketCategoryRepository
}

// LookupDependencies bundles collaborators for lookup service.
type LookupDependencies struct {
	ProductRepo  repository.ProductRepository
	TypeRepo     repository.TicketTypeRepository
	CategoryRepo repository.TicketCategoryRepository
}

// NewLookupService builds the service.
func NewLookupService(deps LookupDependencies) *LookupService {
	return &LookupService{
		products:   deps.ProductRepo,
		types:      deps.TypeRepo,
		categories: deps.CategoryRepo,
	}
}

func requireManager(actor domain.ActorContext) error {
	if actor.Role != domain.RoleManager {
		return apperrors.NewRoleNotPermitted("only managers can modify lookup data")
	}
	return nil
}

// CreateProduct registers a new product.
func (s *LookupService) CreateProduct(ctx context.Context, actor domain.ActorContext, name, description string) (*domain.Product, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.NewValidationError("product name is required", nil)
	}
	product := &domain.Product{
		Name:        name,
		Description: description,
		CreatedByID: actor.UserID,
		UpdatedByID: actor.UserID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// UpdateProduct edits an existing product.
func (s *LookupService) UpdateProduct(ctx context.Context, actor domain.ActorContext, id, name, description string) (*domain.Product, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if name != "" {
		product.Name = name
	}
	product.Description = description
	product.UpdatedByID = actor.UserID
	if err := s.products.Update(ctx, product); err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// GetProduct loads one product.
func (s *LookupService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return product, nil
}

// ListProducts returns all products.
func (s *LookupService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return products, nil
}

// DeleteProduct removes a product.
func (s *LookupService) DeleteProduct(ctx context.Context, actor domain.ActorContext, id string) error {
	if err := requireManager(actor); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// CreateTicketType registers a new ticket type, optionally under a category.
func (s *LookupService) CreateTicketType(ctx context.Context, actor domain.ActorContext, name string, categoryID *string) (*domain.TicketType, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.NewValidationError("ticket type name is required", nil)
	}
	if categoryID != nil {
		if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	ticketType := &domain.TicketType{
		Name:        name,
		CategoryID:  categoryID,
		CreatedByID: actor.UserID,
		UpdatedByID: actor.UserID,
	}
	if err := s.types.Create(ctx, ticketType); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticketType, nil
}

// UpdateTicketType edits an existing ticket type.
func (s *LookupService) UpdateTicketType(ctx context.Context, actor domain.ActorContext, id, name string, categoryID *string) (*domain.TicketType, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	ticketType, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if name != "" {
		ticketType.Name = name
	}
	if categoryID != nil {
		if _, err := s.categories.GetByID(ctx, *categoryID); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	ticketType.CategoryID = categoryID
	ticketType.UpdatedByID = actor.UserID
	if err := s.types.Update(ctx, ticketType); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticketType, nil
}

// GetTicketType loads one ticket type.
func (s *LookupService) GetTicketType(ctx context.Context, id string) (*domain.TicketType, error) {
	ticketType, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticketType, nil
}

// ListTicketTypes returns all ticket types.
func (s *LookupService) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return types, nil
}

// DeleteTicketType removes a ticket type.
func (s *LookupService) DeleteTicketType(ctx context.Context, actor domain.ActorContext, id string) error {
	if err := requireManager(actor); err != nil {
		return err
	}
	if err := s.types.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// CreateTicketCategory registers a new ticket category.
func (s *LookupService) CreateTicketCategory(ctx context.Context, actor domain.ActorContext, name string) (*domain.TicketCategory, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required", nil)
	}
	category := &domain.TicketCategory{
		Name:        name,
		CreatedByID: actor.UserID,
		UpdatedByID: actor.UserID,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// UpdateTicketCategory edits an existing ticket category.
func (s *LookupService) UpdateTicketCategory(ctx context.Context, actor domain.ActorContext, id, name string) (*domain.TicketCategory, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if name != "" {
		category.Name = name
	}
	category.UpdatedByID = actor.UserID
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListTicketCategories returns all ticket categories.
func (s *LookupService) ListTicketCategories(ctx context.Context) ([]domain.TicketCategory, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// DeleteTicketCategory removes a ticket category.
func (s *LookupService) DeleteTicketCategory(ctx context.Context, actor domain.ActorContext, id string) error {
	if err := requireManager(actor); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ListTicketStatuses returns the full set of ticket statuses.
func (s *LookupService) ListTicketStatuses() []domain.TicketStatus {
	statuses := make([]domain.TicketStatus, len(domain.AllTicketStatuses))
	copy(statuses, domain.AllTicketStatuses)
	return statuses
}
