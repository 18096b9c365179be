package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/shared"
)

// EditRequestService handles staff change requests. Staff submit them;
// supervisors and admins resolve them. Applying an approved change to
// the target record happens through the normal edit endpoints.
type EditRequestService struct {
	editRequestRepo identity.EditRequestRepository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewEditRequestService creates a new EditRequestService
func NewEditRequestService(editRequestRepo identity.EditRequestRepository, logger *zap.Logger) *EditRequestService {
	return &EditRequestService{
		editRequestRepo: editRequestRepo,
		logger:          logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *EditRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create submits a new edit request on behalf of the actor
func (s *EditRequestService) Create(ctx context.Context, actor identity.Actor, req CreateEditRequestRequest) (*EditRequestResponse, error) {
	er, err := identity.NewEditRequest(
		actor.OrganizationID,
		actor.UserID,
		identity.EditRequestEntityType(req.EntityType),
		req.EntityID,
		identity.RequestedChanges(req.Changes),
		req.Note,
	)
	if err != nil {
		return nil, err
	}

	if err := s.editRequestRepo.Save(ctx, er); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, er)

	s.logger.Info("edit request submitted",
		zap.String("edit_request_id", er.ID.String()),
		zap.String("entity_type", string(er.EntityType)),
		zap.String("requested_by", actor.UserID.String()),
	)

	response := ToEditRequestResponse(er)
	return &response, nil
}

// GetByID retrieves an edit request. Staff only see their own requests.
func (s *EditRequestService) GetByID(ctx context.Context, actor identity.Actor, id uuid.UUID) (*EditRequestResponse, error) {
	er, err := s.editRequestRepo.FindByIDForOrg(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanManage() && (er.CreatedBy == nil || *er.CreatedBy != actor.UserID) {
		return nil, shared.ErrNotFound
	}

	response := ToEditRequestResponse(er)
	return &response, nil
}

// List retrieves edit requests. Staff listings are restricted to the
// actor's own submissions regardless of the Mine flag.
func (s *EditRequestService) List(ctx context.Context, actor identity.Actor, filter EditRequestListFilter) ([]EditRequestResponse, int64, error) {
	domainFilter := identity.EditRequestFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
	}
	if filter.Status != "" {
		status := identity.EditRequestStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.EntityType != "" {
		entityType := identity.EditRequestEntityType(filter.EntityType)
		domainFilter.EntityType = &entityType
	}
	if filter.Mine || !actor.CanManage() {
		requester := actor.UserID
		domainFilter.Requester = &requester
	}

	requests, total, err := s.editRequestRepo.FindAllForOrg(ctx, actor.OrganizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EditRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToEditRequestResponse(&requests[i])
	}
	return responses, total, nil
}

// Approve resolves a pending request as approved
func (s *EditRequestService) Approve(ctx context.Context, actor identity.Actor, id uuid.UUID, req ResolveEditRequestRequest) (*EditRequestResponse, error) {
	return s.resolve(ctx, actor, id, req.Resolution, true)
}

// Reject resolves a pending request as rejected
func (s *EditRequestService) Reject(ctx context.Context, actor identity.Actor, id uuid.UUID, req ResolveEditRequestRequest) (*EditRequestResponse, error) {
	return s.resolve(ctx, actor, id, req.Resolution, false)
}

func (s *EditRequestService) resolve(ctx context.Context, actor identity.Actor, id uuid.UUID, resolution string, approve bool) (*EditRequestResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only supervisors and administrators can resolve edit requests")
	}

	er, err := s.editRequestRepo.FindByIDForOrg(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if approve {
		err = er.Approve(actor.UserID, resolution)
	} else {
		err = er.Reject(actor.UserID, resolution)
	}
	if err != nil {
		return nil, err
	}

	if err := s.editRequestRepo.Save(ctx, er); err != nil {
		return nil, err
	}

	s.logger.Info("edit request resolved",
		zap.String("edit_request_id", er.ID.String()),
		zap.String("status", string(er.Status)),
		zap.String("resolved_by", actor.UserID.String()),
	)

	response := ToEditRequestResponse(er)
	return &response, nil
}

func (s *EditRequestService) publishEvents(ctx context.Context, er *identity.EditRequest) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, er.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish edit request events", zap.Error(err))
	}
	er.ClearDomainEvents()
}
