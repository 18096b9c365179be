package fleet

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/fleet"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/operations"
	"github.com/fleetops/backend/internal/domain/shared"
)

// TruckService handles truck operations
type TruckService struct {
	truckRepo      fleet.TruckRepository
	driverRepo     fleet.DriverRepository
	tripRepo       operations.TripRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTruckService creates a new TruckService
func NewTruckService(
	truckRepo fleet.TruckRepository,
	driverRepo fleet.DriverRepository,
	tripRepo operations.TripRepository,
	logger *zap.Logger,
) *TruckService {
	return &TruckService{
		truckRepo:  truckRepo,
		driverRepo: driverRepo,
		tripRepo:   tripRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *TruckService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new truck
func (s *TruckService) Create(ctx context.Context, actor identity.Actor, req CreateTruckRequest) (*TruckResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot register trucks")
	}

	if existing, err := s.truckRepo.FindByRegistration(ctx, actor.OrganizationID, req.RegistrationNumber); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A truck with this registration number already exists")
	}

	truck, err := fleet.NewTruck(actor.OrganizationID, req.RegistrationNumber, req.Make, req.Model, req.Year)
	if err != nil {
		return nil, err
	}
	truck.SetCreatedBy(actor.UserID)

	if req.CapacityKg > 0 {
		if err := truck.SetCapacity(req.CapacityKg); err != nil {
			return nil, err
		}
	}
	if req.CurrentMileage > 0 {
		if err := truck.RecordMileage(req.CurrentMileage); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		truck.SetNotes(req.Notes)
	}

	if err := s.truckRepo.Save(ctx, truck); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, truck)

	s.logger.Info("truck registered",
		zap.String("truck_id", truck.ID.String()),
		zap.String("registration", truck.RegistrationNumber),
	)

	response := ToTruckResponse(truck)
	return &response, nil
}

// GetByID retrieves a truck
func (s *TruckService) GetByID(ctx context.Context, actor identity.Actor, truckID uuid.UUID) (*TruckResponse, error) {
	truck, err := s.truckRepo.FindByIDForOrg(ctx, actor.OrganizationID, truckID)
	if err != nil {
		return nil, err
	}

	response := ToTruckResponse(truck)
	return &response, nil
}

// List retrieves trucks with filtering and pagination
func (s *TruckService) List(ctx context.Context, actor identity.Actor, filter TruckListFilter) ([]TruckResponse, int64, error) {
	domainFilter := fleet.TruckFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
	}
	if filter.Status != "" {
		status := fleet.TruckStatus(filter.Status)
		domainFilter.Status = &status
	}

	trucks, total, err := s.truckRepo.FindAllForOrg(ctx, actor.OrganizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TruckResponse, len(trucks))
	for i := range trucks {
		responses[i] = ToTruckResponse(&trucks[i])
	}
	return responses, total, nil
}

// Update updates a truck's mutable fields
func (s *TruckService) Update(ctx context.Context, actor identity.Actor, truckID uuid.UUID, req UpdateTruckRequest) (*TruckResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot edit trucks")
	}

	truck, err := s.truckRepo.FindByIDForOrg(ctx, actor.OrganizationID, truckID)
	if err != nil {
		return nil, err
	}

	if req.CapacityKg != nil {
		if err := truck.SetCapacity(*req.CapacityKg); err != nil {
			return nil, err
		}
	}
	if req.CurrentMileage != nil {
		if err := truck.RecordMileage(*req.CurrentMileage); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		truck.SetNotes(*req.Notes)
	}

	if err := s.truckRepo.Save(ctx, truck); err != nil {
		return nil, err
	}

	response := ToTruckResponse(truck)
	return &response, nil
}

// SendToMaintenance moves an available truck into the shop
func (s *TruckService) SendToMaintenance(ctx context.Context, actor identity.Actor, truckID uuid.UUID) (*TruckResponse, error) {
	return s.transition(ctx, actor, truckID, (*fleet.Truck).SendToMaintenance)
}

// ReturnToService brings a truck back from maintenance
func (s *TruckService) ReturnToService(ctx context.Context, actor identity.Actor, truckID uuid.UUID) (*TruckResponse, error) {
	return s.transition(ctx, actor, truckID, (*fleet.Truck).MarkAvailable)
}

// Retire permanently takes a truck out of the fleet. The truck must be
// unassigned first.
func (s *TruckService) Retire(ctx context.Context, actor identity.Actor, truckID uuid.UUID) (*TruckResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot change truck status")
	}

	if err := s.ensureUnassigned(ctx, actor.OrganizationID, truckID); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, truckID, (*fleet.Truck).Retire)
}

// Delete removes a truck. Trucks with trip history cannot be deleted;
// retire them instead.
func (s *TruckService) Delete(ctx context.Context, actor identity.Actor, truckID uuid.UUID) error {
	if !actor.CanDelete() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete trucks")
	}

	trips, err := s.tripRepo.CountByTruck(ctx, actor.OrganizationID, truckID)
	if err != nil {
		return err
	}
	if trips > 0 {
		return shared.NewDomainError("HAS_DEPENDENTS", "Truck has trips and cannot be deleted")
	}

	if err := s.ensureUnassigned(ctx, actor.OrganizationID, truckID); err != nil {
		return err
	}

	if err := s.truckRepo.DeleteForOrg(ctx, actor.OrganizationID, truckID); err != nil {
		return err
	}

	s.logger.Info("truck deleted",
		zap.String("truck_id", truckID.String()),
		zap.String("deleted_by", actor.UserID.String()),
	)
	return nil
}

func (s *TruckService) transition(ctx context.Context, actor identity.Actor, truckID uuid.UUID, fn func(*fleet.Truck) error) (*TruckResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot change truck status")
	}

	truck, err := s.truckRepo.FindByIDForOrg(ctx, actor.OrganizationID, truckID)
	if err != nil {
		return nil, err
	}

	if err := fn(truck); err != nil {
		return nil, err
	}
	if err := s.truckRepo.Save(ctx, truck); err != nil {
		return nil, err
	}

	response := ToTruckResponse(truck)
	return &response, nil
}

func (s *TruckService) ensureUnassigned(ctx context.Context, orgID, truckID uuid.UUID) error {
	driver, err := s.driverRepo.FindByAssignedTruck(ctx, orgID, truckID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil
		}
		return err
	}
	return shared.NewDomainError("TRUCK_ASSIGNED", "Truck is assigned to driver "+driver.Name)
}

func (s *TruckService) publishEvents(ctx context.Context, truck *fleet.Truck) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, truck.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish truck events", zap.Error(err))
	}
	truck.ClearDomainEvents()
}
