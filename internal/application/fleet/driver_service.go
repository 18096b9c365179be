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

// DriverService handles driver operations, including the one-to-one
// truck assignment
type DriverService struct {
	driverRepo     fleet.DriverRepository
	truckRepo      fleet.TruckRepository
	tripRepo       operations.TripRepository
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewDriverService creates a new DriverService
func NewDriverService(
	driverRepo fleet.DriverRepository,
	truckRepo fleet.TruckRepository,
	tripRepo operations.TripRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		truckRepo:  truckRepo,
		tripRepo:   tripRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *DriverService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new driver
func (s *DriverService) Create(ctx context.Context, actor identity.Actor, req CreateDriverRequest) (*DriverResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot register drivers")
	}

	if existing, err := s.driverRepo.FindByLicense(ctx, actor.OrganizationID, req.LicenseNumber); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A driver with this license number already exists")
	}

	driver, err := fleet.NewDriver(actor.OrganizationID, req.Name, req.LicenseNumber)
	if err != nil {
		return nil, err
	}
	driver.SetCreatedBy(actor.UserID)

	if req.Phone != "" || req.Email != "" {
		driver.SetContact(req.Phone, req.Email)
	}
	if req.HiredAt != nil {
		driver.SetHiredAt(*req.HiredAt)
	}
	if req.Notes != "" {
		driver.SetNotes(req.Notes)
	}

	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, driver)

	s.logger.Info("driver registered",
		zap.String("driver_id", driver.ID.String()),
		zap.String("license", driver.LicenseNumber),
	)

	response := ToDriverResponse(driver)
	return &response, nil
}

// GetByID retrieves a driver
func (s *DriverService) GetByID(ctx context.Context, actor identity.Actor, driverID uuid.UUID) (*DriverResponse, error) {
	driver, err := s.driverRepo.FindByIDForOrg(ctx, actor.OrganizationID, driverID)
	if err != nil {
		return nil, err
	}

	response := ToDriverResponse(driver)
	return &response, nil
}

// List retrieves drivers with filtering and pagination
func (s *DriverService) List(ctx context.Context, actor identity.Actor, filter DriverListFilter) ([]DriverResponse, int64, error) {
	domainFilter := fleet.DriverFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
	}
	if filter.Status != "" {
		status := fleet.DriverStatus(filter.Status)
		domainFilter.Status = &status
	}

	drivers, total, err := s.driverRepo.FindAllForOrg(ctx, actor.OrganizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]DriverResponse, len(drivers))
	for i := range drivers {
		responses[i] = ToDriverResponse(&drivers[i])
	}
	return responses, total, nil
}

// Update updates a driver's mutable fields
func (s *DriverService) Update(ctx context.Context, actor identity.Actor, driverID uuid.UUID, req UpdateDriverRequest) (*DriverResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot edit drivers")
	}

	driver, err := s.driverRepo.FindByIDForOrg(ctx, actor.OrganizationID, driverID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := driver.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil || req.Email != nil {
		phone, email := driver.Phone, driver.Email
		if req.Phone != nil {
			phone = *req.Phone
		}
		if req.Email != nil {
			email = *req.Email
		}
		driver.SetContact(phone, email)
	}
	if req.HiredAt != nil {
		driver.SetHiredAt(*req.HiredAt)
	}
	if req.Notes != nil {
		driver.SetNotes(*req.Notes)
	}

	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, err
	}

	response := ToDriverResponse(driver)
	return &response, nil
}

// AssignTruck gives a driver exclusive use of a truck. If another
// driver currently holds the truck, the assignment moves over in the
// same operation.
func (s *DriverService) AssignTruck(ctx context.Context, actor identity.Actor, driverID, truckID uuid.UUID) (*DriverResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot assign trucks")
	}

	var driver *fleet.Driver
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		driver, err = s.driverRepo.FindByIDForOrg(ctx, actor.OrganizationID, driverID)
		if err != nil {
			return err
		}

		truck, err := s.truckRepo.FindByIDForOrg(ctx, actor.OrganizationID, truckID)
		if err != nil {
			return err
		}
		if truck.Status == fleet.TruckStatusRetired {
			return shared.NewDomainError("INVALID_STATE", "Retired trucks cannot be assigned")
		}

		holder, err := s.driverRepo.FindByAssignedTruck(ctx, actor.OrganizationID, truckID)
		if err != nil && err != shared.ErrNotFound {
			return err
		}
		if holder != nil && holder.ID != driver.ID {
			holder.UnassignTruck()
			if err := s.driverRepo.Save(ctx, holder); err != nil {
				return err
			}
			s.logger.Info("truck reassigned",
				zap.String("truck_id", truckID.String()),
				zap.String("from_driver", holder.ID.String()),
				zap.String("to_driver", driverID.String()),
			)
		}

		if err := driver.AssignTruck(truckID); err != nil {
			return err
		}
		return s.driverRepo.Save(ctx, driver)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, driver)

	response := ToDriverResponse(driver)
	return &response, nil
}

// UnassignTruck releases the driver's truck
func (s *DriverService) UnassignTruck(ctx context.Context, actor identity.Actor, driverID uuid.UUID) (*DriverResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot assign trucks")
	}

	driver, err := s.driverRepo.FindByIDForOrg(ctx, actor.OrganizationID, driverID)
	if err != nil {
		return nil, err
	}

	driver.UnassignTruck()
	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, err
	}

	response := ToDriverResponse(driver)
	return &response, nil
}

// GoOnLeave puts a driver on leave
func (s *DriverService) GoOnLeave(ctx context.Context, actor identity.Actor, driverID uuid.UUID) (*DriverResponse, error) {
	return s.transition(ctx, actor, driverID, (*fleet.Driver).GoOnLeave)
}

// ReturnFromLeave brings a driver back to active duty
func (s *DriverService) ReturnFromLeave(ctx context.Context, actor identity.Actor, driverID uuid.UUID) (*DriverResponse, error) {
	return s.transition(ctx, actor, driverID, (*fleet.Driver).MarkAvailable)
}

// Deactivate marks a driver inactive and releases any truck assignment
func (s *DriverService) Deactivate(ctx context.Context, actor identity.Actor, driverID uuid.UUID) (*DriverResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot change driver status")
	}

	driver, err := s.driverRepo.FindByIDForOrg(ctx, actor.OrganizationID, driverID)
	if err != nil {
		return nil, err
	}

	driver.Deactivate()
	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, err
	}

	response := ToDriverResponse(driver)
	return &response, nil
}

// Delete removes a driver. Drivers with trip history cannot be deleted;
// deactivate them instead.
func (s *DriverService) Delete(ctx context.Context, actor identity.Actor, driverID uuid.UUID) error {
	if !actor.CanDelete() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete drivers")
	}

	trips, err := s.tripRepo.CountByDriver(ctx, actor.OrganizationID, driverID)
	if err != nil {
		return err
	}
	if trips > 0 {
		return shared.NewDomainError("HAS_DEPENDENTS", "Driver has trips and cannot be deleted")
	}

	if err := s.driverRepo.DeleteForOrg(ctx, actor.OrganizationID, driverID); err != nil {
		return err
	}

	s.logger.Info("driver deleted",
		zap.String("driver_id", driverID.String()),
		zap.String("deleted_by", actor.UserID.String()),
	)
	return nil
}

func (s *DriverService) transition(ctx context.Context, actor identity.Actor, driverID uuid.UUID, fn func(*fleet.Driver) error) (*DriverResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot change driver status")
	}

	driver, err := s.driverRepo.FindByIDForOrg(ctx, actor.OrganizationID, driverID)
	if err != nil {
		return nil, err
	}

	if err := fn(driver); err != nil {
		return nil, err
	}
	if err := s.driverRepo.Save(ctx, driver); err != nil {
		return nil, err
	}

	response := ToDriverResponse(driver)
	return &response, nil
}

func (s *DriverService) publishEvents(ctx context.Context, driver *fleet.Driver) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, driver.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish driver events", zap.Error(err))
	}
	driver.ClearDomainEvents()
}
