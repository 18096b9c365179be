package operations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/fleet"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/operations"
	"github.com/fleetops/backend/internal/domain/partner"
	"github.com/fleetops/backend/internal/domain/shared"
)

// TripService handles trip scheduling and lifecycle. Status transitions
// cascade to the assigned truck and driver inside a single transaction.
type TripService struct {
	tripRepo       operations.TripRepository
	truckRepo      fleet.TruckRepository
	driverRepo     fleet.DriverRepository
	customerRepo   partner.CustomerRepository
	invoiceRepo    billing.InvoiceRepository
	expenseRepo    billing.ExpenseRepository
	txManager      shared.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTripService creates a new TripService
func NewTripService(
	tripRepo operations.TripRepository,
	truckRepo fleet.TruckRepository,
	driverRepo fleet.DriverRepository,
	customerRepo partner.CustomerRepository,
	invoiceRepo billing.InvoiceRepository,
	expenseRepo billing.ExpenseRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
) *TripService {
	return &TripService{
		tripRepo:     tripRepo,
		truckRepo:    truckRepo,
		driverRepo:   driverRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		expenseRepo:  expenseRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *TripService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create schedules a new trip. The truck must be available and the driver
// active. A trip scheduled for today starts immediately, which places the
// truck in service and the driver on duty.
func (s *TripService) Create(ctx context.Context, actor identity.Actor, req CreateTripRequest) (*TripResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot schedule trips")
	}

	truck, err := s.truckRepo.FindByIDForOrg(ctx, actor.OrganizationID, req.TruckID)
	if err != nil {
		return nil, err
	}
	if truck.Status == fleet.TruckStatusRetired {
		return nil, shared.NewDomainError("INVALID_STATE", "Retired trucks cannot be scheduled")
	}
	if truck.Status == fleet.TruckStatusMaintenance {
		return nil, shared.NewDomainError("INVALID_STATE", "Truck is in maintenance and cannot be scheduled")
	}

	driver, err := s.driverRepo.FindByIDForOrg(ctx, actor.OrganizationID, req.DriverID)
	if err != nil {
		return nil, err
	}
	if driver.Status == fleet.DriverStatusInactive {
		return nil, shared.NewDomainError("INVALID_STATE", "Inactive drivers cannot be scheduled")
	}

	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByIDForOrg(ctx, actor.OrganizationID, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer.Status != partner.CustomerStatusActive {
			return nil, shared.NewDomainError("INVALID_STATE", "Customer is inactive")
		}
	}

	trip, err := operations.NewTrip(actor.OrganizationID, req.TruckID, req.DriverID, req.Origin, req.Destination, req.ScheduledDate, time.Now())
	if err != nil {
		return nil, err
	}
	trip.SetCreatedBy(actor.UserID)

	if req.CustomerID != nil {
		trip.SetCustomer(*req.CustomerID)
	}
	if !req.Revenue.IsZero() {
		if err := trip.SetRevenue(req.Revenue); err != nil {
			return nil, err
		}
	}
	if req.StartMileage > 0 {
		if err := trip.SetStartMileage(req.StartMileage); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		trip.SetNotes(req.Notes)
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tripRepo.Save(ctx, trip); err != nil {
			return err
		}
		if trip.Status == operations.TripStatusInProgress {
			return s.placeOnRoad(ctx, truck, driver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, trip)

	s.logger.Info("trip scheduled",
		zap.String("trip_id", trip.ID.String()),
		zap.String("truck_id", trip.TruckID.String()),
		zap.String("driver_id", trip.DriverID.String()),
		zap.String("status", trip.Status.String()),
	)

	response := ToTripResponse(trip)
	return &response, nil
}

// GetByID retrieves a trip
func (s *TripService) GetByID(ctx context.Context, actor identity.Actor, tripID uuid.UUID) (*TripResponse, error) {
	trip, err := s.tripRepo.FindByIDForOrg(ctx, actor.OrganizationID, tripID)
	if err != nil {
		return nil, err
	}

	response := ToTripResponse(trip)
	return &response, nil
}

// List retrieves trips with filtering and pagination
func (s *TripService) List(ctx context.Context, actor identity.Actor, filter TripListFilter) ([]TripResponse, int64, error) {
	domainFilter := operations.TripFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		TruckID:    filter.TruckID,
		DriverID:   filter.DriverID,
		CustomerID: filter.CustomerID,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
	}
	if filter.Status != "" {
		status := operations.TripStatus(filter.Status)
		domainFilter.Status = &status
	}

	trips, total, err := s.tripRepo.FindAllForOrg(ctx, actor.OrganizationID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TripResponse, len(trips))
	for i := range trips {
		responses[i] = ToTripResponse(&trips[i])
	}
	return responses, total, nil
}

// Update updates a trip's mutable fields. Truck, driver and route are fixed
// at creation; cancel and reschedule instead.
func (s *TripService) Update(ctx context.Context, actor identity.Actor, tripID uuid.UUID, req UpdateTripRequest) (*TripResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot edit trips")
	}

	trip, err := s.tripRepo.FindByIDForOrg(ctx, actor.OrganizationID, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Trip has ended and cannot be edited")
	}

	if req.CustomerID != nil {
		if *req.CustomerID != uuid.Nil {
			if _, err := s.customerRepo.FindByIDForOrg(ctx, actor.OrganizationID, *req.CustomerID); err != nil {
				return nil, err
			}
		}
		trip.SetCustomer(*req.CustomerID)
	}
	if req.Revenue != nil {
		if err := trip.SetRevenue(*req.Revenue); err != nil {
			return nil, err
		}
	}
	if req.StartMileage != nil {
		if err := trip.SetStartMileage(*req.StartMileage); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		trip.SetNotes(*req.Notes)
	}

	if err := s.tripRepo.Save(ctx, trip); err != nil {
		return nil, err
	}

	response := ToTripResponse(trip)
	return &response, nil
}

// Start moves a scheduled trip to in_progress and places the truck and
// driver on the road.
func (s *TripService) Start(ctx context.Context, actor identity.Actor, tripID uuid.UUID) (*TripResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot change trip status")
	}

	trip, err := s.tripRepo.FindByIDForOrg(ctx, actor.OrganizationID, tripID)
	if err != nil {
		return nil, err
	}

	truck, driver, err := s.loadAssignment(ctx, trip)
	if err != nil {
		return nil, err
	}

	if err := trip.Start(time.Now()); err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tripRepo.Save(ctx, trip); err != nil {
			return err
		}
		return s.placeOnRoad(ctx, truck, driver)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, trip)

	response := ToTripResponse(trip)
	return &response, nil
}

// Complete finishes an in-progress trip, releases the truck and driver and
// rolls the closing odometer reading into the truck's mileage.
func (s *TripService) Complete(ctx context.Context, actor identity.Actor, tripID uuid.UUID, req CompleteTripRequest) (*TripResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot change trip status")
	}

	trip, err := s.tripRepo.FindByIDForOrg(ctx, actor.OrganizationID, tripID)
	if err != nil {
		return nil, err
	}

	truck, driver, err := s.loadAssignment(ctx, trip)
	if err != nil {
		return nil, err
	}

	if err := trip.Complete(time.Now(), req.EndMileage); err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tripRepo.Save(ctx, trip); err != nil {
			return err
		}
		if trip.EndMileage > truck.CurrentMileage {
			if err := truck.RecordMileage(trip.EndMileage); err != nil {
				return err
			}
		}
		return s.release(ctx, truck, driver)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, trip)

	s.logger.Info("trip completed",
		zap.String("trip_id", trip.ID.String()),
		zap.Int("distance", trip.Distance()),
	)

	response := ToTripResponse(trip)
	return &response, nil
}

// Cancel cancels a trip. A trip cancelled mid-route releases its truck and
// driver.
func (s *TripService) Cancel(ctx context.Context, actor identity.Actor, tripID uuid.UUID) (*TripResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot change trip status")
	}

	trip, err := s.tripRepo.FindByIDForOrg(ctx, actor.OrganizationID, tripID)
	if err != nil {
		return nil, err
	}
	wasInProgress := trip.Status == operations.TripStatusInProgress

	if err := trip.Cancel(time.Now()); err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.tripRepo.Save(ctx, trip); err != nil {
			return err
		}
		if !wasInProgress {
			return nil
		}
		truck, driver, err := s.loadAssignment(ctx, trip)
		if err != nil {
			return err
		}
		return s.release(ctx, truck, driver)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, trip)

	response := ToTripResponse(trip)
	return &response, nil
}

// Reschedule moves a scheduled trip to a new date
func (s *TripService) Reschedule(ctx context.Context, actor identity.Actor, tripID uuid.UUID, req RescheduleTripRequest) (*TripResponse, error) {
	if !actor.CanManage() {
		return nil, shared.NewDomainError("FORBIDDEN", "Staff members cannot reschedule trips")
	}

	trip, err := s.tripRepo.FindByIDForOrg(ctx, actor.OrganizationID, tripID)
	if err != nil {
		return nil, err
	}

	if err := trip.Reschedule(req.ScheduledDate); err != nil {
		return nil, err
	}
	if err := s.tripRepo.Save(ctx, trip); err != nil {
		return nil, err
	}

	response := ToTripResponse(trip)
	return &response, nil
}

// Delete removes a trip. Trips referenced by invoices or expenses cannot be
// deleted.
func (s *TripService) Delete(ctx context.Context, actor identity.Actor, tripID uuid.UUID) error {
	if !actor.CanDelete() {
		return shared.NewDomainError("FORBIDDEN", "Only administrators can delete trips")
	}

	invoices, err := s.invoiceRepo.CountByTrip(ctx, actor.OrganizationID, tripID)
	if err != nil {
		return err
	}
	if invoices > 0 {
		return shared.NewDomainError("HAS_DEPENDENTS", "Trip has invoices and cannot be deleted")
	}

	expenses, err := s.expenseRepo.CountByTrip(ctx, actor.OrganizationID, tripID)
	if err != nil {
		return err
	}
	if expenses > 0 {
		return shared.NewDomainError("HAS_DEPENDENTS", "Trip has expenses and cannot be deleted")
	}

	if err := s.tripRepo.DeleteForOrg(ctx, actor.OrganizationID, tripID); err != nil {
		return err
	}

	s.logger.Info("trip deleted",
		zap.String("trip_id", tripID.String()),
		zap.String("deleted_by", actor.UserID.String()),
	)
	return nil
}

func (s *TripService) loadAssignment(ctx context.Context, trip *operations.Trip) (*fleet.Truck, *fleet.Driver, error) {
	truck, err := s.truckRepo.FindByIDForOrg(ctx, trip.OrganizationID, trip.TruckID)
	if err != nil {
		return nil, nil, err
	}
	driver, err := s.driverRepo.FindByIDForOrg(ctx, trip.OrganizationID, trip.DriverID)
	if err != nil {
		return nil, nil, err
	}
	return truck, driver, nil
}

func (s *TripService) placeOnRoad(ctx context.Context, truck *fleet.Truck, driver *fleet.Driver) error {
	if err := truck.MarkInService(); err != nil {
		return err
	}
	if err := s.truckRepo.Save(ctx, truck); err != nil {
		return err
	}
	if err := driver.MarkOnDuty(); err != nil {
		return err
	}
	return s.driverRepo.Save(ctx, driver)
}

func (s *TripService) release(ctx context.Context, truck *fleet.Truck, driver *fleet.Driver) error {
	if err := truck.MarkAvailable(); err != nil {
		return err
	}
	if err := s.truckRepo.Save(ctx, truck); err != nil {
		return err
	}
	if err := driver.MarkAvailable(); err != nil {
		return err
	}
	return s.driverRepo.Save(ctx, driver)
}

func (s *TripService) publishEvents(ctx context.Context, trip *operations.Trip) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, trip.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish trip events", zap.Error(err))
	}
	trip.ClearDomainEvents()
}
