package operations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/billing"
	"github.com/fleetops/backend/internal/domain/fleet"
	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/partner"
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/fleetops/backend/internal/infrastructure/persistence"
)

type tripFixture struct {
	svc          *TripService
	truckRepo    fleet.TruckRepository
	driverRepo   fleet.DriverRepository
	customerRepo partner.CustomerRepository
	expenseRepo  billing.ExpenseRepository
	categoryRepo billing.ExpenseCategoryRepository
	actor        identity.Actor
}

func setupTripService(t *testing.T) *tripFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(db))

	database := &persistence.Database{DB: db}
	truckRepo := persistence.NewGormTruckRepository(db)
	driverRepo := persistence.NewGormDriverRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	expenseRepo := persistence.NewGormExpenseRepository(db)

	svc := NewTripService(
		persistence.NewGormTripRepository(db),
		truckRepo, driverRepo, customerRepo,
		invoiceRepo, expenseRepo,
		database, zap.NewNop(),
	)

	return &tripFixture{
		svc:          svc,
		truckRepo:    truckRepo,
		driverRepo:   driverRepo,
		customerRepo: customerRepo,
		expenseRepo:  expenseRepo,
		categoryRepo: persistence.NewGormExpenseCategoryRepository(db),
		actor: identity.Actor{
			UserID:         uuid.New(),
			OrganizationID: uuid.New(),
			Role:           identity.RoleAdmin,
		},
	}
}

func (f *tripFixture) seedTruck(t *testing.T) *fleet.Truck {
	t.Helper()
	truck, err := fleet.NewTruck(f.actor.OrganizationID, "WA-"+uuid.NewString()[:8], "Volvo", "FH16", 2021)
	require.NoError(t, err)
	require.NoError(t, f.truckRepo.Save(context.Background(), truck))
	return truck
}

func (f *tripFixture) seedDriver(t *testing.T) *fleet.Driver {
	t.Helper()
	driver, err := fleet.NewDriver(f.actor.OrganizationID, "Jan Kowalski", "LIC-"+uuid.NewString()[:8])
	require.NoError(t, err)
	require.NoError(t, f.driverRepo.Save(context.Background(), driver))
	return driver
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestTripService_Create(t *testing.T) {
	f := setupTripService(t)
	ctx := context.Background()
	tomorrow := time.Now().AddDate(0, 0, 1)

	t.Run("schedules a future trip", func(t *testing.T) {
		truck := f.seedTruck(t)
		driver := f.seedDriver(t)

		trip, err := f.svc.Create(ctx, f.actor, CreateTripRequest{
			TruckID:       truck.ID,
			DriverID:      driver.ID,
			Origin:        "Warsaw",
			Destination:   "Berlin",
			ScheduledDate: tomorrow,
			Revenue:       decimal.NewFromInt(2500),
			StartMileage:  120000,
		})
		require.NoError(t, err)
		assert.Equal(t, "scheduled", trip.Status)

		// Truck stays available until the trip actually starts
		stored, err := f.truckRepo.FindByIDForOrg(ctx, f.actor.OrganizationID, truck.ID)
		require.NoError(t, err)
		assert.Equal(t, fleet.TruckStatusActive, stored.Status)
	})

	t.Run("a trip scheduled for today starts immediately", func(t *testing.T) {
		truck := f.seedTruck(t)
		driver := f.seedDriver(t)

		trip, err := f.svc.Create(ctx, f.actor, CreateTripRequest{
			TruckID:       truck.ID,
			DriverID:      driver.ID,
			Origin:        "Warsaw",
			Destination:   "Gdansk",
			ScheduledDate: time.Now(),
		})
		require.NoError(t, err)
		assert.Equal(t, "in_progress", trip.Status)

		stored, err := f.truckRepo.FindByIDForOrg(ctx, f.actor.OrganizationID, truck.ID)
		require.NoError(t, err)
		assert.Equal(t, fleet.TruckStatusInService, stored.Status)
	})

	t.Run("rejects a retired truck", func(t *testing.T) {
		truck := f.seedTruck(t)
		require.NoError(t, truck.Retire())
		require.NoError(t, f.truckRepo.Save(ctx, truck))
		driver := f.seedDriver(t)

		_, err := f.svc.Create(ctx, f.actor, CreateTripRequest{
			TruckID: truck.ID, DriverID: driver.ID,
			Origin: "A", Destination: "B", ScheduledDate: tomorrow,
		})
		assertCode(t, err, "INVALID_STATE")
	})

	t.Run("rejects an inactive driver", func(t *testing.T) {
		truck := f.seedTruck(t)
		driver := f.seedDriver(t)
		driver.Deactivate()
		require.NoError(t, f.driverRepo.Save(ctx, driver))

		_, err := f.svc.Create(ctx, f.actor, CreateTripRequest{
			TruckID: truck.ID, DriverID: driver.ID,
			Origin: "A", Destination: "B", ScheduledDate: tomorrow,
		})
		assertCode(t, err, "INVALID_STATE")
	})

	t.Run("rejects an inactive customer", func(t *testing.T) {
		truck := f.seedTruck(t)
		driver := f.seedDriver(t)
		customer, err := partner.NewCustomer(f.actor.OrganizationID, "Dormant Sp. z o.o.")
		require.NoError(t, err)
		customer.Deactivate()
		require.NoError(t, f.customerRepo.Save(ctx, customer))

		_, err = f.svc.Create(ctx, f.actor, CreateTripRequest{
			TruckID: truck.ID, DriverID: driver.ID, CustomerID: &customer.ID,
			Origin: "A", Destination: "B", ScheduledDate: tomorrow,
		})
		assertCode(t, err, "INVALID_STATE")
	})

	t.Run("staff cannot schedule trips", func(t *testing.T) {
		staff := f.actor
		staff.Role = identity.RoleStaff

		_, err := f.svc.Create(ctx, staff, CreateTripRequest{
			TruckID: uuid.New(), DriverID: uuid.New(),
			Origin: "A", Destination: "B", ScheduledDate: tomorrow,
		})
		assertCode(t, err, "FORBIDDEN")
	})
}

func TestTripService_Lifecycle(t *testing.T) {
	f := setupTripService(t)
	ctx := context.Background()
	tomorrow := time.Now().AddDate(0, 0, 1)

	schedule := func(t *testing.T) (*TripResponse, *fleet.Truck, *fleet.Driver) {
		t.Helper()
		truck := f.seedTruck(t)
		driver := f.seedDriver(t)
		trip, err := f.svc.Create(ctx, f.actor, CreateTripRequest{
			TruckID:       truck.ID,
			DriverID:      driver.ID,
			Origin:        "Warsaw",
			Destination:   "Berlin",
			ScheduledDate: tomorrow,
			StartMileage:  100000,
		})
		require.NoError(t, err)
		return trip, truck, driver
	}

	t.Run("start places the assignment on the road", func(t *testing.T) {
		trip, truck, _ := schedule(t)

		started, err := f.svc.Start(ctx, f.actor, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, "in_progress", started.Status)

		stored, err := f.truckRepo.FindByIDForOrg(ctx, f.actor.OrganizationID, truck.ID)
		require.NoError(t, err)
		assert.Equal(t, fleet.TruckStatusInService, stored.Status)
	})

	t.Run("complete releases the truck and records mileage", func(t *testing.T) {
		trip, truck, driver := schedule(t)
		_, err := f.svc.Start(ctx, f.actor, trip.ID)
		require.NoError(t, err)

		completed, err := f.svc.Complete(ctx, f.actor, trip.ID, CompleteTripRequest{EndMileage: 100750})
		require.NoError(t, err)
		assert.Equal(t, "completed", completed.Status)
		assert.Equal(t, 750, completed.Distance)

		storedTruck, err := f.truckRepo.FindByIDForOrg(ctx, f.actor.OrganizationID, truck.ID)
		require.NoError(t, err)
		assert.Equal(t, fleet.TruckStatusActive, storedTruck.Status)
		assert.Equal(t, 100750, storedTruck.CurrentMileage)

		storedDriver, err := f.driverRepo.FindByIDForOrg(ctx, f.actor.OrganizationID, driver.ID)
		require.NoError(t, err)
		assert.Equal(t, fleet.DriverStatusActive, storedDriver.Status)
	})

	t.Run("complete rejects mileage below the start reading", func(t *testing.T) {
		trip, _, _ := schedule(t)
		_, err := f.svc.Start(ctx, f.actor, trip.ID)
		require.NoError(t, err)

		_, err = f.svc.Complete(ctx, f.actor, trip.ID, CompleteTripRequest{EndMileage: 99000})
		assertCode(t, err, "INVALID_MILEAGE")
	})

	t.Run("cancel mid-route frees the truck", func(t *testing.T) {
		trip, truck, _ := schedule(t)
		_, err := f.svc.Start(ctx, f.actor, trip.ID)
		require.NoError(t, err)

		cancelled, err := f.svc.Cancel(ctx, f.actor, trip.ID)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)

		stored, err := f.truckRepo.FindByIDForOrg(ctx, f.actor.OrganizationID, truck.ID)
		require.NoError(t, err)
		assert.Equal(t, fleet.TruckStatusActive, stored.Status)
	})

	t.Run("completed trips cannot be cancelled", func(t *testing.T) {
		trip, _, _ := schedule(t)
		_, err := f.svc.Start(ctx, f.actor, trip.ID)
		require.NoError(t, err)
		_, err = f.svc.Complete(ctx, f.actor, trip.ID, CompleteTripRequest{EndMileage: 100100})
		require.NoError(t, err)

		_, err = f.svc.Cancel(ctx, f.actor, trip.ID)
		assertCode(t, err, "INVALID_STATE")
	})

	t.Run("reschedule only applies to scheduled trips", func(t *testing.T) {
		trip, _, _ := schedule(t)

		moved, err := f.svc.Reschedule(ctx, f.actor, trip.ID, RescheduleTripRequest{
			ScheduledDate: tomorrow.AddDate(0, 0, 3),
		})
		require.NoError(t, err)
		assert.Equal(t, "scheduled", moved.Status)

		_, err = f.svc.Start(ctx, f.actor, trip.ID)
		require.NoError(t, err)
		_, err = f.svc.Reschedule(ctx, f.actor, trip.ID, RescheduleTripRequest{ScheduledDate: tomorrow})
		assertCode(t, err, "INVALID_STATE")
	})
}

func TestTripService_Delete(t *testing.T) {
	f := setupTripService(t)
	ctx := context.Background()
	tomorrow := time.Now().AddDate(0, 0, 1)

	schedule := func(t *testing.T) *TripResponse {
		t.Helper()
		truck := f.seedTruck(t)
		driver := f.seedDriver(t)
		trip, err := f.svc.Create(ctx, f.actor, CreateTripRequest{
			TruckID: truck.ID, DriverID: driver.ID,
			Origin: "Warsaw", Destination: "Berlin", ScheduledDate: tomorrow,
		})
		require.NoError(t, err)
		return trip
	}

	t.Run("deletes a trip without dependents", func(t *testing.T) {
		trip := schedule(t)
		require.NoError(t, f.svc.Delete(ctx, f.actor, trip.ID))

		_, err := f.svc.GetByID(ctx, f.actor, trip.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("refuses when expenses reference the trip", func(t *testing.T) {
		trip := schedule(t)

		category, err := billing.NewExpenseCategory(f.actor.OrganizationID, "Fuel "+uuid.NewString()[:8], "")
		require.NoError(t, err)
		require.NoError(t, f.categoryRepo.Save(ctx, category))

		expense, err := billing.NewExpense(f.actor.OrganizationID, category.ID,
			decimal.NewFromInt(200), time.Now(), "Diesel")
		require.NoError(t, err)
		expense.LinkTrip(trip.ID)
		require.NoError(t, f.expenseRepo.Save(ctx, expense))

		err = f.svc.Delete(ctx, f.actor, trip.ID)
		assertCode(t, err, "HAS_DEPENDENTS")
	})

	t.Run("supervisors cannot delete", func(t *testing.T) {
		trip := schedule(t)
		supervisor := f.actor
		supervisor.Role = identity.RoleSupervisor

		err := f.svc.Delete(ctx, supervisor, trip.ID)
		assertCode(t, err, "FORBIDDEN")
	})
}
