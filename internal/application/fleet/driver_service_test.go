package fleet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/fleetops/backend/internal/infrastructure/persistence"
)

type fleetFixture struct {
	trucks  *TruckService
	drivers *DriverService
	actor   identity.Actor
}

func setupFleetServices(t *testing.T) *fleetFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(db))

	database := &persistence.Database{DB: db}
	truckRepo := persistence.NewGormTruckRepository(db)
	driverRepo := persistence.NewGormDriverRepository(db)
	tripRepo := persistence.NewGormTripRepository(db)

	actor := identity.Actor{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Role:           identity.RoleAdmin,
	}

	log := zap.NewNop()
	return &fleetFixture{
		trucks:  NewTruckService(truckRepo, driverRepo, tripRepo, log),
		drivers: NewDriverService(driverRepo, truckRepo, tripRepo, database, log),
		actor:   actor,
	}
}

func (f *fleetFixture) registerTruck(t *testing.T) *TruckResponse {
	t.Helper()
	truck, err := f.trucks.Create(context.Background(), f.actor, CreateTruckRequest{
		RegistrationNumber: "WA-" + uuid.NewString()[:8],
		Make:               "Scania",
		Model:              "R500",
		Year:               2022,
		CapacityKg:         24000,
	})
	require.NoError(t, err)
	return truck
}

func (f *fleetFixture) registerDriver(t *testing.T, name string) *DriverResponse {
	t.Helper()
	driver, err := f.drivers.Create(context.Background(), f.actor, CreateDriverRequest{
		Name:          name,
		LicenseNumber: "LIC-" + uuid.NewString()[:8],
	})
	require.NoError(t, err)
	return driver
}

func assertFleetCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestDriverService_AssignTruck(t *testing.T) {
	f := setupFleetServices(t)
	ctx := context.Background()

	t.Run("assignment records the truck on the driver", func(t *testing.T) {
		truck := f.registerTruck(t)
		driver := f.registerDriver(t, "Mikko Salo")

		assigned, err := f.drivers.AssignTruck(ctx, f.actor, driver.ID, truck.ID)
		require.NoError(t, err)
		require.NotNil(t, assigned.AssignedTruckID)
		assert.Equal(t, truck.ID, *assigned.AssignedTruckID)
	})

	t.Run("assigning a held truck moves it off the previous driver", func(t *testing.T) {
		truck := f.registerTruck(t)
		first := f.registerDriver(t, "Anna Berg")
		second := f.registerDriver(t, "Jonas Wirth")

		_, err := f.drivers.AssignTruck(ctx, f.actor, first.ID, truck.ID)
		require.NoError(t, err)

		moved, err := f.drivers.AssignTruck(ctx, f.actor, second.ID, truck.ID)
		require.NoError(t, err)
		require.NotNil(t, moved.AssignedTruckID)
		assert.Equal(t, truck.ID, *moved.AssignedTruckID)

		previous, err := f.drivers.GetByID(ctx, f.actor, first.ID)
		require.NoError(t, err)
		assert.Nil(t, previous.AssignedTruckID)
	})

	t.Run("retired trucks cannot be assigned", func(t *testing.T) {
		truck := f.registerTruck(t)
		driver := f.registerDriver(t, "Petra Kovacs")

		_, err := f.trucks.Retire(ctx, f.actor, truck.ID)
		require.NoError(t, err)

		_, err = f.drivers.AssignTruck(ctx, f.actor, driver.ID, truck.ID)
		assertFleetCode(t, err, "INVALID_STATE")
	})

	t.Run("staff cannot assign trucks", func(t *testing.T) {
		truck := f.registerTruck(t)
		driver := f.registerDriver(t, "Lena Fuchs")

		staff := f.actor
		staff.Role = identity.RoleStaff
		_, err := f.drivers.AssignTruck(ctx, staff, driver.ID, truck.ID)
		assertFleetCode(t, err, "FORBIDDEN")
	})
}

func TestDriverService_Create(t *testing.T) {
	f := setupFleetServices(t)
	ctx := context.Background()

	t.Run("duplicate license numbers are rejected", func(t *testing.T) {
		driver := f.registerDriver(t, "Sofia Lind")

		_, err := f.drivers.Create(ctx, f.actor, CreateDriverRequest{
			Name:          "Another Driver",
			LicenseNumber: driver.LicenseNumber,
		})
		assertFleetCode(t, err, "ALREADY_EXISTS")
	})
}

func TestDriverService_Deactivate(t *testing.T) {
	f := setupFleetServices(t)
	ctx := context.Background()

	t.Run("deactivation releases the assigned truck", func(t *testing.T) {
		truck := f.registerTruck(t)
		driver := f.registerDriver(t, "Henrik Dahl")

		_, err := f.drivers.AssignTruck(ctx, f.actor, driver.ID, truck.ID)
		require.NoError(t, err)

		deactivated, err := f.drivers.Deactivate(ctx, f.actor, driver.ID)
		require.NoError(t, err)
		assert.Equal(t, "inactive", deactivated.Status)
		assert.Nil(t, deactivated.AssignedTruckID)
	})
}
