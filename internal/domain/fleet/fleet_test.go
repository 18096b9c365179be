package fleet

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTruck(t *testing.T) {
	orgID := uuid.New()

	t.Run("normalizes registration to upper case", func(t *testing.T) {
		truck, err := NewTruck(orgID, " ab-123-cd ", "Volvo", "FH16", 2022)
		require.NoError(t, err)
		assert.Equal(t, "AB-123-CD", truck.RegistrationNumber)
		assert.Equal(t, TruckStatusActive, truck.Status)
	})

	t.Run("rejects blank registration", func(t *testing.T) {
		_, err := NewTruck(orgID, "", "Volvo", "FH16", 2022)
		assert.Error(t, err)
	})

	t.Run("rejects implausible year", func(t *testing.T) {
		_, err := NewTruck(orgID, "X1", "Volvo", "FH16", 1890)
		assert.Error(t, err)
	})
}

func TestTruck_StatusTransitions(t *testing.T) {
	truck, err := NewTruck(uuid.New(), "TR-1", "Scania", "R450", 2021)
	require.NoError(t, err)

	require.NoError(t, truck.MarkInService())
	assert.Equal(t, TruckStatusInService, truck.Status)

	assert.Error(t, truck.SendToMaintenance(), "busy truck cannot enter maintenance")
	assert.Error(t, truck.Retire(), "busy truck cannot be retired")

	require.NoError(t, truck.MarkAvailable())
	require.NoError(t, truck.SendToMaintenance())
	assert.Equal(t, TruckStatusMaintenance, truck.Status)

	require.NoError(t, truck.MarkAvailable())
	require.NoError(t, truck.Retire())
	assert.Error(t, truck.MarkInService(), "retired truck is frozen")
	assert.Error(t, truck.MarkAvailable())
	assert.Error(t, truck.SendToMaintenance())
}

func TestTruck_RecordMileage(t *testing.T) {
	truck, err := NewTruck(uuid.New(), "TR-2", "MAN", "TGX", 2020)
	require.NoError(t, err)

	require.NoError(t, truck.RecordMileage(50000))
	assert.Equal(t, 50000, truck.CurrentMileage)

	assert.Error(t, truck.RecordMileage(49000), "mileage cannot decrease")
}

func TestTruck_SetCapacity(t *testing.T) {
	truck, err := NewTruck(uuid.New(), "TR-3", "DAF", "XF", 2019)
	require.NoError(t, err)

	require.NoError(t, truck.SetCapacity(24000))
	assert.Equal(t, 24000, truck.CapacityKg)

	assert.Error(t, truck.SetCapacity(-1))
}

func TestNewDriver(t *testing.T) {
	orgID := uuid.New()

	t.Run("normalizes license to upper case", func(t *testing.T) {
		d, err := NewDriver(orgID, "Jan Kowalski", " cdl-99x ")
		require.NoError(t, err)
		assert.Equal(t, "CDL-99X", d.LicenseNumber)
		assert.Equal(t, DriverStatusActive, d.Status)
		assert.Nil(t, d.AssignedTruckID)
	})

	t.Run("requires name and license", func(t *testing.T) {
		_, err := NewDriver(orgID, "", "CDL-1")
		assert.Error(t, err)

		_, err = NewDriver(orgID, "Jan", "")
		assert.Error(t, err)
	})
}

func TestDriver_TruckAssignment(t *testing.T) {
	d, err := NewDriver(uuid.New(), "Maria Silva", "CDL-7")
	require.NoError(t, err)

	truckID := uuid.New()
	require.NoError(t, d.AssignTruck(truckID))
	require.NotNil(t, d.AssignedTruckID)
	assert.Equal(t, truckID, *d.AssignedTruckID)

	// Reassignment replaces the previous truck.
	other := uuid.New()
	require.NoError(t, d.AssignTruck(other))
	assert.Equal(t, other, *d.AssignedTruckID)

	d.UnassignTruck()
	assert.Nil(t, d.AssignedTruckID)
}

func TestDriver_Lifecycle(t *testing.T) {
	d, err := NewDriver(uuid.New(), "Ade Musa", "CDL-8")
	require.NoError(t, err)

	d.SetContact("+48100200300", "Ade@Fleet.COM")
	assert.Equal(t, "ade@fleet.com", d.Email)

	require.NoError(t, d.AssignTruck(uuid.New()))

	require.NoError(t, d.GoOnLeave())
	assert.Equal(t, DriverStatusOnLeave, d.Status)

	require.NoError(t, d.MarkAvailable())

	d.Deactivate()
	assert.Equal(t, DriverStatusInactive, d.Status)
	assert.Nil(t, d.AssignedTruckID, "deactivation clears the truck")

	assert.Error(t, d.AssignTruck(uuid.New()), "inactive driver cannot take a truck")
	assert.Error(t, d.GoOnLeave())
	assert.Error(t, d.MarkOnDuty())
}

func TestDriver_SetHiredAt(t *testing.T) {
	d, err := NewDriver(uuid.New(), "Lee Chen", "CDL-9")
	require.NoError(t, err)

	hired := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d.SetHiredAt(hired)
	require.NotNil(t, d.HiredAt)
	assert.True(t, d.HiredAt.Equal(hired))
}
