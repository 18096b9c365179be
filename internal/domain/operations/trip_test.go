package operations

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrip(t *testing.T, scheduled, now time.Time) *Trip {
	t.Helper()
	trip, err := NewTrip(uuid.New(), uuid.New(), uuid.New(),
		"Rotterdam", "Hamburg", scheduled, now)
	require.NoError(t, err)
	return trip
}

func TestNewTrip_StatusDerivation(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		scheduled time.Time
		want      TripStatus
	}{
		{"future date is scheduled", now.AddDate(0, 0, 2), TripStatusScheduled},
		{"today starts immediately", now.Add(-2 * time.Hour), TripStatusInProgress},
		{"today later in the day still starts", now.Add(5 * time.Hour), TripStatusInProgress},
		{"past date starts immediately", now.AddDate(0, 0, -1), TripStatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trip := newTestTrip(t, tt.scheduled, now)
			assert.Equal(t, tt.want, trip.Status)
			if tt.want == TripStatusInProgress {
				assert.NotNil(t, trip.StartedAt)
			} else {
				assert.Nil(t, trip.StartedAt)
			}
		})
	}
}

func TestNewTrip_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewTrip(uuid.New(), uuid.Nil, uuid.New(), "A", "B", now, now)
	assert.Error(t, err, "truck required")

	_, err = NewTrip(uuid.New(), uuid.New(), uuid.Nil, "A", "B", now, now)
	assert.Error(t, err, "driver required")

	_, err = NewTrip(uuid.New(), uuid.New(), uuid.New(), "", "B", now, now)
	assert.Error(t, err, "origin required")

	_, err = NewTrip(uuid.New(), uuid.New(), uuid.New(), "A", "", now, now)
	assert.Error(t, err, "destination required")
}

func TestTrip_Lifecycle(t *testing.T) {
	now := time.Now()
	future := now.AddDate(0, 0, 5)

	t.Run("start then complete", func(t *testing.T) {
		trip := newTestTrip(t, future, now)
		require.Equal(t, TripStatusScheduled, trip.Status)

		require.NoError(t, trip.Start(now))
		assert.Equal(t, TripStatusInProgress, trip.Status)
		require.NotNil(t, trip.StartedAt)

		require.NoError(t, trip.Complete(now.Add(8*time.Hour), 120500))
		assert.Equal(t, TripStatusCompleted, trip.Status)
		require.NotNil(t, trip.EndedAt)
	})

	t.Run("cannot start twice", func(t *testing.T) {
		trip := newTestTrip(t, future, now)
		require.NoError(t, trip.Start(now))
		assert.Error(t, trip.Start(now))
	})

	t.Run("cannot complete a scheduled trip", func(t *testing.T) {
		trip := newTestTrip(t, future, now)
		assert.Error(t, trip.Complete(now, 0))
	})

	t.Run("cancel from scheduled and in progress", func(t *testing.T) {
		trip := newTestTrip(t, future, now)
		require.NoError(t, trip.Cancel(now))
		assert.Equal(t, TripStatusCancelled, trip.Status)

		running := newTestTrip(t, now, now)
		require.NoError(t, running.Cancel(now))
	})

	t.Run("terminal states are frozen", func(t *testing.T) {
		trip := newTestTrip(t, now, now)
		require.NoError(t, trip.Complete(now, 0))

		assert.Error(t, trip.Cancel(now))
		assert.Error(t, trip.Start(now))
		assert.Error(t, trip.Reschedule(future))
	})
}

func TestTrip_Reschedule(t *testing.T) {
	now := time.Now()
	trip := newTestTrip(t, now.AddDate(0, 0, 3), now)

	newDate := now.AddDate(0, 0, 10)
	require.NoError(t, trip.Reschedule(newDate))
	assert.Equal(t, newDate, trip.ScheduledDate)

	require.NoError(t, trip.Start(now))
	assert.Error(t, trip.Reschedule(newDate), "only scheduled trips move")
}

func TestTrip_Mileage(t *testing.T) {
	now := time.Now()
	trip := newTestTrip(t, now, now)

	require.NoError(t, trip.SetStartMileage(100000))
	assert.Error(t, trip.SetStartMileage(-1))

	assert.Error(t, trip.Complete(now, 99000), "end below start")

	require.NoError(t, trip.Complete(now, 100450))
	assert.Equal(t, 450, trip.Distance())
}

func TestTrip_Revenue(t *testing.T) {
	now := time.Now()
	trip := newTestTrip(t, now, now)

	require.NoError(t, trip.SetRevenue(decimal.NewFromInt(1200)))
	assert.True(t, trip.Revenue.Equal(decimal.NewFromInt(1200)))

	assert.Error(t, trip.SetRevenue(decimal.NewFromInt(-5)))
}

func TestTrip_StatusChangeEvents(t *testing.T) {
	now := time.Now()
	trip := newTestTrip(t, now.AddDate(0, 0, 2), now)
	trip.ClearDomainEvents()

	require.NoError(t, trip.Start(now))

	events := trip.GetDomainEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(*TripStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, TripStatusScheduled, evt.PreviousStatus)
	assert.Equal(t, TripStatusInProgress, evt.Status)
}
