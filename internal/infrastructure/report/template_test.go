package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSummaryHTML(t *testing.T) {
	view := &SummaryView{
		OrganizationName:  "Northline Freight",
		From:              time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:                time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		GeneratedAt:       time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		TripRevenue:       decimal.NewFromInt(12500),
		InvoicedTotal:     decimal.NewFromInt(11800),
		CollectedPayments: decimal.NewFromInt(9400),
		OutstandingTotal:  decimal.NewFromInt(2400),
		TotalExpenses:     decimal.NewFromFloat(3150.50),
		ExpensesByCategory: []CategoryExpenseView{
			{Category: "Fuel", Count: 14, Total: decimal.NewFromFloat(2100.50)},
			{Category: "Tolls", Count: 6, Total: decimal.NewFromInt(1050)},
		},
		Fleet: FleetUtilizationView{
			TotalTrucks:     8,
			TrucksInService: 3,
			TotalDrivers:    10,
			DriversOnDuty:   3,
			TripsScheduled:  5,
			TripsCompleted:  21,
			TripsCancelled:  2,
		},
	}

	html, err := RenderSummaryHTML(view)
	require.NoError(t, err)

	assert.Contains(t, html, "Northline Freight")
	assert.Contains(t, html, "2026-01-01 to 2026-01-31")
	assert.Contains(t, html, "12500.00")
	assert.Contains(t, html, "Fuel")
	assert.Contains(t, html, "2100.50")
	assert.Contains(t, html, "3 / 8")
}

func TestRenderSummaryHTML_EmptyExpenses(t *testing.T) {
	html, err := RenderSummaryHTML(&SummaryView{
		OrganizationName: "Northline Freight",
		From:             time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:               time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		GeneratedAt:      time.Now(),
	})
	require.NoError(t, err)
	assert.Contains(t, html, "No expenses recorded")
}
