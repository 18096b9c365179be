package reporting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Period is an inclusive date range for aggregation queries
type Period struct {
	From time.Time
	To   time.Time
}

// FinancialSummary aggregates money movement inside a period
type FinancialSummary struct {
	TripRevenue       decimal.Decimal
	InvoicedTotal     decimal.Decimal
	CollectedPayments decimal.Decimal
	OutstandingTotal  decimal.Decimal
	TotalExpenses     decimal.Decimal
}

// CategoryExpenses is the expense total for one category
type CategoryExpenses struct {
	CategoryID   uuid.UUID
	CategoryName string
	Count        int64
	Total        decimal.Decimal
}

// FleetUtilization counts fleet capacity and trip outcomes. Truck and
// driver counts are current state; trip counts are scoped to the period.
type FleetUtilization struct {
	TotalTrucks     int64
	TrucksInService int64
	TotalDrivers    int64
	DriversOnDuty   int64
	TripsScheduled  int64
	TripsCompleted  int64
	TripsCancelled  int64
}

// Queries is the read-side interface backing period reports
type Queries interface {
	FinancialSummary(ctx context.Context, orgID uuid.UUID, period Period) (*FinancialSummary, error)
	ExpensesByCategory(ctx context.Context, orgID uuid.UUID, period Period) ([]CategoryExpenses, error)
	FleetUtilization(ctx context.Context, orgID uuid.UUID, period Period) (*FleetUtilization, error)
}
