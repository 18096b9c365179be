package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fleetops/backend/internal/domain/fleet"
	"github.com/fleetops/backend/internal/domain/operations"
	"github.com/fleetops/backend/internal/domain/reporting"
)

// GormReportQueries implements reporting.Queries with SQL aggregates.
// Period filters are inclusive on both ends.
type GormReportQueries struct {
	db *gorm.DB
}

// NewGormReportQueries creates a new GormReportQueries
func NewGormReportQueries(db *gorm.DB) *GormReportQueries {
	return &GormReportQueries{db: db}
}

// FinancialSummary aggregates revenue, invoicing, collections and spend
// for the period. Outstanding balance is current state, not period
// scoped, since an open balance is owed regardless of when it arose.
func (q *GormReportQueries) FinancialSummary(ctx context.Context, orgID uuid.UUID, period reporting.Period) (*reporting.FinancialSummary, error) {
	db := conn(ctx, q.db)
	summary := &reporting.FinancialSummary{}

	type row struct {
		Value decimal.Decimal
	}
	var r row

	err := db.Raw(`SELECT COALESCE(SUM(revenue), 0) AS value FROM trips
		WHERE organization_id = ? AND status = 'completed' AND scheduled_date BETWEEN ? AND ?`,
		orgID, period.From, period.To).Scan(&r).Error
	if err != nil {
		return nil, err
	}
	summary.TripRevenue = r.Value

	err = db.Raw(`SELECT COALESCE(SUM(CASE WHEN is_credit THEN -total ELSE total END), 0) AS value
		FROM invoices
		WHERE organization_id = ? AND status <> 'cancelled' AND issue_date BETWEEN ? AND ?`,
		orgID, period.From, period.To).Scan(&r).Error
	if err != nil {
		return nil, err
	}
	summary.InvoicedTotal = r.Value

	err = db.Raw(`SELECT COALESCE(SUM(amount), 0) AS value FROM payments
		WHERE organization_id = ? AND payment_date BETWEEN ? AND ?`,
		orgID, period.From, period.To).Scan(&r).Error
	if err != nil {
		return nil, err
	}
	summary.CollectedPayments = r.Value

	err = db.Raw(`SELECT COALESCE(SUM(balance), 0) AS value FROM invoices
		WHERE organization_id = ? AND status <> 'cancelled'`, orgID).Scan(&r).Error
	if err != nil {
		return nil, err
	}
	summary.OutstandingTotal = r.Value

	err = db.Raw(`SELECT COALESCE(SUM(amount), 0) AS value FROM expenses
		WHERE organization_id = ? AND expense_date BETWEEN ? AND ?`,
		orgID, period.From, period.To).Scan(&r).Error
	if err != nil {
		return nil, err
	}
	summary.TotalExpenses = r.Value

	return summary, nil
}

// ExpensesByCategory groups period expenses per category, largest first
func (q *GormReportQueries) ExpensesByCategory(ctx context.Context, orgID uuid.UUID, period reporting.Period) ([]reporting.CategoryExpenses, error) {
	var results []reporting.CategoryExpenses
	err := conn(ctx, q.db).Raw(`SELECT
			c.id AS category_id,
			c.name AS category_name,
			COUNT(e.id) AS count,
			COALESCE(SUM(e.amount), 0) AS total
		FROM expenses e
		JOIN expense_categories c ON c.id = e.category_id
		WHERE e.organization_id = ? AND e.expense_date BETWEEN ? AND ?
		GROUP BY c.id, c.name
		ORDER BY total DESC`,
		orgID, period.From, period.To).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// FleetUtilization counts trucks, drivers and period trip outcomes
func (q *GormReportQueries) FleetUtilization(ctx context.Context, orgID uuid.UUID, period reporting.Period) (*reporting.FleetUtilization, error) {
	db := conn(ctx, q.db)
	util := &reporting.FleetUtilization{}

	if err := db.Table("trucks").
		Where("organization_id = ?", orgID).
		Count(&util.TotalTrucks).Error; err != nil {
		return nil, err
	}
	if err := db.Table("trucks").
		Where("organization_id = ? AND status = ?", orgID, fleet.TruckStatusInService).
		Count(&util.TrucksInService).Error; err != nil {
		return nil, err
	}
	if err := db.Table("drivers").
		Where("organization_id = ? AND status <> ?", orgID, fleet.DriverStatusInactive).
		Count(&util.TotalDrivers).Error; err != nil {
		return nil, err
	}

	// Drivers currently out on a trip
	if err := db.Table("trips").
		Where("organization_id = ? AND status = ?", orgID, operations.TripStatusInProgress).
		Distinct("driver_id").
		Count(&util.DriversOnDuty).Error; err != nil {
		return nil, err
	}

	tripCounts := map[operations.TripStatus]*int64{
		operations.TripStatusScheduled: &util.TripsScheduled,
		operations.TripStatusCompleted: &util.TripsCompleted,
		operations.TripStatusCancelled: &util.TripsCancelled,
	}
	for status, target := range tripCounts {
		if err := db.Table("trips").
			Where("organization_id = ? AND status = ? AND scheduled_date BETWEEN ? AND ?",
				orgID, status, period.From, period.To).
			Count(target).Error; err != nil {
			return nil, err
		}
	}

	return util, nil
}

var _ reporting.Queries = (*GormReportQueries)(nil)
