package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fleetops/backend/internal/domain/reporting"
	"github.com/fleetops/backend/internal/domain/shared"
)

// SummaryRequest selects the reporting period. To is inclusive and defaults
// to today; From defaults to the first day of To's month.
type SummaryRequest struct {
	From *time.Time
	To   *time.Time
}

func (r SummaryRequest) period() (reporting.Period, error) {
	to := time.Now()
	if r.To != nil {
		to = *r.To
	}
	from := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())
	if r.From != nil {
		from = *r.From
	}
	if from.After(to) {
		return reporting.Period{}, shared.NewDomainError("INVALID_PERIOD", "Period start cannot be after its end")
	}
	return reporting.Period{From: from, To: to}, nil
}

// CategoryExpensesResponse is one expenses-by-category row
type CategoryExpensesResponse struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Count        int64           `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

// FleetUtilizationResponse holds the fleet counters for the period
type FleetUtilizationResponse struct {
	TotalTrucks     int64 `json:"total_trucks"`
	TrucksInService int64 `json:"trucks_in_service"`
	TotalDrivers    int64 `json:"total_drivers"`
	DriversOnDuty   int64 `json:"drivers_on_duty"`
	TripsScheduled  int64 `json:"trips_scheduled"`
	TripsCompleted  int64 `json:"trips_completed"`
	TripsCancelled  int64 `json:"trips_cancelled"`
}

// SummaryResponse is the JSON projection of the period summary
type SummaryResponse struct {
	From               time.Time                  `json:"from"`
	To                 time.Time                  `json:"to"`
	TripRevenue        decimal.Decimal            `json:"trip_revenue"`
	InvoicedTotal      decimal.Decimal            `json:"invoiced_total"`
	CollectedPayments  decimal.Decimal            `json:"collected_payments"`
	OutstandingTotal   decimal.Decimal            `json:"outstanding_total"`
	TotalExpenses      decimal.Decimal            `json:"total_expenses"`
	NetIncome          decimal.Decimal            `json:"net_income"`
	ExpensesByCategory []CategoryExpensesResponse `json:"expenses_by_category"`
	Fleet              FleetUtilizationResponse   `json:"fleet"`
}

func toSummaryResponse(period reporting.Period, financial *reporting.FinancialSummary, byCategory []reporting.CategoryExpenses, fleet *reporting.FleetUtilization) *SummaryResponse {
	resp := &SummaryResponse{
		From:              period.From,
		To:                period.To,
		TripRevenue:       financial.TripRevenue,
		InvoicedTotal:     financial.InvoicedTotal,
		CollectedPayments: financial.CollectedPayments,
		OutstandingTotal:  financial.OutstandingTotal,
		TotalExpenses:     financial.TotalExpenses,
		NetIncome:         financial.TripRevenue.Sub(financial.TotalExpenses),
		Fleet: FleetUtilizationResponse{
			TotalTrucks:     fleet.TotalTrucks,
			TrucksInService: fleet.TrucksInService,
			TotalDrivers:    fleet.TotalDrivers,
			DriversOnDuty:   fleet.DriversOnDuty,
			TripsScheduled:  fleet.TripsScheduled,
			TripsCompleted:  fleet.TripsCompleted,
			TripsCancelled:  fleet.TripsCancelled,
		},
	}
	for _, c := range byCategory {
		resp.ExpensesByCategory = append(resp.ExpensesByCategory, CategoryExpensesResponse{
			CategoryID:   c.CategoryID,
			CategoryName: c.CategoryName,
			Count:        c.Count,
			Total:        c.Total,
		})
	}
	return resp
}
