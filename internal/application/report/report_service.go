package report

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/domain/reporting"
	"github.com/fleetops/backend/internal/domain/shared"
	"github.com/fleetops/backend/internal/infrastructure/report"
)

// ReportService produces period summary reports. The same aggregates back
// both the JSON summary and the rendered PDF.
type ReportService struct {
	queries  reporting.Queries
	orgRepo  identity.OrganizationRepository
	renderer report.PDFRenderer
	logger   *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	queries reporting.Queries,
	orgRepo identity.OrganizationRepository,
	renderer report.PDFRenderer,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		queries:  queries,
		orgRepo:  orgRepo,
		renderer: renderer,
		logger:   logger,
	}
}

// Summary computes the financial and fleet aggregates for a period
func (s *ReportService) Summary(ctx context.Context, actor identity.Actor, req SummaryRequest) (*SummaryResponse, error) {
	period, err := req.period()
	if err != nil {
		return nil, err
	}

	financial, err := s.queries.FinancialSummary(ctx, actor.OrganizationID, period)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.queries.ExpensesByCategory(ctx, actor.OrganizationID, period)
	if err != nil {
		return nil, err
	}
	fleet, err := s.queries.FleetUtilization(ctx, actor.OrganizationID, period)
	if err != nil {
		return nil, err
	}

	return toSummaryResponse(period, financial, byCategory, fleet), nil
}

// SummaryPDF renders the period summary as a PDF document
func (s *ReportService) SummaryPDF(ctx context.Context, actor identity.Actor, req SummaryRequest) ([]byte, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("RENDERER_UNAVAILABLE", "PDF rendering is not configured")
	}

	period, err := req.period()
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}

	financial, err := s.queries.FinancialSummary(ctx, actor.OrganizationID, period)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.queries.ExpensesByCategory(ctx, actor.OrganizationID, period)
	if err != nil {
		return nil, err
	}
	fleet, err := s.queries.FleetUtilization(ctx, actor.OrganizationID, period)
	if err != nil {
		return nil, err
	}

	view := &report.SummaryView{
		OrganizationName:  org.Name,
		From:              period.From,
		To:                period.To,
		GeneratedAt:       time.Now(),
		TripRevenue:       financial.TripRevenue,
		InvoicedTotal:     financial.InvoicedTotal,
		CollectedPayments: financial.CollectedPayments,
		OutstandingTotal:  financial.OutstandingTotal,
		TotalExpenses:     financial.TotalExpenses,
		Fleet: report.FleetUtilizationView{
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
		view.ExpensesByCategory = append(view.ExpensesByCategory, report.CategoryExpenseView{
			Category: c.CategoryName,
			Count:    c.Count,
			Total:    c.Total,
		})
	}

	html, err := report.RenderSummaryHTML(view)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderHTML(ctx, html)
	if err != nil {
		s.logger.Error("summary PDF rendering failed",
			zap.String("organization_id", actor.OrganizationID.String()),
			zap.Error(err),
		)
		return nil, shared.NewDomainError("RENDER_FAILED", "Could not render the summary PDF")
	}

	s.logger.Info("summary PDF generated",
		zap.String("organization_id", actor.OrganizationID.String()),
		zap.Int("bytes", len(pdf)),
	)
	return pdf, nil
}
