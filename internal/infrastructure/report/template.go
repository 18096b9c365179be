package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
)

// SummaryView is the data rendered into the period summary document
type SummaryView struct {
	OrganizationName string
	From             time.Time
	To               time.Time
	GeneratedAt      time.Time

	TripRevenue       decimal.Decimal
	InvoicedTotal     decimal.Decimal
	CollectedPayments decimal.Decimal
	OutstandingTotal  decimal.Decimal
	TotalExpenses     decimal.Decimal

	ExpensesByCategory []CategoryExpenseView
	Fleet              FleetUtilizationView
}

// CategoryExpenseView is one row of the expenses-by-category table
type CategoryExpenseView struct {
	Category string
	Count    int64
	Total    decimal.Decimal
}

// FleetUtilizationView holds the fleet counters for the period
type FleetUtilizationView struct {
	TotalTrucks     int64
	TrucksInService int64
	TotalDrivers    int64
	DriversOnDuty   int64
	TripsScheduled  int64
	TripsCompleted  int64
	TripsCancelled  int64
}

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format("2006-01-02") },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 12px; color: #1a1a1a; }
  h1 { font-size: 20px; margin-bottom: 0; }
  .period { color: #666; margin-bottom: 24px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 24px; }
  th { text-align: left; border-bottom: 2px solid #333; padding: 6px 8px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
  td.num, th.num { text-align: right; }
  .section { font-size: 14px; font-weight: bold; margin: 16px 0 8px; }
  .footer { color: #999; font-size: 10px; margin-top: 32px; }
</style>
</head>
<body>
<h1>{{.OrganizationName}}</h1>
<div class="period">Operations summary, {{date .From}} to {{date .To}}</div>

<div class="section">Financials</div>
<table>
  <tr><td>Trip revenue</td><td class="num">{{money .TripRevenue}}</td></tr>
  <tr><td>Invoiced</td><td class="num">{{money .InvoicedTotal}}</td></tr>
  <tr><td>Payments collected</td><td class="num">{{money .CollectedPayments}}</td></tr>
  <tr><td>Outstanding balance</td><td class="num">{{money .OutstandingTotal}}</td></tr>
  <tr><td>Expenses</td><td class="num">{{money .TotalExpenses}}</td></tr>
</table>

<div class="section">Expenses by category</div>
<table>
  <tr><th>Category</th><th class="num">Entries</th><th class="num">Total</th></tr>
  {{range .ExpensesByCategory}}
  <tr><td>{{.Category}}</td><td class="num">{{.Count}}</td><td class="num">{{money .Total}}</td></tr>
  {{else}}
  <tr><td colspan="3">No expenses recorded in this period.</td></tr>
  {{end}}
</table>

<div class="section">Fleet utilization</div>
<table>
  <tr><td>Trucks (in service / total)</td><td class="num">{{.Fleet.TrucksInService}} / {{.Fleet.TotalTrucks}}</td></tr>
  <tr><td>Drivers (on duty / total)</td><td class="num">{{.Fleet.DriversOnDuty}} / {{.Fleet.TotalDrivers}}</td></tr>
  <tr><td>Trips scheduled</td><td class="num">{{.Fleet.TripsScheduled}}</td></tr>
  <tr><td>Trips completed</td><td class="num">{{.Fleet.TripsCompleted}}</td></tr>
  <tr><td>Trips cancelled</td><td class="num">{{.Fleet.TripsCancelled}}</td></tr>
</table>

<div class="footer">Generated {{.GeneratedAt.Format "2006-01-02 15:04 MST"}}</div>
</body>
</html>`))

// RenderSummaryHTML renders the period summary document
func RenderSummaryHTML(view *SummaryView) (string, error) {
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("report: template execution failed: %w", err)
	}
	return buf.String(), nil
}
