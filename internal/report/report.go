// Package report turns a savings calculation into a downloadable document.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/rosterly/backend/internal/calculator"
	"github.com/rosterly/backend/internal/industry"
)

// Kind selects which figures a report leads with.
type Kind string

const (
	KindSavings Kind = "savings"
	KindROI     Kind = "roi"
)

// ParseKind accepts "savings" or "roi", case-insensitively. Empty means savings.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(KindSavings):
		return KindSavings, nil
	case string(KindROI):
		return KindROI, nil
	}
	return "", fmt.Errorf("report: unknown kind %q", s)
}

// Title is the document title for the kind.
func (k Kind) Title() string {
	if k == KindROI {
		return "Return on Investment Report"
	}
	return "Rostering Savings Report"
}

// Region controls how money is presented.
type Region struct {
	Code     string
	Currency string
}

var regions = map[string]Region{
	"AU": {Code: "AU", Currency: "A$"},
	"NZ": {Code: "NZ", Currency: "NZ$"},
	"UK": {Code: "UK", Currency: "£"},
	"GB": {Code: "UK", Currency: "£"},
	"IE": {Code: "IE", Currency: "€"},
	"US": {Code: "US", Currency: "$"},
	"CA": {Code: "CA", Currency: "C$"},
}

// LookupRegion resolves a region code; unknown codes present plain dollars.
func LookupRegion(code string) Region {
	if r, ok := regions[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return r
	}
	return Region{Code: strings.ToUpper(strings.TrimSpace(code)), Currency: "$"}
}

// Money formats a whole-currency amount, e.g. "A$66,300".
func (r Region) Money(v float64) string {
	return formatMoney(r.Currency, v)
}

// Request is everything a report is built from.
type Request struct {
	CompanyName string
	ContactName string
	Email       string
	Kind        Kind
	Region      string
	Industry    industry.Config
	Inputs      calculator.Inputs
	Results     calculator.Results
	GeneratedAt time.Time
}

// Document is a renderer-neutral report.
type Document struct {
	Title    string
	Subtitle string
	Sections []Section
	Footer   string
}

// Section is a headed block of label/value rows and/or bullet points.
type Section struct {
	Heading string
	Rows    []Row
	Bullets []string
}

// Row is one label/value line. Emphasised rows carry headline figures.
type Row struct {
	Label      string
	Value      string
	Emphasised bool
}

// Characteristics are the product points printed on every report.
var Characteristics = []string{
	"Rosters generated in minutes that respect award rules, fatigue limits and skill requirements",
	"Fair distribution of nights, weekends and on-call across the whole team",
	"Self-service shift swaps and leave requests from any device",
	"Live visibility of coverage gaps and overtime exposure",
	"Integrates with existing payroll and HR systems",
}

const brand = "Rosterly"

// Build lays out the report sections for req.
func Build(req Request) Document {
	region := LookupRegion(req.Region)
	m := func(v float64) string { return formatMoney(region.Currency, v) }
	in := req.Inputs
	res := req.Results

	doc := Document{
		Title:    req.Kind.Title(),
		Subtitle: fmt.Sprintf("%s rostering: estimated annual savings", req.Industry.Label),
	}
	if req.Kind == KindROI {
		doc.Subtitle = fmt.Sprintf("%s rostering: projected first-year return", req.Industry.Label)
	}

	prepared := Section{Heading: "Prepared for"}
	if req.CompanyName != "" {
		prepared.Rows = append(prepared.Rows, Row{Label: "Organisation", Value: req.CompanyName})
	}
	if req.ContactName != "" {
		prepared.Rows = append(prepared.Rows, Row{Label: "Contact", Value: req.ContactName})
	}
	if req.Email != "" {
		prepared.Rows = append(prepared.Rows, Row{Label: "Email", Value: req.Email})
	}
	prepared.Rows = append(prepared.Rows,
		Row{Label: "Industry", Value: req.Industry.Label},
		Row{Label: "Date", Value: req.GeneratedAt.Format("2 January 2006")},
	)

	inputs := Section{
		Heading: "Your team",
		Rows: []Row{
			{Label: "Employees rostered", Value: formatNumber(float64(in.Employees), 0)},
			{Label: "Average hourly wage", Value: formatMoneyCents(region.Currency, in.AvgHourlyWage)},
			{Label: "Average annual salary", Value: m(in.AnnualSalary)},
			{Label: "Roster cycle", Value: formatNumber(in.RosterCycleWeeks, 1) + " weeks"},
			{Label: "Days spent building each roster", Value: formatNumber(res.ScaledRosteringDays, 1)},
			{Label: "Overtime", Value: formatNumber(in.OvertimePercentage, 1) + "%"},
			{Label: "Annual staff turnover", Value: formatNumber(in.TurnoverRate, 1) + "%"},
		},
	}

	savings := Section{Heading: "Estimated annual savings"}
	for _, item := range res.Breakdown(req.Industry.Features) {
		savings.Rows = append(savings.Rows, Row{Label: item.Label, Value: m(item.Amount)})
	}
	savings.Rows = append(savings.Rows, Row{Label: "Total annual savings", Value: m(res.TotalAnnualSavings), Emphasised: true})

	doc.Sections = append(doc.Sections, prepared, inputs, savings)

	if req.Kind == KindROI {
		investment := Section{
			Heading: "Investment",
			Rows: []Row{
				{Label: "Annual subscription", Value: m(res.AnnualSubscriptionCost)},
				{Label: "One-off implementation", Value: m(res.OneOffImplementationCost)},
				{Label: "First-year total cost", Value: m(res.FirstYearTotalCost)},
				{Label: "Return on investment", Value: formatNumber(res.ROIMultiple, 1) + "x", Emphasised: true},
			},
		}
		if months, ok := paybackMonths(res); ok {
			investment.Rows = append(investment.Rows, Row{Label: "Payback period", Value: formatNumber(months, 1) + " months"})
		}
		doc.Sections = append(doc.Sections, investment)
	}

	doc.Sections = append(doc.Sections, Section{
		Heading: "Why teams switch to " + brand,
		Bullets: Characteristics,
	})

	doc.Footer = fmt.Sprintf("Prepared by %s on %s. Figures are estimates based on the information provided and %s industry benchmarks.",
		brand, req.GeneratedAt.Format("2 Jan 2006"), strings.ToLower(req.Industry.Label))
	return doc
}

// paybackMonths is how long the monthly savings take to cover the first-year cost.
func paybackMonths(res calculator.Results) (float64, bool) {
	if res.TotalAnnualSavings <= 0 || res.FirstYearTotalCost <= 0 {
		return 0, false
	}
	return res.FirstYearTotalCost / (res.TotalAnnualSavings / 12), true
}
