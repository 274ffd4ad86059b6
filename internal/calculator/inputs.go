// Package calculator estimates the annual savings and return on investment
// of automated rostering for a team.
package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rosterly/backend/internal/industry"
)

const (
	// HoursPerYear is the standard full-time year used to convert between
	// hourly wage and annual salary.
	HoursPerYear = 2080
	// HoursPerDay converts a scheduler's hourly wage into a daily cost.
	HoursPerDay = 8
	// WeeksPerYear converts a roster cycle length into cycles per year.
	WeeksPerYear = 52

	MinCycleWeeks    = 1
	MaxCycleWeeks    = 52
	MinRosteringDays = 0.5

	// MaxEmployees saturates team size so huge entries cannot overflow int.
	MaxEmployees = 1_000_000
)

// Inputs are the values entered on the calculator form.
type Inputs struct {
	Industry           string  `json:"industry"`
	Employees          int     `json:"employees"`
	AvgHourlyWage      float64 `json:"avg_hourly_wage"`
	AnnualSalary       float64 `json:"annual_salary"`
	RosterCycleWeeks   float64 `json:"roster_cycle_weeks"`
	OvertimePercentage float64 `json:"overtime_percentage"`
	TurnoverRate       float64 `json:"turnover_rate"`
}

// DefaultInputs returns the inputs a form shows when cfg is first selected.
func DefaultInputs(cfg industry.Config) Inputs {
	return Inputs{
		Industry:           cfg.Key,
		Employees:          cfg.DefaultEmployees,
		AvgHourlyWage:      cfg.DefaultHourlyWage,
		AnnualSalary:       WageToSalary(cfg.DefaultHourlyWage),
		RosterCycleWeeks:   cfg.DefaultCycleWeeks,
		OvertimePercentage: cfg.DefaultOvertime,
		TurnoverRate:       cfg.DefaultTurnover,
	}
}

// Clamp brings every field into its valid range. Out-of-range values are
// never rejected.
func Clamp(in Inputs) Inputs {
	switch {
	case in.Employees < 0:
		in.Employees = 0
	case in.Employees > MaxEmployees:
		in.Employees = MaxEmployees
	}
	in.AvgHourlyWage = nonNegative(in.AvgHourlyWage)
	in.AnnualSalary = nonNegative(in.AnnualSalary)
	in.RosterCycleWeeks = bound(in.RosterCycleWeeks, MinCycleWeeks, MaxCycleWeeks)
	in.OvertimePercentage = bound(in.OvertimePercentage, 0, 100)
	in.TurnoverRate = bound(in.TurnoverRate, 0, 100)
	return in
}

var hoursPerYear = decimal.NewFromInt(HoursPerYear)

// WageToSalary converts an hourly wage into an annual salary.
func WageToSalary(wage float64) float64 {
	if !isFinite(wage) {
		return 0
	}
	return decimal.NewFromFloat(wage).Mul(hoursPerYear).InexactFloat64()
}

// SalaryToWage converts an annual salary into an hourly wage rounded to one
// decimal place.
func SalaryToWage(salary float64) float64 {
	if !isFinite(salary) {
		return 0
	}
	return decimal.NewFromFloat(salary).Div(hoursPerYear).Round(1).InexactFloat64()
}

func nonNegative(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

func bound(v, lo, hi float64) float64 {
	if !isFinite(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
