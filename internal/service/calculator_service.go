package service

import (
	"context"

	"github.com/rosterly/backend/internal/calculator"
)

// CalculationRequest carries the calculator fields a visitor supplied.
// Nil fields keep the industry default.
type CalculationRequest struct {
	Industry              string   `json:"industry"`
	Employees             *int     `json:"employees,omitempty"`
	AvgHourlyWage         *float64 `json:"avg_hourly_wage,omitempty"`
	AnnualSalary          *float64 `json:"annual_salary,omitempty"`
	RosterCycleWeeks      *float64 `json:"roster_cycle_weeks,omitempty"`
	OvertimePercentage    *float64 `json:"overtime_percentage,omitempty"`
	TurnoverRate          *float64 `json:"turnover_rate,omitempty"`
	RosteringDaysOverride *float64 `json:"rostering_days_override,omitempty"`
}

// Calculation is the outcome of one savings calculation.
type Calculation struct {
	// ResolvedIndustry differs from the requested key when it was unknown.
	ResolvedIndustry string                `json:"resolved_industry"`
	IndustryLabel    string                `json:"industry_label"`
	Inputs           calculator.Inputs     `json:"inputs"`
	Results          calculator.Results    `json:"results"`
	Breakdown        []calculator.LineItem `json:"breakdown"`
}

// CalculatorService runs the savings calculator.
type CalculatorService interface {
	Calculate(ctx context.Context, req CalculationRequest) (*Calculation, error)
}
