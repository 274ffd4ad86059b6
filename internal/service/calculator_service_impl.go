package service

import (
	"context"
	"log/slog"

	"github.com/rosterly/backend/internal/calculator"
	"github.com/rosterly/backend/internal/industry"
	"github.com/rosterly/backend/internal/observability"
)

// calculatorServiceImpl is the production implementation of CalculatorService.
type calculatorServiceImpl struct {
	registry *industry.Registry
	calc     calculator.Calculator
	metrics  *observability.Metrics
}

// NewCalculatorService creates a CalculatorService over the given registry.
// metrics may be nil.
func NewCalculatorService(registry *industry.Registry, pricing calculator.PricingTable, metrics *observability.Metrics) CalculatorService {
	return &calculatorServiceImpl{
		registry: registry,
		calc:     calculator.Calculator{Pricing: pricing},
		metrics:  metrics,
	}
}

// Calculate starts from the industry defaults and applies the supplied
// fields. When both wage and salary are given the wage is applied last and
// wins, as if it had been edited last.
func (s *calculatorServiceImpl) Calculate(ctx context.Context, req CalculationRequest) (*Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	form := calculator.NewForm(s.registry, req.Industry)
	form.UseCalculator(s.calc)

	if req.Employees != nil {
		form.SetEmployees(*req.Employees)
	}
	if req.AnnualSalary != nil {
		form.SetAnnualSalary(*req.AnnualSalary)
	}
	if req.AvgHourlyWage != nil {
		form.SetHourlyWage(*req.AvgHourlyWage)
	}
	if req.RosterCycleWeeks != nil {
		form.SetCycleWeeks(*req.RosterCycleWeeks)
	}
	if req.OvertimePercentage != nil {
		form.SetOvertime(*req.OvertimePercentage)
	}
	if req.TurnoverRate != nil {
		form.SetTurnoverRate(*req.TurnoverRate)
	}
	if req.RosteringDaysOverride != nil {
		form.SetRosteringDaysOverride(*req.RosteringDaysOverride)
	}

	cfg := form.Industry()
	results := form.Results()
	s.metrics.Calculation(cfg.Key)

	if req.Industry != "" && req.Industry != cfg.Key {
		slog.Debug("unknown industry, using default", "requested", req.Industry, "industry", cfg.Key)
	}

	return &Calculation{
		ResolvedIndustry: cfg.Key,
		IndustryLabel:    cfg.Label,
		Inputs:           form.Inputs(),
		Results:          results,
		Breakdown:        results.Breakdown(cfg.Features),
	}, nil
}
