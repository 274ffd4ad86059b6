package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/rosterly/backend/internal/industry"
)

// Results is derived entirely from Inputs on every calculation. Category
// amounts are zero when the industry does not offer that category.
type Results struct {
	ScaledRosteringDays         float64 `json:"scaled_rostering_days"`
	TimeSavingsCost             float64 `json:"time_savings_cost,omitempty"`
	AllocativeEfficiencySavings float64 `json:"allocative_efficiency_savings,omitempty"`
	SkillMixSavings             float64 `json:"skill_mix_savings,omitempty"`
	TurnoverReductionSavings    float64 `json:"turnover_reduction_savings,omitempty"`
	TotalAnnualSavings          float64 `json:"total_annual_savings"`
	ROIMultiple                 float64 `json:"roi_multiple"`
	AnnualSubscriptionCost      float64 `json:"annual_subscription_cost"`
	OneOffImplementationCost    float64 `json:"one_off_implementation_cost"`
	FirstYearTotalCost          float64 `json:"first_year_total_cost"`
}

// Category identifies one savings line.
type Category string

const (
	CategoryTimeSavings          Category = "time_savings"
	CategoryAllocativeEfficiency Category = "allocative_efficiency"
	CategorySkillMix             Category = "skill_mix"
	CategoryTurnoverReduction    Category = "turnover_reduction"
)

// Label is the human-readable name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryTimeSavings:
		return "Rostering time saved"
	case CategoryAllocativeEfficiency:
		return "Staffing efficiency"
	case CategorySkillMix:
		return "Skill-mix optimisation"
	case CategoryTurnoverReduction:
		return "Reduced staff turnover"
	}
	return string(c)
}

// LineItem is one enabled savings category and its amount.
type LineItem struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Amount   float64  `json:"amount"`
}

// Breakdown lists the categories enabled by features, in display order.
func (r Results) Breakdown(features industry.Features) []LineItem {
	var items []LineItem
	add := func(enabled bool, c Category, amount float64) {
		if enabled {
			items = append(items, LineItem{Category: c, Label: c.Label(), Amount: amount})
		}
	}
	add(features.HasManualTimeSaving, CategoryTimeSavings, r.TimeSavingsCost)
	add(features.HasStaffingEfficiency, CategoryAllocativeEfficiency, r.AllocativeEfficiencySavings)
	add(features.HasSkillMix, CategorySkillMix, r.SkillMixSavings)
	add(features.HasTurnover, CategoryTurnoverReduction, r.TurnoverReductionSavings)
	return items
}

// Calculator computes Results against a price list.
type Calculator struct {
	Pricing PricingTable
}

// Calculate runs the default calculator, priced with DefaultPricing.
func Calculate(in Inputs, cfg industry.Config, overrideDays *float64) Results {
	return Calculator{Pricing: DefaultPricing}.Calculate(in, cfg, overrideDays)
}

// Calculate is a pure function of its arguments. When overrideDays is
// non-nil it replaces the scaled rostering days as given, floored only
// when it is below MinRosteringDays or not finite.
func (c Calculator) Calculate(in Inputs, cfg industry.Config, overrideDays *float64) Results {
	in = Clamp(in)
	t := cfg.Tuning
	f := cfg.Features

	var r Results
	if overrideDays != nil {
		r.ScaledRosteringDays = floorDays(*overrideDays)
	} else {
		r.ScaledRosteringDays = ScaledRosteringDays(in, cfg)
	}

	employees := float64(in.Employees)
	payroll := employees * in.AnnualSalary

	if f.HasManualTimeSaving {
		cyclesPerYear := WeeksPerYear / in.RosterCycleWeeks
		dailyWage := in.AvgHourlyWage * HoursPerDay
		r.TimeSavingsCost = money(r.ScaledRosteringDays * t.TimeSavingFactor * cyclesPerYear * dailyWage)
	}
	if f.HasStaffingEfficiency {
		r.AllocativeEfficiencySavings = money(payroll * t.StaffingEfficiencyRate)
	}
	if f.HasSkillMix {
		r.SkillMixSavings = money(payroll * t.SkillMixRate)
	}
	if f.HasTurnover {
		departures := in.TurnoverRate / 100 * employees
		r.TurnoverReductionSavings = money(departures * t.TurnoverReduction * t.ReplacementCostPerHire)
	}

	r.TotalAnnualSavings = sum(
		r.TimeSavingsCost,
		r.AllocativeEfficiencySavings,
		r.SkillMixSavings,
		r.TurnoverReductionSavings,
	)

	quote := c.Pricing.Quote(in.Employees)
	r.AnnualSubscriptionCost = money(quote.AnnualSubscription)
	r.OneOffImplementationCost = money(quote.Implementation)
	r.FirstYearTotalCost = sum(r.AnnualSubscriptionCost, r.OneOffImplementationCost)
	r.ROIMultiple = roiMultiple(r.TotalAnnualSavings, r.FirstYearTotalCost)

	return r
}

// ScaledRosteringDays estimates the days spent building one roster for the
// team described by in. Larger teams and longer cycles take longer; the
// result is never below MinRosteringDays.
func ScaledRosteringDays(in Inputs, cfg industry.Config) float64 {
	in = Clamp(in)

	employeeRatio := 1.0
	if cfg.DefaultEmployees > 0 {
		employeeRatio = float64(in.Employees) / float64(cfg.DefaultEmployees)
	}
	cycleRatio := 1.0
	if cfg.DefaultCycleWeeks > 0 {
		cycleRatio = in.RosterCycleWeeks / cfg.DefaultCycleWeeks
	}

	days := cfg.DefaultRosteringDays *
		math.Pow(employeeRatio, cfg.Tuning.EmployeeScaleExponent) *
		math.Pow(cycleRatio, cfg.Tuning.CycleScaleExponent)

	return round(floorDays(days), 1)
}

func floorDays(days float64) float64 {
	if !isFinite(days) || days < MinRosteringDays {
		return MinRosteringDays
	}
	return days
}

func roiMultiple(savings, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	roi := savings / cost
	if !isFinite(roi) {
		return 0
	}
	return round(roi, 1)
}

func money(v float64) float64 {
	return round(v, 2)
}

func round(v float64, places int32) float64 {
	if !isFinite(v) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}
