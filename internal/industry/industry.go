// Package industry holds the per-industry default assumptions and tuning
// parameters used by the savings calculator.
package industry

import (
	"errors"
	"fmt"
)

// DefaultKey is the industry used when a lookup key is unknown.
const DefaultKey = "nursing"

// Config is the immutable set of defaults for one industry.
type Config struct {
	Key                  string   `yaml:"-" json:"key"`
	Label                string   `yaml:"label" json:"label"`
	DefaultEmployees     int      `yaml:"default_employees" json:"default_employees"`
	DefaultHourlyWage    float64  `yaml:"default_hourly_wage" json:"default_hourly_wage"`
	DefaultCycleWeeks    float64  `yaml:"default_cycle_weeks" json:"default_cycle_weeks"`
	DefaultRosteringDays float64  `yaml:"default_rostering_days" json:"default_rostering_days"`
	DefaultOvertime      float64  `yaml:"default_overtime" json:"default_overtime"`
	DefaultTurnover      float64  `yaml:"default_turnover" json:"default_turnover"`
	Features             Features `yaml:"features" json:"features"`
	Tuning               Tuning   `yaml:"tuning" json:"-"`
}

// Features selects which savings categories apply to an industry.
type Features struct {
	HasManualTimeSaving   bool `yaml:"manual_time_saving" json:"manual_time_saving"`
	HasStaffingEfficiency bool `yaml:"staffing_efficiency" json:"staffing_efficiency"`
	HasSkillMix           bool `yaml:"skill_mix" json:"skill_mix"`
	HasTurnover           bool `yaml:"turnover" json:"turnover"`
}

// Tuning carries the business parameters behind each savings category.
// Rates are fractions, not percentages.
type Tuning struct {
	TimeSavingFactor       float64 `yaml:"time_saving_factor"`
	StaffingEfficiencyRate float64 `yaml:"staffing_efficiency_rate"`
	SkillMixRate           float64 `yaml:"skill_mix_rate"`
	TurnoverReduction      float64 `yaml:"turnover_reduction"`
	ReplacementCostPerHire float64 `yaml:"replacement_cost_per_hire"`
	EmployeeScaleExponent  float64 `yaml:"employee_scale_exponent"`
	CycleScaleExponent     float64 `yaml:"cycle_scale_exponent"`
}

// DefaultAnnualSalary is the default hourly wage over a 2080-hour year.
func (c Config) DefaultAnnualSalary() float64 {
	return c.DefaultHourlyWage * 2080
}

var errInvalidConfig = errors.New("invalid industry config")

// Validate checks the ranges the calculator relies on. The scaling curve
// divides by the employee and cycle defaults, so both must be positive, and
// negative exponents would make it decreasing.
func (c Config) Validate() error {
	switch {
	case c.DefaultEmployees <= 0:
		return fmt.Errorf("%w: %s: default_employees must be > 0", errInvalidConfig, c.Key)
	case c.DefaultHourlyWage < 0:
		return fmt.Errorf("%w: %s: default_hourly_wage must be >= 0", errInvalidConfig, c.Key)
	case c.DefaultCycleWeeks <= 0:
		return fmt.Errorf("%w: %s: default_cycle_weeks must be > 0", errInvalidConfig, c.Key)
	case c.DefaultRosteringDays <= 0:
		return fmt.Errorf("%w: %s: default_rostering_days must be > 0", errInvalidConfig, c.Key)
	case !isPercentage(c.DefaultOvertime):
		return fmt.Errorf("%w: %s: default_overtime must be within [0,100]", errInvalidConfig, c.Key)
	case !isPercentage(c.DefaultTurnover):
		return fmt.Errorf("%w: %s: default_turnover must be within [0,100]", errInvalidConfig, c.Key)
	}

	t := c.Tuning
	switch {
	case t.TimeSavingFactor < 0 || t.TimeSavingFactor > 1:
		return fmt.Errorf("%w: %s: time_saving_factor must be within [0,1]", errInvalidConfig, c.Key)
	case t.StaffingEfficiencyRate < 0 || t.SkillMixRate < 0 || t.TurnoverReduction < 0:
		return fmt.Errorf("%w: %s: rates must be >= 0", errInvalidConfig, c.Key)
	case t.ReplacementCostPerHire < 0:
		return fmt.Errorf("%w: %s: replacement_cost_per_hire must be >= 0", errInvalidConfig, c.Key)
	case t.EmployeeScaleExponent < 0 || t.CycleScaleExponent < 0:
		return fmt.Errorf("%w: %s: scale exponents must be >= 0", errInvalidConfig, c.Key)
	}
	return nil
}

func isPercentage(v float64) bool {
	return v >= 0 && v <= 100
}
