package calculator

import (
	"math"
	"strconv"
	"strings"

	"github.com/rosterly/backend/internal/industry"
)

// Field names an editable input on the calculator form.
type Field int

const (
	FieldEmployees Field = iota
	FieldHourlyWage
	FieldAnnualSalary
	FieldCycleWeeks
	FieldOvertime
	FieldTurnover

	fieldNone Field = -1
)

var fieldNames = map[Field]string{
	FieldEmployees:    "employees",
	FieldHourlyWage:   "avg_hourly_wage",
	FieldAnnualSalary: "annual_salary",
	FieldCycleWeeks:   "roster_cycle_weeks",
	FieldOvertime:     "overtime_percentage",
	FieldTurnover:     "turnover_rate",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// Form holds the state of one calculator session. Hourly wage and annual
// salary are kept consistent through the 2080-hour year: whichever was
// edited last is authoritative and the other is derived from it.
//
// A Form is not safe for concurrent use.
type Form struct {
	registry     *industry.Registry
	calc         Calculator
	cfg          industry.Config
	inputs       Inputs
	overrideDays *float64
	drafts       map[Field]string
	lastEdited   Field
}

// NewForm starts a session for the industry key, falling back to the
// registry's default industry when the key is unknown.
func NewForm(registry *industry.Registry, key string) *Form {
	f := &Form{
		registry: registry,
		calc:     Calculator{Pricing: DefaultPricing},
	}
	f.SetIndustry(key)
	return f
}

// UseCalculator replaces the calculator used by Results.
func (f *Form) UseCalculator(c Calculator) {
	f.calc = c
}

// SetIndustry switches industry. All inputs reset to the new industry's
// defaults and any rostering-days override or in-progress edit is dropped.
func (f *Form) SetIndustry(key string) {
	f.cfg = f.registry.Lookup(key)
	f.inputs = DefaultInputs(f.cfg)
	f.overrideDays = nil
	f.drafts = make(map[Field]string)
	f.lastEdited = fieldNone
}

// Industry returns the active industry configuration.
func (f *Form) Industry() industry.Config {
	return f.cfg
}

// Edit records in-progress text for field. Empty or unparseable text counts
// as zero until the field is committed.
func (f *Form) Edit(field Field, text string) {
	if _, ok := fieldNames[field]; !ok {
		return
	}
	v, ok := parseNumber(text)
	if !ok {
		v = 0
	}
	f.drafts[field] = text
	f.lastEdited = field

	switch field {
	case FieldHourlyWage:
		delete(f.drafts, FieldAnnualSalary)
	case FieldAnnualSalary:
		delete(f.drafts, FieldHourlyWage)
	}
	f.apply(field, v)
}

// Commit ends an edit. Empty or invalid text reverts to the industry
// default; valid text is clamped to the field's range.
func (f *Form) Commit(field Field) {
	text, ok := f.drafts[field]
	if !ok {
		return
	}
	delete(f.drafts, field)
	if f.lastEdited == field {
		f.lastEdited = fieldNone
	}

	v, ok := parseNumber(text)
	if !ok {
		v = f.defaultFor(field)
	}
	f.apply(field, v)
	f.inputs = f.committed()
}

// Draft returns the in-progress text of field, if any.
func (f *Form) Draft(field Field) (string, bool) {
	text, ok := f.drafts[field]
	return text, ok
}

// LastEdited returns the field currently being edited.
func (f *Form) LastEdited() (Field, bool) {
	return f.lastEdited, f.lastEdited != fieldNone
}

func (f *Form) SetEmployees(n int)        { f.set(FieldEmployees, float64(n)) }
func (f *Form) SetHourlyWage(w float64)   { f.set(FieldHourlyWage, w) }
func (f *Form) SetAnnualSalary(a float64) { f.set(FieldAnnualSalary, a) }
func (f *Form) SetCycleWeeks(w float64)   { f.set(FieldCycleWeeks, w) }
func (f *Form) SetOvertime(p float64)     { f.set(FieldOvertime, p) }
func (f *Form) SetTurnoverRate(p float64) { f.set(FieldTurnover, p) }

// SetRosteringDaysOverride replaces the scaled rostering days estimate.
func (f *Form) SetRosteringDaysOverride(days float64) {
	d := days
	f.overrideDays = &d
}

// ClearRosteringDaysOverride returns to the scaled estimate.
func (f *Form) ClearRosteringDaysOverride() {
	f.overrideDays = nil
}

// RosteringDaysOverride returns the manual override, if set.
func (f *Form) RosteringDaysOverride() (float64, bool) {
	if f.overrideDays == nil {
		return 0, false
	}
	return *f.overrideDays, true
}

// Inputs returns the current inputs, clamped to their valid ranges.
func (f *Form) Inputs() Inputs {
	in := Clamp(f.inputs)
	in.Industry = f.cfg.Key
	return in
}

// Results recalculates from the current inputs.
func (f *Form) Results() Results {
	var override *float64
	if f.overrideDays != nil {
		d := *f.overrideDays
		override = &d
	}
	return f.calc.Calculate(f.Inputs(), f.cfg, override)
}

// set applies a committed value, discarding any draft for the field and
// for its wage/salary counterpart.
func (f *Form) set(field Field, v float64) {
	delete(f.drafts, field)
	switch field {
	case FieldHourlyWage:
		delete(f.drafts, FieldAnnualSalary)
	case FieldAnnualSalary:
		delete(f.drafts, FieldHourlyWage)
	}
	if f.lastEdited == field {
		f.lastEdited = fieldNone
	}
	if !isFinite(v) {
		v = 0
	}
	f.apply(field, v)
	f.inputs = f.committed()
}

func (f *Form) apply(field Field, v float64) {
	switch field {
	case FieldEmployees:
		f.inputs.Employees = int(math.Round(math.Min(math.Max(v, 0), MaxEmployees)))
	case FieldHourlyWage:
		f.inputs.AvgHourlyWage = v
		f.inputs.AnnualSalary = WageToSalary(v)
	case FieldAnnualSalary:
		f.inputs.AnnualSalary = v
		f.inputs.AvgHourlyWage = SalaryToWage(v)
	case FieldCycleWeeks:
		f.inputs.RosterCycleWeeks = v
	case FieldOvertime:
		f.inputs.OvertimePercentage = v
	case FieldTurnover:
		f.inputs.TurnoverRate = v
	}
}

// committed clamps the stored inputs, leaving fields with a live draft as
// typed so an in-progress edit is not rewritten under the user.
func (f *Form) committed() Inputs {
	clamped := Clamp(f.inputs)
	out := f.inputs
	if _, editing := f.drafts[FieldEmployees]; !editing {
		out.Employees = clamped.Employees
	}
	if _, editing := f.drafts[FieldHourlyWage]; !editing {
		out.AvgHourlyWage = clamped.AvgHourlyWage
	}
	if _, editing := f.drafts[FieldAnnualSalary]; !editing {
		out.AnnualSalary = clamped.AnnualSalary
	}
	if _, editing := f.drafts[FieldCycleWeeks]; !editing {
		out.RosterCycleWeeks = clamped.RosterCycleWeeks
	}
	if _, editing := f.drafts[FieldOvertime]; !editing {
		out.OvertimePercentage = clamped.OvertimePercentage
	}
	if _, editing := f.drafts[FieldTurnover]; !editing {
		out.TurnoverRate = clamped.TurnoverRate
	}
	return out
}

func (f *Form) defaultFor(field Field) float64 {
	switch field {
	case FieldEmployees:
		return float64(f.cfg.DefaultEmployees)
	case FieldHourlyWage:
		return f.cfg.DefaultHourlyWage
	case FieldAnnualSalary:
		return f.cfg.DefaultAnnualSalary()
	case FieldCycleWeeks:
		return f.cfg.DefaultCycleWeeks
	case FieldOvertime:
		return f.cfg.DefaultOvertime
	case FieldTurnover:
		return f.cfg.DefaultTurnover
	}
	return 0
}

// parseNumber accepts plain and formatted numbers such as "1,250" or "$42.50".
func parseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "%")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}
