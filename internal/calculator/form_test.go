package calculator

import (
	"testing"

	"github.com/rosterly/backend/internal/industry"
)

func newNursingForm() *Form {
	return NewForm(industry.Default(), "nursing")
}

func TestForm_StartsWithIndustryDefaults(t *testing.T) {
	f := newNursingForm()
	want := DefaultInputs(f.Industry())
	if got := f.Inputs(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestForm_UnknownIndustryFallsBack(t *testing.T) {
	f := NewForm(industry.Default(), "unknown")
	if f.Industry().Key != "nursing" {
		t.Errorf("expected nursing, got %q", f.Industry().Key)
	}
	if f.Inputs().Industry != "nursing" {
		t.Errorf("expected inputs to carry the resolved key, got %q", f.Inputs().Industry)
	}
}

func TestForm_WageDrivesSalary(t *testing.T) {
	f := newNursingForm()
	for _, w := range []float64{120, 57.5, 0} {
		f.SetHourlyWage(w)
		if got := f.Inputs().AnnualSalary; got != w*2080 {
			t.Errorf("wage %v: expected salary %v, got %v", w, w*2080, got)
		}
	}
}

func TestForm_SalaryDrivesWage(t *testing.T) {
	f := newNursingForm()
	cases := map[float64]float64{
		100000: 48.1,
		124800: 60,
		52000:  25,
		1:      0,
	}
	for salary, wage := range cases {
		f.SetAnnualSalary(salary)
		if got := f.Inputs().AvgHourlyWage; got != wage {
			t.Errorf("salary %v: expected wage %v, got %v", salary, wage, got)
		}
		if got := f.Inputs().AnnualSalary; got != salary {
			t.Errorf("salary should stay as entered: expected %v, got %v", salary, got)
		}
	}
}

func TestForm_EditClearedFieldCountsAsZeroUntilCommit(t *testing.T) {
	f := newNursingForm()

	f.Edit(FieldHourlyWage, "")
	if got := f.Inputs(); got.AvgHourlyWage != 0 || got.AnnualSalary != 0 {
		t.Errorf("expected wage and salary 0 while empty, got %+v", got)
	}
	if text, ok := f.Draft(FieldHourlyWage); !ok || text != "" {
		t.Errorf("expected an empty draft, got %q, %v", text, ok)
	}

	f.Commit(FieldHourlyWage)
	if got := f.Inputs(); got.AvgHourlyWage != 60 || got.AnnualSalary != 124800 {
		t.Errorf("expected defaults restored on commit, got %+v", got)
	}
	if _, ok := f.Draft(FieldHourlyWage); ok {
		t.Error("draft should be cleared on commit")
	}
}

func TestForm_InvalidSalaryRevertsOnCommit(t *testing.T) {
	f := newNursingForm()
	f.Edit(FieldAnnualSalary, "lots")
	f.Commit(FieldAnnualSalary)

	got := f.Inputs()
	if got.AnnualSalary != 124800 || got.AvgHourlyWage != 60 {
		t.Errorf("expected default salary and wage, got %+v", got)
	}
}

func TestForm_LastEditedFieldWins(t *testing.T) {
	f := newNursingForm()

	f.Edit(FieldAnnualSalary, "104,000")
	if got := f.Inputs().AvgHourlyWage; got != 50 {
		t.Errorf("expected wage 50 derived from salary, got %v", got)
	}
	if field, ok := f.LastEdited(); !ok || field != FieldAnnualSalary {
		t.Errorf("expected salary as last edited, got %v, %v", field, ok)
	}

	f.Edit(FieldHourlyWage, "$55")
	if _, ok := f.Draft(FieldAnnualSalary); ok {
		t.Error("salary draft should be dropped once wage is edited")
	}
	if got := f.Inputs().AnnualSalary; got != 114400 {
		t.Errorf("expected salary 114400 derived from wage, got %v", got)
	}
}

func TestForm_CommitClampsNegative(t *testing.T) {
	f := newNursingForm()
	f.Edit(FieldEmployees, "-4")
	f.Commit(FieldEmployees)
	if got := f.Inputs().Employees; got != 0 {
		t.Errorf("expected employees clamped to 0, got %d", got)
	}
}

func TestForm_CommitWithoutDraftIsNoop(t *testing.T) {
	f := newNursingForm()
	before := f.Inputs()
	f.Commit(FieldTurnover)
	if f.Inputs() != before {
		t.Error("commit without an edit should not change inputs")
	}
}

func TestForm_IndustrySwitchClearsOverride(t *testing.T) {
	f := newNursingForm()
	f.SetRosteringDaysOverride(20)
	if got := f.Results().ScaledRosteringDays; got != 20 {
		t.Fatalf("expected override 20, got %v", got)
	}

	f.SetIndustry("radiology")

	if _, ok := f.RosteringDaysOverride(); ok {
		t.Error("override should be cleared by an industry switch")
	}
	cfg := f.Industry()
	want := ScaledRosteringDays(DefaultInputs(cfg), cfg)
	if got := f.Results().ScaledRosteringDays; got != want {
		t.Errorf("expected radiology default %v, got %v", want, got)
	}
}

func TestForm_IndustrySwitchMidEditClearsDrafts(t *testing.T) {
	f := newNursingForm()
	f.Edit(FieldEmployees, "12")
	f.Edit(FieldHourlyWage, "")

	f.SetIndustry("aged-care")

	if _, ok := f.Draft(FieldEmployees); ok {
		t.Error("employee draft should be cleared")
	}
	if _, ok := f.LastEdited(); ok {
		t.Error("no field should be in progress after a switch")
	}
	if got, want := f.Inputs(), DefaultInputs(f.Industry()); got != want {
		t.Errorf("expected aged-care defaults %+v, got %+v", want, got)
	}
}

func TestForm_ClearOverride(t *testing.T) {
	f := newNursingForm()
	base := f.Results().ScaledRosteringDays
	f.SetRosteringDaysOverride(base + 10)
	f.ClearRosteringDaysOverride()
	if got := f.Results().ScaledRosteringDays; got != base {
		t.Errorf("expected scaled estimate %v after clearing, got %v", base, got)
	}
}

func TestForm_ResultsTrackEmployeeEdits(t *testing.T) {
	f := newNursingForm()
	small := f.Results()
	f.SetEmployees(400)
	large := f.Results()
	if large.TotalAnnualSavings <= small.TotalAnnualSavings {
		t.Errorf("expected more savings for a larger team: %v <= %v", large.TotalAnnualSavings, small.TotalAnnualSavings)
	}
}

func TestForm_HugeEmployeeCountSaturates(t *testing.T) {
	f := newNursingForm()
	f.Edit(FieldEmployees, "1000")
	thousand := f.Results()

	f.Edit(FieldEmployees, "1e19")
	if got := f.Inputs().Employees; got != MaxEmployees {
		t.Fatalf("expected employees saturated at %d, got %d", MaxEmployees, got)
	}
	huge := f.Results()
	if huge.TotalAnnualSavings < thousand.TotalAnnualSavings {
		t.Errorf("savings fell for a larger team: %v < %v", huge.TotalAnnualSavings, thousand.TotalAnnualSavings)
	}

	f.Commit(FieldEmployees)
	if got := f.Inputs().Employees; got != MaxEmployees {
		t.Errorf("expected committed employees %d, got %d", MaxEmployees, got)
	}
}

func TestClamp_EmployeesUpperBound(t *testing.T) {
	in := Clamp(Inputs{Employees: MaxEmployees + 1, RosterCycleWeeks: 4})
	if in.Employees != MaxEmployees {
		t.Errorf("expected %d, got %d", MaxEmployees, in.Employees)
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]struct {
		v  float64
		ok bool
	}{
		"42":        {42, true},
		" 1,250.5 ": {1250.5, true},
		"$99":       {99, true},
		"12%":       {12, true},
		"":          {0, false},
		"abc":       {0, false},
		"NaN":       {0, false},
	}
	for in, want := range cases {
		v, ok := parseNumber(in)
		if v != want.v || ok != want.ok {
			t.Errorf("parseNumber(%q) = %v, %v; want %v, %v", in, v, ok, want.v, want.ok)
		}
	}
}
