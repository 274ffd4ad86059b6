package calculator

// PricingTier is the price for teams of up to MaxEmployees people.
type PricingTier struct {
	MaxEmployees       int     `yaml:"max_employees" json:"max_employees"`
	AnnualSubscription float64 `yaml:"annual_subscription" json:"annual_subscription"`
	Implementation     float64 `yaml:"implementation" json:"implementation"`
}

// PricingTable is a step function from team size to cost. Tiers must be
// ordered by MaxEmployees with non-decreasing prices; teams larger than the
// last tier pay its price plus OveragePerEmployee for every extra person.
type PricingTable struct {
	Tiers              []PricingTier `yaml:"tiers" json:"tiers"`
	OveragePerEmployee float64       `yaml:"overage_per_employee" json:"overage_per_employee"`
}

// Quote is the cost side of a calculation.
type Quote struct {
	AnnualSubscription float64
	Implementation     float64
}

// FirstYear is the subscription plus the one-off implementation fee.
func (q Quote) FirstYear() float64 {
	return q.AnnualSubscription + q.Implementation
}

// DefaultPricing is the published price list.
var DefaultPricing = PricingTable{
	Tiers: []PricingTier{
		{MaxEmployees: 25, AnnualSubscription: 6000, Implementation: 2500},
		{MaxEmployees: 50, AnnualSubscription: 10800, Implementation: 4000},
		{MaxEmployees: 100, AnnualSubscription: 19200, Implementation: 6000},
		{MaxEmployees: 250, AnnualSubscription: 36000, Implementation: 9000},
		{MaxEmployees: 500, AnnualSubscription: 60000, Implementation: 12000},
	},
	OveragePerEmployee: 100,
}

// Quote returns the price for a team of the given size. An empty table
// quotes zero.
func (p PricingTable) Quote(employees int) Quote {
	if len(p.Tiers) == 0 {
		return Quote{}
	}
	if employees < 0 {
		employees = 0
	}
	for _, tier := range p.Tiers {
		if employees <= tier.MaxEmployees {
			return Quote{AnnualSubscription: tier.AnnualSubscription, Implementation: tier.Implementation}
		}
	}
	last := p.Tiers[len(p.Tiers)-1]
	extra := float64(employees - last.MaxEmployees)
	return Quote{
		AnnualSubscription: last.AnnualSubscription + extra*p.OveragePerEmployee,
		Implementation:     last.Implementation,
	}
}
