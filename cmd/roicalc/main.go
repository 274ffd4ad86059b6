// Command roicalc runs the savings calculator and report generator from the
// command line, without a database or mail server.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rosterly/backend/internal/calculator"
	"github.com/rosterly/backend/internal/industry"
	"github.com/rosterly/backend/internal/report"
	"github.com/rosterly/backend/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "roicalc",
		Short:        "Estimate rostering savings and generate reports",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "industries", "", "industry config YAML (default: built-in)")

	registry := func() (*industry.Registry, error) {
		if configPath == "" {
			return industry.Default(), nil
		}
		return industry.LoadFile(configPath)
	}

	rootCmd.AddCommand(industriesCmd(registry))
	rootCmd.AddCommand(calcCmd(registry))
	rootCmd.AddCommand(reportCmd(registry))
	return rootCmd
}

type registryFunc func() (*industry.Registry, error)

func industriesCmd(registry registryFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "industries",
		Short: "List configured industries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tEMPLOYEES\tWAGE\tCYCLE\tROSTERING DAYS")
			for _, c := range reg.All() {
				key := c.Key
				if key == reg.DefaultKey() {
					key += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.2f\t%g\t%g\n",
					key, c.Label, c.DefaultEmployees, c.DefaultHourlyWage, c.DefaultCycleWeeks, c.DefaultRosteringDays)
			}
			return tw.Flush()
		},
	}
}

// calcFlags are the calculator inputs accepted by calc and report.
type calcFlags struct {
	industry   string
	employees  int
	wage       float64
	salary     float64
	cycleWeeks float64
	overtime   float64
	turnover   float64
	rosterDays float64
}

func (f *calcFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.industry, "industry", "i", "", "industry key (default: registry default)")
	fs.IntVarP(&f.employees, "employees", "e", 0, "employees rostered")
	fs.Float64Var(&f.wage, "wage", 0, "average hourly wage")
	fs.Float64Var(&f.salary, "salary", 0, "average annual salary (ignored when --wage is set)")
	fs.Float64Var(&f.cycleWeeks, "cycle-weeks", 0, "roster cycle length in weeks")
	fs.Float64Var(&f.overtime, "overtime", 0, "overtime percentage")
	fs.Float64Var(&f.turnover, "turnover", 0, "annual staff turnover percentage")
	fs.Float64Var(&f.rosterDays, "rostering-days", 0, "override the days spent building each roster")
}

// request keeps only the flags the user actually set, so the rest fall
// back to industry defaults.
func (f *calcFlags) request(cmd *cobra.Command) service.CalculationRequest {
	fs := cmd.Flags()
	req := service.CalculationRequest{Industry: f.industry}
	if fs.Changed("employees") {
		req.Employees = &f.employees
	}
	setFloat := func(name string, v *float64, dst **float64) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	setFloat("wage", &f.wage, &req.AvgHourlyWage)
	setFloat("salary", &f.salary, &req.AnnualSalary)
	setFloat("cycle-weeks", &f.cycleWeeks, &req.RosterCycleWeeks)
	setFloat("overtime", &f.overtime, &req.OvertimePercentage)
	setFloat("turnover", &f.turnover, &req.TurnoverRate)
	setFloat("rostering-days", &f.rosterDays, &req.RosteringDaysOverride)
	return req
}

func calcCmd(registry registryFunc) *cobra.Command {
	var (
		flags  calcFlags
		asJSON bool
		region string
	)

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate annual savings and ROI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry()
			if err != nil {
				return err
			}
			calc, err := service.NewCalculatorService(reg, calculator.DefaultPricing, nil).
				Calculate(cmd.Context(), flags.request(cmd))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(calc)
			}
			return printCalculation(cmd.OutOrStdout(), calc, report.LookupRegion(region))
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().StringVar(&region, "region", "", "region code for currency display")
	return cmd
}

func printCalculation(w io.Writer, calc *service.Calculation, region report.Region) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	in, res := calc.Inputs, calc.Results
	fmt.Fprintf(tw, "Industry\t%s\n", calc.IndustryLabel)
	fmt.Fprintf(tw, "Employees\t%d\n", in.Employees)
	fmt.Fprintf(tw, "Hourly wage\t%.2f\n", in.AvgHourlyWage)
	fmt.Fprintf(tw, "Rostering days\t%.1f\n", res.ScaledRosteringDays)
	fmt.Fprintln(tw, "\t")
	for _, item := range calc.Breakdown {
		fmt.Fprintf(tw, "%s\t%s\n", item.Label, region.Money(item.Amount))
	}
	fmt.Fprintf(tw, "Total annual savings\t%s\n", region.Money(res.TotalAnnualSavings))
	fmt.Fprintf(tw, "First-year cost\t%s\n", region.Money(res.FirstYearTotalCost))
	fmt.Fprintf(tw, "ROI\t%.1fx\n", res.ROIMultiple)
	return tw.Flush()
}

func reportCmd(registry registryFunc) *cobra.Command {
	var (
		flags   calcFlags
		company string
		contact string
		email   string
		kind    string
		region  string
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a savings or ROI report file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := report.ParseKind(kind)
			if err != nil {
				return err
			}
			reg, err := registry()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			calc, err := service.NewCalculatorService(reg, calculator.DefaultPricing, nil).
				Calculate(ctx, flags.request(cmd))
			if err != nil {
				return err
			}

			artifact := report.DefaultGenerator().Generate(ctx, report.Request{
				CompanyName: company,
				ContactName: contact,
				Email:       email,
				Kind:        k,
				Region:      region,
				Industry:    reg.Lookup(calc.ResolvedIndustry),
				Inputs:      calc.Inputs,
				Results:     calc.Results,
				GeneratedAt: time.Now(),
			})
			if !artifact.OK() {
				return fmt.Errorf("generate report: %w", artifact.Err)
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			path := filepath.Join(outDir, artifact.Filename)
			if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
				return err
			}
			if artifact.Outcome == report.OutcomeFallback {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: PDF rendering failed (%v), wrote text report\n", artifact.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	flags.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&company, "company", "", "company name")
	fs.StringVar(&contact, "contact", "", "contact name")
	fs.StringVar(&email, "email", "", "contact email")
	fs.StringVarP(&kind, "kind", "k", "savings", "report kind: savings or roi")
	fs.StringVar(&region, "region", "", "region code for currency display")
	fs.StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}
