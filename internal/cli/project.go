package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danbrewer/letsretire-backend/internal/config"
	"github.com/danbrewer/letsretire-backend/internal/domain"
	"github.com/danbrewer/letsretire-backend/internal/logger"
	"github.com/danbrewer/letsretire-backend/internal/usecase/projection"
	"github.com/danbrewer/letsretire-backend/internal/usecase/tax"
)

func newProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Run a projection from an assumptions file",
		Long: `Run a projection from a YAML assumptions file and print one row per
fiscal year. Money columns are in nominal dollars.`,
		Args: cobra.NoArgs,
		RunE: runProject,
	}

	cmd.Flags().StringP("config", "c", "", "Path to the YAML assumptions file")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runProject(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")

	in, err := config.LoadAssumptions(path)
	if err != nil {
		return err
	}

	log := logger.New(level)
	service := projection.NewProjectionService(tax.NewService(tax.DefaultConfig()), nil, log)

	result, err := service.Run(logger.WithContext(cmd.Context(), log), in)
	if err != nil {
		return fmt.Errorf("projection failed: %w", err)
	}

	return printProjection(cmd.OutOrStdout(), result)
}

func printProjection(out io.Writer, result *projection.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Year\tAge\tPhase\tGross\tNet\tTax\tSpending\tUnmet\t401k\tRoth\tSavings\tPortfolio\t")

	for _, y := range result.Projection.Years {
		phase := "work"
		if y.Kind == domain.YearKindRetirement {
			phase = "retired"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			y.FiscalYear,
			y.Age,
			phase,
			y.GrossIncome.StringFixed(0),
			y.NetIncome.StringFixed(0),
			y.IncomeTax.StringFixed(0),
			y.Spending.StringFixed(0),
			y.UnmetSpending.StringFixed(0),
			y.Traditional401kBalance.StringFixed(0),
			y.RothBalance.StringFixed(0),
			y.SavingsBalance.StringFixed(0),
			y.PortfolioBalance.StringFixed(0),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, f := range result.Failures {
		fmt.Fprintf(out, "\nyear %d (age %d) could not be projected: %v", f.FiscalYear, f.Age, f.Err)
	}

	if result.DepletionAge != nil {
		fmt.Fprintf(out, "\nPortfolio depleted at age %d\n", *result.DepletionAge)
		return nil
	}
	fmt.Fprintf(out, "\nPortfolio lasts through age %d\n", result.Inputs.EndAge)
	return nil
}
