package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seenimoa/quantcore/internal/curves"
	"github.com/seenimoa/quantcore/internal/export"
)

// --- Curve Command ---

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Generate sensitivity curves",
	Long: `Generate price-yield, cash-flow and clean/dirty price series. Output goes
to stdout as CSV, or to --out (.csv or .parquet).

Examples:
  quantcore curve price-yield --coupon 5 --years 10 --from 1 --to 12 --step 0.5
  quantcore curve cashflows --coupon 5 --years 3 --ytm 7 --out flows.parquet
  quantcore curve clean-dirty --coupon 5 --years 3 --ytm 7 --period-days 182`,
}

func init() {
	curveCmd.AddCommand(curvePriceYieldCmd, curveCashFlowsCmd, curveCleanDirtyCmd)

	for _, c := range []*cobra.Command{curvePriceYieldCmd, curveCashFlowsCmd, curveCleanDirtyCmd} {
		addBondFlags(c)
		c.Flags().String("out", "", "write the series to a .csv or .parquet file")
	}
	curvePriceYieldCmd.Flags().Float64("from", 1, "first yield (%)")
	curvePriceYieldCmd.Flags().Float64("to", 15, "last yield (%)")
	curvePriceYieldCmd.Flags().Float64("step", 0.5, "yield increment (%)")
	curveCleanDirtyCmd.Flags().Int("period-days", 0, "days in the coupon period (default from config)")
}

// emitCurve writes points to --out, as JSON with --json, or as CSV on stdout.
func emitCurve[T export.Point](cmd *cobra.Command, points []T) error {
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := export.WriteFile(out, points); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✅ wrote %d points to %s\n", len(points), out)
		return nil
	}
	if done, err := printJSON(cmd, points); done {
		return err
	}
	return export.WriteCSV(os.Stdout, points)
}

var curvePriceYieldCmd = &cobra.Command{
	Use:   "price-yield",
	Short: "Price across a sweep of yields",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetFloat64("from")
		to, _ := cmd.Flags().GetFloat64("to")
		step, _ := cmd.Flags().GetFloat64("step")
		points, err := curves.PriceYieldWithLimit(bondSpecFromFlags(cmd), from, to, step, cfg.Valuation.CurveMaxPoints)
		if err != nil {
			return err
		}
		return emitCurve(cmd, points)
	},
}

var curveCashFlowsCmd = &cobra.Command{
	Use:   "cashflows",
	Short: "Coupon and principal per period",
	RunE: func(cmd *cobra.Command, args []string) error {
		points, err := curves.CashFlowTimeline(bondSpecFromFlags(cmd))
		if err != nil {
			return err
		}
		return emitCurve(cmd, points)
	},
}

var curveCleanDirtyCmd = &cobra.Command{
	Use:   "clean-dirty",
	Short: "Accrued interest, clean and dirty price across a coupon period",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("period-days")
		if days == 0 {
			days = cfg.Valuation.DefaultDaysInPeriod
		}
		points, err := curves.CleanDirtyTimeline(bondSpecFromFlags(cmd), days)
		if err != nil {
			return err
		}
		return emitCurve(cmd, points)
	},
}
