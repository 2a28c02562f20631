package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seenimoa/quantcore/internal/portfolio"
	"github.com/seenimoa/quantcore/internal/pricehistory"
	"github.com/seenimoa/quantcore/pkg/models"
	"github.com/seenimoa/quantcore/pkg/utils"
)

// --- Portfolio Command ---

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Return statistics and portfolio risk from price files",
	Long: `Compute return statistics from price histories (CSV, JSON or HTML tables).
The asset symbol is taken from each file name.

Examples:
  quantcore portfolio stats data/aapl.csv
  quantcore portfolio analyze data/aapl.csv data/msft.csv --weight AAPL=0.6 --weight MSFT=0.4`,
}

func init() {
	portfolioCmd.AddCommand(portfolioStatsCmd, portfolioAnalyzeCmd)

	portfolioAnalyzeCmd.Flags().StringArray("weight", nil, "asset weight as SYMBOL=fraction (default: equal weights)")
	portfolioAnalyzeCmd.Flags().Float64("risk-free", -1, "annual risk-free rate as a fraction (default from config)")
}

// loadHistories reads every price file concurrently, keyed by symbol.
func loadHistories(cmd *cobra.Command, files []string) (map[string][]models.PricePoint, error) {
	paths := make(map[string]string, len(files))
	for _, f := range files {
		sym := utils.SymbolFromPath(f)
		if _, dup := paths[sym]; dup {
			return nil, fmt.Errorf("duplicate asset %s (%s)", sym, f)
		}
		paths[sym] = f
	}
	return pricehistory.LoadAll(cmd.Context(), paths)
}

// parseWeights turns SYMBOL=fraction flags into a weight map. With no flags
// every loaded asset gets an equal weight.
func parseWeights(flags []string, histories map[string][]models.PricePoint) (map[string]float64, error) {
	weights := make(map[string]float64, len(histories))
	if len(flags) == 0 {
		for asset := range histories {
			weights[asset] = 1 / float64(len(histories))
		}
		return weights, nil
	}
	for _, f := range flags {
		sym, raw, ok := utils.ParseAssignment(f)
		if !ok {
			return nil, fmt.Errorf("invalid weight %q: want SYMBOL=fraction", f)
		}
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight for %s: %w", sym, err)
		}
		weights[sym] = w
	}
	return weights, nil
}

// assetSummary is one row of `portfolio stats`.
type assetSummary struct {
	models.AssetReport
	From      string  `json:"from"`
	To        string  `json:"to"`
	LastClose float64 `json:"last_close"`
}

// summarizeAsset computes the statistics row for one price history. The
// date range and last close come from the priced observations only.
func summarizeAsset(asset string, prices []models.PricePoint) (assetSummary, error) {
	st, err := portfolio.Statistics(portfolio.ComputeReturns(prices))
	if err != nil {
		return assetSummary{}, fmt.Errorf("%s: %w", asset, err)
	}
	sum := assetSummary{AssetReport: models.AssetReport{
		Asset:       asset,
		Statistics:  st,
		MaxDrawdown: portfolio.MaxDrawdown(portfolio.Closes(prices)),
	}}
	for _, p := range prices {
		if p.Close == nil {
			continue
		}
		if sum.From == "" {
			sum.From = utils.FormatDate(p.Timestamp)
		}
		sum.To = utils.FormatDate(p.Timestamp)
		sum.LastClose = *p.Close
	}
	return sum, nil
}

var portfolioStatsCmd = &cobra.Command{
	Use:   "stats [price files...]",
	Short: "Per-asset return statistics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		histories, err := loadHistories(cmd, args)
		if err != nil {
			return err
		}

		rows := make([]assetSummary, 0, len(args))
		for _, f := range args {
			asset := utils.SymbolFromPath(f)
			row, err := summarizeAsset(asset, histories[asset])
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		if done, err := printJSON(cmd, rows); done {
			return err
		}

		fmt.Printf("%-12s %-10s %-10s %6s %8s %12s %12s %12s %12s\n",
			"ASSET", "FROM", "TO", "OBS", "LAST", "MEAN", "ANN.RETURN", "ANN.RISK", "MAX.DD")
		for _, r := range rows {
			st := r.Statistics
			fmt.Printf("%-12s %-10s %-10s %6d %8s %12s %12s %12s %12s\n", r.Asset, r.From, r.To, st.Observations,
				utils.FormatCompact(r.LastClose),
				utils.FormatDecimal(st.Mean, 6),
				utils.FormatPercent(st.AnnualizedReturn*100),
				utils.FormatDecimal(st.AnnualizedRisk*100, 2)+"%",
				utils.FormatDecimal(r.MaxDrawdown*100, 2)+"%")
		}
		return nil
	},
}

var portfolioAnalyzeCmd = &cobra.Command{
	Use:   "analyze [price files...]",
	Short: "Weighted portfolio risk, return, Sharpe ratio and correlations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		histories, err := loadHistories(cmd, args)
		if err != nil {
			return err
		}
		weightFlags, _ := cmd.Flags().GetStringArray("weight")
		weights, err := parseWeights(weightFlags, histories)
		if err != nil {
			return err
		}
		rate, _ := cmd.Flags().GetFloat64("risk-free")
		if rate < 0 {
			rate = cfg.Valuation.RiskFreeRate
		}

		report, err := portfolio.Analyze(histories, weights, rate)
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, report); done {
			return err
		}

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  Portfolio Analysis")
		fmt.Println("═══════════════════════════════════════")
		for _, a := range report.Assets {
			fmt.Printf("  %-10s weight %6s  return %9s  risk %7s%%  max dd %6s%%\n", a.Asset,
				utils.FormatDecimal(a.Weight, 2),
				utils.FormatPercent(a.Statistics.AnnualizedReturn*100),
				utils.FormatDecimal(a.Statistics.AnnualizedRisk*100, 2),
				utils.FormatDecimal(a.MaxDrawdown*100, 2))
		}
		fmt.Println()

		m := report.Metrics
		fmt.Printf("  Expected return: %s\n", utils.FormatPercent(m.ExpectedReturn*100))
		fmt.Printf("  Risk (σ):        %s%%\n", utils.FormatDecimal(m.Risk*100, 2))
		if m.SharpeRatio.Defined {
			fmt.Printf("  Sharpe ratio:    %s\n", utils.FormatDecimal(m.SharpeRatio.Value, 3))
		} else {
			fmt.Println("  Sharpe ratio:    undefined (zero risk)")
		}
		if report.WeightSum < 0.999 || report.WeightSum > 1.001 {
			fmt.Printf("  ⚠️  weights sum to %s\n", utils.FormatDecimal(report.WeightSum, 4))
		}

		if len(report.Assets) > 1 {
			fmt.Println()
			fmt.Println("  Correlation:")
			for i, row := range report.Correlation {
				fmt.Printf("    %-10s", report.Assets[i].Asset)
				for _, c := range row {
					if c.Defined {
						fmt.Printf(" %7s", utils.FormatDecimal(c.Value, 3))
					} else {
						fmt.Printf(" %7s", "n/a")
					}
				}
				fmt.Println()
			}
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
