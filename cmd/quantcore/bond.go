package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seenimoa/quantcore/internal/fixedincome"
	"github.com/seenimoa/quantcore/pkg/models"
	"github.com/seenimoa/quantcore/pkg/utils"
)

// --- Bond Command ---

var bondCmd = &cobra.Command{
	Use:   "bond",
	Short: "Bond valuation: price, yield, duration, accrual",
	Long: `Value a fixed-rate bond. Rates are annual percentages.

Examples:
  quantcore bond price --coupon 5 --years 3 --ytm 7
  quantcore bond solve-ytm --price 948.46 --coupon 5 --years 3
  quantcore bond duration --coupon 6 --years 10 --ytm 6 --freq 1
  quantcore bond clean-dirty --coupon 5 --years 3 --ytm 7 --days 45`,
}

func init() {
	bondCmd.AddCommand(bondPriceCmd, bondYTMCmd, bondSolveYTMCmd, bondDurationCmd,
		bondChangeCmd, bondZeroCmd, bondAccruedCmd, bondCleanDirtyCmd, bondCashFlowsCmd)

	for _, c := range []*cobra.Command{bondPriceCmd, bondSolveYTMCmd, bondDurationCmd,
		bondChangeCmd, bondCleanDirtyCmd, bondCashFlowsCmd} {
		addBondFlags(c)
	}

	bondYTMCmd.Flags().Float64("price", 0, "market price")
	bondYTMCmd.Flags().Float64("face", 1000, "face value")
	bondYTMCmd.Flags().Float64("coupon", 0, "annual coupon rate (%)")
	bondYTMCmd.Flags().Float64("years", 0, "years to maturity")

	bondSolveYTMCmd.Flags().Float64("price", 0, "market price")

	bondChangeCmd.Flags().Float64("to", 0, "new yield to maturity (%)")

	bondZeroCmd.Flags().Float64("face", 1000, "face value")
	bondZeroCmd.Flags().Float64("ytm", 0, "yield to maturity (%)")
	bondZeroCmd.Flags().Float64("years", 0, "years to maturity")

	bondAccruedCmd.Flags().Float64("face", 1000, "face value")
	bondAccruedCmd.Flags().Float64("coupon", 0, "annual coupon rate (%)")
	bondAccruedCmd.Flags().Int("freq", 2, "coupon payments per year")
	addDayFlags(bondAccruedCmd)
	addDayFlags(bondCleanDirtyCmd)
}

// addBondFlags registers the flags that describe a BondSpec.
func addBondFlags(c *cobra.Command) {
	c.Flags().Float64("face", 1000, "face value")
	c.Flags().Float64("coupon", 0, "annual coupon rate (%)")
	c.Flags().Int("freq", 2, "coupon payments per year")
	c.Flags().Float64("years", 0, "years to maturity")
	c.Flags().Float64("ytm", 0, "yield to maturity (%)")
}

func addDayFlags(c *cobra.Command) {
	c.Flags().Int("days", 0, "days since the last coupon")
	c.Flags().Int("period-days", 0, "days in the coupon period (default from config)")
}

func bondSpecFromFlags(cmd *cobra.Command) models.BondSpec {
	face, _ := cmd.Flags().GetFloat64("face")
	coupon, _ := cmd.Flags().GetFloat64("coupon")
	freq, _ := cmd.Flags().GetInt("freq")
	years, _ := cmd.Flags().GetFloat64("years")
	ytm, _ := cmd.Flags().GetFloat64("ytm")
	return models.BondSpec{
		FaceValue:       face,
		CouponRate:      coupon,
		PaymentsPerYear: freq,
		YearsToMaturity: years,
		YieldToMaturity: ytm,
	}
}

func dayFlags(cmd *cobra.Command) (daysSince, daysInPeriod int) {
	daysSince, _ = cmd.Flags().GetInt("days")
	daysInPeriod, _ = cmd.Flags().GetInt("period-days")
	if daysInPeriod == 0 {
		daysInPeriod = cfg.Valuation.DefaultDaysInPeriod
	}
	return daysSince, daysInPeriod
}

var bondPriceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a bond by discounting its cash flows",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := fixedincome.PriceBond(bondSpecFromFlags(cmd))
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, v); done {
			return err
		}
		fmt.Printf("💰 Price:        %s\n", utils.FormatMoney(v.Price))
		fmt.Printf("   PV coupons:   %s\n", utils.FormatMoney(v.PVCoupons))
		fmt.Printf("   PV face:      %s\n", utils.FormatMoney(v.PVFaceValue))
		fmt.Printf("   Premium:      %s (%s)\n", utils.FormatMoney(v.Premium), utils.FormatPercent(v.PremiumPercent))
		return nil
	},
}

var bondYTMCmd = &cobra.Command{
	Use:   "ytm",
	Short: "Approximate yield to maturity from a market price",
	RunE: func(cmd *cobra.Command, args []string) error {
		price, _ := cmd.Flags().GetFloat64("price")
		face, _ := cmd.Flags().GetFloat64("face")
		coupon, _ := cmd.Flags().GetFloat64("coupon")
		years, _ := cmd.Flags().GetFloat64("years")

		ytm, err := fixedincome.ApproximateYTM(price, face, coupon, years)
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, map[string]float64{"yield": ytm}); done {
			return err
		}
		fmt.Printf("📐 Approximate YTM: %s%%\n", utils.FormatDecimal(ytm, 4))
		return nil
	},
}

var bondSolveYTMCmd = &cobra.Command{
	Use:   "solve-ytm",
	Short: "Solve the exact yield to maturity for a market price",
	RunE: func(cmd *cobra.Command, args []string) error {
		price, _ := cmd.Flags().GetFloat64("price")
		sol, err := fixedincome.SolveYTM(price, bondSpecFromFlags(cmd))
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, sol); done {
			return err
		}
		fmt.Printf("🎯 YTM: %s%% (%d iterations)\n", utils.FormatDecimal(sol.Yield, 4), sol.Iterations)
		return nil
	},
}

var bondDurationCmd = &cobra.Command{
	Use:   "duration",
	Short: "Macaulay duration, modified duration and convexity",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := fixedincome.DurationConvexity(bondSpecFromFlags(cmd))
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, d); done {
			return err
		}
		fmt.Printf("⏱  Macaulay duration: %s years\n", utils.FormatDecimal(d.MacaulayDuration, 4))
		fmt.Printf("   Modified duration: %s\n", utils.FormatDecimal(d.ModifiedDuration, 4))
		fmt.Printf("   Convexity:         %s\n", utils.FormatDecimal(d.Convexity, 4))
		fmt.Printf("   Price:             %s\n", utils.FormatMoney(d.BondPrice))
		return nil
	},
}

var bondChangeCmd = &cobra.Command{
	Use:   "change",
	Short: "Estimate the price change for a yield move",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := bondSpecFromFlags(cmd)
		to, _ := cmd.Flags().GetFloat64("to")

		d, err := fixedincome.DurationConvexity(spec)
		if err != nil {
			return err
		}
		pc, err := fixedincome.PriceChangeEstimate(d.BondPrice, d.ModifiedDuration, d.Convexity, spec.YieldToMaturity, to)
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, pc); done {
			return err
		}
		fmt.Printf("📉 Yield %s%% → %s%%\n", utils.FormatDecimal(spec.YieldToMaturity, 2), utils.FormatDecimal(to, 2))
		fmt.Printf("   Duration effect:  %s\n", utils.FormatPercent(pc.DurationEffect*100))
		fmt.Printf("   Convexity effect: %s\n", utils.FormatPercent(pc.ConvexityEffect*100))
		fmt.Printf("   Total change:     %s\n", utils.FormatPercent(pc.TotalChange*100))
		fmt.Printf("   New price:        %s\n", utils.FormatMoney(pc.NewPrice))
		return nil
	},
}

var bondZeroCmd = &cobra.Command{
	Use:   "zero",
	Short: "Price a zero-coupon bond",
	RunE: func(cmd *cobra.Command, args []string) error {
		face, _ := cmd.Flags().GetFloat64("face")
		ytm, _ := cmd.Flags().GetFloat64("ytm")
		years, _ := cmd.Flags().GetFloat64("years")

		z, err := fixedincome.ZeroCouponPrice(face, ytm, years)
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, z); done {
			return err
		}
		fmt.Printf("💰 Price:    %s\n", utils.FormatMoney(z.Price))
		fmt.Printf("   Discount: %s\n", utils.FormatMoney(z.Discount))
		return nil
	},
}

var bondAccruedCmd = &cobra.Command{
	Use:   "accrued",
	Short: "Accrued interest since the last coupon",
	RunE: func(cmd *cobra.Command, args []string) error {
		face, _ := cmd.Flags().GetFloat64("face")
		coupon, _ := cmd.Flags().GetFloat64("coupon")
		freq, _ := cmd.Flags().GetInt("freq")
		daysSince, daysInPeriod := dayFlags(cmd)

		a, err := fixedincome.AccruedInterest(face, coupon, freq, daysSince, daysInPeriod)
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, a); done {
			return err
		}
		fmt.Printf("🧮 Accrued interest: %s\n", utils.FormatMoney(a.AccruedInterest))
		fmt.Printf("   Periodic coupon:  %s\n", utils.FormatMoney(a.PeriodicCoupon))
		fmt.Printf("   Days remaining:   %d\n", a.DaysRemaining)
		fmt.Printf("   Share of coupon:  %s%%\n", utils.FormatDecimal(a.PercentOfCoupon, 2))
		return nil
	},
}

var bondCleanDirtyCmd = &cobra.Command{
	Use:   "clean-dirty",
	Short: "Split the dirty price into clean price and accrual",
	RunE: func(cmd *cobra.Command, args []string) error {
		daysSince, daysInPeriod := dayFlags(cmd)
		cd, err := fixedincome.CleanDirtyPrice(bondSpecFromFlags(cmd), daysSince, daysInPeriod)
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, cd); done {
			return err
		}
		fmt.Printf("🧾 Dirty price: %s\n", utils.FormatMoney(cd.DirtyPrice))
		fmt.Printf("   Accrued:     %s\n", utils.FormatMoney(cd.AccruedInterest))
		fmt.Printf("   Clean price: %s\n", utils.FormatMoney(cd.CleanPrice))
		return nil
	},
}

var bondCashFlowsCmd = &cobra.Command{
	Use:   "cashflows",
	Short: "List the bond's cash-flow schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		flows, err := fixedincome.CashFlows(bondSpecFromFlags(cmd))
		if err != nil {
			return err
		}
		if done, err := printJSON(cmd, flows); done {
			return err
		}
		fmt.Printf("%-8s %s\n", "PERIOD", "AMOUNT")
		for _, f := range flows {
			fmt.Printf("%-8d %s\n", f.Period, utils.FormatMoney(f.Amount))
		}
		return nil
	},
}
