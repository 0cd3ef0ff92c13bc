package main

import (
	"fmt"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/afford"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/cli"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/currency"
	"github.com/spf13/cobra"
)

func affordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "afford",
		Short: "Score whether you can afford a purchase",
		Long: `Score a purchase from your cash on hand, its price, and how happy and
important it would make you. Amounts accept "." as a thousands separator,
for example --cash 1.000.000 --price 2.500.000.

With --monthly, also project how many months of saving it takes to reach
the minimum safe savings (ten times the price).`,
		Example: `  finapp afford --cash 1.000.000 --price 2.500.000 --happiness 50 --importance 50
  finapp afford --cash 1000000 --price 2500000 --monthly 500.000`,
		RunE: runAfford,
	}

	cmd.Flags().String("cash", "0", "cash on hand in Rupiah")
	cmd.Flags().String("price", "", "price of the item in Rupiah")
	cmd.Flags().Int("happiness", 50, "how happy the purchase makes you (0-100)")
	cmd.Flags().Int("importance", 50, "how important the purchase is (0-100)")
	cmd.Flags().String("monthly", "", "amount you can save each month, in Rupiah")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func runAfford(cmd *cobra.Command, _ []string) error {
	cash, _ := cmd.Flags().GetString("cash")
	price, _ := cmd.Flags().GetString("price")
	monthly, _ := cmd.Flags().GetString("monthly")
	happiness, _ := cmd.Flags().GetInt("happiness")
	importance, _ := cmd.Flags().GetInt("importance")

	result := afford.NewScorer().Score(afford.Input{
		CashOnHand:     currency.ParseRupiah(cash),
		Price:          currency.ParseRupiah(price),
		Happiness:      happiness,
		Importance:     importance,
		MonthlySavings: currency.ParseRupiah(monthly),
	})

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.RenderRecommendation(&result))
	if warnings := cli.RenderWarnings(result.Warnings); warnings != "" {
		fmt.Fprintln(out, warnings)
	}
	if plan := cli.RenderSavingsPlan(result.Savings); plan != "" {
		fmt.Fprintln(out, plan)
	}

	return nil
}
