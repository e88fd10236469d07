package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var predictTimeframe string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stocks by symbol or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stocks, err := api.Stocks.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SYMBOL\tNAME\tPRICE")
		for _, s := range stocks {
			fmt.Fprintf(w, "%s\t%s\t%.2f\n", s.Symbol, s.Name, s.CurrentPrice)
		}
		return w.Flush()
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote <symbol>",
	Short: "Show current data for a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stock, err := api.Stocks.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", stock.Name, stock.Symbol)
		fmt.Printf("  price: %.2f  prev close: %.2f  volume: %d\n",
			stock.CurrentPrice, stock.PreviousClose, stock.Volume)
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict <symbol>",
	Short: "Show the ML price prediction for a stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prediction, err := api.Predictions.Predict(cmd.Context(), args[0], predictTimeframe)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s: predicted %.2f (confidence %.1f%%)\n",
			args[0], prediction.Timeframe, prediction.PredictedPrice, prediction.ConfidenceLevel)
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVarP(&predictTimeframe, "timeframe", "t", "1W", "prediction timeframe (1D, 1W, 1M, 3M)")
	rootCmd.AddCommand(searchCmd, quoteCmd, predictCmd)
}
