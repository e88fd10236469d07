package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Hernannavarro13/psystock-go/apimodel"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the paper trading portfolio",
	RunE: func(cmd *cobra.Command, args []string) error {
		portfolio, err := api.Trading.Portfolio(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("cash: $%.2f  positions: $%.2f  total: $%.2f\n",
			portfolio.CashBalance, portfolio.PositionsValue, portfolio.TotalValue)
		return nil
	},
}

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List open positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		positions, err := api.Trading.Positions(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SYMBOL\tQTY\tAVG BUY\tPRICE\tVALUE\tP/L %")
		for _, p := range positions {
			symbol := ""
			if p.Stock != nil {
				symbol = p.Stock.Symbol
			}
			fmt.Fprintf(w, "%s\t%.0f\t%.2f\t%.2f\t%.2f\t%.2f\n",
				symbol, p.Quantity, p.AverageBuyPrice, p.CurrentPrice, p.CurrentValue, p.ProfitLossPercentage)
		}
		return w.Flush()
	},
}

var tradeCmd = &cobra.Command{
	Use:   "trade buy|sell <symbol> <quantity>",
	Short: "Place a paper trade",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		side := strings.ToUpper(args[0])
		if side != apimodel.TradeBuy && side != apimodel.TradeSell {
			return fmt.Errorf("side must be buy or sell, got %q", args[0])
		}
		quantity, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}

		result, err := api.Trading.PlaceTrade(cmd.Context(), apimodel.TradeRequest{
			Symbol:    strings.ToUpper(args[1]),
			TradeType: side,
			Quantity:  quantity,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s %.0f %s @ %.2f (total %.2f)\n",
			result.TransactionType, result.Quantity, result.StockSymbol, result.Price, result.TotalAmount)
		return nil
	},
}

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "List trade history",
	RunE: func(cmd *cobra.Command, args []string) error {
		trades, err := api.Trading.Trades(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSIDE\tSYMBOL\tQTY\tPRICE\tTOTAL")
		for _, t := range trades {
			fmt.Fprintf(w, "%d\t%s\t%s\t%.0f\t%.2f\t%.2f\n",
				t.ID, t.TransactionType, t.StockSymbol, t.Quantity, t.Price, t.TotalAmount)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(portfolioCmd, positionsCmd, tradeCmd, tradesCmd)
}
