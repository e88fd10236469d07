package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var watchlistNotes string

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Show the watchlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := api.Watchlist.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSYMBOL\tPRICE\tNOTES")
		for _, item := range items {
			symbol, price := item.Symbol, 0.0
			if item.Stock != nil {
				symbol, price = item.Stock.Symbol, item.Stock.CurrentPrice
			}
			fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\n", item.ID, symbol, price, item.Notes)
		}
		return w.Flush()
	},
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add <symbol>",
	Short: "Add a stock to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, err := api.Watchlist.Add(cmd.Context(), strings.ToUpper(args[0]), watchlistNotes)
		if err != nil {
			return err
		}
		fmt.Printf("Watching %s (id %d)\n", strings.ToUpper(args[0]), item.ID)
		return nil
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a watchlist entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid watchlist id %q", args[0])
		}
		if err := api.Watchlist.Remove(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Println("Removed")
		return nil
	},
}

func init() {
	watchlistAddCmd.Flags().StringVarP(&watchlistNotes, "notes", "n", "", "notes for the entry")
	watchlistCmd.AddCommand(watchlistAddCmd, watchlistRemoveCmd)
	rootCmd.AddCommand(watchlistCmd)
}
