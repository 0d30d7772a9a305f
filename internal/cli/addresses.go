package cli

import (
	"fmt"

	"github.com/LeJamon/goMarketd/internal/deploy"
	"github.com/spf13/cobra"
)

var addressesDir string

// addressesCmd merges deployed contract addresses into addresses/<chainId>.json.
var addressesCmd = &cobra.Command{
	Use:   "addresses <chainId> <name> <address> [<name> <address>...]",
	Short: "Record deployed contract addresses for a chain",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainID, entries, err := deploy.ParseArgs(args)
		if err != nil {
			return err
		}
		r := deploy.Registry{Dir: addressesDir}
		if _, err := r.Merge(chainID, entries); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "updated %s (%d entries)\n", r.Path(chainID), len(entries))
		return nil
	},
}

func init() {
	addressesCmd.Flags().StringVar(&addressesDir, "dir", deploy.DefaultDir, "directory holding <chainId>.json files")
	rootCmd.AddCommand(addressesCmd)
}
