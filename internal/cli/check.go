package cli

import (
	"fmt"

	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/spf13/cobra"
)

// checkCmd verifies the order book invariants of a stopped node's state.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify book ordering, cached extremes and escrow solvency",
	Long: `Walk every collection book in the state database and verify that offers
are sorted, the cached floor and ceiling match the chain, and the module
holds at least the escrowed total. The node must not be running.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		n, err := openNode(cfg)
		if err != nil {
			return err
		}
		defer n.Close()

		module, err := cfg.Market.ModuleID()
		if err != nil {
			return err
		}
		if err := collectionoffers.CheckAll(n.ledger, module); err != nil {
			return fmt.Errorf("state check failed:\n%w", err)
		}
		seq, err := n.engine.Sequence()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "state OK at sequence %d\n", seq)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
