package cli

import (
	"fmt"
	"os"

	"github.com/LeJamon/goMarketd/internal/storage/snapshot"
	"github.com/spf13/cobra"
)

var snapshotCompressor string

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the state database to a snapshot file",
	Args:  cobra.ExactArgs(1),
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

		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		s, err := snapshot.Export(f, n.ledger, snapshotCompressor)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(args[0])
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries, checksum %X\n", s.Entries, s.Checksum)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore a snapshot file into an empty state database",
	Args:  cobra.ExactArgs(1),
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

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		s, err := snapshot.Import(f, n.ledger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries, checksum %X\n", s.Entries, s.Checksum)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&snapshotCompressor, "compressor", "lz4",
		fmt.Sprintf("entry compression %v", snapshot.Available()))
	rootCmd.AddCommand(exportCmd, importCmd)
}
