package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "0.1.0-dev"

var (
	// Global flags
	configFile string
	debug      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marketd",
	Short: "marketd - collection offer order book node",
	Long: `marketd keeps per-collection books of standing NFT bids. Buyers escrow
funds against a whole collection, any holder of a token in that collection
can sell into the best bid, and every fill pays out royalties, the protocol
fee and an optional finder's fee before the seller.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path (default ./"+config.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig reads --conf, falling back to marketd.toml in the working
// directory and then to built-in defaults.
func loadConfig() (*config.Config, error) {
	path := configFile
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigFile); err == nil {
			path = config.DefaultConfigFile
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	return config.LoadConfig(path)
}
