package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	marketgrpc "github.com/LeJamon/goMarketd/internal/grpc"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var (
	bookAddr  string
	bookLimit uint64
)

// bookCmd prints a running node's book for one collection.
var bookCmd = &cobra.Command{
	Use:   "book <collection>",
	Short: "Show a collection's offers, floor first",
	Args:  cobra.ExactArgs(1),
	RunE:  runBook,
}

func init() {
	rootCmd.AddCommand(bookCmd)
	bookCmd.Flags().StringVar(&bookAddr, "grpc", "", "gRPC address of the node (default [server] grpc)")
	bookCmd.Flags().Uint64Var(&bookLimit, "limit", 50, "maximum offers to show")
}

func runBook(cmd *cobra.Command, args []string) error {
	addr := bookAddr
	if addr == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		addr = cfg.Server.GRPC
	}
	if addr == "" {
		return fmt.Errorf("no gRPC address: pass --grpc or set [server] grpc")
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	res, err := marketgrpc.NewClient(conn).GetBook(ctx, args[0], bookLimit)
	if err != nil {
		return err
	}

	book, _ := res["book"].(map[string]interface{})
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "collection %v: %v active offers, %v escrowed\n",
		book["collection"], book["active"], display(book["escrowed"]))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMAKER\tAMOUNT")
	offers, _ := res["offers"].([]interface{})
	for _, o := range offers {
		offer, _ := o.(map[string]interface{})
		fmt.Fprintf(w, "%v\t%v\t%v\n", offer["offer_id"], offer["maker"], display(offer["amount"]))
	}
	return w.Flush()
}

// display picks the decimal rendering out of an amount object.
func display(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m["display"]
	}
	return v
}
