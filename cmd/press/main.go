package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "press",
		Short: "Pressyard, print production station workflow",
		Long:  "Pressyard tracks production orders as they move between the stations of a print shop.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// glog reads its flags from flag.CommandLine, which cobra
			// fills in but never marks as parsed.
			_ = flag.CommandLine.Parse(nil)
		},
	}

	if f := flag.CommandLine.Lookup("logtostderr"); f != nil {
		_ = f.Value.Set("true")
	}
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newDBCmd())
	cmd.AddCommand(newRelationsCmd())
	cmd.AddCommand(newMatrixCmd())
	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newOrderCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newDigestCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "press %s (commit: %s, built: %s)\n", Version, Commit, Date)
		},
	}
}

func execute(cmd *cobra.Command) int {
	defer glog.Flush()
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
