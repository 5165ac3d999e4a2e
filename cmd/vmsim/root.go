// Vmsim simulates virtual-to-physical address translation for a single
// process, with a TLB backed by a page table and demand paging from a
// backing store file.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vmsim/mem/vm"
)

var (
	backingStorePath string
	numFrames        int
	tlbEntries       int
	traceDBPath      string
	monitorPort      int
	openMonitor      bool
)

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "vmsim [flags] address-file",
	Short: "Vmsim translates a stream of virtual addresses.",
	Long: `Vmsim reads newline-delimited decimal virtual addresses from ` +
		`the given file, translates each one through a TLB, a page ` +
		`table, and a demand-paged backing store, and reports the ` +
		`physical address and stored value per query, followed by ` +
		`page-fault and TLB-hit statistics.`,
	Args:          cobra.ExactArgs(1),
	RunE:          runSimulation,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.Flags().StringVar(&backingStorePath, "backing-store", "",
		"path to the backing store file "+
			"(default $VMSIM_BACKING_STORE or BACKING_STORE.bin)")
	rootCmd.Flags().IntVar(&numFrames, "frames", vm.DefaultNumFrames,
		"number of physical frames")
	rootCmd.Flags().IntVar(&tlbEntries, "tlb-entries", 16,
		"number of TLB entries")
	rootCmd.Flags().StringVar(&traceDBPath, "trace-db", "",
		"record one row per query into this SQLite database")
	rootCmd.Flags().IntVar(&monitorPort, "monitor-port", -1,
		"serve run statistics over HTTP on this port "+
			"(0 picks a free port, negative disables)")
	rootCmd.Flags().BoolVar(&openMonitor, "open-monitor", false,
		"open the monitoring page in the default browser")
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
