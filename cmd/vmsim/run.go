package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/vmsim/datarecording"
	"github.com/sarchlab/vmsim/mem/backing"
	"github.com/sarchlab/vmsim/mem/vm"
	"github.com/sarchlab/vmsim/mem/vm/mmu"
	"github.com/sarchlab/vmsim/monitoring"
)

const defaultBackingStorePath = "BACKING_STORE.bin"

// queryTraceEntry is one recorded row per translated address.
type queryTraceEntry struct {
	Seq          uint64
	VirtualAddr  uint32
	PageNumber   uint32
	Offset       uint32
	PhysicalAddr uint32
	Value        int8
	PageFault    bool
	TLBHit       bool
}

func resolveBackingStorePath() string {
	if backingStorePath != "" {
		return backingStorePath
	}

	// .env is optional; a missing file is not an error.
	godotenv.Load()

	if path := os.Getenv("VMSIM_BACKING_STORE"); path != "" {
		return path
	}

	return defaultBackingStorePath
}

func runSimulation(cmd *cobra.Command, args []string) error {
	store, err := backing.Open(resolveBackingStorePath())
	if err != nil {
		return err
	}
	defer store.Close()

	m := mmu.MakeBuilder().
		WithNumFrames(numFrames).
		WithTLBCapacity(tlbEntries).
		WithPageReader(store).
		Build("MMU")

	var recorder datarecording.DataRecorder
	if traceDBPath != "" {
		recorder = datarecording.New(traceDBPath)
		recorder.CreateTable("queries", queryTraceEntry{})
	}

	if monitorPort >= 0 {
		monitor := monitoring.NewMonitor().WithPortNumber(monitorPort)
		monitor.RegisterTranslator(m)
		_, err := monitor.StartServer()
		if err != nil {
			return err
		}
		if openMonitor {
			monitor.OpenStatusPage()
		}
	}

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening address file: %w", err)
	}
	defer file.Close()

	out := cmd.OutOrStdout()
	var seq uint64

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		token := strings.TrimSpace(scanner.Text())

		raw, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", token, err)
		}
		addr := vm.MaskAddress(raw)

		result, err := m.Translate(addr)
		if err != nil {
			return err
		}
		seq++

		fmt.Fprintf(out, "Virtual address: %d Physical address: %d Value: %d\n",
			addr, result.PhysicalAddr, result.Value)

		if recorder != nil {
			recorder.InsertData("queries", queryTraceEntry{
				Seq:          seq,
				VirtualAddr:  uint32(addr),
				PageNumber:   addr.PageNumber(),
				Offset:       addr.Offset(),
				PhysicalAddr: result.PhysicalAddr,
				Value:        result.Value,
				PageFault:    result.PageFault,
				TLBHit:       result.TLBHit,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading address file: %w", err)
	}

	if recorder != nil {
		recorder.Flush()
	}

	stats := m.Stats()
	fmt.Fprintf(out, "Number of Translated Addresses = %d\n", stats.Total)
	fmt.Fprintf(out, "Page Faults = %d\n", stats.PageFaults)
	fmt.Fprintf(out, "Page Fault Rate = %v\n", stats.PageFaultRate())
	fmt.Fprintf(out, "TLB Hits = %d\n", stats.TLBHits)
	fmt.Fprintf(out, "TLB Hit Rate = %v\n", stats.TLBHitRate())

	return nil
}
