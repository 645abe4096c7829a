// Command dumplog either prints a previously saved gob machine state
// (registers, cycle count) or runs a ROM headlessly with
// every logger component enabled and writes the captured entries to a
// text file, optionally filtered down to a single component. Grounded on
// the log-dumping tool this core's logger package was modeled on.
package main

import (
	"flag"
	"fmt"
	"os"

	"commanderx16emu/internal/debug"
	"commanderx16emu/internal/scheduler"
)

func main() {
	statePath := flag.String("state", "", "Print a summary of a gob save state and exit")
	romPath := flag.String("rom", "", "Path to ROM file")
	logFile := flag.String("out", "logs.txt", "Output log file")
	maxFrames := flag.Int("frames", 60, "Run for N frames then dump logs")
	component := flag.String("component", "", "Limit output to one component (CPU, Video, AddrSpace, Cartridge, Scheduler, System); empty dumps all")
	level := flag.String("level", "debug", "Minimum log level (error, warning, info, debug, trace)")
	ramBanks := flag.Int("ram-banks", 64, "Number of 8 KiB RAM banks")
	mhz := flag.Int("mhz", 8, "Nominal CPU clock in MHz")
	flag.Parse()

	if *statePath != "" {
		dumpState(*statePath, *ramBanks, *mhz)
		return
	}

	if *romPath == "" {
		fmt.Println("Usage: dumplog -rom <rom> [-out <file>] [-frames <N>] [-component <name>]")
		fmt.Println("   or: dumplog -state <save.state>")
		os.Exit(1)
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading ROM: %v\n", err)
		os.Exit(1)
	}

	minLevel, err := parseLevel(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logger := debug.NewLogger(50000)
	logger.SetComponentEnabled(debug.ComponentCPU, true)
	logger.SetComponentEnabled(debug.ComponentVideo, true)
	logger.SetComponentEnabled(debug.ComponentAddrSpace, true)
	logger.SetComponentEnabled(debug.ComponentCartridge, true)
	logger.SetComponentEnabled(debug.ComponentScheduler, true)
	logger.SetComponentEnabled(debug.ComponentSystem, true)
	logger.SetMinLevel(minLevel)

	m := scheduler.NewMachine(uint32(*mhz), *ramBanks)
	m.Mem.LoadROM(romData)
	m.Logger = logger
	m.Mem.Logger = logger
	m.Reset(true)

	stopped := false
	m.CPU.OnStop = func(pc uint16, bank uint8) { stopped = true }

	fmt.Printf("Running ROM for %d frames...\n", *maxFrames)
	for i := 0; i < *maxFrames && !stopped; i++ {
		m.RunUntilFrame(func() bool { return stopped })
	}

	entries := logger.GetEntries()
	if *component != "" {
		filtered := entries[:0]
		want := debug.Component(*component)
		for _, e := range entries {
			if e.Component == want {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	file, err := os.Create(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating log file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	fmt.Fprintf(file, "Logs from %s (%d entries)\n", *romPath, len(entries))
	fmt.Fprintf(file, "===========================================\n\n")
	for _, entry := range entries {
		fmt.Fprintf(file, "%s\n", entry.Format())
	}

	fmt.Printf("Dumped %d log entries to %s\n", len(entries), *logFile)
}

// dumpState loads a gob save state and prints its registers and counters;
// it never runs the CPU, so ram-banks/mhz only need to be large enough for
// Restore to accept the snapshot's bank counts.
func dumpState(path string, ramBanks int, mhz int) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening save state: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	m := scheduler.NewMachine(uint32(mhz), ramBanks)
	if err := m.LoadState(f); err != nil {
		fmt.Fprintf(os.Stderr, "reading save state: %v\n", err)
		os.Exit(1)
	}

	r := m.CPU.Reg
	fmt.Printf("cycles=%d\n", m.CPU.Cycles)
	fmt.Printf("PC=%04x K=%02x DB=%02x DP=%04x SP=%04x\n", r.PC, r.K, r.DB, r.DP, r.SP)
	fmt.Printf("C=%04x X=%04x Y=%04x P=%02x E=%v Is816=%v\n", r.C, r.X, r.Y, r.P, r.E, r.Is816)
}

func parseLevel(s string) (debug.LogLevel, error) {
	switch s {
	case "error":
		return debug.LogLevelError, nil
	case "warning":
		return debug.LogLevelWarning, nil
	case "info":
		return debug.LogLevelInfo, nil
	case "debug":
		return debug.LogLevelDebug, nil
	case "trace":
		return debug.LogLevelTrace, nil
	default:
		return debug.LogLevelNone, fmt.Errorf("dumplog: unknown level %q", s)
	}
}
