// Command x16emu is a headless runner over the CPU/AddressSpace/VideoCore
// core: it loads a ROM image and optional cartridge, drives the scheduler
// for a fixed number of frames or until the guest executes STP, and writes
// diagnostic output (a PPM of the final frame, optionally a save state).
// There is no window: SDL presentation is out of scope for this core.
package main

import (
	"flag"
	"fmt"
	"os"

	"commanderx16emu/internal/cartridge"
	"commanderx16emu/internal/debug"
	"commanderx16emu/internal/scheduler"
)

func main() {
	romPath := flag.String("rom", "", "Path to ROM image (required)")
	cartPath := flag.String("cart", "", "Path to a .crt cartridge (optional)")
	configPath := flag.String("config", "", "Path to a TOML config file (optional, overridden by flags)")
	ramBanks := flag.Int("ram-banks", 64, "Number of 8 KiB RAM banks (1-256)")
	mhz := flag.Int("mhz", 8, "Nominal CPU clock in MHz")
	frames := flag.Int("frames", 60, "Run for N video frames then stop")
	is816 := flag.Bool("is816", true, "Reset into 65C816 native-capable personality (false = 65C02 only)")
	reportUninit := flag.Bool("report-uninit", false, "Log reads of uninitialized RAM")
	enableLog := flag.Bool("log", false, "Enable logging (disabled by default)")
	ppmOut := flag.String("ppm", "", "Write the final frame to this path as a PPM image")
	statePath := flag.String("save-state", "", "Write a gob save state to this path on exit")
	flag.Parse()

	if *configPath != "" {
		cfg, err := loadFileConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		applyFileConfig(cfg, ramBanks, mhz, frames, reportUninit, enableLog, is816, cartPath)
	}

	if *romPath == "" {
		fmt.Println("Usage: x16emu -rom <path> [-cart <path>] [-frames N] [-ppm out.ppm]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading ROM: %v\n", err)
		os.Exit(1)
	}

	m := scheduler.NewMachine(uint32(*mhz), *ramBanks)
	m.Mem.LoadROM(romData)
	m.Mem.ReportUninitialized = *reportUninit

	if *enableLog {
		logger := debug.NewLogger(20000)
		logger.SetComponentEnabled(debug.ComponentCPU, true)
		logger.SetComponentEnabled(debug.ComponentAddrSpace, true)
		logger.SetComponentEnabled(debug.ComponentVideo, true)
		logger.SetComponentEnabled(debug.ComponentScheduler, true)
		logger.SetMinLevel(debug.LogLevelInfo)
		m.Logger = logger
		m.Mem.Logger = logger
	}

	if *cartPath != "" {
		cart, err := cartridge.Load(*cartPath, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading cartridge: %v\n", err)
			os.Exit(1)
		}
		m.Mem.Cart = cart
	}

	ran := 0
	stopped := false
	m.CPU.OnStop = func(pc uint16, bank uint8) {
		stopped = true
		fmt.Printf("STP executed at bank %02x pc %04x after %d frames\n", bank, pc, ran)
	}

	m.Reset(*is816)

	for ran < *frames && !stopped {
		m.RunUntilFrame(func() bool { return stopped })
		if !stopped {
			ran++
		}
	}

	if *ppmOut != "" {
		if err := writePPM(*ppmOut, m); err != nil {
			fmt.Fprintf(os.Stderr, "writing PPM: %v\n", err)
			os.Exit(1)
		}
	}

	if *statePath != "" {
		f, err := os.Create(*statePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "writing save state: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := m.SaveState(f); err != nil {
			fmt.Fprintf(os.Stderr, "writing save state: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Ran %d frames, %d total CPU cycles, PC=%04x K=%02x\n",
		ran, m.CPU.Cycles, m.CPU.Reg.PC, m.CPU.Reg.K)
}

func applyFileConfig(cfg fileConfig, ramBanks, mhz, frames *int, reportUninit, enableLog, is816 *bool, cartPath *string) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if cfg.RAMBanks != nil && !set["ram-banks"] {
		*ramBanks = *cfg.RAMBanks
	}
	if cfg.MHz != nil && !set["mhz"] {
		*mhz = *cfg.MHz
	}
	if cfg.Frames != nil && !set["frames"] {
		*frames = *cfg.Frames
	}
	if cfg.ReportUninit != nil && !set["report-uninit"] {
		*reportUninit = *cfg.ReportUninit
	}
	if cfg.Log != nil && !set["log"] {
		*enableLog = *cfg.Log
	}
	if cfg.Is816 != nil && !set["is816"] {
		*is816 = *cfg.Is816
	}
	if cfg.CartridgePath != nil && *cartPath == "" {
		*cartPath = *cfg.CartridgePath
	}
}
