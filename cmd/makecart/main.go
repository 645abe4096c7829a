// Command makecart authors a .crt cartridge file: a sequence of flags,
// processed left to right, define bank ranges as ROM/RAM/NVRAM/none and
// import file payloads into them. Mirrors the option set of the tool this
// is grounded on, translated into an idiomatic argv walker rather than a
// flag.FlagSet, since the source tool's options repeat and interleave
// (each -rom_file/-ram/-nvram call applies immediately, in order).
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"commanderx16emu/internal/cartridge"
)

func usage() {
	fmt.Println(`Usage: makecart [options]

  -desc <text>                 cartridge description field (max 32 bytes)
  -author <text>                cartridge author field (max 32 bytes)
  -copyright <text>             cartridge copyright field (max 32 bytes)
  -version <text>               cartridge program-version field (max 32 bytes)
  -fill <value>                 fill byte for partially-filled banks (decimal, or 0x/$ hex)
  -rom_file <start> <files...>  define ROM banks from a tightly-packed file list
  -ram <start> [end]            define uninitialized RAM banks
  -ram_file <start> <files...>  define pre-initialized RAM banks from files
  -nvram <start> [end]          define uninitialized NVRAM banks
  -nvram_file <start> <files...> define pre-initialized NVRAM banks from files
  -none <start> [end]           define unpopulated banks (the default)
  -o <output.crt>                output path; append .gz to gzip

Options are applied in order, left to right. Bank numbers are in CPU bank
space (32-255). -o may be given once; only the last instance has effect.`)
	os.Exit(1)
}

func main() {
	args := os.Args[1:]
	cart := cartridge.New()
	fill := []byte{0x00}
	outputPath := ""

	next := func() string {
		if len(args) == 0 {
			usage()
		}
		v := args[0]
		args = args[1:]
		return v
	}

	isFlag := func(s string) bool { return len(s) > 0 && s[0] == '-' }

	takeBank := func() uint8 {
		v := next()
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 255 {
			fmt.Fprintf(os.Stderr, "makecart: invalid bank number %q\n", v)
			os.Exit(1)
		}
		return uint8(n)
	}

	takeRange := func() (uint8, uint8) {
		start := takeBank()
		if len(args) == 0 || isFlag(args[0]) {
			return start, start + 1
		}
		end := takeBank()
		return start, uint8(int(end) + 1)
	}

	takeFiles := func() [][]byte {
		var files [][]byte
		for len(args) > 0 && !isFlag(args[0]) {
			path := next()
			data, err := os.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "makecart: %v\n", err)
				os.Exit(1)
			}
			files = append(files, data)
		}
		return files
	}

	for len(args) > 0 {
		switch opt := next(); opt {
		case "-help":
			usage()
		case "-desc":
			cart.Description = next()
		case "-author":
			cart.Author = next()
		case "-copyright":
			cart.Copyright = next()
		case "-version":
			cart.ProgramVersion = next()
		case "-fill":
			fill = parseFillValue(next())
		case "-rom_file":
			start := takeBank()
			files := takeFiles()
			if err := cart.ImportFiles(files, start, cartridge.Rom, fill); err != nil {
				fatalf("importing ROM files: %v", err)
			}
		case "-ram":
			start, end := takeRange()
			if err := cart.DefineBankRange(start, end, cartridge.UninitializedRam); err != nil {
				fatalf("defining RAM range: %v", err)
			}
		case "-ram_file":
			start := takeBank()
			files := takeFiles()
			if err := cart.ImportFiles(files, start, cartridge.InitializedRam, fill); err != nil {
				fatalf("importing RAM files: %v", err)
			}
		case "-nvram":
			start, end := takeRange()
			if err := cart.DefineBankRange(start, end, cartridge.UninitializedNvram); err != nil {
				fatalf("defining NVRAM range: %v", err)
			}
		case "-nvram_file":
			start := takeBank()
			files := takeFiles()
			if err := cart.ImportFiles(files, start, cartridge.InitializedNvram, fill); err != nil {
				fatalf("importing NVRAM files: %v", err)
			}
		case "-nvram_value":
			start, end := takeRange()
			if err := cart.DefineBankRange(start, end, cartridge.UninitializedNvram); err != nil {
				fatalf("defining NVRAM range: %v", err)
			}
			if err := cart.Fill(start, end, fill); err != nil {
				fatalf("filling NVRAM range: %v", err)
			}
		case "-none":
			start, end := takeRange()
			if err := cart.DefineBankRange(start, end, cartridge.None); err != nil {
				fatalf("defining none range: %v", err)
			}
		case "-o":
			outputPath = next()
		default:
			fmt.Fprintf(os.Stderr, "makecart: unrecognized option %q\n", opt)
			usage()
		}
	}

	if outputPath == "" {
		fmt.Fprintln(os.Stderr, "makecart: no output path given (-o)")
		os.Exit(1)
	}

	if err := cart.Save(outputPath); err != nil {
		fatalf("saving cartridge: %v", err)
	}
	if err := cart.SaveNVRAM(outputPath); err != nil {
		fatalf("saving NVRAM sidecar: %v", err)
	}

	fmt.Printf("wrote %s\n", outputPath)
}

// parseFillValue accepts decimal, 0x-prefixed, or $-prefixed hex and returns
// a one-byte fill pattern; values above 0xFF are rejected.
func parseFillValue(s string) []byte {
	base := 10
	switch {
	case strings.HasPrefix(s, "0x"):
		s = s[2:]
		base = 16
	case strings.HasPrefix(s, "$"):
		s = s[1:]
		base = 16
	}
	n, err := strconv.ParseUint(s, base, 8)
	if err != nil {
		fmt.Fprintf(os.Stderr, "makecart: invalid fill value %q\n", s)
		os.Exit(1)
	}
	return []byte{uint8(n)}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "makecart: "+format+"\n", args...)
	os.Exit(1)
}
