// Command rom-info prints the decoded iNES header of a ROM and a short
// disassembly starting at its reset vector.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/bedhededdy/nescle/pkg/cartridge"
	"github.com/bedhededdy/nescle/pkg/cpu"
	"github.com/bedhededdy/nescle/pkg/nes"
)

var lines = flag.Int("lines", 16, "number of instructions to disassemble")

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: rom-info [flags] <rom-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	romPath := flag.Arg(0)

	console, err := nes.New(romPath)
	if err != nil {
		glog.Fatalf("loading %s: %v", romPath, err)
	}

	cart := console.Cartridge()
	header := cart.Header()

	fmt.Printf("File:        %s\n", romPath)
	fmt.Printf("Mapper:      %d\n", header.MapperID())
	fmt.Printf("PRG-ROM:     %d x 16KB\n", header.PRGBlocks)
	if header.CHRBlocks == 0 {
		fmt.Printf("CHR:         8KB RAM\n")
	} else {
		fmt.Printf("CHR-ROM:     %d x 8KB\n", header.CHRBlocks)
	}
	fmt.Printf("Mirroring:   %s\n", mirrorName(header.Mirroring()))
	fmt.Printf("Battery:     %v\n", header.HasSaveRAM())
	fmt.Printf("Trainer:     %v\n", header.HasTrainer())
	fmt.Printf("NES 2.0:     %v\n", header.FileType() == cartridge.FileNES2)

	// Walk the code at the reset vector without disturbing the console.
	addr := console.CPU().PC()

	fmt.Printf("\nReset vector: $%04X\n\n", addr)
	for i := 0; i < *lines; i++ {
		fmt.Println(console.CPU().Disassemble(addr))
		addr += uint16(cpu.Decode(console.Bus().Inspect(addr)).Bytes)
	}
}

func mirrorName(m cartridge.MirrorMode) string {
	switch m {
	case cartridge.MirrorHorizontal:
		return "horizontal"
	case cartridge.MirrorVertical:
		return "vertical"
	case cartridge.MirrorOneScreenLow:
		return "one-screen low"
	case cartridge.MirrorOneScreenHigh:
		return "one-screen high"
	}
	return "unknown"
}
