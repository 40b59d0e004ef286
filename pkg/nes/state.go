package nes

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bedhededdy/nescle/pkg/apu"
	"github.com/bedhededdy/nescle/pkg/bus"
	"github.com/bedhededdy/nescle/pkg/cartridge"
	"github.com/bedhededdy/nescle/pkg/cpu"
	"github.com/bedhededdy/nescle/pkg/ppu"
)

// stateVersion tags the snapshot layout. New fields append to the end of
// their structures so snapshots stay portable across hosts.
const stateVersion = 1

// snapshot is the serialized console: every component's state under a
// stable field name.
type snapshot struct {
	Version int             `json:"version"`
	CPU     cpu.State       `json:"cpu"`
	PPU     ppu.State       `json:"ppu"`
	APU     apu.State       `json:"apu"`
	Bus     bus.State       `json:"bus"`
	Cart    cartridge.State `json:"cart"`
}

// SaveState writes a versioned JSON snapshot of the whole console.
func (n *NES) SaveState(w io.Writer) error {
	cart, err := n.cart.SaveState()
	if err != nil {
		return fmt.Errorf("serializing cartridge: %w", err)
	}

	s := snapshot{
		Version: stateVersion,
		CPU:     n.bus.CPU().SaveState(),
		PPU:     n.bus.PPU().SaveState(),
		APU:     n.bus.APU().SaveState(),
		Bus:     n.bus.SaveState(),
		Cart:    cart,
	}

	return json.NewEncoder(w).Encode(s)
}

// LoadState restores a snapshot. On any decode or validation failure the
// console is left untouched.
func (n *NES) LoadState(r io.Reader) error {
	var s snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}

	if s.Version != stateVersion {
		return fmt.Errorf("snapshot version %d not supported (want %d)", s.Version, stateVersion)
	}
	if len(s.Bus.RAM) != 2048 {
		return fmt.Errorf("snapshot missing system RAM")
	}
	if len(s.PPU.Nametable) != 2048 || len(s.PPU.Palette) != 32 || len(s.PPU.OAM) != 256 {
		return fmt.Errorf("snapshot missing PPU memories")
	}

	// The cartridge restore validates against the loaded game before
	// mutating anything, so a mismatched snapshot leaves state intact.
	if err := n.cart.LoadState(s.Cart); err != nil {
		return fmt.Errorf("restoring cartridge: %w", err)
	}

	n.bus.CPU().LoadState(s.CPU)
	n.bus.PPU().LoadState(s.PPU)
	n.bus.APU().LoadState(s.APU)
	n.bus.LoadState(s.Bus)
	return nil
}

// SaveStateFile snapshots the console to a file.
func (n *NES) SaveStateFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return n.SaveState(f)
}

// LoadStateFile restores a snapshot from a file.
func (n *NES) LoadStateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return n.LoadState(f)
}
