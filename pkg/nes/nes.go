// Package nes assembles the emulator core: cartridge, bus, CPU, PPU and
// APU behind one console-shaped facade.
//
// The host drives the console by calling Clock in a loop; each call is
// one master tick and returns whether an audio sample is due. A typical
// frame loop runs Clock until FrameComplete, presents the frame buffer,
// clears the flag and repeats.
package nes

import (
	"fmt"

	"github.com/bedhededdy/nescle/pkg/apu"
	"github.com/bedhededdy/nescle/pkg/bus"
	"github.com/bedhededdy/nescle/pkg/cartridge"
	"github.com/bedhededdy/nescle/pkg/cpu"
	"github.com/bedhededdy/nescle/pkg/ppu"
)

// NES represents the complete console.
type NES struct {
	bus  *bus.Bus
	cart *cartridge.Cartridge

	// runEmulation gates RunFrame so a host can pause without tearing
	// down its frame loop. Read and written only between Clock calls.
	runEmulation bool
}

// New loads a ROM file and powers on a console around it.
func New(romPath string) (*NES, error) {
	cart, err := cartridge.LoadFromFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load ROM: %w", err)
	}
	return NewFromCartridge(cart), nil
}

// NewFromBytes builds a console from an in-memory ROM image.
func NewFromBytes(data []byte) (*NES, error) {
	cart, err := cartridge.LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load ROM: %w", err)
	}
	return NewFromCartridge(cart), nil
}

// NewFromCartridge builds a powered-on console around a loaded cartridge.
func NewFromCartridge(cart *cartridge.Cartridge) *NES {
	n := &NES{bus: bus.New(cart), cart: cart, runEmulation: true}
	n.PowerOn()
	return n
}

// Clock advances the console one master tick. Returns true when an audio
// sample period has elapsed.
func (n *NES) Clock() bool {
	return n.bus.Clock()
}

// RunFrame clocks until the PPU finishes the current frame and rearms the
// frame flag. A paused console (see SetRunEmulation) returns immediately.
func (n *NES) RunFrame() {
	if !n.runEmulation {
		return
	}
	for !n.bus.PPU().FrameComplete() {
		n.bus.Clock()
	}
	n.bus.PPU().ClearFrameComplete()
}

// SetRunEmulation pauses or resumes frame-driven emulation.
func (n *NES) SetRunEmulation(run bool) {
	n.runEmulation = run
}

// RunEmulation reports whether frame-driven emulation is active.
func (n *NES) RunEmulation() bool {
	return n.runEmulation
}

// EmulateSample clocks until the next audio sample period elapses and
// returns the mixed sample. Frames complete as a side effect; the host
// checks FrameComplete between calls.
func (n *NES) EmulateSample() float32 {
	for !n.bus.Clock() {
	}
	return n.bus.APU().Sample()
}

// AudioSample returns the current mixed APU output.
func (n *NES) AudioSample() float32 {
	return n.bus.APU().Sample()
}

// FrameComplete reports whether a frame has finished since the last
// clear.
func (n *NES) FrameComplete() bool {
	return n.bus.PPU().FrameComplete()
}

// ClearFrameComplete rearms the frame flag.
func (n *NES) ClearFrameComplete() {
	n.bus.PPU().ClearFrameComplete()
}

// Framebuffer returns the stable 256x240 ARGB frame published at the last
// vblank. Only consistent between Clock calls.
func (n *NES) Framebuffer() *[ppu.ScreenWidth * ppu.ScreenHeight]uint32 {
	return n.bus.PPU().Framebuffer()
}

// SetSampleFrequency tells the core the host audio rate in Hz.
func (n *NES) SetSampleFrequency(hz uint32) {
	n.bus.SetSampleFrequency(hz)
}

// SetController1 sets the controller 1 snapshot byte.
func (n *NES) SetController1(data uint8) {
	n.bus.SetController(0, data)
}

// SetController2 sets the controller 2 snapshot byte.
func (n *NES) SetController2(data uint8) {
	n.bus.SetController(1, data)
}

// Controller1 returns the controller 1 snapshot byte.
func (n *NES) Controller1() uint8 { return n.bus.Controller(0) }

// Controller2 returns the controller 2 snapshot byte.
func (n *NES) Controller2() uint8 { return n.bus.Controller(1) }

// PowerOn zeroes every component, as if the console had been switched on.
func (n *NES) PowerOn() {
	n.bus.PowerOn()
}

// Reset is the console's reset button: devices reset, RAM and cartridge
// survive.
func (n *NES) Reset() {
	n.bus.Reset()
}

// Bus returns the system bus.
func (n *NES) Bus() *bus.Bus { return n.bus }

// CPU returns the console's CPU.
func (n *NES) CPU() *cpu.CPU { return n.bus.CPU() }

// PPU returns the console's PPU.
func (n *NES) PPU() *ppu.PPU { return n.bus.PPU() }

// APU returns the console's APU.
func (n *NES) APU() *apu.APU { return n.bus.APU() }

// Cartridge returns the loaded cartridge.
func (n *NES) Cartridge() *cartridge.Cartridge { return n.cart }
