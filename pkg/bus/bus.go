// Package bus implements the NES system bus: the CPU-side memory map, the
// OAM-DMA engine, controller latching, and the master clock that drives
// the PPU, APU and CPU in their 3:1:half ratio.
package bus

import (
	"github.com/bedhededdy/nescle/pkg/apu"
	"github.com/bedhededdy/nescle/pkg/cartridge"
	"github.com/bedhededdy/nescle/pkg/cpu"
	"github.com/bedhededdy/nescle/pkg/ppu"
)

// clockFreq is the NTSC master clock in Hz: the PPU dot rate. The CPU
// runs at a third of it and the APU sequencers at a sixth.
const clockFreq = 5369318.0

// Controller button bits, as latched into the shift registers.
const (
	ButtonA      uint8 = 0x01
	ButtonB      uint8 = 0x02
	ButtonSelect uint8 = 0x04
	ButtonStart  uint8 = 0x08
	ButtonUp     uint8 = 0x10
	ButtonDown   uint8 = 0x20
	ButtonLeft   uint8 = 0x40
	ButtonRight  uint8 = 0x80
)

// Bus connects the NES components.
//
// CPU Memory Map:
//
//	$0000-$1FFF: 2KB internal RAM, mirrored every $0800
//	$2000-$3FFF: PPU registers, mirrored every 8
//	$4000-$4013, $4015: APU
//	$4014:       OAM-DMA trigger
//	$4016:       controller strobe / controller 1 shifter
//	$4017:       APU frame counter / controller 2 shifter
//	$4020-$FFFF: cartridge
type Bus struct {
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	apu  *apu.APU
	cart *cartridge.Cartridge

	ram [2048]uint8

	// Host-set controller snapshots and the shift registers they are
	// latched into by a $4016 write.
	controller        [2]uint8
	controllerShifter [2]uint8

	// OAM-DMA progress.
	dmaPage     uint8
	dmaAddr     uint8
	dmaData     uint8
	dmaOAMAddr  uint8
	dmaTransfer bool
	dmaDummy    bool

	// Master (PPU-rate) tick counter.
	clockCount uint64

	// Audio gating: emulated seconds accumulate per tick and a sample is
	// due each time a host sample period is crossed.
	timePerSample float64
	timePerClock  float64
	audioTime     float64
}

// New wires a bus, PPU, APU and CPU around the given cartridge.
func New(cart *cartridge.Cartridge) *Bus {
	b := &Bus{cart: cart, dmaDummy: true}
	b.ppu = ppu.New(cart)
	b.apu = apu.New(nil)
	b.apu.SetMemoryReader(b.Read)
	b.cpu = cpu.New(b)
	return b
}

// Read services a CPU-side read.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr%0x0800]

	case addr < 0x4000:
		return b.ppu.RegisterRead(addr)

	case addr <= 0x4013 || addr == 0x4015:
		return b.apu.Read(addr)

	case addr == 0x4016 || addr == 0x4017:
		// Controller reads are serialized one bit at a time. Past the
		// eighth pop the shifter keeps returning its sign-extended
		// last bit.
		i := addr - 0x4016
		ret := b.controllerShifter[i] & 1
		b.controllerShifter[i] = b.controllerShifter[i]>>1 | b.controllerShifter[i]&0x80
		return ret

	case addr >= 0x4020:
		return b.cart.CPURead(addr)
	}

	return 0
}

// Write services a CPU-side write.
func (b *Bus) Write(addr uint16, data uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr%0x0800] = data

	case addr < 0x4000:
		b.ppu.RegisterWrite(addr, data)

	case addr == 0x4014:
		// Kick off OAM-DMA: remember the source page and the OAMADDR to
		// restore once all 256 bytes have landed.
		b.dmaPage = data
		b.dmaAddr = 0
		b.dmaOAMAddr = b.ppu.OAMAddr()
		b.dmaTransfer = true

	case addr <= 0x4013 || addr == 0x4015 || addr == 0x4017:
		b.apu.Write(addr, data)

	case addr == 0x4016:
		// Latch both controller snapshots into their shift registers.
		b.controllerShifter[0] = b.controller[0]
		b.controllerShifter[1] = b.controller[1]

	case addr >= 0x4020:
		b.cart.CPUWrite(addr, data)
	}
}

// Inspect reads without side effects: PPU registers go through the
// inspect path and controller shifters are left alone. Used by the
// disassembler.
func (b *Bus) Inspect(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.ram[addr%0x0800]
	case addr < 0x4000:
		return b.ppu.RegisterInspect(addr)
	case addr == 0x4016 || addr == 0x4017:
		return b.controllerShifter[addr-0x4016] & 1
	case addr >= 0x4020:
		return b.cart.CPURead(addr)
	}
	return 0
}

// Clock advances the whole system by one master tick: the PPU every tick,
// the APU every tick (it subdivides internally), and on every third tick
// either one DMA step or one CPU cycle. Returns true when an audio sample
// period has elapsed and the host should read the mixer.
func (b *Bus) Clock() bool {
	b.ppu.Clock()
	b.apu.Clock()

	if b.clockCount%3 == 0 {
		// The CPU halts entirely while DMA runs.
		if b.dmaTransfer {
			b.stepDMA()
		} else {
			b.cpu.Clock()
		}
	}

	audioReady := false
	b.audioTime += b.timePerClock
	if b.timePerSample > 0 && b.audioTime >= b.timePerSample {
		// Carry the overshoot so drift stays bounded per sample.
		b.audioTime -= b.timePerSample
		audioReady = true
	}

	if b.ppu.NMI() {
		b.ppu.ClearNMI()
		b.cpu.NMI()
	}

	if b.cart.Mapper().IRQActive() {
		b.cart.Mapper().IRQClear()
		b.cpu.IRQ()
	}

	b.clockCount++
	return audioReady
}

// stepDMA performs one CPU-slot of the OAM transfer: a dummy wait until
// the next odd master parity, then alternating reads (even parity) and
// writes (odd parity) until 256 bytes have been copied.
func (b *Bus) stepDMA() {
	if b.dmaDummy {
		if b.clockCount%2 == 1 {
			b.dmaDummy = false
		}
		return
	}

	if b.clockCount%2 == 0 {
		b.dmaData = b.Read(uint16(b.dmaPage)<<8 | uint16(b.dmaAddr))
		return
	}

	b.ppu.WriteOAM(b.dmaAddr, b.dmaData)
	b.dmaAddr++
	if b.dmaAddr == 0 {
		b.dmaTransfer = false
		b.dmaDummy = true
		b.ppu.SetOAMAddr(b.dmaOAMAddr)
	}
}

// PowerOn zeroes RAM and every component.
func (b *Bus) PowerOn() {
	b.ram = [2048]uint8{}

	b.ppu.PowerOn()
	b.apu.PowerOn()
	b.cpu.PowerOn()

	b.controller = [2]uint8{}
	b.controllerShifter = [2]uint8{}
	b.resetTransport()

	b.timePerSample = 0
	b.timePerClock = 0
	b.audioTime = 0
}

// Reset resets every device but preserves RAM contents and the loaded
// cartridge.
func (b *Bus) Reset() {
	b.cart.Reset()
	b.ppu.Reset()
	b.apu.Reset()
	b.cpu.Reset()
	b.resetTransport()
}

func (b *Bus) resetTransport() {
	b.clockCount = 0
	b.dmaPage = 0
	b.dmaAddr = 0
	b.dmaData = 0
	b.dmaOAMAddr = 0
	b.dmaTransfer = false
	b.dmaDummy = true
}

// SetSampleFrequency tells the bus the host audio rate so it can gate
// sample emission.
func (b *Bus) SetSampleFrequency(hz uint32) {
	b.timePerSample = 1.0 / float64(hz)
	b.timePerClock = 1.0 / clockFreq
}

// SetController sets the snapshot byte for controller 0 or 1. Safe to
// call between Clock invocations.
func (b *Bus) SetController(idx int, data uint8) {
	b.controller[idx] = data
}

// Controller returns the snapshot byte for controller 0 or 1.
func (b *Bus) Controller(idx int) uint8 {
	return b.controller[idx]
}

// CPU returns the bus's CPU.
func (b *Bus) CPU() *cpu.CPU { return b.cpu }

// PPU returns the bus's PPU.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// APU returns the bus's APU.
func (b *Bus) APU() *apu.APU { return b.apu }

// Cart returns the inserted cartridge.
func (b *Bus) Cart() *cartridge.Cartridge { return b.cart }

// ClockCount returns the monotonic master tick count.
func (b *Bus) ClockCount() uint64 { return b.clockCount }

// State is the serialized bus state.
type State struct {
	RAM               []uint8  `json:"ram"`
	Controller        [2]uint8 `json:"controller"`
	ControllerShifter [2]uint8 `json:"controller_shifter"`
	DMAPage           uint8    `json:"dma_page"`
	DMAAddr           uint8    `json:"dma_addr"`
	DMAData           uint8    `json:"dma_data"`
	DMAOAMAddr        uint8    `json:"dma_2003_off"`
	DMATransfer       bool     `json:"dma_transfer"`
	DMADummy          bool     `json:"dma_dummy"`
	ClockCount        uint64   `json:"clocks_count"`
	AudioTime         float64  `json:"audio_time"`
}

// SaveState captures RAM, controller latches, DMA progress and the master
// clock. Sample timing parameters are host-side and not serialized.
func (b *Bus) SaveState() State {
	return State{
		RAM:               append([]uint8(nil), b.ram[:]...),
		Controller:        b.controller,
		ControllerShifter: b.controllerShifter,
		DMAPage:           b.dmaPage,
		DMAAddr:           b.dmaAddr,
		DMAData:           b.dmaData,
		DMAOAMAddr:        b.dmaOAMAddr,
		DMATransfer:       b.dmaTransfer,
		DMADummy:          b.dmaDummy,
		ClockCount:        b.clockCount,
		AudioTime:         b.audioTime,
	}
}

// LoadState restores a snapshot taken by SaveState.
func (b *Bus) LoadState(s State) {
	copy(b.ram[:], s.RAM)
	b.controller = s.Controller
	b.controllerShifter = s.ControllerShifter
	b.dmaPage = s.DMAPage
	b.dmaAddr = s.DMAAddr
	b.dmaData = s.DMAData
	b.dmaOAMAddr = s.DMAOAMAddr
	b.dmaTransfer = s.DMATransfer
	b.dmaDummy = s.DMADummy
	b.clockCount = s.ClockCount
	b.audioTime = s.AudioTime
}
