package nes

import (
	"bytes"
	"os"
	"testing"
)

// testROM builds an NROM image whose PRG is all NOPs with the reset
// vector pointing at $8000.
func testROM() []byte {
	rom := make([]byte, 16)
	copy(rom, "NES\x1a")
	rom[4] = 1
	rom[5] = 0

	prg := bytes.Repeat([]byte{0xEA}, 16384)
	prg[0x3FFC] = 0x00
	prg[0x3FFD] = 0x80
	return append(rom, prg...)
}

func newTestConsole(t *testing.T) *NES {
	t.Helper()
	console, err := NewFromBytes(testROM())
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	return console
}

func TestLoadFailureLeavesNoConsole(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte("not a rom at all")},
		{"bad mapper", func() []byte {
			rom := testROM()
			rom[6] = 0x90 // mapper 9, unsupported
			return rom
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			console, err := NewFromBytes(tt.data)
			if err == nil {
				t.Fatal("expected an error")
			}
			if console != nil {
				t.Error("failed load must not return a console")
			}
		})
	}
}

func TestRunFrameAdvancesExactlyOneFrame(t *testing.T) {
	console := newTestConsole(t)

	console.RunFrame()
	start := console.Bus().ClockCount()
	console.RunFrame()

	if got := console.Bus().ClockCount() - start; got != 341*262 {
		t.Errorf("frame took %d master ticks, want %d", got, 341*262)
	}
}

func TestEmulateSampleReturnsOnSamplePeriod(t *testing.T) {
	console := newTestConsole(t)
	console.SetSampleFrequency(44100)

	start := console.Bus().ClockCount()
	console.EmulateSample()
	ticks := console.Bus().ClockCount() - start

	// 5.369318 MHz / 44.1 kHz is ~122 dots per sample.
	if ticks < 100 || ticks > 150 {
		t.Errorf("sample took %d ticks, want ~122", ticks)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	console := newTestConsole(t)
	console.SetSampleFrequency(44100)

	// Build up some distinctive state.
	console.Bus().Write(0x0002, 0xDE)
	console.Bus().Write(0x07FF, 0xAD)
	console.Bus().Write(0x2006, 0x21)
	console.Bus().Write(0x2006, 0x08)
	console.Bus().Write(0x2007, 0x55)
	console.RunFrame()

	var saved bytes.Buffer
	if err := console.SaveState(&saved); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	// Diverge, then restore.
	console.Bus().Write(0x0002, 0x00)
	console.RunFrame()
	console.RunFrame()

	if err := console.LoadState(bytes.NewReader(saved.Bytes())); err != nil {
		t.Fatalf("LoadState: %v", err)
	}

	var restored bytes.Buffer
	if err := console.SaveState(&restored); err != nil {
		t.Fatalf("SaveState after restore: %v", err)
	}

	if !bytes.Equal(saved.Bytes(), restored.Bytes()) {
		t.Error("snapshot after restore differs from the original")
	}
	if got := console.Bus().Read(0x0002); got != 0xDE {
		t.Errorf("RAM[0002] = %02X, want DE", got)
	}
}

func TestLoadStateRejectsBadSnapshots(t *testing.T) {
	console := newTestConsole(t)
	console.RunFrame()

	var good bytes.Buffer
	if err := console.SaveState(&good); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"not json", []byte("definitely not json")},
		{"wrong version", bytes.Replace(good.Bytes(), []byte(`"version":1`), []byte(`"version":99`), 1)},
		{"empty document", []byte("{}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before bytes.Buffer
			if err := console.SaveState(&before); err != nil {
				t.Fatalf("SaveState: %v", err)
			}

			if err := console.LoadState(bytes.NewReader(tt.data)); err == nil {
				t.Fatal("expected an error")
			}

			// A failed load leaves the console untouched.
			var after bytes.Buffer
			if err := console.SaveState(&after); err != nil {
				t.Fatalf("SaveState: %v", err)
			}
			if !bytes.Equal(before.Bytes(), after.Bytes()) {
				t.Error("failed load modified console state")
			}
		})
	}
}

func TestResetPreservesRAMAndCartridge(t *testing.T) {
	console := newTestConsole(t)

	console.Bus().Write(0x0100, 0x77)
	console.Reset()

	if got := console.Bus().Read(0x0100); got != 0x77 {
		t.Errorf("RAM[0100] = %02X after reset, want 77", got)
	}
	if got := console.Bus().Read(0x8000); got != 0xEA {
		t.Errorf("PRG read = %02X after reset, want EA", got)
	}

	console.PowerOn()
	if got := console.Bus().Read(0x0100); got != 0x00 {
		t.Errorf("RAM[0100] = %02X after power-on, want 00", got)
	}
}

func TestControllerSnapshots(t *testing.T) {
	console := newTestConsole(t)

	console.SetController1(0x81)
	console.SetController2(0x42)

	if console.Controller1() != 0x81 || console.Controller2() != 0x42 {
		t.Errorf("controllers = %02X/%02X, want 81/42",
			console.Controller1(), console.Controller2())
	}
}

func TestFramebufferStableBetweenFrames(t *testing.T) {
	console := newTestConsole(t)

	console.RunFrame()
	first := *console.Framebuffer()

	// With rendering untouched, the published frame stays the backdrop.
	console.RunFrame()
	second := *console.Framebuffer()

	if first != second {
		t.Error("frame buffer changed with no rendering changes")
	}
	if first[0]>>24 != 0xFF {
		t.Errorf("pixel alpha = %02X, want FF", first[0]>>24)
	}
}

func TestNestestROM(t *testing.T) {
	data, err := os.ReadFile("testdata/nestest.nes")
	if err != nil {
		t.Skip("testdata/nestest.nes not present")
	}

	console, err := NewFromBytes(data)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}

	// Entering at $C000 runs the full automated suite without a PPU.
	console.CPU().SetPC(0xC000)
	for i := 0; i < 26554; i++ {
		console.CPU().Step()
	}

	if e1, e2 := console.Bus().Read(0x0002), console.Bus().Read(0x0003); e1 != 0 || e2 != 0 {
		t.Errorf("nestest error codes = %02X/%02X, want 00/00", e1, e2)
	}
}
