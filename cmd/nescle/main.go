// Command nescle runs the emulator in an SDL2 window with PortAudio
// sound.
//
// Game keys: arrows = D-pad, X = A, Z = B, Enter = Start, RShift =
// Select. System keys: Esc quits, P pauses, R resets, F5 saves state,
// F9 loads state.
package main

import (
	"flag"
	"fmt"
	"os"
	"unsafe"

	"github.com/golang/glog"
	"github.com/gordonklaus/portaudio"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/bedhededdy/nescle/pkg/bus"
	"github.com/bedhededdy/nescle/pkg/nes"
	"github.com/bedhededdy/nescle/pkg/ppu"
)

var (
	windowScale = flag.Int("scale", 3, "window scale factor")
	sampleRate  = flag.Int("sample-rate", 44100, "audio sample rate in Hz")
	statePath   = flag.String("state", "nescle-state.json", "save state file (F5 saves, F9 loads)")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: nescle [flags] <rom-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	romPath := flag.Arg(0)

	console, err := nes.New(romPath)
	if err != nil {
		glog.Fatalf("loading %s: %v", romPath, err)
	}
	console.SetSampleFrequency(uint32(*sampleRate))

	if err := run(console, romPath); err != nil {
		glog.Fatal(err)
	}
}

func run(console *nes.NES, romPath string) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow(
		"nescle - "+romPath,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(ppu.ScreenWidth*(*windowScale)), int32(ppu.ScreenHeight*(*windowScale)),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer window.Destroy()

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING,
		ppu.ScreenWidth, ppu.ScreenHeight,
	)
	if err != nil {
		return fmt.Errorf("creating texture: %w", err)
	}
	defer texture.Destroy()

	audio, err := startAudio(*sampleRate)
	if err != nil {
		// Sound is best-effort: keep running silent on headless boxes.
		glog.Warningf("audio unavailable: %v", err)
	} else {
		defer audio.stop()
	}

	glog.Infof("running %s (mapper %d)", romPath, console.Cartridge().MapperID())

	var buttons uint8
	running := true

	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false

			case *sdl.KeyboardEvent:
				pressed := e.Type == sdl.KEYDOWN

				if pressed {
					switch e.Keysym.Sym {
					case sdl.K_ESCAPE:
						running = false
						continue
					case sdl.K_p:
						console.SetRunEmulation(!console.RunEmulation())
						continue
					case sdl.K_r:
						console.Reset()
						continue
					case sdl.K_F5:
						if err := console.SaveStateFile(*statePath); err != nil {
							glog.Errorf("saving state: %v", err)
						} else {
							glog.Infof("state saved to %s", *statePath)
						}
						continue
					case sdl.K_F9:
						if err := console.LoadStateFile(*statePath); err != nil {
							glog.Errorf("loading state: %v", err)
						} else {
							glog.Infof("state loaded from %s", *statePath)
						}
						continue
					}
				}

				if bit := buttonFor(e.Keysym.Sym); bit != 0 {
					if pressed {
						buttons |= bit
					} else {
						buttons &^= bit
					}
					console.SetController1(buttons)
				}
			}
		}

		if console.RunEmulation() {
			// One frame of master ticks, streaming samples as they
			// become due.
			for !console.FrameComplete() {
				if console.Clock() && audio != nil {
					audio.push(console.AudioSample())
				}
			}
			console.ClearFrameComplete()
		}

		frame := console.Framebuffer()
		texture.Update(nil, unsafe.Pointer(&frame[0]), ppu.ScreenWidth*4)
		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()

		if !console.RunEmulation() {
			sdl.Delay(50)
		}
	}

	return nil
}

// buttonFor maps a key symbol to its controller bit, or 0 when the key is
// not bound.
func buttonFor(sym sdl.Keycode) uint8 {
	switch sym {
	case sdl.K_x:
		return bus.ButtonA
	case sdl.K_z:
		return bus.ButtonB
	case sdl.K_RSHIFT:
		return bus.ButtonSelect
	case sdl.K_RETURN:
		return bus.ButtonStart
	case sdl.K_UP:
		return bus.ButtonUp
	case sdl.K_DOWN:
		return bus.ButtonDown
	case sdl.K_LEFT:
		return bus.ButtonLeft
	case sdl.K_RIGHT:
		return bus.ButtonRight
	}
	return 0
}

// audioOut pumps emulated samples to PortAudio through a buffered
// channel; the callback drains it and pads with silence on underrun.
type audioOut struct {
	stream *portaudio.Stream
	ch     chan float32
}

func startAudio(sampleRate int) (*audioOut, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing PortAudio: %w", err)
	}

	a := &audioOut{ch: make(chan float32, sampleRate/10)}

	cb := func(out []float32) {
		for i := range out {
			select {
			case s := <-a.ch:
				out[i] = s
			default:
				out[i] = 0
			}
		}
	}

	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), 0, cb)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("opening audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("starting audio stream: %w", err)
	}

	a.stream = stream
	return a, nil
}

// push enqueues a sample, dropping it when the host is behind.
func (a *audioOut) push(sample float32) {
	select {
	case a.ch <- sample:
	default:
	}
}

func (a *audioOut) stop() {
	a.stream.Close()
	portaudio.Terminate()
}
