// Command nescore is a minimal ebiten front-end for the console core: it
// loads a ROM, drives the emulation on a worker goroutine, and blits
// completed frames to the screen at whatever rate ebiten's game loop runs.
package main

import (
	"context"
	"flag"
	"image/color"
	"log"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tormodh/nescore/console"
	"github.com/tormodh/nescore/input"
	"github.com/tormodh/nescore/ppu"
)

var romFile = flag.String("rom", "", "Path to an iNES ROM image to run.")

var keyMap = []struct {
	key    ebiten.Key
	button input.Buttons
}{
	{ebiten.KeyZ, input.ButtonA},
	{ebiten.KeyX, input.ButtonB},
	{ebiten.KeyBackspace, input.ButtonSelect},
	{ebiten.KeyEnter, input.ButtonStart},
	{ebiten.KeyUp, input.ButtonUp},
	{ebiten.KeyDown, input.ButtonDown},
	{ebiten.KeyLeft, input.ButtonLeft},
	{ebiten.KeyRight, input.ButtonRight},
}

func pollButtons() input.Buttons {
	var b input.Buttons
	for _, k := range keyMap {
		if ebiten.IsKeyPressed(k.key) {
			b |= k.button
		}
	}
	return b
}

// game implements ebiten.Game. The console runs continuously on its own
// goroutine; Draw only ever reads the most recently completed frame.
type game struct {
	nes *console.Console
	img *ebiten.Image

	mu    sync.Mutex
	frame ppu.FrameBuffer
}

func newGame(nes *console.Console) *game {
	return &game{nes: nes, img: ebiten.NewImage(ppu.Width, ppu.Height)}
}

func (g *game) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			g.nes.SetController(0, pollButtons())
			fb := g.nes.RunFrame()

			g.mu.Lock()
			g.frame = *fb
			g.mu.Unlock()
		}
	}
}

// Update is part of the ebiten.Game interface; all real work happens on the
// worker goroutine started in main, so there's nothing to do here.
func (g *game) Update() error { return nil }

func (g *game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	frame := g.frame
	g.mu.Unlock()

	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			rgb := ppu.DecodePixel(frame[y*ppu.Width+x])
			g.img.Set(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xFF})
		}
	}
	screen.DrawImage(g.img, &ebiten.DrawImageOptions{})
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}

func main() {
	flag.Parse()

	rom, err := os.ReadFile(*romFile)
	if err != nil {
		log.Fatalf("reading ROM: %v", err)
	}

	nes, err := console.New(rom)
	if err != nil {
		log.Fatalf("loading cartridge: %v", err)
	}
	nes.PowerOn()

	ebiten.SetWindowSize(ppu.Width*2, ppu.Height*2)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := newGame(nes)

	ctx, cancel := context.WithCancel(context.Background())
	go g.run(ctx)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
	cancel()
	os.Exit(0)
}
