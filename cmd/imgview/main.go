// Command imgview shows decoded images in a window.
//
// Usage:
//
//	imgview [-v] file...
//
// Left and Right switch between files, Escape quits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/imgload"
)

var errQuit = errors.New("quit")

// slide is one decoded file ready for drawing.
type slide struct {
	path  string
	image *ebiten.Image
}

// viewer implements ebiten.Game.
type viewer struct {
	slides  []slide
	current int
}

func main() {
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: imgview [-v] file...")
		os.Exit(2)
	}
	if *verbose {
		imgload.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	slides, err := loadSlides(flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	v := &viewer{slides: slides}
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	v.updateTitle()

	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}

// loadSlides decodes every file, skipping the ones that fail.
func loadSlides(paths []string) ([]slide, error) {
	var slides []slide
	for _, path := range paths {
		img, err := imgload.Decode(path)
		if err != nil {
			log.Printf("%s: %v", path, err)
			continue
		}
		// ebiten copies the pixels, so the decoded buffer can go right away.
		slides = append(slides, slide{path: path, image: ebiten.NewImageFromImage(img.NRGBA())})
		img.Release()
	}
	if len(slides) == 0 {
		return nil, errors.New("imgview: no image could be decoded")
	}
	return slides, nil
}

func (v *viewer) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return errQuit
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		v.step(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		v.step(-1)
	}
	return nil
}

func (v *viewer) step(delta int) {
	v.current = wrapIndex(v.current, delta, len(v.slides))
	v.updateTitle()
}

// wrapIndex moves i by delta within [0, n).
func wrapIndex(i, delta, n int) int {
	return ((i+delta)%n + n) % n
}

func (v *viewer) updateTitle() {
	s := v.slides[v.current]
	b := s.image.Bounds()
	ebiten.SetWindowTitle(fmt.Sprintf("%s (%dx%d) [%d/%d]",
		s.path, b.Dx(), b.Dy(), v.current+1, len(v.slides)))
}

func (v *viewer) Draw(screen *ebiten.Image) {
	img := v.slides[v.current].image

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	fw, fh := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	scale, offsetX, offsetY := aspectFit(float64(sw), float64(sh), fw, fh)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	screen.DrawImage(img, op)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// aspectFit scales a frame to fit the view and centers it.
func aspectFit(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}
