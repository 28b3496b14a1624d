// Command imgload decodes image files and reports their geometry.
//
// Usage:
//
//	imgload [-o dir] [-raw] [-max n] [-v] file...
//
// With -o every decoded image is written to dir, as PNG by default or as
// headerless RGBA bytes with -raw.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/imgload"
	intImage "github.com/gogpu/imgload/internal/image"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type config struct {
	outDir  string
	raw     bool
	maxDim  int
	verbose bool
	files   []string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("imgload", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.outDir, "o", "", "write decoded images to this directory")
	fs.BoolVar(&cfg.raw, "raw", false, "write raw RGBA bytes instead of PNG")
	fs.IntVar(&cfg.maxDim, "max", imgload.MaxDimension, "maximum image width or height")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: imgload [-o dir] [-raw] [-max n] [-v] file...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.files = fs.Args()
	if len(cfg.files) == 0 {
		fs.Usage()
		return nil, errors.New("no input files")
	}
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	if cfg.verbose {
		imgload.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	loader := imgload.NewLoader(imgload.WithMaxDimension(cfg.maxDim))
	p := message.NewPrinter(language.English)

	failed := 0
	for _, path := range cfg.files {
		if err := process(loader, cfg, p, stdout, path); err != nil {
			fmt.Fprintf(stderr, "%s: %v (%v)\n", path, err, imgload.StatusOf(err))
			failed++
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func process(loader *imgload.Loader, cfg *config, p *message.Printer, stdout io.Writer, path string) error {
	img, err := loader.Decode(path)
	if err != nil {
		return err
	}
	defer img.Release()

	p.Fprintf(stdout, "%s: %dx%d, %d channels, %d bytes\n",
		path, img.Width, img.Height, img.Channels, img.Len)

	if cfg.outDir == "" {
		return nil
	}
	return export(img, cfg, path)
}

func export(img *imgload.DecodedImage, cfg *config, path string) error {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	if cfg.raw {
		out := filepath.Join(cfg.outDir, base+".rgba")
		if err := os.WriteFile(out, img.Pix, 0o600); err != nil {
			return fmt.Errorf("write raw: %w", err)
		}
		return nil
	}

	w, h := int(img.Width), int(img.Height)
	buf, err := intImage.FromRaw(img.Pix, w, h, intImage.FormatRGBA8, w*imgload.Channels)
	if err != nil {
		return fmt.Errorf("wrap pixels: %w", err)
	}
	return buf.SavePNG(filepath.Join(cfg.outDir, base+".png"))
}
