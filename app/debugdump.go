package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/soocke/gauge-reader-go/config"
	"github.com/soocke/gauge-reader-go/domain/gauge"
)

// writeDebugImages dumps the visual-tuning set for one frame: the full frame
// with both bar rectangles highlighted, each cropped bar, and the gold,
// health and damage masks per bar.
func writeDebugImages(cfg *config.Config, analyzer *gauge.Analyzer, frame *image.RGBA, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	annotated := image.NewRGBA(image.Rect(0, 0, frame.Bounds().Dx(), frame.Bounds().Dy()))
	draw.Draw(annotated, annotated.Bounds(), frame, frame.Bounds().Min, draw.Src)
	if r, ok := gauge.ScaledBarRect(frame, cfg.P1Bar); ok {
		drawRectOutline(annotated, r.Sub(frame.Bounds().Min), color.RGBA{G: 255, A: 255})
	}
	if r, ok := gauge.ScaledBarRect(frame, cfg.P2Bar); ok {
		drawRectOutline(annotated, r.Sub(frame.Bounds().Min), color.RGBA{R: 255, A: 255})
	}
	if err := writePNG(filepath.Join(outDir, "debug_original.png"), annotated); err != nil {
		return err
	}

	for _, p := range []struct {
		name string
		bar  [4]int
	}{
		{"p1", cfg.P1Bar},
		{"p2", cfg.P2Bar},
	} {
		crop, ok := gauge.ExtractBarRegion(frame, p.bar)
		if !ok {
			continue
		}
		if err := writePNG(filepath.Join(outDir, fmt.Sprintf("debug_%s_bar.png", p.name)), crop); err != nil {
			return err
		}
		gold, health, damage := analyzer.ClassMasks(crop)
		for _, m := range []struct {
			suffix string
			img    image.Image
		}{
			{"gold_mask", gold},
			{"health_mask", health},
			{"damage_mask", damage},
		} {
			path := filepath.Join(outDir, fmt.Sprintf("debug_%s_%s.png", p.name, m.suffix))
			if err := writePNG(path, m.img); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawRectOutline draws a 2px border just outside the given rectangle,
// clipped to the image, so the crop itself stays unobscured.
func drawRectOutline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for t := 1; t <= 2; t++ {
		for x := r.Min.X - t; x < r.Max.X+t; x++ {
			setIfInside(img, x, r.Min.Y-t, c)
			setIfInside(img, x, r.Max.Y+t-1, c)
		}
		for y := r.Min.Y - t; y < r.Max.Y+t; y++ {
			setIfInside(img, r.Min.X-t, y, c)
			setIfInside(img, r.Max.X+t-1, y, c)
		}
	}
}

func setIfInside(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
