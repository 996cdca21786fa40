package gauge

import "image"

// MeanBrightness returns the mean grayscale luma of the whole frame.
func MeanBrightness(img *image.RGBA) float64 {
	b := img.Bounds()
	return meanLuma(img, 0, b.Dy())
}

// TopBandBrightness returns the mean grayscale luma of the top 1/6 horizontal
// band of the frame, the strip the gauges sit in. Round-start flashes light
// this band up before anything else.
func TopBandBrightness(img *image.RGBA) float64 {
	b := img.Bounds()
	band := b.Dy() / 6
	if band < 1 {
		band = b.Dy()
	}
	return meanLuma(img, 0, band)
}

func meanLuma(img *image.RGBA, y0, y1 int) float64 {
	b := img.Bounds()
	w := b.Dx()
	if w <= 0 || y1 <= y0 {
		return 0
	}
	var sum uint64
	for y := y0; y < y1; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			i := x * 4
			r, g, bb := row[i], row[i+1], row[i+2]
			sum += uint64((77*uint32(r) + 150*uint32(g) + 29*uint32(bb)) >> 8)
		}
	}
	return float64(sum) / float64(w*(y1-y0))
}
