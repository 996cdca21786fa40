package gauge

import (
	"image"
	"image/draw"

	"github.com/soocke/gauge-reader-go/config"
)

// ExtractBarRegion maps a reference rectangle (x1,y1,x2,y2 on the 1920x1080
// canvas) onto the actual frame resolution and crops it. The scaling is
// linear and independent per axis, so non-16:9 captures come through
// undistorted. Returns ok=false when the scaled rectangle does not fit the
// frame; that frame degrades to a default reading upstream.
func ExtractBarRegion(frame *image.RGBA, bar [4]int) (*image.RGBA, bool) {
	crop, ok := ScaledBarRect(frame, bar)
	if !ok {
		return nil, false
	}
	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(out, out.Bounds(), frame.SubImage(crop), crop.Min, draw.Src)
	return out, true
}

// ScaledBarRect maps a reference rectangle onto the frame's coordinate space
// without cropping. ok=false when the scaled rectangle does not fit.
func ScaledBarRect(frame *image.RGBA, bar [4]int) (image.Rectangle, bool) {
	if frame == nil {
		return image.Rectangle{}, false
	}
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}

	scaleX := float64(w) / float64(config.ReferenceWidth)
	scaleY := float64(h) / float64(config.ReferenceHeight)

	x1 := int(float64(bar[0]) * scaleX)
	y1 := int(float64(bar[1]) * scaleY)
	x2 := int(float64(bar[2]) * scaleX)
	y2 := int(float64(bar[3]) * scaleY)

	if x1 < 0 || y1 < 0 || x2 > w || y2 > h || x1 >= x2 || y1 >= y2 {
		return image.Rectangle{}, false
	}
	return image.Rect(b.Min.X+x1, b.Min.Y+y1, b.Min.X+x2, b.Min.Y+y2), true
}
