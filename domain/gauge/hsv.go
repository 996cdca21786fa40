package gauge

import "image"

// Color classification happens in HSV space using the OpenCV byte scaling:
// H in [0,180), S and V in [0,255]. Broadcast captures the analyzer was tuned
// on were graded in that space, so the bounds carry over unchanged.

// rgbToHSV converts one pixel to OpenCV-scaled HSV.
func rgbToHSV(r, g, b uint8) (h, s, v uint8) {
	maxC := r
	if g > maxC {
		maxC = g
	}
	if b > maxC {
		maxC = b
	}
	minC := r
	if g < minC {
		minC = g
	}
	if b < minC {
		minC = b
	}
	v = maxC
	delta := int(maxC) - int(minC)
	if maxC == 0 || delta == 0 {
		return 0, uint8(0), v
	}
	s = uint8((255*delta + int(maxC)/2) / int(maxC))

	var hue float64
	switch maxC {
	case r:
		hue = 60 * float64(int(g)-int(b)) / float64(delta)
	case g:
		hue = 120 + 60*float64(int(b)-int(r))/float64(delta)
	default:
		hue = 240 + 60*float64(int(r)-int(g))/float64(delta)
	}
	if hue < 0 {
		hue += 360
	}
	h = uint8(hue/2 + 0.5)
	if h >= 180 {
		h = 0
	}
	return h, s, v
}

// ColorRange is a closed interval in HSV space.
type ColorRange struct {
	Lower, Upper [3]int
}

func (r ColorRange) contains(h, s, v uint8) bool {
	return int(h) >= r.Lower[0] && int(h) <= r.Upper[0] &&
		int(s) >= r.Lower[1] && int(s) <= r.Upper[1] &&
		int(v) >= r.Lower[2] && int(v) <= r.Upper[2]
}

// ColorClass is a semantic color class: the union of one or two HSV intervals.
// Two intervals are needed only for hues that wrap around zero (red).
type ColorClass struct {
	ranges []ColorRange
}

// NewColorClass builds a single-interval class.
func NewColorClass(lower, upper [3]int) ColorClass {
	return ColorClass{ranges: []ColorRange{{Lower: lower, Upper: upper}}}
}

// NewWrappedColorClass builds a class from two intervals covering a hue that
// wraps around zero.
func NewWrappedColorClass(lower1, upper1, lower2, upper2 [3]int) ColorClass {
	return ColorClass{ranges: []ColorRange{
		{Lower: lower1, Upper: upper1},
		{Lower: lower2, Upper: upper2},
	}}
}

// Contains reports whether the HSV triple falls inside any of the class ranges.
func (c ColorClass) Contains(h, s, v uint8) bool {
	for _, r := range c.ranges {
		if r.contains(h, s, v) {
			return true
		}
	}
	return false
}

// Mask classifies every pixel of img against the class and returns a
// row-major binary mask of img.Bounds() size. An all-false mask is a valid
// result, not an error.
func Mask(img *image.RGBA, c ColorClass) []bool {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := make([]bool, w*h)
	idx := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			i := x * 4
			hh, ss, vv := rgbToHSV(row[i], row[i+1], row[i+2])
			mask[idx] = c.Contains(hh, ss, vv)
			idx++
		}
	}
	return mask
}

// MaskImage renders a w*h row-major mask as a grayscale image, white where
// the mask is set. Used by the single-frame debug dump for visual tuning.
func MaskImage(mask []bool, w, h int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, w, h))
	for i, m := range mask {
		if m {
			out.Pix[i] = 255
		}
	}
	return out
}

// countMask returns the number of set pixels in a mask.
func countMask(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}
