package video

import (
	"image"
	"sync"
)

// Reusable frame pool to reduce heap churn from decoding: every sampled frame
// is a full-resolution RGBA (8MB at 1080p), allocated, read once by the
// analysis fold and dropped. The decoder copies converted pixels into a
// pooled buffer; after the fold is done with a frame it hands it back through
// RecycleFrame. If callers never recycle, behavior degrades gracefully to
// plain per-frame allocation.

var framePool sync.Pool // stores *image.RGBA

// acquireFrame returns a reusable RGBA image sized to rect. The returned Pix
// length exactly matches rect area * 4, and Stride is width*4.
func acquireFrame(rect image.Rectangle) *image.RGBA {
	w, h := rect.Dx(), rect.Dy()
	if w <= 0 || h <= 0 {
		return &image.RGBA{Rect: rect}
	}
	needed := w * h * 4
	var img *image.RGBA
	if v := framePool.Get(); v != nil {
		img = v.(*image.RGBA)
	}
	if img == nil || cap(img.Pix) < needed {
		return &image.RGBA{Pix: make([]byte, needed), Stride: w * 4, Rect: rect}
	}
	img.Stride = w * 4
	img.Rect = rect
	img.Pix = img.Pix[:needed]
	return img
}

// RecycleFrame returns a frame to the pool for reuse. The caller must not
// touch the frame afterwards. Nil and zero-sized frames are ignored.
func RecycleFrame(img *image.RGBA) {
	if img == nil || cap(img.Pix) == 0 {
		return
	}
	framePool.Put(img)
}
