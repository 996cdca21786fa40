package video

import (
	"image"
	"testing"
)

func TestAcquireFrameDimensions(t *testing.T) {
	f := acquireFrame(image.Rect(0, 0, 64, 32))
	if f.Rect.Dx() != 64 || f.Rect.Dy() != 32 {
		t.Fatalf("bounds = %v, want 64x32", f.Rect)
	}
	if f.Stride != 64*4 {
		t.Errorf("stride = %d, want %d", f.Stride, 64*4)
	}
	if len(f.Pix) != 64*32*4 {
		t.Errorf("pix length = %d, want %d", len(f.Pix), 64*32*4)
	}
}

func TestRecycledFrameIsResized(t *testing.T) {
	big := acquireFrame(image.Rect(0, 0, 128, 128))
	RecycleFrame(big)

	small := acquireFrame(image.Rect(0, 0, 16, 8))
	if small.Rect.Dx() != 16 || small.Rect.Dy() != 8 {
		t.Fatalf("bounds = %v, want 16x8", small.Rect)
	}
	if len(small.Pix) != 16*8*4 {
		t.Errorf("pix length = %d, want %d", len(small.Pix), 16*8*4)
	}
	if small.Stride != 16*4 {
		t.Errorf("stride = %d, want %d", small.Stride, 16*4)
	}
}

func TestAcquireFrameDegenerateRect(t *testing.T) {
	f := acquireFrame(image.Rect(0, 0, 0, 10))
	if len(f.Pix) != 0 {
		t.Fatalf("degenerate rect produced %d pixel bytes", len(f.Pix))
	}
	RecycleFrame(f) // must not pollute the pool
	RecycleFrame(nil)
}
