package video

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"gocv.io/x/gocv"
)

// Processor decodes frames from a video container through OpenCV. It owns an
// open capture handle: call Close when done. Not safe for concurrent use —
// seeking and reading share one decoder.
type Processor struct {
	path       string
	cap        *gocv.VideoCapture
	mat        gocv.Mat
	fps        float64
	frameCount int
	width      int
	height     int
	durationMS int64
	closed     bool
}

// Open opens the video at path and reads its metadata. A missing file or an
// unreadable container is fatal: no partial output should ever be produced
// from a stream that never opened.
func Open(path string) (*Processor, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("video %s: %w", path, err)
	}
	vc, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("open video %s: container not readable", path)
	}

	p := &Processor{
		path:       path,
		cap:        vc,
		mat:        gocv.NewMat(),
		fps:        vc.Get(gocv.VideoCaptureFPS),
		frameCount: int(vc.Get(gocv.VideoCaptureFrameCount)),
		width:      int(vc.Get(gocv.VideoCaptureFrameWidth)),
		height:     int(vc.Get(gocv.VideoCaptureFrameHeight)),
	}
	if p.fps > 0 {
		p.durationMS = int64(float64(p.frameCount) / p.fps * 1000)
	}
	return p, nil
}

// Width returns the stream width in pixels.
func (p *Processor) Width() int { return p.width }

// Height returns the stream height in pixels.
func (p *Processor) Height() int { return p.height }

// FPS returns the container's frames-per-second.
func (p *Processor) FPS() float64 { return p.fps }

// FrameCount returns the container's total frame count.
func (p *Processor) FrameCount() int { return p.frameCount }

// DurationMS returns the stream duration in milliseconds.
func (p *Processor) DurationMS() int64 { return p.durationMS }

// Frame decodes the frame at the given timestamp. ok=false for timestamps
// outside the stream or frames the decoder cannot produce.
func (p *Processor) Frame(timestampMS int64) (*image.RGBA, bool) {
	if p.closed || timestampMS < 0 || timestampMS > p.durationMS || p.fps <= 0 {
		return nil, false
	}
	frameNum := int(float64(timestampMS) / 1000.0 * p.fps)
	return p.frameAt(frameNum)
}

// FrameByNumber decodes the frame with the given index.
func (p *Processor) FrameByNumber(frameNum int) (*image.RGBA, bool) {
	if p.closed || frameNum < 0 || frameNum >= p.frameCount {
		return nil, false
	}
	return p.frameAt(frameNum)
}

func (p *Processor) frameAt(frameNum int) (*image.RGBA, bool) {
	// Set reports nothing; a failed seek surfaces as a failed Read.
	p.cap.Set(gocv.VideoCapturePosFrames, float64(frameNum))
	if !p.cap.Read(&p.mat) || p.mat.Empty() {
		return nil, false
	}
	img, err := p.mat.ToImage()
	if err != nil {
		return nil, false
	}
	// Copy into a pooled frame. ToImage allocates fresh backing per call; the
	// copy lets the analysis loop recycle one full-resolution buffer per
	// stream instead of retaining a new 8MB slice every sample.
	b := img.Bounds()
	out := acquireFrame(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out, true
}

// Close releases the capture handle and decode buffer. Safe to call twice.
func (p *Processor) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.mat.Close()
	return p.cap.Close()
}

var _ Source = (*Processor)(nil)
