package video

import "image"

// Source yields decoded frames of a video stream by timestamp. Frame returns
// ok=false when the timestamp is outside the stream or the frame cannot be
// decoded; a single bad frame is recoverable and must not poison later calls.
// Implementations are deterministic: the same timestamp yields the same frame.
type Source interface {
	Frame(timestampMS int64) (*image.RGBA, bool)
	DurationMS() int64
}

// Iterator is a single-pass sweep over a Source at a fixed sampling interval:
// timestamps 0, interval, 2*interval, ... up to the stream duration. It is
// tied to the source's open decode handle and cannot be restarted — once
// exhausted it stays exhausted. Closing the underlying source remains the
// caller's responsibility on every exit path, including early termination.
type Iterator struct {
	src        Source
	intervalMS int64
	nextMS     int64
	done       bool
}

// NewIterator returns an iterator sampling src every intervalMS milliseconds.
func NewIterator(src Source, intervalMS int64) *Iterator {
	if intervalMS < 1 {
		intervalMS = 1
	}
	return &Iterator{src: src, intervalMS: intervalMS}
}

// Next yields the next sampled timestamp and its frame. ok=false signals
// exhaustion. A nil frame with ok=true means the frame at that timestamp
// could not be decoded; callers degrade it to a default reading and continue.
func (it *Iterator) Next() (timestampMS int64, frame *image.RGBA, ok bool) {
	if it.done || it.nextMS > it.src.DurationMS() {
		it.done = true
		return 0, nil, false
	}
	ts := it.nextMS
	it.nextMS += it.intervalMS
	f, decoded := it.src.Frame(ts)
	if !decoded {
		return ts, nil, true
	}
	return ts, f, true
}
