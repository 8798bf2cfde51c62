package systems

import "github.com/pthm-cable/blobworld/components"

// BallStride is the number of float32 values per ball: x, y, radius, hue.
const BallStride = 4

// RenderBuffer is a fixed-capacity flat ball array reused across frames.
// Slots past the active count are zero.
type RenderBuffer struct {
	data  []float32
	count int
}

// NewRenderBuffer allocates a buffer for up to maxBalls balls.
func NewRenderBuffer(maxBalls int) *RenderBuffer {
	return &RenderBuffer{data: make([]float32, maxBalls*BallStride)}
}

// Fill writes entities into the buffer, truncating at capacity, and returns
// the number written.
func (rb *RenderBuffer) Fill(ents []components.Entity) int {
	n := min(len(ents), rb.Capacity())
	for i := 0; i < n; i++ {
		e := &ents[i]
		o := i * BallStride
		rb.data[o] = float32(e.X)
		rb.data[o+1] = float32(e.Y)
		rb.data[o+2] = float32(e.Radius)
		rb.data[o+3] = float32(e.Hue)
	}
	// Only the tail that was active last frame needs zeroing.
	if n < rb.count {
		clear(rb.data[n*BallStride : rb.count*BallStride])
	}
	rb.count = n
	return n
}

// Data returns the backing array. It is overwritten by the next Fill.
func (rb *RenderBuffer) Data() []float32 {
	return rb.data
}

// Count returns the number of active balls.
func (rb *RenderBuffer) Count() int {
	return rb.count
}

// Capacity returns the maximum number of balls.
func (rb *RenderBuffer) Capacity() int {
	return len(rb.data) / BallStride
}
