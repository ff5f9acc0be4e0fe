package monitor

import (
	"sync"

	"github.com/vtarchitect/vtconsole/internal/fields"
)

// DefaultHistorySize is the default number of polls retained per field.
const DefaultHistorySize = 60

// History keeps the most recent float averages per field key in ring
// buffers, for the trend sparklines on the float cards.
type History struct {
	mu     sync.RWMutex
	size   int
	fields map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history with size samples per field.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:   size,
		fields: make(map[string]*ringBuffer),
	}
}

// Size returns the per-field capacity.
func (h *History) Size() int {
	return h.size
}

// Push appends one sample for every key in values.
func (h *History) Push(values fields.Map[float64]) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, p := range values {
		buf, ok := h.fields[p.Key]
		if !ok {
			buf = newRingBuffer(h.size)
			h.fields[p.Key] = buf
		}
		buf.push(p.Value)
	}
}

// Get returns up to count of the newest samples for key, oldest first.
func (h *History) Get(key string, count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.fields[key]
	if !ok {
		return nil
	}
	return buf.getLast(count)
}

// Count returns the number of samples stored for key.
func (h *History) Count(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	buf, ok := h.fields[key]
	if !ok {
		return 0
	}
	return buf.count
}

// ClearAll drops every sample. Averages over a different range are not
// comparable, so the dashboard clears history when the range changes.
func (h *History) ClearAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fields = make(map[string]*ringBuffer)
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order.
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)
	// head is the next write position, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}
	return result
}
