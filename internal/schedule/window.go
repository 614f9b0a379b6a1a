package schedule

// window is a fixed-capacity FIFO of float64 samples. Appending beyond
// capacity evicts the oldest sample in O(1).
type window struct {
	buf   []float64
	start int
	size  int
}

func newWindow(capacity int) *window {
	return &window{buf: make([]float64, capacity)}
}

// Append adds a sample, evicting the oldest when full.
func (w *window) Append(v float64) {
	if w.size < len(w.buf) {
		w.buf[(w.start+w.size)%len(w.buf)] = v
		w.size++
		return
	}
	w.buf[w.start] = v
	w.start = (w.start + 1) % len(w.buf)
}

// Len returns the number of stored samples.
func (w *window) Len() int {
	return w.size
}

// At returns the i-th sample, oldest first.
func (w *window) At(i int) float64 {
	return w.buf[(w.start+i)%len(w.buf)]
}

// Last returns the most recent sample. Callers must check Len first.
func (w *window) Last() float64 {
	return w.At(w.size - 1)
}

// Values returns the samples oldest-first as a fresh slice.
func (w *window) Values() []float64 {
	out := make([]float64, w.size)
	for i := 0; i < w.size; i++ {
		out[i] = w.At(i)
	}
	return out
}
