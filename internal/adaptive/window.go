package adaptive

// scoreWindow is a fixed-capacity ring buffer over performance scores.
// Pushing beyond capacity evicts the oldest entry, making the
// "last N scores" invariant structural instead of ad hoc slicing.
type scoreWindow struct {
	buf  []float64
	head int // index of the oldest entry
	n    int
}

func newScoreWindow(capacity int) *scoreWindow {
	return &scoreWindow{buf: make([]float64, capacity)}
}

// Push appends a score, evicting the oldest when full.
func (w *scoreWindow) Push(v float64) {
	if w.n < len(w.buf) {
		w.buf[(w.head+w.n)%len(w.buf)] = v
		w.n++
		return
	}
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
}

// Len returns the number of stored scores.
func (w *scoreWindow) Len() int {
	return w.n
}

// Values returns the stored scores ordered oldest to newest.
func (w *scoreWindow) Values() []float64 {
	out := make([]float64, w.n)
	for i := 0; i < w.n; i++ {
		out[i] = w.buf[(w.head+i)%len(w.buf)]
	}
	return out
}

// Tail returns up to the most recent n scores, oldest first.
func (w *scoreWindow) Tail(n int) []float64 {
	values := w.Values()
	if len(values) > n {
		values = values[len(values)-n:]
	}
	return values
}
