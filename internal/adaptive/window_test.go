package adaptive

import "testing"

func TestScoreWindow_PushAndValues(t *testing.T) {
	w := newScoreWindow(3)

	if w.Len() != 0 {
		t.Errorf("Len() = %d, want 0", w.Len())
	}

	w.Push(0.1)
	w.Push(0.2)

	values := w.Values()
	if len(values) != 2 || values[0] != 0.1 || values[1] != 0.2 {
		t.Errorf("Values() = %v, want [0.1 0.2]", values)
	}
}

func TestScoreWindow_EvictsOldest(t *testing.T) {
	w := newScoreWindow(3)
	for _, v := range []float64{0.1, 0.2, 0.3, 0.4, 0.5} {
		w.Push(v)
	}

	if w.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", w.Len())
	}
	values := w.Values()
	want := []float64{0.3, 0.4, 0.5}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("Values()[%d] = %f, want %f", i, values[i], want[i])
		}
	}
}

func TestScoreWindow_NeverExceedsCapacity(t *testing.T) {
	w := newScoreWindow(20)
	for i := 0; i < 500; i++ {
		w.Push(float64(i))
		if w.Len() > 20 {
			t.Fatalf("Len() = %d after %d pushes, want <= 20", w.Len(), i+1)
		}
	}

	values := w.Values()
	if values[0] != 480 || values[19] != 499 {
		t.Errorf("window holds %v..%v, want 480..499", values[0], values[19])
	}
}

func TestScoreWindow_Tail(t *testing.T) {
	w := newScoreWindow(20)
	for i := 0; i < 10; i++ {
		w.Push(float64(i))
	}

	tail := w.Tail(5)
	if len(tail) != 5 || tail[0] != 5 || tail[4] != 9 {
		t.Errorf("Tail(5) = %v, want [5 6 7 8 9]", tail)
	}

	short := newScoreWindow(20)
	short.Push(1)
	if got := short.Tail(5); len(got) != 1 {
		t.Errorf("Tail(5) on short window = %v, want single entry", got)
	}
}
