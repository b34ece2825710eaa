package domain

import "testing"

func TestZoneClassifier_Classify(t *testing.T) {
	classifier := NewZoneClassifier(DefaultBounds())

	tests := []struct {
		name    string
		scores  []float64
		current float64
		want    Direction
		adjust  bool
	}{
		{
			name:    "struggling triggers decrease",
			scores:  []float64{0.2, 0.25, 0.1, 0.3, 0.2},
			current: 0.5,
			want:    DirectionDecrease,
			adjust:  true,
		},
		{
			name:    "excelling triggers increase",
			scores:  []float64{0.95, 0.92, 0.98, 0.91, 0.94},
			current: 0.5,
			want:    DirectionIncrease,
			adjust:  true,
		},
		{
			name:    "optimal zone maintains",
			scores:  []float64{0.5, 0.6, 0.7, 0.5, 0.6},
			current: 0.5,
			want:    DirectionMaintain,
		},
		{
			name:    "struggling at floor maintains",
			scores:  []float64{0.1, 0.1, 0.1},
			current: 0.1,
			want:    DirectionMaintain,
		},
		{
			name:    "excelling at ceiling maintains",
			scores:  []float64{0.95, 0.95, 0.95},
			current: 1.0,
			want:    DirectionMaintain,
		},
		{
			name:    "single low score decreases",
			scores:  []float64{0.1},
			current: 0.5,
			want:    DirectionDecrease,
			adjust:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.scores, tt.current)
			if got.Direction != tt.want {
				t.Errorf("Direction = %s, want %s", got.Direction, tt.want)
			}
			if got.ShouldAdjust != tt.adjust {
				t.Errorf("ShouldAdjust = %v, want %v", got.ShouldAdjust, tt.adjust)
			}
		})
	}
}

func TestZoneClassifier_WindowsLastFive(t *testing.T) {
	classifier := NewZoneClassifier(DefaultBounds())

	// Old struggling scores must not count once the last 5 are strong.
	scores := []float64{0.1, 0.1, 0.1, 0.95, 0.95, 0.95, 0.95, 0.95}
	got := classifier.Classify(scores, 0.5)

	if got.Direction != DirectionIncrease {
		t.Errorf("Direction = %s, want %s (only last 5 scores should count)", got.Direction, DirectionIncrease)
	}
}

func TestZoneClassifier_Zones(t *testing.T) {
	classifier := NewZoneClassifier(DefaultBounds())

	if z := classifier.Classify([]float64{0.1}, 0.5).Zone; z != ZoneTooHard {
		t.Errorf("Zone = %s, want %s", z, ZoneTooHard)
	}
	if z := classifier.Classify([]float64{0.95}, 0.5).Zone; z != ZoneTooEasy {
		t.Errorf("Zone = %s, want %s", z, ZoneTooEasy)
	}
	if z := classifier.Classify([]float64{0.5}, 0.5).Zone; z != ZoneOptimal {
		t.Errorf("Zone = %s, want %s", z, ZoneOptimal)
	}
}
