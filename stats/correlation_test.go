package stats

import (
	"math"
	"testing"
)

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		y    []float64
		want float64
	}{
		{
			name: "Identical series",
			x:    []float64{1, 2, 3, 4, 5},
			y:    []float64{1, 2, 3, 4, 5},
			want: 1,
		},
		{
			name: "Perfect inverse",
			x:    []float64{1, 2, 3, 4, 5},
			y:    []float64{5, 4, 3, 2, 1},
			want: -1,
		},
		{
			name: "Scaled copy still correlates perfectly",
			x:    []float64{10, 20, 30, 40},
			y:    []float64{100, 200, 300, 400},
			want: 1,
		},
		{
			name: "Constant series is degenerate",
			x:    []float64{1, 2, 3, 4},
			y:    []float64{7, 7, 7, 7},
			want: 0,
		},
		{
			name: "Too short",
			x:    []float64{1},
			y:    []float64{2},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pearson(tt.x, tt.y); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAlignDailyZeroFills(t *testing.T) {
	a := []DailyPoint{
		{Date: day(0), Value: 10},
		{Date: day(1), Value: 20},
	}
	b := []DailyPoint{
		{Date: day(1), Value: 200},
		{Date: day(2), Value: 300},
	}

	x, y := AlignDaily(a, b)
	if len(x) != 3 || len(y) != 3 {
		t.Fatalf("expected 3 aligned days, got %d and %d", len(x), len(y))
	}

	wantX := []float64{10, 20, 0}
	wantY := []float64{0, 200, 300}
	for i := range wantX {
		if x[i] != wantX[i] {
			t.Errorf("x[%d]: expected %v, got %v", i, wantX[i], x[i])
		}
		if y[i] != wantY[i] {
			t.Errorf("y[%d]: expected %v, got %v", i, wantY[i], y[i])
		}
	}
}

func TestCorrelatePairs(t *testing.T) {
	gt := series(10, 20, 30, 40, 50, 60, 70, 80, 90, 100)
	ni := series(11, 19, 32, 41, 48, 62, 69, 81, 88, 102)

	pairs := CorrelatePairs(map[string][]DailyPoint{"GT": gt, "NI": ni}, 10)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}

	p := pairs[0]
	if p.A != "GT" || p.B != "NI" {
		t.Errorf("expected lexical pair GT/NI, got %s/%s", p.A, p.B)
	}
	if p.SampleDays != 10 {
		t.Errorf("expected 10 sample days, got %d", p.SampleDays)
	}
	if p.Coefficient < 0.95 {
		t.Errorf("expected strong positive correlation, got %v", p.Coefficient)
	}
}

func TestCorrelatePairsMinDays(t *testing.T) {
	gt := series(10, 20, 30)
	ni := series(11, 19, 32)

	if pairs := CorrelatePairs(map[string][]DailyPoint{"GT": gt, "NI": ni}, 10); len(pairs) != 0 {
		t.Errorf("expected no pairs under the overlap minimum, got %d", len(pairs))
	}
}

func TestCorrelatePairsCount(t *testing.T) {
	series5 := map[string][]DailyPoint{
		"GT": series(1, 2, 3),
		"NI": series(2, 3, 4),
		"SV": series(3, 4, 5),
		"CR": series(4, 5, 6),
		"HN": series(5, 6, 7),
	}

	// 5 countries, C(5,2) = 10 pairs
	pairs := CorrelatePairs(series5, 3)
	if len(pairs) != 10 {
		t.Errorf("expected 10 pairs, got %d", len(pairs))
	}
}
