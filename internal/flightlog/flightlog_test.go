package flightlog

import (
	"errors"
	"testing"
)

func sampleAt(t float64) Sample {
	return Sample{Elapsed: t, LoopPeriod: 0.01}
}

func TestNewSeriesOriginRemap(t *testing.T) {
	s, err := NewSeries([]Sample{sampleAt(5), sampleAt(5.5), sampleAt(7)})
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}

	want := []float64{0, 0.5, 2}
	for i, w := range want {
		if got := s.At(i).Elapsed; got != w {
			t.Errorf("At(%d).Elapsed = %g, want %g", i, got, w)
		}
	}
}

func TestNewSeriesDuplicateLastWins(t *testing.T) {
	a := sampleAt(1)
	a.PosX = 1
	b := sampleAt(1)
	b.PosX = 2

	s, err := NewSeries([]Sample{sampleAt(0), a, b})
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if got := s.Last().PosX; got != 2 {
		t.Errorf("Last().PosX = %g, want 2 (later duplicate should win)", got)
	}
}

func TestNewSeriesErrors(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
		wantErr error
	}{
		{"empty", nil, ErrSeriesTooShort},
		{"single sample", []Sample{sampleAt(0)}, ErrSeriesTooShort},
		{"duplicates collapse to one", []Sample{sampleAt(1), sampleAt(1)}, ErrSeriesTooShort},
		{"decreasing time", []Sample{sampleAt(0), sampleAt(2), sampleAt(1)}, ErrMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSeries(tt.samples); !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSeries() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeriesRangeBounds(t *testing.T) {
	s, err := NewSeries([]Sample{sampleAt(0), sampleAt(1), sampleAt(2.5)})
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}

	tMin, tMax := s.RangeBounds()
	if tMin != 0 || tMax != 2.5 {
		t.Errorf("RangeBounds() = (%g, %g), want (0, 2.5)", tMin, tMax)
	}
}

func TestSeriesNearestPair(t *testing.T) {
	s, err := NewSeries([]Sample{sampleAt(0), sampleAt(1), sampleAt(2), sampleAt(4)})
	if err != nil {
		t.Fatalf("NewSeries() error = %v", err)
	}

	tests := []struct {
		name         string
		t            float64
		wantA, wantB float64
	}{
		{"below range clamps to first", -1, 0, 0},
		{"at lower bound", 0, 0, 0},
		{"mid interval", 0.5, 0, 1},
		{"exactly on inner sample", 1, 1, 2},
		{"last interval", 3, 2, 4},
		{"at upper bound", 4, 4, 4},
		{"above range clamps to last", 9, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := s.NearestPair(tt.t)
			if a.Elapsed != tt.wantA || b.Elapsed != tt.wantB {
				t.Errorf("NearestPair(%g) = (%g, %g), want (%g, %g)",
					tt.t, a.Elapsed, b.Elapsed, tt.wantA, tt.wantB)
			}
		})
	}
}
