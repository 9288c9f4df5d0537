package level

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSilence(t *testing.T) {
	for _, samples := range [][]float64{nil, make([]float64, 100)} {
		result := Measure(samples)

		if !result.Silent {
			t.Fatalf("%d samples: expected silence", len(samples))
		}

		if result.PeakDb != -120 || result.RmsDb != -120 || result.DCOffsetDb != -120 {
			t.Fatalf("%d samples: expected -120 dB floors, got %+v", len(samples), result)
		}
	}
}

func TestFullScaleSquare(t *testing.T) {
	samples := make([]float64, 1000)
	for i := range samples {
		switch {
		case i%100 == 99:
			samples[i] = 0
		case (i/100)%2 == 0:
			samples[i] = 32767
		default:
			samples[i] = -32768
		}
	}

	result := Measure(samples)

	if result.Silent {
		t.Fatal("unexpected silence")
	}

	// Ten half-periods, each a run of 99 full-scale samples closed by a zero crossing.
	if result.ClippingEvents != 10 || result.ClippedSamples != 990 {
		t.Fatalf("expected 10 events over 990 samples, got %d over %d", result.ClippingEvents, result.ClippedSamples)
	}

	if !almostEqual(result.PeakDb, 0, 1e-9) {
		t.Fatalf("expected 0 dBFS peak, got %f", result.PeakDb)
	}
}

func TestSingleFullScaleSampleIsNotClipping(t *testing.T) {
	result := Measure([]float64{0, 32767, 0, -32768, 0})

	if result.ClippingEvents != 0 {
		t.Fatalf("expected no clipping, got %d events", result.ClippingEvents)
	}
}

func TestSineLevels(t *testing.T) {
	samples := make([]float64, 44100)
	for i := range samples {
		samples[i] = 16384*math.Sin(2*math.Pi*441*float64(i)/44100) + 3277
	}

	result := Measure(samples)

	// Half-scale sine riding on a 0.1 offset.
	if !almostEqual(result.DCOffset, 0.1, 1e-3) {
		t.Fatalf("expected a 0.1 DC offset, got %f", result.DCOffset)
	}

	if !almostEqual(result.DCOffsetDb, -20, 0.1) {
		t.Fatalf("expected -20 dB offset, got %f", result.DCOffsetDb)
	}

	if !almostEqual(result.PeakDb, 20*math.Log10(0.6), 0.01) {
		t.Fatalf("expected %.2f dB peak, got %f", 20*math.Log10(0.6), result.PeakDb)
	}
}
