// Package level measures the amplitude of a decoded channel: peak, RMS, DC offset, clipping and digital silence.
package level

import (
	"math"

	"github.com/farcloser/notewise/internal/analysis/shared"
	"github.com/farcloser/notewise/internal/types"
)

// Measure scans 16-bit samples, as decoded, without normalization.
func Measure(samples []float64) *types.Level {
	result := &types.Level{
		Samples: uint64(len(samples)),
		Silent:  true,
	}

	var (
		peak, sum, sumSquares float64
		consecutive           uint64
	)

	closeRun := func() {
		if consecutive >= 2 {
			result.ClippingEvents++
			result.ClippedSamples += consecutive
		}

		consecutive = 0
	}

	for _, sample := range samples {
		if sample != 0 {
			result.Silent = false
		}

		if sample == shared.Max16 || sample == shared.Min16 {
			consecutive++
		} else {
			closeRun()
		}

		normalized := sample / shared.MaxValue16
		peak = max(peak, math.Abs(normalized))
		sum += normalized
		sumSquares += normalized * normalized
	}

	closeRun()

	if len(samples) == 0 {
		result.PeakDb, result.RmsDb, result.DCOffsetDb = shared.FloorDb, shared.FloorDb, shared.FloorDb

		return result
	}

	count := float64(len(samples))
	result.DCOffset = sum / count
	result.PeakDb = toDb(peak)
	result.RmsDb = toDb(math.Sqrt(sumSquares / count))
	result.DCOffsetDb = toDb(math.Abs(result.DCOffset))

	return result
}

func toDb(amplitude float64) float64 {
	db := 20 * math.Log10(amplitude)
	if math.IsInf(db, -1) {
		return shared.FloorDb
	}

	return db
}
