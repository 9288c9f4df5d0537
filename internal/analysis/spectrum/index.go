package spectrum

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrRange reports a bin index or frame outside of the spectrum.
var ErrRange = errors.New("index out of range")

// indexSnap is the relative distance under which a fractional index is taken to be an exact bin.
const indexSnap = 1e-9

// IndexOf maps a frequency in Hz to a fractional bin index.
// Bin frequencies map back to their exact integer index, whatever the frame size.
func (s *Spectrogram) IndexOf(frequency float64) float64 {
	index := frequency * float64(s.frameSize) / float64(s.sampleRate)

	if rounded := math.Round(index); math.Abs(index-rounded) <= indexSnap*max(1, math.Abs(rounded)) {
		return rounded
	}

	return index
}

// Magnitude returns |spectrum| of a frame at a possibly fractional bin index, linearly interpolated
// between the surrounding bins. At integer indices it is an exact lookup.
func (s *Spectrogram) Magnitude(frame int, index float64) (float64, error) {
	if frame < 0 || frame >= len(s.frames) {
		return 0, fmt.Errorf("%w: frame %d of %d", ErrRange, frame, len(s.frames))
	}

	lower := math.Floor(index)
	upper := math.Ceil(index)

	if lower < 0 || upper > float64(s.frameSize-1) || math.IsNaN(index) {
		return 0, fmt.Errorf("%w: bin %g of %d", ErrRange, index, s.frameSize)
	}

	mags := s.magnitudes[frame]
	lo := mags[int(lower)]
	hi := mags[int(upper)]

	return lo + (index-lower)*(hi-lo), nil
}

// Deviation returns the interpolated magnitude at index as a z-score against the frame's magnitude statistics.
func (s *Spectrogram) Deviation(frame int, index float64) (float64, error) {
	mag, err := s.Magnitude(frame, index)
	if err != nil {
		return 0, err
	}

	return (mag - s.means[frame]) / s.stdDevs[frame], nil
}

// Deviations returns the z-score of every bin of a frame.
func (s *Spectrogram) Deviations(frame int) ([]float64, error) {
	if frame < 0 || frame >= len(s.frames) {
		return nil, fmt.Errorf("%w: frame %d of %d", ErrRange, frame, len(s.frames))
	}

	out := make([]float64, s.frameSize)
	copy(out, s.magnitudes[frame])
	floats.AddConst(-s.means[frame], out)
	floats.Scale(1/s.stdDevs[frame], out)

	return out, nil
}
