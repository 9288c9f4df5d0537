package spectrum

import (
	"errors"
	"fmt"
	"log/slog"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

var ErrFrameSize = errors.New("invalid frame size")

// Spectrogram holds the discrete Fourier transform of consecutive, non-overlapping frames of a waveform,
// along with per-frame magnitude statistics. It is never mutated after construction.
type Spectrogram struct {
	frameSize  int
	sampleRate int

	frames     [][]complex128
	magnitudes [][]float64
	freqs      []float64

	// Statistics run over the full, symmetric spectrum, not just up to Nyquist.
	means   []float64
	stdDevs []float64
}

// Compute splits samples into floor(len/frameSize) frames and transforms each one.
// Trailing samples that do not fill a frame are dropped.
func Compute(samples []float64, sampleRate, frameSize int) (*Spectrogram, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrFrameSize, frameSize)
	}

	numFrames := len(samples) / frameSize

	slog.Debug("spectrum.Compute", "frames", numFrames, "frame size", frameSize, "dropped", len(samples)%frameSize)

	fft := fourier.NewCmplxFFT(frameSize)
	in := make([]complex128, frameSize)
	frames := make([][]complex128, numFrames)

	for i := range numFrames {
		for j, s := range samples[i*frameSize : (i+1)*frameSize] {
			in[j] = complex(s, 0)
		}

		frames[i] = fft.Coefficients(nil, in)
	}

	return FromFrames(frames, sampleRate, frameSize)
}

// FromFrames builds a Spectrogram from already transformed frames, each of length frameSize.
func FromFrames(frames [][]complex128, sampleRate, frameSize int) (*Spectrogram, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrFrameSize, frameSize)
	}

	spec := &Spectrogram{
		frameSize:  frameSize,
		sampleRate: sampleRate,
		frames:     frames,
		magnitudes: make([][]float64, len(frames)),
		freqs:      make([]float64, frameSize),
		means:      make([]float64, len(frames)),
		stdDevs:    make([]float64, len(frames)),
	}

	for k := range spec.freqs {
		spec.freqs[k] = float64(k) * float64(sampleRate) / float64(frameSize)
	}

	for i, frame := range frames {
		if len(frame) != frameSize {
			return nil, fmt.Errorf("%w: frame %d has %d bins, expected %d", ErrFrameSize, i, len(frame), frameSize)
		}

		mags := make([]float64, frameSize)
		for k, c := range frame {
			mags[k] = cmplx.Abs(c)
		}

		spec.magnitudes[i] = mags
		spec.means[i], spec.stdDevs[i] = stat.PopMeanStdDev(mags, nil)
	}

	return spec, nil
}

// NumFrames returns the number of transformed frames.
func (s *Spectrogram) NumFrames() int {
	return len(s.frames)
}

// FrameSize returns the number of samples (and bins) per frame.
func (s *Spectrogram) FrameSize() int {
	return s.frameSize
}

// SampleRate returns the sample rate the frequency axis was built with.
func (s *Spectrogram) SampleRate() int {
	return s.sampleRate
}

// Frequencies returns the frequency in Hz of every bin. The axis is shared by all frames.
func (s *Spectrogram) Frequencies() []float64 {
	return s.freqs
}

// Frame returns the complex spectrum of frame i. Callers must not modify it.
func (s *Spectrogram) Frame(i int) []complex128 {
	return s.frames[i]
}

// Mean returns the mean magnitude of frame i.
func (s *Spectrogram) Mean(i int) float64 {
	return s.means[i]
}

// StdDev returns the population standard deviation of the magnitudes of frame i.
func (s *Spectrogram) StdDev(i int) float64 {
	return s.stdDevs[i]
}
