// Package wavtest synthesizes WAVE fixtures for tests.
package wavtest

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const sampleRate = 44100

// Sine returns n samples of a sine wave at the given frequency and amplitude.
func Sine(frequency, amplitude float64, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = int(math.Round(amplitude * math.Sin(2*math.Pi*frequency*float64(i)/sampleRate)))
	}

	return out
}

// Chord sums sine waves of equal amplitude.
func Chord(frequencies []float64, amplitude float64, n int) []int {
	out := make([]int, n)

	for _, freq := range frequencies {
		for i, v := range Sine(freq, amplitude, n) {
			out[i] += v
		}
	}

	return out
}

// WriteStereo writes a 16-bit 44100 Hz stereo WAVE file. Both channels must have the same length.
func WriteStereo(path string, left, right []int) error {
	if len(left) != len(right) {
		return fmt.Errorf("channel lengths differ: %d != %d", len(left), len(right))
	}

	file, err := os.Create(path) //nolint:gosec // test fixture path
	if err != nil {
		return err
	}

	encoder := wav.NewEncoder(file, sampleRate, 16, 2, 1)

	data := make([]int, 0, 2*len(left))
	for i := range left {
		data = append(data, left[i], right[i])
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err = encoder.Write(buf); err != nil {
		_ = file.Close()

		return err
	}

	if err = encoder.Close(); err != nil {
		_ = file.Close()

		return err
	}

	return file.Close()
}

// WriteMono writes the same signal on both channels.
func WriteMono(path string, samples []int) error {
	return WriteStereo(path, samples, samples)
}
