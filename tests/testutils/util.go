// Package testutils provides test infrastructure for notewise integration tests.
package testutils

import (
	"math"
	"os"
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"

	"github.com/farcloser/notewise"
	"github.com/farcloser/notewise/internal/dataset"
	"github.com/farcloser/notewise/internal/wavtest"
)

// FrameSize is the default number of samples per spectrum frame.
const FrameSize = 44100 / 8

// Setup creates a test case configured to run the notewise binary.
func Setup() *test.Case {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
	binaryPath := filepath.Join(projectRoot, "bin", "notewise")

	return agar.Setup(binaryPath)
}

// NoteFrequency returns the frequency of a note index under the default configuration.
func NoteFrequency(note int) float64 {
	return notewise.DefaultConfig().ReferenceFreq * math.Pow(2, float64(note)/12)
}

func check(helpers test.Helpers, err error) {
	if err != nil {
		helpers.T().Log(err.Error())
		helpers.T().FailNow()
	}
}

// Tone writes a recording of the given notes sounding on the right channel, frames frames long, and returns its path.
func Tone(data test.Data, helpers test.Helpers, frames int, notes ...int) string {
	freqs := make([]float64, len(notes))
	for i, note := range notes {
		freqs[i] = NoteFrequency(note)
	}

	path := data.Temp().Path("tone.wav")
	right := wavtest.Chord(freqs, 5000, frames*FrameSize)

	check(helpers, wavtest.WriteStereo(path, make([]int, len(right)), right))

	return path
}

// Garbage writes a file that is not a WAVE container and returns its path.
func Garbage(data test.Data, helpers test.Helpers) string {
	path := data.Temp().Path("garbage.wav")

	check(helpers, os.WriteFile(path, []byte("definitely not a riff container"), 0o600))

	return path
}

// Dataset writes every recording of the given kinds, two frames each, and returns the dataset directory.
func Dataset(data test.Data, helpers test.Helpers, kinds ...dataset.Kind) string {
	dir := data.Temp().Dir("dataset")

	for _, kind := range kinds {
		check(helpers, os.MkdirAll(filepath.Join(dir, kind.Directory), 0o755))

		for _, root := range kind.Roots() {
			notes := []int{}
			for _, offset := range kind.Offsets {
				notes = append(notes, root+offset)
			}

			freqs := make([]float64, len(notes))
			for i, note := range notes {
				freqs[i] = NoteFrequency(note)
			}

			path, err := kind.Path(dir, root)
			check(helpers, err)

			right := wavtest.Chord(freqs, 5000, 2*FrameSize)
			check(helpers, wavtest.WriteStereo(path, make([]int, len(right)), right))
		}
	}

	return dir
}
