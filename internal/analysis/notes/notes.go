package notes

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/farcloser/notewise/internal/analysis/spectrum"
	"github.com/farcloser/notewise/internal/types"
)

// ErrResolution reports a semitone band that spans no spectral bin at the chosen frame size.
var ErrResolution = errors.New("insufficient frequency resolution")

// Half of a semitone band, as a frequency ratio: a quarter tone.
var quarterTone = math.Pow(2, 1.0/24)

// Subharmonic divisors checked by RelFundamental: f/2, f/3 and f/4.
var fundamentalDivisors = []float64{2, 3, 4}

// Labeler tells which notes are known to sound, or known to be silent, in a frame.
type Labeler interface {
	Members(frame int) []int
	NonMembers(frame int) []int
}

// NoteSet extracts per-note features from one spectrogram, for notes on an equal-tempered scale.
type NoteSet struct {
	spec   *spectrum.Spectrogram
	freqs  []float64
	labels Labeler

	// Computed once, on first successful access.
	members      []types.FeatureVector
	membersOK    bool
	nonMembers   []types.FeatureVector
	nonMembersOK bool
}

// New returns a NoteSet of count notes starting at reference Hz: freq[i] = reference * 2^(i/12).
// labels may be nil, in which case no note is a member or a non-member.
func New(spec *spectrum.Spectrogram, reference float64, count int, labels Labeler) *NoteSet {
	freqs := make([]float64, count)
	for i := range freqs {
		freqs[i] = reference * math.Pow(2, float64(i)/12)
	}

	return &NoteSet{
		spec:   spec,
		freqs:  freqs,
		labels: labels,
	}
}

// Spectrogram returns the analyzed spectrogram.
func (n *NoteSet) Spectrogram() *spectrum.Spectrogram {
	return n.spec
}

// Frequencies returns the note frequencies in Hz.
func (n *NoteSet) Frequencies() []float64 {
	return n.freqs
}

// NumNotes returns the number of notes available for analysis.
func (n *NoteSet) NumNotes() int {
	return len(n.freqs)
}

// NumFrames returns the number of frames of the underlying spectrogram.
func (n *NoteSet) NumFrames() int {
	return n.spec.NumFrames()
}

// Band returns the integer bin range [lower, upper) covering one semitone centered on frequency.
func (n *NoteSet) Band(frequency float64) (int, int, error) {
	lower := int(math.Ceil(n.spec.IndexOf(frequency / quarterTone)))
	upper := int(math.Ceil(n.spec.IndexOf(frequency * quarterTone)))

	if lower == upper {
		return 0, 0, fmt.Errorf("%w: %.2f Hz at frame size %d", ErrResolution, frequency, n.spec.FrameSize())
	}

	return lower, upper, nil
}

// peak returns the highest deviation inside the band of frequency, and the lowest bin reaching it.
func (n *NoteSet) peak(frame int, frequency float64) (float64, int, error) {
	lower, upper, err := n.Band(frequency)
	if err != nil {
		return 0, 0, err
	}

	devs := make([]float64, upper-lower)
	for i := range devs {
		devs[i], err = n.spec.Deviation(frame, float64(lower+i))
		if err != nil {
			return 0, 0, err
		}
	}

	best := floats.MaxIdx(devs)

	return devs[best], lower + best, nil
}

// Peak returns the maximum deviation within the semitone band of frequency.
func (n *NoteSet) Peak(frame int, frequency float64) (float64, error) {
	value, _, err := n.peak(frame, frequency)

	return value, err
}

// PeakIndex returns the bin of the maximum deviation within the semitone band of frequency.
// Ties resolve to the lowest bin.
func (n *NoteSet) PeakIndex(frame int, frequency float64) (int, error) {
	_, index, err := n.peak(frame, frequency)

	return index, err
}

// Deviation returns the peak deviation of a note.
func (n *NoteSet) Deviation(frame, note int) (float64, error) {
	return n.Peak(frame, n.freqs[note])
}

// Peakiness is the discrete second derivative of the deviation at the note's peak bin.
// Large positive values mean a narrow, tone-like peak.
func (n *NoteSet) Peakiness(frame, note int) (float64, error) {
	index, err := n.PeakIndex(frame, n.freqs[note])
	if err != nil {
		return 0, err
	}

	var around [3]float64
	for i := range around {
		around[i], err = n.spec.Deviation(frame, float64(index-1+i))
		if err != nil {
			return 0, err
		}
	}

	return around[1] - 0.5*(around[0]+around[2]), nil
}

// RelFundamental returns the note's peak deviation minus the strongest deviation found at f/2, f/3 and f/4.
// Subharmonic bands too narrow to resolve fall back to the interpolated deviation at their exact frequency.
func (n *NoteSet) RelFundamental(frame, note int) (float64, error) {
	freq := n.freqs[note]
	funMags := make([]float64, len(fundamentalDivisors))

	for i, divisor := range fundamentalDivisors {
		sub := freq / divisor

		mag, err := n.Peak(frame, sub)
		if errors.Is(err, ErrResolution) {
			mag, err = n.spec.Deviation(frame, n.spec.IndexOf(sub))
		}

		if err != nil {
			return 0, err
		}

		funMags[i] = mag
	}

	noteMag, err := n.Peak(frame, freq)
	if err != nil {
		return 0, err
	}

	return noteMag - floats.Max(funMags), nil
}

// Feature returns [deviation, peakiness, relFundamental] for a note in a frame.
func (n *NoteSet) Feature(frame, note int) (types.FeatureVector, error) {
	var (
		feature types.FeatureVector
		err     error
	)

	if feature[0], err = n.Deviation(frame, note); err != nil {
		return feature, err
	}

	if feature[1], err = n.Peakiness(frame, note); err != nil {
		return feature, err
	}

	if feature[2], err = n.RelFundamental(frame, note); err != nil {
		return feature, err
	}

	return feature, nil
}

// Deviations returns the deviation of every note in a frame.
func (n *NoteSet) Deviations(frame int) ([]float64, error) {
	return n.allNotes(frame, n.Deviation)
}

// Peakinesses returns the peakiness of every note in a frame.
func (n *NoteSet) Peakinesses(frame int) ([]float64, error) {
	return n.allNotes(frame, n.Peakiness)
}

// RelFundamentals returns the relative fundamental strength of every note in a frame.
func (n *NoteSet) RelFundamentals(frame int) ([]float64, error) {
	return n.allNotes(frame, n.RelFundamental)
}

func (n *NoteSet) allNotes(frame int, measure func(frame, note int) (float64, error)) ([]float64, error) {
	out := make([]float64, len(n.freqs))

	for note := range out {
		value, err := measure(frame, note)
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", note, err)
		}

		out[note] = value
	}

	return out, nil
}

// MemberFeatures returns the feature vectors of every (frame, note) pair labelled as sounding.
func (n *NoteSet) MemberFeatures() ([]types.FeatureVector, error) {
	if n.membersOK {
		return n.members, nil
	}

	features, err := n.collect(n.membersOf)
	if err != nil {
		return nil, err
	}

	n.members, n.membersOK = features, true

	return features, nil
}

// NonMemberFeatures returns the feature vectors of every (frame, note) pair labelled as silent.
func (n *NoteSet) NonMemberFeatures() ([]types.FeatureVector, error) {
	if n.nonMembersOK {
		return n.nonMembers, nil
	}

	features, err := n.collect(n.nonMembersOf)
	if err != nil {
		return nil, err
	}

	n.nonMembers, n.nonMembersOK = features, true

	return features, nil
}

func (n *NoteSet) membersOf(frame int) []int {
	if n.labels == nil {
		return nil
	}

	return n.labels.Members(frame)
}

func (n *NoteSet) nonMembersOf(frame int) []int {
	if n.labels == nil {
		return nil
	}

	return n.labels.NonMembers(frame)
}

func (n *NoteSet) collect(label func(frame int) []int) ([]types.FeatureVector, error) {
	features := []types.FeatureVector{}

	for frame := range n.NumFrames() {
		for _, note := range label(frame) {
			if note < 0 || note >= len(n.freqs) {
				return nil, fmt.Errorf("%w: note %d of %d", spectrum.ErrRange, note, len(n.freqs))
			}

			feature, err := n.Feature(frame, note)
			if err != nil {
				return nil, fmt.Errorf("frame %d, note %d: %w", frame, note, err)
			}

			features = append(features, feature)
		}
	}

	slog.Debug("notes.collect", "frames", n.NumFrames(), "vectors", len(features))

	return features, nil
}
