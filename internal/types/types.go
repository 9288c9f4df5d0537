//nolint:staticcheck // too dumb on Db vs. DB
package types

import "fmt"

type BitDepth uint

const (
	Depth16 BitDepth = 16
)

// PCMFormat describes the interleaved PCM layout a waveform was decoded from.
type PCMFormat struct {
	SampleRate int
	BitDepth   BitDepth
	Channels   uint
}

// FeatureLen is the number of components in a FeatureVector.
const FeatureLen = 3

/*
Feature Interpretation

All three components are expressed in standard deviations of the frame's magnitude spectrum.

## Deviation (peak z-score inside the note's semitone band)

| Deviation | Interpretation                                 |
|-----------|------------------------------------------------|
| < 0       | Band quieter than the frame average            |
| 0-3       | Noise, leakage from a neighbouring note        |
| 3-10      | Likely sounding, or a strong overtone          |
| > 10      | Sounding. Dominant partial of the frame        |

## Peakiness (discrete second derivative at the peak bin)

| Peakiness | Interpretation                                 |
|-----------|------------------------------------------------|
| <= 0      | No peak. Slope or flat noise                   |
| 0-2       | Broad bump, unresolved                         |
| > 2       | Narrow, tone-like peak                         |

## Relative fundamental

Deviation of the note minus the strongest of the bands an octave (f/2), an octave and a fifth (f/3)
and two octaves (f/4) below it.

| RelFundamental | Interpretation                                  |
|----------------|-------------------------------------------------|
| < 0            | A lower note explains this peak as an overtone  |
| ~ 0            | Ambiguous                                       |
| > 0            | Stronger than any fundamental it could belong to|
*/

// FeatureVector holds the features of one (frame, note) pair.
type FeatureVector [FeatureLen]float64

func (f FeatureVector) Deviation() float64      { return f[0] }
func (f FeatureVector) Peakiness() float64      { return f[1] }
func (f FeatureVector) RelFundamental() float64 { return f[2] }

// Rows converts feature vectors into classifier rows. Each row is a fresh slice.
func Rows(features []FeatureVector) [][]float64 {
	rows := make([][]float64, len(features))
	for i := range features {
		row := features[i]
		rows[i] = row[:]
	}

	return rows
}

// Accuracy counts correct classifications per class.
type Accuracy struct {
	CorrectMembers    int
	Members           int
	CorrectNonMembers int
	NonMembers        int
}

// MemberRate returns the fraction of members classified as members, or 0 without members.
func (a Accuracy) MemberRate() float64 {
	if a.Members == 0 {
		return 0
	}

	return float64(a.CorrectMembers) / float64(a.Members)
}

// NonMemberRate returns the fraction of non-members classified as non-members, or 0 without non-members.
func (a Accuracy) NonMemberRate() float64 {
	if a.NonMembers == 0 {
		return 0
	}

	return float64(a.CorrectNonMembers) / float64(a.NonMembers)
}

func (a Accuracy) String() string {
	return fmt.Sprintf("positive %d/%d, negative %d/%d", a.CorrectMembers, a.Members, a.CorrectNonMembers, a.NonMembers)
}

/*
Level Interpretation

Levels are measured on the analyzed channel only, in dBFS. Digital silence reports -120.

| Measurement      | Value         | Effect on features                                         |
|------------------|---------------|------------------------------------------------------------|
| Silent           | true          | Zero spectrum: every deviation is NaN                      |
| PeakDb           | < -40         | Very quiet: leakage and dither dominate                    |
| ClippingEvents   | > 0           | Flat-topped waveform: spurious harmonics, lower relFund    |
| DCOffsetDb       | > -40         | Inflates bin 0 and the frame mean                          |
*/

// Level summarizes the amplitude of one decoded channel.
type Level struct {
	PeakDb         float64
	RmsDb          float64
	DCOffset       float64 // normalized mean, -1..1
	DCOffsetDb     float64
	ClippingEvents uint64 // runs of 2+ consecutive full-scale samples
	ClippedSamples uint64
	Silent         bool
	Samples        uint64
}
