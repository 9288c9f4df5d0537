package notewise

import (
	"log/slog"

	"github.com/farcloser/notewise/internal/analysis/level"
	"github.com/farcloser/notewise/internal/analysis/notes"
	"github.com/farcloser/notewise/internal/analysis/spectrum"
	"github.com/farcloser/notewise/internal/analysis/wave"
	"github.com/farcloser/notewise/internal/types"
)

/*
Usage:

// Features of every note in every frame
features, level, err := notewise.Extract("notes/a3.wav", notewise.DefaultConfig())
for _, f := range features {
    fmt.Printf("frame %d note %d: %.2f\n", f.Frame, f.Note, f.Feature.Deviation())
}
fmt.Printf("peak %.1f dBFS\n", level.PeakDb)

// Labelled analysis, for training
set, err := notewise.Open("majors/c3.wav", notewise.DefaultConfig(), labels)
members, err := set.MemberFeatures()

// Train and evaluate on the reference datasets
opts := notewise.DefaultEvaluateOptions()
opts.Workers = 8
evaluation, err := notewise.Evaluate(ctx, "datasets", opts)
for _, c := range evaluation.Classifiers {
    fmt.Printf("%s: %s\n", c.Title, c.Testing)
}

*/

// Open decodes a recording, computes its spectrogram and returns its note set.
// labels may be nil when only unlabelled features are needed.
func Open(path string, cfg Config, labels notes.Labeler) (*notes.NoteSet, error) {
	set, _, err := analyze(path, cfg, labels)

	return set, err
}

func analyze(path string, cfg Config, labels notes.Labeler) (*notes.NoteSet, *types.Level, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, nil, err
	}

	waveform, err := wave.Read(path, cfg.Channel.index())
	if err != nil {
		return nil, nil, err
	}

	lvl := level.Measure(waveform.Samples)
	warnLevel(path, cfg.Channel, lvl)

	spec, err := spectrum.Compute(waveform.Samples, cfg.SampleRate, cfg.FrameSize)
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("notewise.Open", "path", path, "samples", waveform.Len(), "frames", spec.NumFrames())

	return notes.New(spec, cfg.ReferenceFreq, cfg.NoteCount, labels), lvl, nil
}

// Extract returns the feature vector of every note in every frame of a recording, frame by frame, along with the
// level of the analyzed channel.
func Extract(path string, cfg Config) ([]NoteFeature, *types.Level, error) {
	set, lvl, err := analyze(path, cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	features := make([]NoteFeature, 0, set.NumFrames()*set.NumNotes())

	for frame := range set.NumFrames() {
		for note, freq := range set.Frequencies() {
			feature, err := set.Feature(frame, note)
			if err != nil {
				return nil, nil, err
			}

			features = append(features, NoteFeature{
				Frame:     frame,
				Note:      note,
				Frequency: freq,
				Feature:   feature,
			})
		}
	}

	return features, lvl, nil
}

// Measure returns the amplitude statistics of the analyzed channel of a recording.
func Measure(path string, cfg Config) (*types.Level, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	waveform, err := wave.Read(path, cfg.Channel.index())
	if err != nil {
		return nil, err
	}

	return level.Measure(waveform.Samples), nil
}

func warnLevel(path string, channel Channel, lvl *types.Level) {
	switch {
	case lvl.Silent:
		slog.Warn("analyzed channel is silent, features are undefined", "path", path, "channel", channel.String())
	case lvl.ClippingEvents > 0:
		slog.Warn("analyzed channel clips", "path", path, "channel", channel.String(),
			"events", lvl.ClippingEvents, "samples", lvl.ClippedSamples)
	default:
		slog.Debug("notewise.Open level", "path", path, "peak dBFS", lvl.PeakDb, "rms dBFS", lvl.RmsDb,
			"dc offset dB", lvl.DCOffsetDb)
	}
}
