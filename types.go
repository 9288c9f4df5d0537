package notewise

import (
	"errors"
	"fmt"
	"strings"

	"github.com/farcloser/notewise/internal/analysis/notes"
	"github.com/farcloser/notewise/internal/analysis/shared"
	"github.com/farcloser/notewise/internal/analysis/spectrum"
	"github.com/farcloser/notewise/internal/analysis/wave"
	"github.com/farcloser/notewise/internal/bayes"
	"github.com/farcloser/notewise/internal/dataset"
	"github.com/farcloser/notewise/internal/types"
)

var (
	// ErrInvalidConfig reports a negative or nonsensical configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")

	ErrDecode            = wave.ErrDecode
	ErrUnsupportedFormat = wave.ErrUnsupportedFormat
	ErrFrameSize         = spectrum.ErrFrameSize
	ErrRange             = spectrum.ErrRange
	ErrResolution        = notes.ErrResolution
	ErrLearningData      = bayes.ErrLearningData
	ErrNoPositiveCases   = bayes.ErrNoPositiveCases
	ErrNoNegativeCases   = bayes.ErrNoNegativeCases
	ErrNotLearned        = bayes.ErrNotLearned
	ErrUnknownKind       = dataset.ErrUnknownKind
	ErrRoot              = dataset.ErrRoot
)

// Channel selects which side of a stereo recording is analyzed.
type Channel int

const (
	ChannelDefault Channel = iota // Right.
	ChannelLeft
	ChannelRight
)

func (c Channel) String() string {
	switch c {
	case ChannelLeft:
		return "left"
	case ChannelRight, ChannelDefault:
		return "right"
	}

	return "unknown"
}

func (c Channel) index() int {
	if c == ChannelLeft {
		return shared.ChannelLeft
	}

	return shared.ChannelRight
}

// ParseChannel converts a string to a Channel value.
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(s) {
	case "right", "":
		return ChannelRight, nil
	case "left":
		return ChannelLeft, nil
	default:
		return 0, fmt.Errorf("%w: unknown channel %q (valid: left, right)", ErrInvalidConfig, s)
	}
}

// Config describes how recordings are analyzed.
type Config struct {
	// SampleRate defines the frequency axis. Headers are not trusted: every recording is analyzed at this rate.
	SampleRate int
	// ReferenceFreq is the frequency of note 0, in Hz.
	ReferenceFreq float64
	// NoteCount is the number of semitones analyzed above and including the reference.
	NoteCount int
	// FrameSize is the number of samples per spectrum frame.
	FrameSize int
	// Channel is the analyzed side of the stereo recording.
	Channel Channel
}

// DefaultConfig returns the configuration the reference datasets were recorded for:
// 36 notes from c3 (134 Hz), eighth-of-a-second frames, right channel.
func DefaultConfig() Config {
	return Config{
		SampleRate:    shared.SampleRate,
		ReferenceFreq: 134.0,
		NoteCount:     36,
		FrameSize:     shared.SampleRate / 8,
		Channel:       ChannelRight,
	}
}

// applyDefaults replaces zero fields with their defaults and rejects negative ones.
func (c *Config) applyDefaults() error {
	defaults := DefaultConfig()

	if c.SampleRate == 0 {
		c.SampleRate = defaults.SampleRate
	}

	if c.ReferenceFreq == 0 {
		c.ReferenceFreq = defaults.ReferenceFreq
	}

	if c.NoteCount == 0 {
		c.NoteCount = defaults.NoteCount
	}

	if c.FrameSize == 0 {
		c.FrameSize = defaults.FrameSize
	}

	if c.Channel == ChannelDefault {
		c.Channel = defaults.Channel
	}

	if c.SampleRate < 0 || c.ReferenceFreq < 0 || c.NoteCount < 0 || c.FrameSize < 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidConfig, *c)
	}

	if c.Channel != ChannelLeft && c.Channel != ChannelRight {
		return fmt.Errorf("%w: channel %d", ErrInvalidConfig, c.Channel)
	}

	return nil
}

// NoteFeature is the feature vector of one note in one frame.
type NoteFeature struct {
	Frame     int
	Note      int
	Frequency float64
	Feature   types.FeatureVector
}

// Progress is told about every analyzed recording during Evaluate. Calls are serialized.
type Progress = dataset.ProgressFunc

// EvaluateOptions configures Evaluate.
type EvaluateOptions struct {
	Config Config

	// Kinds lists the datasets to evaluate, each with all of its recorded roots (default: every kind).
	Kinds []dataset.Kind
	// Workers bounds concurrent recording analysis (default: 1).
	Workers int
	// Seed drives the learning/testing splits. Classifier i is seeded with Seed+i.
	Seed uint64
	// LogDomain classifies on summed log-densities instead of products of densities.
	LogDomain bool
	// RepeatLastDataset feeds the combined classifier the last dataset once per dataset, instead of
	// every dataset once. This reproduces the historical published figures.
	RepeatLastDataset bool
	// Progress may be nil.
	Progress Progress
}

// DefaultEvaluateOptions returns options evaluating every dataset kind with the default configuration.
func DefaultEvaluateOptions() EvaluateOptions {
	return EvaluateOptions{
		Config:  DefaultConfig(),
		Kinds:   dataset.Kinds(),
		Workers: 1,
		Seed:    1,
	}
}

// ClassifierResult is the outcome of one trained classifier.
type ClassifierResult struct {
	Title      string
	Kinds      []string
	Recordings int
	Learning   types.Accuracy
	Testing    types.Accuracy
	Model      *bayes.Model
}

// Evaluation holds one classifier per dataset kind, followed by the combined classifier.
type Evaluation struct {
	RunID       string
	Config      Config
	Classifiers []ClassifierResult
}
