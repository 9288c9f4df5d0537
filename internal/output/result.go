// Package output provides shared result serialization for notewise output.
package output

import (
	"fmt"

	"github.com/farcloser/notewise"
	"github.com/farcloser/notewise/internal/types"
)

// ConfigToMap converts an analysis configuration into its canonical map structure.
func ConfigToMap(cfg notewise.Config) map[string]any {
	return map[string]any{
		"sample_rate":    cfg.SampleRate,
		"reference_freq": cfg.ReferenceFreq,
		"note_count":     cfg.NoteCount,
		"frame_size":     cfg.FrameSize,
		"channel":        cfg.Channel.String(),
	}
}

// LevelToMap converts channel amplitude statistics into the canonical map structure.
func LevelToMap(lvl *types.Level) map[string]any {
	return map[string]any{
		"peak_db":         lvl.PeakDb,
		"rms_db":          lvl.RmsDb,
		"dc_offset":       lvl.DCOffset,
		"dc_offset_db":    lvl.DCOffsetDb,
		"clipping_events": lvl.ClippingEvents,
		"clipped_samples": lvl.ClippedSamples,
		"silent":          lvl.Silent,
		"samples":         lvl.Samples,
	}
}

// FeaturesToMap converts extracted features into the canonical map structure used for structured output.
// lvl may be nil.
func FeaturesToMap(cfg notewise.Config, lvl *types.Level, features []notewise.NoteFeature) map[string]any {
	rows := make([]any, 0, len(features))
	frames := 0

	for _, feature := range features {
		frames = max(frames, feature.Frame+1)
		rows = append(rows, map[string]any{
			"frame":           feature.Frame,
			"note":            feature.Note,
			"frequency":       feature.Frequency,
			"deviation":       feature.Feature.Deviation(),
			"peakiness":       feature.Feature.Peakiness(),
			"rel_fundamental": feature.Feature.RelFundamental(),
		})
	}

	meta := map[string]any{
		"config":   ConfigToMap(cfg),
		"frames":   frames,
		"features": rows,
	}

	if lvl != nil {
		meta["level"] = LevelToMap(lvl)
	}

	return meta
}

// AccuracyToMap converts classification counts into the canonical map structure.
func AccuracyToMap(acc types.Accuracy) map[string]any {
	return map[string]any{
		"correct_members":     acc.CorrectMembers,
		"members":             acc.Members,
		"member_rate":         acc.MemberRate(),
		"correct_non_members": acc.CorrectNonMembers,
		"non_members":         acc.NonMembers,
		"non_member_rate":     acc.NonMemberRate(),
	}
}

// EvaluationToMap converts an evaluation into the canonical map structure. Models are only included when debug is
// set.
func EvaluationToMap(evaluation *notewise.Evaluation, debug bool) map[string]any {
	classifiers := make([]any, 0, len(evaluation.Classifiers))

	for _, result := range evaluation.Classifiers {
		entry := map[string]any{
			"title":      result.Title,
			"kinds":      result.Kinds,
			"recordings": result.Recordings,
			"learning":   AccuracyToMap(result.Learning),
			"testing":    AccuracyToMap(result.Testing),
		}

		if debug && result.Model != nil {
			entry["model"] = map[string]any{
				"member_means":         result.Model.MemberMeans,
				"member_variances":     result.Model.MemberVariances,
				"non_member_means":     result.Model.NonMemberMeans,
				"non_member_variances": result.Model.NonMemberVariances,
			}
		}

		classifiers = append(classifiers, entry)
	}

	return map[string]any{
		"run_id":      evaluation.RunID,
		"config":      ConfigToMap(evaluation.Config),
		"classifiers": classifiers,
	}
}

// Percent formats a rate with three significant digits.
func Percent(rate float64) string {
	return fmt.Sprintf("%.3g%%", 100*rate)
}

// EvaluationSummary creates a user-friendly summary, one line per classifier.
func EvaluationSummary(evaluation *notewise.Evaluation) map[string]any {
	lines := make([]any, 0, len(evaluation.Classifiers))

	for _, result := range evaluation.Classifiers {
		lines = append(lines, fmt.Sprintf("%s: learning %s / %s, testing %s / %s (%d recordings)",
			result.Title,
			Percent(result.Learning.MemberRate()), Percent(result.Learning.NonMemberRate()),
			Percent(result.Testing.MemberRate()), Percent(result.Testing.NonMemberRate()),
			result.Recordings,
		))
	}

	return map[string]any{
		"run_id":      evaluation.RunID,
		"classifiers": lines,
	}
}
