package notewise

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/farcloser/notewise/internal/analysis/notes"
	"github.com/farcloser/notewise/internal/bayes"
	"github.com/farcloser/notewise/internal/dataset"
	"github.com/farcloser/notewise/internal/types"
)

const allTitle = "All"

// labelledData holds the member and non-member rows of one recording.
type labelledData struct {
	members    [][]float64
	nonMembers [][]float64
}

// Evaluate loads every recording of the requested dataset kinds below dir, trains one classifier per kind on a
// random half of its labelled vectors, plus a combined classifier, and measures accuracy on both halves.
func Evaluate(ctx context.Context, dir string, opts EvaluateOptions) (*Evaluation, error) {
	cfg := opts.Config
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = dataset.Kinds()
	}

	evaluation := &Evaluation{
		RunID:  uuid.New().String(),
		Config: cfg,
	}

	log := slog.With("run", evaluation.RunID)
	log.Info("evaluation started", "dir", dir, "kinds", len(kinds), "workers", opts.Workers, "seed", opts.Seed)

	open := openLabelled(cfg)
	perKind := make([][]labelledData, len(kinds))

	for i, kind := range kinds {
		recordings, err := dataset.Load(ctx, dir, kind, kind.Roots(), open, dataset.LoadOptions{
			NoteCount: cfg.NoteCount,
			Workers:   opts.Workers,
			Progress:  opts.Progress,
		})
		if err != nil {
			return nil, err
		}

		perKind[i], err = labelled(recordings)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind.Name, err)
		}
	}

	for i, kind := range kinds {
		result, err := train(kind.Title, []string{kind.Name}, perKind[i], opts, uint64(i)) //nolint:gosec // small index
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind.Name, err)
		}

		evaluation.Classifiers = append(evaluation.Classifiers, *result)
	}

	combined, names := combine(kinds, perKind, opts.RepeatLastDataset)

	result, err := train(allTitle, names, combined, opts, uint64(len(kinds))) //nolint:gosec // small count
	if err != nil {
		return nil, fmt.Errorf("%s: %w", allTitle, err)
	}

	evaluation.Classifiers = append(evaluation.Classifiers, *result)

	log.Info("evaluation done", "classifiers", len(evaluation.Classifiers))

	return evaluation, nil
}

// openLabelled analyzes a recording and extracts its member and non-member features on the calling worker.
// The note set caches them for labelled.
func openLabelled(cfg Config) dataset.OpenFunc {
	return func(ctx context.Context, path string, labels notes.Labeler) (*notes.NoteSet, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		set, err := Open(path, cfg, labels)
		if err != nil {
			return nil, err
		}

		if _, err = set.MemberFeatures(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		if _, err = set.NonMemberFeatures(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		return set, nil
	}
}

func labelled(recordings []*dataset.Recording) ([]labelledData, error) {
	data := make([]labelledData, len(recordings))

	for i, recording := range recordings {
		members, err := recording.Notes.MemberFeatures()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", recording.Path, err)
		}

		nonMembers, err := recording.Notes.NonMemberFeatures()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", recording.Path, err)
		}

		data[i] = labelledData{members: types.Rows(members), nonMembers: types.Rows(nonMembers)}
	}

	return data, nil
}

// combine returns the data of the combined classifier and the kinds it was fed with.
func combine(kinds []dataset.Kind, perKind [][]labelledData, repeatLast bool) ([]labelledData, []string) {
	combined := []labelledData{}
	names := []string{}

	for i := range kinds {
		source := i
		if repeatLast {
			source = len(kinds) - 1
		}

		combined = append(combined, perKind[source]...)
		names = append(names, kinds[source].Name)
	}

	return combined, names
}

func train(title string, kinds []string, data []labelledData, opts EvaluateOptions, index uint64) (*ClassifierResult, error) {
	classifier := bayes.New(bayes.Options{Seed: opts.Seed + index, LogDomain: opts.LogDomain})

	for _, recording := range data {
		if err := classifier.AddLabelledData(recording.members, recording.nonMembers); err != nil {
			return nil, err
		}
	}

	slog.Info("training classifier", "title", title, "recordings", len(data))

	if err := classifier.Learn(); err != nil {
		return nil, err
	}

	learning, err := classifier.LearningAccuracy()
	if err != nil {
		return nil, err
	}

	testing, err := classifier.TestingAccuracy()
	if err != nil {
		return nil, err
	}

	return &ClassifierResult{
		Title:      title,
		Kinds:      kinds,
		Recordings: len(data),
		Learning:   learning,
		Testing:    testing,
		Model:      classifier.Model(),
	}, nil
}
