package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/farcloser/notewise/internal/analysis/notes"
)

// OpenFunc analyzes the recording at path, labelled with labels.
type OpenFunc func(ctx context.Context, path string, labels notes.Labeler) (*notes.NoteSet, error)

// ProgressFunc is told every time a recording of a kind has been analyzed. Calls are serialized.
type ProgressFunc func(kind Kind, done, total int)

// Recording is one analyzed recording of a dataset.
type Recording struct {
	Kind  Kind
	Root  int
	Path  string
	Notes *notes.NoteSet
}

// LoadOptions configures Load.
type LoadOptions struct {
	// NoteCount is the number of analyzed notes the labels refer to.
	NoteCount int
	// Workers bounds the number of recordings analyzed concurrently. Values below 1 mean 1.
	Workers int
	// Progress may be nil.
	Progress ProgressFunc
}

// Load analyzes the recordings of the given roots of a kind, below dir. Recordings are returned in root order.
// The first failure cancels the remaining work and is returned.
func Load(ctx context.Context, dir string, kind Kind, roots []int, open OpenFunc, opts LoadOptions) ([]*Recording, error) {
	slog.Debug("dataset.Load", "kind", kind.Name, "dir", dir, "roots", len(roots), "workers", opts.Workers)

	recordings := make([]*Recording, len(roots))

	// Validate everything before analyzing anything.
	for i, root := range roots {
		path, err := kind.Path(dir, root)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", kind.Name, err)
		}

		if _, err = kind.Labels(root, opts.NoteCount); err != nil {
			return nil, err
		}

		recordings[i] = &Recording{Kind: kind, Root: root, Path: path}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(opts.Workers, 1))

	var (
		mutex sync.Mutex
		done  int
	)

	for _, recording := range recordings {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			labels, err := kind.Labels(recording.Root, opts.NoteCount)
			if err != nil {
				return err
			}

			noteSet, err := open(groupCtx, recording.Path, labels)
			if err != nil {
				return err
			}

			recording.Notes = noteSet

			if opts.Progress != nil {
				mutex.Lock()
				done++
				opts.Progress(kind, done, len(recordings))
				mutex.Unlock()
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return recordings, nil
}
