package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/farcloser/notewise/internal/analysis/notes"
	"github.com/farcloser/notewise/internal/analysis/spectrum"
)

const noteCount = 36

func TestNoteName(t *testing.T) {
	cases := map[int]string{0: "c3", 1: "cs3", 11: "b3", 12: "c4", 21: "a4", 24: "c5"}

	for note, want := range cases {
		got, err := NoteName(note)
		if err != nil {
			t.Fatalf("note %d: unexpected error: %v", note, err)
		}

		if got != want {
			t.Fatalf("note %d: expected %q, got %q", note, want, got)
		}
	}

	for _, note := range []int{-1, 25} {
		if _, err := NoteName(note); !errors.Is(err, ErrRoot) {
			t.Fatalf("note %d: expected ErrRoot, got %v", note, err)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, kind := range Kinds() {
		got, err := ParseKind(kind.Name)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kind.Name, err)
		}

		if got.Directory != kind.Directory {
			t.Fatalf("%s: expected directory %q, got %q", kind.Name, kind.Directory, got.Directory)
		}
	}

	if _, err := ParseKind("Octave-Major "); err != nil {
		t.Fatalf("names should be case and space insensitive: %v", err)
	}

	if _, err := ParseKind("minor"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestPath(t *testing.T) {
	path, err := OctaveMajor.Path("data", 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := filepath.Join("data", "oct-majors", "c4.wav"); path != want {
		t.Fatalf("expected %q, got %q", want, path)
	}
}

func TestLabelsPartitionNotes(t *testing.T) {
	for _, kind := range Kinds() {
		for _, root := range kind.Roots() {
			labels, err := kind.Labels(root, noteCount)
			if err != nil {
				t.Fatalf("%s root %d: unexpected error: %v", kind.Name, root, err)
			}

			members := labels.Members(0)
			nonMembers := labels.NonMembers(7)

			if len(members) != len(kind.Offsets) {
				t.Fatalf("%s root %d: expected %d members, got %v", kind.Name, root, len(kind.Offsets), members)
			}

			if len(members)+len(nonMembers) != noteCount {
				t.Fatalf("%s root %d: %d members and %d non-members do not cover %d notes",
					kind.Name, root, len(members), len(nonMembers), noteCount)
			}

			for _, note := range members {
				if slices.Contains(nonMembers, note) {
					t.Fatalf("%s root %d: note %d is both member and non-member", kind.Name, root, note)
				}
			}
		}
	}
}

func TestLabelsMajor(t *testing.T) {
	labels, err := Major.Labels(2, noteCount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(labels.Members(0), []int{2, 6, 9}) {
		t.Fatalf("expected members [2 6 9], got %v", labels.Members(0))
	}

	if labels.NonMembers(0)[0] != 0 || labels.NonMembers(0)[2] != 3 {
		t.Fatalf("unexpected non-members %v", labels.NonMembers(0))
	}
}

func TestLabelsOutOfRange(t *testing.T) {
	if _, err := DoubleMajor.Labels(17, noteCount); !errors.Is(err, ErrRoot) {
		t.Fatalf("expected ErrRoot, got %v", err)
	}

	if _, err := Single.Labels(-1, noteCount); !errors.Is(err, ErrRoot) {
		t.Fatalf("expected ErrRoot, got %v", err)
	}
}

func tinyNoteSet(t *testing.T) *notes.NoteSet {
	t.Helper()

	spec, err := spectrum.Compute([]float64{1, 2, 3, 4}, 4, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return notes.New(spec, 1, 1, nil)
}

func TestLoad(t *testing.T) {
	var (
		progress []int
		opened   atomic.Int64
	)

	noteSet := tinyNoteSet(t)
	open := func(context.Context, string, notes.Labeler) (*notes.NoteSet, error) {
		opened.Add(1)

		return noteSet, nil
	}

	recordings, err := Load(context.Background(), "data", Major, []int{3, 1, 2}, open, LoadOptions{
		NoteCount: noteCount,
		Workers:   2,
		Progress: func(kind Kind, done, total int) {
			if kind.Name != Major.Name || total != 3 {
				t.Errorf("unexpected progress %s %d/%d", kind.Name, done, total)
			}

			progress = append(progress, done)
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if opened.Load() != 3 {
		t.Fatalf("expected 3 recordings opened, got %d", opened.Load())
	}

	if !slices.Equal(progress, []int{1, 2, 3}) {
		t.Fatalf("expected progress 1, 2, 3, got %v", progress)
	}

	for i, root := range []int{3, 1, 2} {
		if recordings[i].Root != root || recordings[i].Notes == nil {
			t.Fatalf("recording %d: expected root %d, got %+v", i, root, recordings[i])
		}

		want, _ := Major.Path("data", root)
		if recordings[i].Path != want {
			t.Fatalf("recording %d: expected path %q, got %q", i, want, recordings[i].Path)
		}
	}
}

func TestLoadFailsFast(t *testing.T) {
	errBroken := errors.New("broken recording")

	noteSet := tinyNoteSet(t)
	open := func(_ context.Context, path string, _ notes.Labeler) (*notes.NoteSet, error) {
		if filepath.Base(path) == "d3.wav" {
			return nil, fmt.Errorf("%s: %w", path, errBroken)
		}

		return noteSet, nil
	}

	recordings, err := Load(context.Background(), "data", Single, Single.Roots(), open, LoadOptions{
		NoteCount: noteCount,
		Workers:   1,
	})
	if !errors.Is(err, errBroken) {
		t.Fatalf("expected the open error, got %v", err)
	}

	if recordings != nil {
		t.Fatal("a failed load must not return partial results")
	}
}

func TestLoadRejectsInvalidRootsUpFront(t *testing.T) {
	open := func(context.Context, string, notes.Labeler) (*notes.NoteSet, error) {
		t.Error("nothing should be opened")

		return nil, nil
	}

	_, err := Load(context.Background(), "data", Octave, []int{0, 30}, open, LoadOptions{NoteCount: noteCount})
	if !errors.Is(err, ErrRoot) {
		t.Fatalf("expected ErrRoot, got %v", err)
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	noteSet := tinyNoteSet(t)
	open := func(context.Context, string, notes.Labeler) (*notes.NoteSet, error) {
		return noteSet, nil
	}

	if _, err := Load(ctx, "data", Single, []int{0}, open, LoadOptions{NoteCount: noteCount}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
