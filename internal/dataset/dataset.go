// Package dataset describes the labelled recording collections used to train and evaluate note classifiers.
//
// A collection is a directory of WAVE recordings, one per root note, named after the root: <dir>/<kind>/<name>.wav.
// Every recording of a kind sounds the same chord shape, transposed to its root, for its whole duration.
package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrUnknownKind reports a dataset kind name that is not recognized.
	ErrUnknownKind = errors.New("unknown dataset kind")
	// ErrRoot reports a root note without a recording name, or whose chord does not fit the analyzed notes.
	ErrRoot = errors.New("invalid root note")
)

// noteNames are the recording names, starting from the reference note c3.
var noteNames = []string{
	"c3", "cs3", "d3", "ds3", "e3", "f3", "fs3", "g3", "gs3", "a3", "as3", "b3",
	"c4", "cs4", "d4", "ds4", "e4", "f4", "fs4", "g4", "gs4", "a4", "as4", "b4",
	"c5",
}

// Kind is a recording scenario: which notes sound, relative to the root, and where the recordings live.
type Kind struct {
	// Name identifies the kind on the command line.
	Name string
	// Title is used in reports.
	Title string
	// Directory holds the recordings, relative to the dataset root.
	Directory string
	// Offsets are the sounding notes, in semitones above the root. The first is always 0.
	Offsets []int
	// RootCount is the number of recorded roots, starting at c3.
	RootCount int
}

var (
	Single      = Kind{Name: "single", Title: "Single Notes", Directory: "notes", Offsets: []int{0}, RootCount: 25}
	Major       = Kind{Name: "major", Title: "Majors", Directory: "majors", Offsets: []int{0, 4, 7}, RootCount: 25}
	Octave      = Kind{Name: "octave", Title: "Octaves", Directory: "octaves", Offsets: []int{0, 12}, RootCount: 13}
	OctaveMajor = Kind{
		Name:      "octave-major",
		Title:     "Octave-Majors",
		Directory: "oct-majors",
		Offsets:   []int{0, 12, 16, 19},
		RootCount: 13,
	}
	DoubleMajor = Kind{
		Name:      "double-major",
		Title:     "Double Majors",
		Directory: "major-majors",
		Offsets:   []int{0, 4, 7, 12, 16, 19},
		RootCount: 13,
	}
)

// Kinds returns every kind, in report order.
func Kinds() []Kind {
	return []Kind{Single, Major, Octave, OctaveMajor, DoubleMajor}
}

// KindNames returns the names of every kind, in report order.
func KindNames() []string {
	names := []string{}
	for _, kind := range Kinds() {
		names = append(names, kind.Name)
	}

	return names
}

// ParseKind looks a kind up by name.
func ParseKind(name string) (Kind, error) {
	for _, kind := range Kinds() {
		if kind.Name == strings.ToLower(strings.TrimSpace(name)) {
			return kind, nil
		}
	}

	return Kind{}, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownKind, name, strings.Join(KindNames(), ", "))
}

// NoteName returns the recording name of a note index, counted in semitones from c3.
func NoteName(note int) (string, error) {
	if note < 0 || note >= len(noteNames) {
		return "", fmt.Errorf("%w: no recording name for note %d", ErrRoot, note)
	}

	return noteNames[note], nil
}

// Roots returns every recorded root of the kind.
func (k Kind) Roots() []int {
	roots := make([]int, k.RootCount)
	for i := range roots {
		roots[i] = i
	}

	return roots
}

// Path returns the recording of a root, below the dataset directory.
func (k Kind) Path(dir string, root int) (string, error) {
	name, err := NoteName(root)
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, k.Directory, name+".wav"), nil
}

// Labels returns the notes sounding in a recording of the given root, and the notes silent in it,
// among noteCount analyzed notes. Silent notes are all the others, so the two sets partition the notes.
func (k Kind) Labels(root, noteCount int) (*Labels, error) {
	members := make([]int, 0, len(k.Offsets))
	for _, offset := range k.Offsets {
		note := root + offset
		if root < 0 || note >= noteCount {
			return nil, fmt.Errorf("%w: %s chord on root %d exceeds %d notes", ErrRoot, k.Name, root, noteCount)
		}

		members = append(members, note)
	}

	nonMembers := make([]int, 0, noteCount-len(members))
	for note := range noteCount {
		if !slices.Contains(members, note) {
			nonMembers = append(nonMembers, note)
		}
	}

	return &Labels{members: members, nonMembers: nonMembers}, nil
}

// Labels holds the same member and non-member notes for every frame of a recording.
type Labels struct {
	members    []int
	nonMembers []int
}

// Members returns the sounding notes.
func (l *Labels) Members(_ int) []int {
	return l.members
}

// NonMembers returns the silent notes.
func (l *Labels) NonMembers(_ int) []int {
	return l.nonMembers
}
