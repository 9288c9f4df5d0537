package wave

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/notewise/internal/analysis/shared"
	"github.com/farcloser/notewise/internal/wavtest"
)

func writeFixture(t *testing.T, left, right []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")
	if err := wavtest.WriteStereo(path, left, right); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	return path
}

func TestReadSelectsChannel(t *testing.T) {
	left := []int{1, 2, 3, -4}
	right := []int{-100, 200, -32768, 32767}
	path := writeFixture(t, left, right)

	waveform, err := Read(path, shared.ChannelRight)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if waveform.Len() != len(right) {
		t.Fatalf("expected %d samples, got %d", len(right), waveform.Len())
	}

	for i, want := range right {
		if waveform.Samples[i] != float64(want) {
			t.Fatalf("sample %d: expected %d, got %f", i, want, waveform.Samples[i])
		}
	}

	waveform, err = Read(path, shared.ChannelLeft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, want := range left {
		if waveform.Samples[i] != float64(want) {
			t.Fatalf("left sample %d: expected %d, got %f", i, want, waveform.Samples[i])
		}
	}

	if waveform.Format.SampleRate != shared.SampleRate {
		t.Fatalf("expected sample rate %d, got %d", shared.SampleRate, waveform.Format.SampleRate)
	}
}

func TestReadTruncated(t *testing.T) {
	samples := wavtest.Sine(440, 1000, 1000)
	path := writeFixture(t, samples, samples)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	// Drop the last 100 stereo frames while the header still announces them.
	if err = os.Truncate(path, info.Size()-400); err != nil {
		t.Fatal(err)
	}

	_, err = Read(path, shared.ChannelRight)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.wav"), shared.ChannelRight)
	if !errors.Is(err, fault.ErrReadFailure) {
		t.Fatalf("expected ErrReadFailure, got %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a riff container")), shared.ChannelRight)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestDecodeInvalidChannel(t *testing.T) {
	path := writeFixture(t, []int{0}, []int{0})

	_, err := Read(path, 2)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}

	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrUnsupportedFormat to wrap ErrDecode, got %v", err)
	}
}
