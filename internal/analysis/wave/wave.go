package wave

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-audio/wav"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/notewise/internal/analysis/shared"
	"github.com/farcloser/notewise/internal/types"
)

var (
	// ErrDecode reports a malformed or truncated container.
	ErrDecode = errors.New("decode error")
	// ErrUnsupportedFormat reports PCM that is not 16-bit two-channel.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrDecode)
)

// Waveform is one channel of a recording. It is never mutated after decoding.
type Waveform struct {
	Samples []float64
	Format  types.PCMFormat
	Channel int
}

// Len returns the number of samples.
func (w *Waveform) Len() int {
	return len(w.Samples)
}

// Read opens and decodes a WAVE file, keeping the given channel.
func Read(path string, channel int) (*Waveform, error) {
	slog.Debug("wave.Read", "path", path, "channel", channel)

	file, err := os.Open(path) //nolint:gosec // recordings are user-specified
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}
	defer file.Close()

	waveform, err := Decode(file, channel)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return waveform, nil
}

// Decode reads a 16-bit little-endian two-channel PCM WAVE stream and returns one channel.
// The sample rate in the header is recorded but never checked: every recording is analyzed as 44100 Hz.
func Decode(reader io.ReadSeeker, channel int) (*Waveform, error) {
	if channel < 0 || channel >= shared.Channels {
		return nil, fmt.Errorf("%w: channel %d", ErrUnsupportedFormat, channel)
	}

	decoder := wav.NewDecoder(reader)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%w: not a valid WAVE file", ErrDecode)
	}

	if decoder.WavAudioFormat != 1 || decoder.BitDepth != uint16(types.Depth16) ||
		decoder.NumChans != shared.Channels {
		return nil, fmt.Errorf("%w: format %d, %d-bit, %d channels",
			ErrUnsupportedFormat, decoder.WavAudioFormat, decoder.BitDepth, decoder.NumChans)
	}

	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if int(decoder.SampleRate) != shared.SampleRate {
		slog.Debug("wave.Decode: sample rate differs, frequency axis will be wrong",
			"sample rate", decoder.SampleRate, "assumed", shared.SampleRate)
	}

	frameSize := shared.BytesPerSample * shared.Channels
	numFrames := int(decoder.PCMLen()) / frameSize

	// The header is authoritative: fewer bytes than announced means the file is truncated.
	data := make([]byte, numFrames*frameSize)
	if _, err := io.ReadFull(decoder.PCMChunk, data); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: unexpected end of file (expected %d frames)", ErrDecode, numFrames)
		}

		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	offset := channel * shared.BytesPerSample
	samples := make([]float64, numFrames)

	for i := range samples {
		samples[i] = float64(int16(binary.LittleEndian.Uint16(data[i*frameSize+offset:]))) //nolint:gosec // two's complement conversion for signed PCM samples
	}

	slog.Debug("wave.Decode", "frames", numFrames, "sample rate", decoder.SampleRate)

	return &Waveform{
		Samples: samples,
		Format: types.PCMFormat{
			SampleRate: int(decoder.SampleRate),
			BitDepth:   types.Depth16,
			Channels:   uint(decoder.NumChans),
		},
		Channel: channel,
	}, nil
}
