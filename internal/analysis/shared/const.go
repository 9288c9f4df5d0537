package shared

const (
	SampleRate     = 44100 // Hz, assumed for every recording
	BytesPerSample = 2     // 16-bit signed little-endian
	Channels       = 2     // interleaved stereo

	ChannelLeft  = 0
	ChannelRight = 1

	MaxValue16 = 32768.0 // 2^15, 16-bit signed PCM normalization divisor
	Max16      = 1<<15 - 1
	Min16      = -1 << 15
	FloorDb    = -120.0 // reported instead of -Inf for digital silence
)
