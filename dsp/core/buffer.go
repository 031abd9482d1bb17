package core

import "time"

// AudioBuffer is a mono sequence of normalised samples in [-1, 1] together
// with its sample rate.
//
// Processing functions treat an AudioBuffer as immutable: they read Samples
// and return new buffers.
type AudioBuffer struct {
	Samples    []float64
	SampleRate int
}

// NewAudioBuffer returns a buffer holding a copy of samples.
func NewAudioBuffer(samples []float64, sampleRate int) AudioBuffer {
	return AudioBuffer{
		Samples:    append([]float64(nil), samples...),
		SampleRate: sampleRate,
	}
}

// Len returns the number of samples.
func (b AudioBuffer) Len() int { return len(b.Samples) }

// Empty reports whether the buffer holds no samples.
func (b AudioBuffer) Empty() bool { return len(b.Samples) == 0 }

// Duration returns the playback length. It is zero for an unknown sample rate.
func (b AudioBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// Clone returns a deep copy of b.
func (b AudioBuffer) Clone() AudioBuffer {
	return NewAudioBuffer(b.Samples, b.SampleRate)
}

// Truncate returns a copy of b limited to at most n samples.
func (b AudioBuffer) Truncate(n int) AudioBuffer {
	if n < 0 {
		n = 0
	}
	if n > len(b.Samples) {
		n = len(b.Samples)
	}
	return NewAudioBuffer(b.Samples[:n], b.SampleRate)
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CommonLen returns min(len(a), len(b)).
func CommonLen(a, b []float64) int {
	return min(len(a), len(b))
}
