// Package audiofile loads mono buffers from WAV and Ogg Vorbis files and
// writes processed buffers back as PCM WAV.
package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/jfreymuth/oggvorbis"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-denoise/dsp/core"
	"github.com/cwbudde/algo-denoise/dsp/resample"
)

// DefaultBitDepth is the PCM depth used by Save when none is given.
const DefaultBitDepth = 16

// WAV format tags accepted by the decoder.
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than WAV or Ogg.
	ErrUnsupportedFormat = errors.New("audiofile: unsupported format")
	// ErrInvalidWAV is returned when a WAV header cannot be parsed or the
	// file does not carry integer PCM.
	ErrInvalidWAV = errors.New("audiofile: invalid WAV file")
)

// Format identifies a container.
type Format int

const (
	FormatWAV Format = iota
	FormatOgg
)

func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatOgg:
		return "ogg"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// DetectFormat infers the container from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV, nil
	case ".ogg", ".oga":
		return FormatOgg, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Loader decodes audio files into mono buffers at a target sample rate.
type Loader struct {
	sampleRate int
	quality    resample.Quality
	log        logrus.FieldLogger
}

// Option configures a Loader.
type Option func(*Loader)

// WithSampleRate sets the rate every loaded buffer is converted to. Zero
// keeps the file's own rate.
func WithSampleRate(rate int) Option {
	return func(l *Loader) {
		if rate >= 0 {
			l.sampleRate = rate
		}
	}
}

// WithQuality selects the resampler quality.
func WithQuality(q resample.Quality) Option {
	return func(l *Loader) {
		l.quality = q
	}
}

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoader creates a Loader. Without options it converts to 44100 Hz.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		sampleRate: core.DefaultSampleRate,
		quality:    resample.QualityBalanced,
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load reads path, keeps its first channel and converts it to the target
// sample rate.
func (l *Loader) Load(path string) (core.AudioBuffer, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return core.AudioBuffer{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return core.AudioBuffer{}, fmt.Errorf("audiofile: could not open file: %w", err)
	}
	defer f.Close()

	buf, err := l.Read(f, format)
	if err != nil {
		return core.AudioBuffer{}, fmt.Errorf("audiofile: %s: %w", path, err)
	}

	return buf, nil
}

// Read decodes r as format and converts the result like Load.
func (l *Loader) Read(r io.ReadSeeker, format Format) (core.AudioBuffer, error) {
	var (
		buf      core.AudioBuffer
		channels int
		err      error
	)

	switch format {
	case FormatWAV:
		buf, channels, err = decodeWAV(r)
	case FormatOgg:
		buf, channels, err = decodeOgg(r)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return core.AudioBuffer{}, err
	}

	log := l.log.WithFields(logrus.Fields{
		"function":    "Loader.Read",
		"format":      format.String(),
		"channels":    channels,
		"sample_rate": buf.SampleRate,
		"samples":     buf.Len(),
	})

	if l.sampleRate == 0 || buf.SampleRate == l.sampleRate {
		log.Debug("Audio decoded")
		return buf, nil
	}

	out, err := resample.Buffer(buf, l.sampleRate, resample.WithQuality(l.quality))
	if err != nil {
		return core.AudioBuffer{}, fmt.Errorf("audiofile: resample failed: %w", err)
	}

	log.WithField("target_rate", l.sampleRate).Info("Audio decoded and resampled")

	return out, nil
}

func decodeWAV(r io.ReadSeeker) (core.AudioBuffer, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return core.AudioBuffer{}, 0, ErrInvalidWAV
	}
	if tag := dec.WavAudioFormat; tag != wavFormatPCM && tag != wavFormatExtensible {
		return core.AudioBuffer{}, 0, fmt.Errorf("%w: format tag %d is not integer PCM", ErrInvalidWAV, tag)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return core.AudioBuffer{}, 0, fmt.Errorf("could not read PCM buffer: %w", err)
	}

	channels := max(pcm.Format.NumChannels, 1)
	depth := int(pcm.SourceBitDepth)
	if depth == 0 {
		depth = int(dec.BitDepth)
	}

	// 8-bit WAV is unsigned with its midpoint at 128.
	offset, scale := 0.0, math.Ldexp(1, depth-1)
	if depth == 8 {
		offset = 128
	}

	samples := make([]float64, len(pcm.Data)/channels)
	for i := range samples {
		samples[i] = (float64(pcm.Data[i*channels]) - offset) / scale
	}

	return core.AudioBuffer{Samples: samples, SampleRate: pcm.Format.SampleRate}, channels, nil
}

func decodeOgg(r io.Reader) (core.AudioBuffer, int, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return core.AudioBuffer{}, 0, fmt.Errorf("could not decode vorbis stream: %w", err)
	}

	channels := max(format.Channels, 1)

	samples := make([]float64, len(data)/channels)
	for i := range samples {
		samples[i] = float64(data[i*channels])
	}

	return core.AudioBuffer{Samples: samples, SampleRate: format.SampleRate}, channels, nil
}

// Save writes b to path as mono PCM WAV with the given bit depth (16, 24 or
// 32). Samples outside [-1, 1] are clipped.
func Save(path string, b core.AudioBuffer, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: output file creation error: %w", err)
	}

	if err := Write(f, b, bitDepth); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Write encodes b as mono PCM WAV into w.
func Write(w io.WriteSeeker, b core.AudioBuffer, bitDepth int) error {
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	if bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return core.NewInvalidParameter("bit_depth", bitDepth, "16, 24 or 32")
	}
	if b.SampleRate <= 0 {
		return core.NewInvalidParameter("sample_rate", b.SampleRate, "> 0")
	}

	peak := math.Ldexp(1, bitDepth-1) - 1
	data := make([]int, len(b.Samples))
	for i, v := range b.Samples {
		data[i] = int(math.Round(core.Clamp(v, -1, 1) * peak))
	}

	enc := wav.NewEncoder(w, b.SampleRate, bitDepth, 1, 1)

	err := enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: b.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return fmt.Errorf("audiofile: data writing error: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("audiofile: finalising WAV failed: %w", err)
	}

	return nil
}
