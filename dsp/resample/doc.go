// Package resample converts whole buffers between sample rates.
//
// The audio loader uses it to bring files recorded at any rate to the
// processing rate before separation. A Converter runs a Kaiser-windowed
// sinc prototype as a polyphase FIR at ratio up/down and removes the
// filter's group delay, so output sample i lines up with input time
// i·down/up.
//
// Quality trades taps per phase against stopband rejection:
//
//	QualityFast      16 taps/phase, about 55 dB
//	QualityBalanced  32 taps/phase, about 75 dB
//	QualityBest      64 taps/phase, about 90 dB
package resample
