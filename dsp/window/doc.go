// Package window generates the analysis/synthesis windows used by the
// short-time Fourier transform and checks their overlap-add envelope.
//
// Frame processing uses the periodic, half-sample-shifted form returned by
// STFT. Every coefficient of that form is strictly positive, so the
// synthesis normalisation never divides by zero at the first sample of a
// signal.
package window
