// Package transform provides a pluggable forward/inverse DFT behind a small
// interface, with backends built on algo-fft, gonum and go-dsp.
//
// All backends share one convention: Forward is unnormalised and Inverse
// divides by N.
package transform
