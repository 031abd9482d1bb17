// Package stft implements framed short-time Fourier analysis and weighted
// overlap-add resynthesis.
//
// Frames start every H samples from zero; the final frame is zero-padded so
// the whole buffer is covered. Analysis and synthesis apply the same window,
// and synthesis divides by the local sum of squared window values, so an
// untouched frame sequence reproduces its input to floating-point accuracy
// for any window/hop pair whose overlap envelope is strictly positive.
//
// Analyzer.Process is the path used for spectral modification. It frames the
// buffer behind N-H zeros so that the first H samples are not reconstructed
// from a single tapered window, where a frequency dependent gain would be
// divided by a near-zero envelope.
package stft
