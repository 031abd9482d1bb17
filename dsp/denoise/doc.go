// Package denoise implements stationary-noise suppression in the STFT
// domain: a leading-segment noise profile estimator, power spectral
// subtraction with a spectral floor, and a Wiener gain filter.
//
// The noise profile assumes the first frames of a recording contain only
// stationary noise. If signal is present from sample 0 the profile absorbs
// it and suppression removes part of the signal as well; the estimator does
// not try to detect or correct this.
package denoise
