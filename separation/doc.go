// Package separation is the entry point for offline noise and echo
// suppression of mono audio buffers.
//
// An Engine is built from a validated Config and dispatches each call to
// spectral subtraction, Wiener filtering or adaptive LMS cancellation. It
// performs no file or diagnostics I/O: callers receive a Result carrying
// the original buffer, the processed buffer, the sample rate and the method.
//
// For AdaptiveLMS the engine returns the filter's running estimate y[n] by
// default, which models the part of the primary signal explained by the
// reference. Set Config.LMSOutput to LMSResidual to receive the residual
// e[n] = d[n] − y[n] instead, which is the echo-cancelled signal.
package separation
