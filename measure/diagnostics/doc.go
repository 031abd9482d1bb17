// Package diagnostics summarises a separation run as a textual report.
//
// Analyze compares the original and processed buffers of a
// separation.Result in the time domain (level, crest factor, moments) and
// in the frequency domain (Welch power spectral density, spectral shape,
// per-band level change). The report renders as Markdown or JSON; dB values
// that are not finite serialise as null.
package diagnostics
