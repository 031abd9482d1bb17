package loudness

import "math"

// K-weighting stages from BS.1770, realised as RBJ biquads.
const (
	shelfFreq   = 1500.0
	shelfGainDB = 4.0
	hpfFreq     = 38.0
)

// section is a Direct Form II Transposed biquad normalised to a0 = 1.
type section struct {
	b0, b1, b2 float64
	a1, a2     float64
	d0, d1     float64
}

func normalized(b0, b1, b2, a0, a1, a2 float64) *section {
	return &section{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

func highShelf(freq, gainDB, q, sampleRate float64) *section {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)
	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * alpha

	return normalized(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}

func highpass(freq, q, sampleRate float64) *section {
	w0 := 2 * math.Pi * freq / sampleRate
	cw, sw := math.Cos(w0), math.Sin(w0)
	alpha := sw / (2 * q)

	return normalized((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
}

func (s *section) processInPlace(buf []float64) {
	for i, x := range buf {
		y := s.b0*x + s.d0
		s.d0 = s.b1*x - s.a1*y + s.d1
		s.d1 = s.b2*x - s.a2*y
		buf[i] = y
	}
}

// KWeight returns samples passed through the K-weighting pre-filter.
func KWeight(samples []float64, sampleRate float64) []float64 {
	out := append([]float64(nil), samples...)
	q := 1 / math.Sqrt2
	highShelf(shelfFreq, shelfGainDB, q, sampleRate).processInPlace(out)
	highpass(hpfFreq, q, sampleRate).processInPlace(out)
	return out
}
