package diagnostics

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-denoise/dsp/core"
)

// Decibels is a level in dB. Silence is -Inf.
type Decibels float64

// MarshalJSON encodes non-finite levels as null.
func (d Decibels) MarshalJSON() ([]byte, error) {
	if !core.IsFinite(float64(d)) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(d))
}

func (d Decibels) String() string {
	switch {
	case math.IsInf(float64(d), -1):
		return "-inf dB"
	case math.IsInf(float64(d), 1):
		return "+inf dB"
	case math.IsNaN(float64(d)):
		return "n/a"
	}
	return fmt.Sprintf("%.2f dB", float64(d))
}

// Levels holds time-domain statistics of one buffer.
type Levels struct {
	Samples       int      `json:"samples"`
	Mean          float64  `json:"mean"`
	StdDev        float64  `json:"std_dev"`
	RMS           float64  `json:"rms"`
	RMSDB         Decibels `json:"rms_db"`
	Peak          float64  `json:"peak"`
	PeakDB        Decibels `json:"peak_db"`
	CrestFactorDB Decibels `json:"crest_factor_db"`
	ZeroCrossings int      `json:"zero_crossings"`
	Skewness      float64  `json:"skewness"`
	Kurtosis      float64  `json:"kurtosis"`
}

// MeasureLevels computes Levels for x. Moments that are undefined for the
// input (constant or too short signals) are reported as 0.
func MeasureLevels(x []float64) Levels {
	lv := Levels{
		Samples:       len(x),
		RMSDB:         Decibels(math.Inf(-1)),
		PeakDB:        Decibels(math.Inf(-1)),
		CrestFactorDB: Decibels(math.Inf(-1)),
	}
	if len(x) == 0 {
		return lv
	}

	mean, variance := stat.PopMeanVariance(x, nil)
	lv.Mean = mean
	lv.StdDev = math.Sqrt(variance)
	lv.RMS = floats.Norm(x, 2) / math.Sqrt(float64(len(x)))
	lv.Peak = math.Max(math.Abs(floats.Max(x)), math.Abs(floats.Min(x)))
	lv.RMSDB = Decibels(core.AmplitudeToDB(lv.RMS))
	lv.PeakDB = Decibels(core.AmplitudeToDB(lv.Peak))
	if lv.RMS > 0 {
		lv.CrestFactorDB = Decibels(core.AmplitudeToDB(lv.Peak / lv.RMS))
	}

	for i := 1; i < len(x); i++ {
		if x[i-1]*x[i] < 0 {
			lv.ZeroCrossings++
		}
	}

	if variance > 0 && len(x) >= 4 {
		lv.Skewness = stat.Skew(x, nil)
		lv.Kurtosis = stat.ExKurtosis(x, nil)
	}

	return lv
}

// powerRatioDB returns 10*log10(a/b) for mean-square powers a and b.
func powerRatioDB(a, b float64) Decibels {
	switch {
	case a == 0 && b == 0:
		return 0
	case b == 0:
		return Decibels(math.Inf(1))
	case a == 0:
		return Decibels(math.Inf(-1))
	}
	return Decibels(core.LinearPowerToDB(a / b))
}
