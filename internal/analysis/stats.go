package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fluctuation summarises a series.
type Fluctuation struct {
	Mean     float64
	Std      float64
	Relative float64 // Std / |Mean|, zero when the mean is zero
}

func Fluctuations(series []float64) Fluctuation {
	if len(series) == 0 {
		return Fluctuation{}
	}
	if len(series) == 1 {
		return Fluctuation{Mean: series[0]}
	}
	mean, std := stat.MeanStdDev(series, nil)
	f := Fluctuation{Mean: mean, Std: std}
	if mean != 0 {
		f.Relative = std / math.Abs(mean)
	}
	return f
}

// Autocorrelation returns the normalised autocorrelation for lags
// 0..maxLag. A constant series correlates perfectly with itself.
func Autocorrelation(series []float64, maxLag int) []float64 {
	n := len(series)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(series, nil)
	var c0 float64
	for _, v := range series {
		c0 += (v - mean) * (v - mean)
	}

	out := make([]float64, maxLag+1)
	if c0 == 0 {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	for lag := 0; lag <= maxLag; lag++ {
		var c float64
		for i := 0; i+lag < n; i++ {
			c += (series[i] - mean) * (series[i+lag] - mean)
		}
		out[lag] = c / c0
	}
	return out
}
