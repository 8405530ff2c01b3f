package classifier

import "gonum.org/v1/gonum/stat"

// Scaler performs per-feature mean/variance standardization, fit once on the
// training split and applied to every vector scored afterwards.
type Scaler struct {
	mean  []float64
	scale []float64
}

// FitScaler computes per-feature means and standard deviations over the rows
// of x. Features with zero variance get unit scale so transforming them is a
// no-op beyond centering.
func FitScaler(x [][]float64) *Scaler {
	if len(x) == 0 {
		return &Scaler{}
	}
	features := len(x[0])
	s := &Scaler{
		mean:  make([]float64, features),
		scale: make([]float64, features),
	}

	column := make([]float64, len(x))
	for j := 0; j < features; j++ {
		for i := range x {
			column[i] = x[i][j]
		}
		s.mean[j] = stat.Mean(column, nil)
		s.scale[j] = stat.PopStdDev(column, nil)
		if s.scale[j] == 0 {
			s.scale[j] = 1
		}
	}
	return s
}

// Transform returns the standardized copy of v. Vectors longer than the
// fitted feature count are truncated; shorter ones are standardized as far as
// the fit allows.
func (s *Scaler) Transform(v []float64) []float64 {
	n := len(v)
	if n > len(s.mean) {
		n = len(s.mean)
	}
	out := make([]float64, n)
	for j := 0; j < n; j++ {
		out[j] = (v[j] - s.mean[j]) / s.scale[j]
	}
	return out
}

// TransformAll standardizes every row.
func (s *Scaler) TransformAll(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i := range x {
		out[i] = s.Transform(x[i])
	}
	return out
}
