package features

// MovingAverage returns the trailing mean over window buckets. The first
// window-1 entries average whatever history is available.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		return append([]float64(nil), values...)
	}
	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		n := min(i+1, window)
		out[i] = sum / float64(n)
	}
	return out
}
