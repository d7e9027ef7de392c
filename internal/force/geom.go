package force

// neighborShift folds a neighbor cell coordinate back into [0, n) and
// returns the position shift that moves particles of the wrapped cell next
// to the home cell.
func neighborShift(c, n int, l float64) (int, float64) {
	switch {
	case c < 0:
		return c + n, -l
	case c >= n:
		return c - n, l
	}
	return c, 0
}

// minimumImage applies a single periodic correction to a separation
// component d on an axis of length l.
func minimumImage(d, l float64) float64 {
	half := 0.5 * l
	switch {
	case d > half:
		return d - l
	case d < -half:
		return d + l
	}
	return d
}
