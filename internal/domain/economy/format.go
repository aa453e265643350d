package economy

import (
	"math"
	"strconv"
	"strings"
)

// FormatBuffer renders a buffer balance in MB, GB or TB at powers of 1024,
// rounded to two decimals. Whole values keep a single trailing zero so the
// output always reads as a quantity ("1.0 GB", not "1 GB").
func FormatBuffer(buffer float64) string {
	switch {
	case buffer >= 1024*1024:
		return formatUnit(buffer/(1024*1024)) + " TB"
	case buffer >= 1024:
		return formatUnit(buffer/1024) + " GB"
	default:
		return formatUnit(buffer) + " MB"
	}
}

func formatUnit(v float64) string {
	v = math.Round(v*100) / 100
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
