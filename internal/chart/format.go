package chart

import (
	"fmt"
	"math"
	"strconv"
)

// FormatValue abbreviates large values for axis labels: 1.5B, 2.0M, 3.4K.
// Values under a thousand are rounded to an integer.
func FormatValue(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	default:
		r := math.Round(v)
		if r == 0 {
			r = 0 // drop the sign of -0
		}
		return strconv.FormatFloat(r, 'f', 0, 64)
	}
}
