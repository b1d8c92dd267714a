package utils

import (
	"fmt"
)

// Amounts cross the API boundary as whole points (1 point = 1 currency
// unit) and are converted to integer minor units exactly once, here.
// All arithmetic elsewhere is integer-only.

// PointsToMinor converts whole points into minor units.
func PointsToMinor(points int64) int64 {
	return points * 100
}

// MinorToPoints converts minor units into whole points, truncating
// any fractional remainder.
func MinorToPoints(minor int64) int64 {
	return minor / 100
}

// FormatMinor renders an amount of minor units as a decimal string,
// e.g. 12345 -> "123.45".
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
