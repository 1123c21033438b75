// Package rules holds the entropy formulas behind each coding-standard rule.
// Every formula returns a score in [0, 1] where 1 means fully compliant.
package rules

import "math"

// Clamp restricts v to the closed range [a, b]
func Clamp(v, a, b float64) float64 {
	return math.Max(math.Min(v, b), a)
}

// Clamp01 restricts v to [0, 1]
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Responsibilities scores a function by the number of calls it makes.
// A function without calls scores 1; reaching max calls scores 0.
func Responsibilities(calls, max int) float64 {
	if max <= 0 {
		if calls > 0 {
			return 0
		}
		return 1
	}
	return 1 - Clamp01(float64(calls)/float64(max))
}

// Readability scores a function by its length in lines.
// Anything up to max lines scores 1, then the score falls linearly to 0 at 2*max.
func Readability(lines, max int) float64 {
	if max <= 0 {
		if lines > 0 {
			return 0
		}
		return 1
	}
	return 1 - Clamp01(float64(lines-max)/float64(max))
}
