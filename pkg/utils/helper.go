package utils

import (
	"math"
	"strconv"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// Round2 rounds half-up to two decimal places. Monetary splits and rating
// aggregates both settle on two-decimal precision.
func Round2(value float64) float64 {
	return math.Floor(value*100+0.5) / 100
}
