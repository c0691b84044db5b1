package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		want  float64
	}{
		{"already two decimals", 15.25, 15.25},
		{"rounds down", 18.514, 18.51},
		{"rounds up", 18.516, 18.52},
		{"half cent rounds up", 0.005, 0.01},
		{"whole number", 85, 85},
		{"zero", 0, 0},
		{"repeating average", 4.666666666666667, 4.67},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Round2(tc.value), 1e-9)
		})
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 5, ParseInt("5", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
	assert.Equal(t, 1, ParseInt("0", 1))
	assert.Equal(t, 1, ParseInt("-3", 1))
}
