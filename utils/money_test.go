package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointsToMinor(t *testing.T) {
	assert.Equal(t, int64(0), PointsToMinor(0))
	assert.Equal(t, int64(100), PointsToMinor(1))
	assert.Equal(t, int64(12300), PointsToMinor(123))
	assert.Equal(t, int64(-500), PointsToMinor(-5))
}

func TestMinorToPoints(t *testing.T) {
	assert.Equal(t, int64(1), MinorToPoints(100))
	assert.Equal(t, int64(1), MinorToPoints(199)) // truncates
	assert.Equal(t, int64(0), MinorToPoints(99))
}

func TestFormatMinor(t *testing.T) {
	assert.Equal(t, "0.00", FormatMinor(0))
	assert.Equal(t, "0.05", FormatMinor(5))
	assert.Equal(t, "1.00", FormatMinor(100))
	assert.Equal(t, "123.45", FormatMinor(12345))
	assert.Equal(t, "-123.45", FormatMinor(-12345))
	assert.Equal(t, "-0.01", FormatMinor(-1))
}
