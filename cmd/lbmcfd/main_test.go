package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputIntervalIsAtLeastOne(t *testing.T) {
	assert.Equal(t, 1, outputInterval(0.1, 0.05, 1000))
	assert.Equal(t, 4, outputInterval(0.1, 0.4, 1000))
	assert.Equal(t, 1000, outputInterval(0.1, 0, 1000))
	assert.Equal(t, 1000, outputInterval(0, 0.25, 1000))
}

func TestBoolToUint8(t *testing.T) {
	assert.Equal(t, uint8(1), boolToUint8(true))
	assert.Equal(t, uint8(0), boolToUint8(false))
}
