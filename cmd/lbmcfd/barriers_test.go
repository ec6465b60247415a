package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
)

func TestBarrierPresetNoneIsEmpty(t *testing.T) {
	for _, name := range []string{"none", ""} {
		segs, err := barrierPreset(name, 400, 100)
		require.NoError(t, err)
		assert.Empty(t, segs)
	}
}

func TestBarrierPresetCenterGapMatchesOriginalGeometry(t *testing.T) {
	dimX, dimY := 400, 100
	segs, err := barrierPreset("center-gap", dimX, dimY)
	require.NoError(t, err)

	want := []decomp.Segment{
		decomp.NewVertical(8*dimY/27+1, 12*dimY/27-1, dimX/8),
		decomp.NewVertical(8*dimY/27+1, 12*dimY/27-1, dimX/8+1),
		decomp.NewVertical(13*dimY/27+1, 17*dimY/27-1, dimX/8),
		decomp.NewVertical(13*dimY/27+1, 17*dimY/27-1, dimX/8+1),
	}
	assert.Equal(t, want, segs)
}

func TestBarrierPresetOffsetMidMatchesOriginalGeometry(t *testing.T) {
	dimX, dimY := 400, 100
	segs, err := barrierPreset("offset-mid", dimX, dimY)
	require.NoError(t, err)

	want := []decomp.Segment{
		decomp.NewVertical(8*dimY/27+1, 17*dimY/27-1, dimX/8),
		decomp.NewVertical(8*dimY/27+1, 17*dimY/27-1, dimX/8+1),
	}
	assert.Equal(t, want, segs)
}

func TestBarrierPresetUnknownNameErrors(t *testing.T) {
	_, err := barrierPreset("not-a-real-preset", 10, 10)
	assert.Error(t, err)
}
