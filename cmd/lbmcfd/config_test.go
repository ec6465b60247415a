package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
)

func TestSegmentSpecToSegmentDisambiguatesByEqualCoordinate(t *testing.T) {
	vert := SegmentSpec{X1: 4, Y1: 5, X2: 4, Y2: 2}
	seg, err := vert.toSegment()
	require.NoError(t, err)
	assert.Equal(t, decomp.NewVertical(2, 5, 4), seg)

	horiz := SegmentSpec{X1: 6, Y1: 3, X2: 1, Y2: 3}
	seg, err = horiz.toSegment()
	require.NoError(t, err)
	assert.Equal(t, decomp.NewHorizontal(1, 6, 3), seg)

	_, err = SegmentSpec{X1: 1, Y1: 1, X2: 2, Y2: 2}.toSegment()
	assert.Error(t, err)
}

func TestParseRoundTripsYAMLConfiguration(t *testing.T) {
	data := []byte(`
Title: test run
PhysicalDensity: 1000
PhysicalSpeed: 0.5
PhysicalLength: 1.0
PhysicalViscosity: 1.0
PhysicalTime: 4.0
PhysicalFreq: 0.1
Barriers:
  - X1: 2
    Y1: 0
    X2: 2
    Y2: 5
`)
	var ip InputParameters
	require.NoError(t, ip.Parse(data))

	assert.Equal(t, "test run", ip.Title)
	assert.InDelta(t, 1000, ip.PhysicalDensity, 1e-12)
	require.Len(t, ip.Barriers, 1)

	segments, err := ip.Segments()
	require.NoError(t, err)
	require.Len(t, segments, 1)
	assert.Equal(t, decomp.NewVertical(0, 5, 2), segments[0])
}

func TestConvertMatchesPhysicalUnitDerivation(t *testing.T) {
	ip := &InputParameters{
		PhysicalDensity:   1380.0,
		PhysicalSpeed:     0.75,
		PhysicalLength:    2.0,
		PhysicalViscosity: 1.3806,
		PhysicalTime:      8.0,
		PhysicalFreq:      0.25,
	}

	sim := ip.Convert(100, 1000)

	wantReynolds := (1380.0 * 0.75 * 2.0) / 1.3806
	assert.InDelta(t, wantReynolds, sim.ReynoldsNumber, 1e-9)

	wantDx := 2.0 / 100.0
	wantDt := 8.0 / 1000.0
	wantSpeedScale := wantDt / wantDx
	assert.InDelta(t, wantSpeedScale, sim.SpeedScale, 1e-12)
	assert.InDelta(t, wantSpeedScale*0.75, sim.Speed, 1e-12)
	assert.InDelta(t, wantDt/(wantDx*wantDx*wantReynolds), sim.Viscosity, 1e-12)
	assert.InDelta(t, wantDt, sim.Dt, 1e-12)
}

func TestDefaultParametersMatchesCornSyrupScenario(t *testing.T) {
	ip := DefaultParameters()
	assert.InDelta(t, 1380.0, ip.PhysicalDensity, 1e-12)
	assert.InDelta(t, 0.75, ip.PhysicalSpeed, 1e-12)
	assert.InDelta(t, 2.0, ip.PhysicalLength, 1e-12)
	assert.InDelta(t, 1.3806, ip.PhysicalViscosity, 1e-12)
	assert.InDelta(t, 8.0, ip.PhysicalTime, 1e-12)
	assert.InDelta(t, 0.25, ip.PhysicalFreq, 1e-12)
	assert.Empty(t, ip.Barriers)
}
