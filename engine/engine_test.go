package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argonne-lcf/lbm-cfd/internal/gather"
	"github.com/argonne-lcf/lbm-cfd/transport/faketransport"
)

// TestSingleRankStepPreservesRestDensity verifies scenario A: a single-rank
// engine with no barriers, initialized to a uniform inflow and stepped once,
// keeps every interior cell's density at 1 within floating-point tolerance.
func TestSingleRankStepPreservesRestDensity(t *testing.T) {
	net := faketransport.NewNetwork(1)
	comm := faketransport.New(net, 0)

	e, err := New(8, 8, 1.0, comm)
	require.NoError(t, err)

	e.InitFluid(0.1)
	e.Collide(0.02)
	require.NoError(t, e.ExchangeBoundaries())
	e.Stream()
	require.NoError(t, e.ExchangeBoundaries())
	e.BounceBackStream()

	for y := 1; y < e.DimY()-1; y++ {
		for x := 1; x < e.DimX()-1; x++ {
			idx := e.Index(x, y)
			assert.InDelta(t, 1.0, e.Density()[idx], 1e-9)
		}
	}
	assert.True(t, e.CheckStability())
}

// TestTwoRankGatherReconstructsConsistentSpeed verifies that two engines
// sharing a decomposed grid, stepped with halo exchange between them, gather
// onto a single full-size W*H global speed field on rank 0 with no negative
// values, while rank 1 keeps no gathered result.
func TestTwoRankGatherReconstructsConsistentSpeed(t *testing.T) {
	w, h, numRanks := 16, 8, 2
	net := faketransport.NewNetwork(numRanks)

	engines := make([]*Engine, numRanks)
	errs := make(chan error, numRanks)
	for r := 0; r < numRanks; r++ {
		comm := faketransport.New(net, r)
		e, err := New(w, h, 1.0, comm)
		require.NoError(t, err)
		e.InitFluid(0.1)
		engines[r] = e
	}

	for r := 0; r < numRanks; r++ {
		go func(r int) {
			e := engines[r]
			e.Collide(0.02)
			if err := e.ExchangeBoundaries(); err != nil {
				errs <- err
				return
			}
			e.Stream()
			if err := e.ExchangeBoundaries(); err != nil {
				errs <- err
				return
			}
			e.BounceBackStream()
			e.ComputeSpeed()
			errs <- e.GatherOnRoot(gather.Speed)
		}(r)
	}
	for i := 0; i < numRanks; i++ {
		require.NoError(t, <-errs)
	}

	result := engines[0].GatheredSpeed()
	require.NotNil(t, result)
	assert.Equal(t, w, result.W)
	assert.Equal(t, h, result.H)
	assert.Len(t, result.Field, w*h)

	for _, v := range result.Field {
		assert.GreaterOrEqual(t, v, 0.0)
	}
	assert.Nil(t, engines[1].GatheredSpeed())
}
