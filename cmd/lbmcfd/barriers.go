package main

import (
	"fmt"

	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
)

// barrierPreset builds one of the named barrier geometries the original
// program's src/main.cpp hard-codes (and, for offset-mid, leaves
// commented out as an alternative). dimX/dimY are the global grid
// dimensions these presets are scaled against.
func barrierPreset(name string, dimX, dimY int) ([]decomp.Segment, error) {
	switch name {
	case "none", "":
		return nil, nil
	case "center-gap":
		return []decomp.Segment{
			decomp.NewVertical(8*dimY/27+1, 12*dimY/27-1, dimX/8),
			decomp.NewVertical(8*dimY/27+1, 12*dimY/27-1, dimX/8+1),
			decomp.NewVertical(13*dimY/27+1, 17*dimY/27-1, dimX/8),
			decomp.NewVertical(13*dimY/27+1, 17*dimY/27-1, dimX/8+1),
		}, nil
	case "offset-mid":
		return []decomp.Segment{
			decomp.NewVertical(8*dimY/27+1, 17*dimY/27-1, dimX/8),
			decomp.NewVertical(8*dimY/27+1, 17*dimY/27-1, dimX/8+1),
		}, nil
	default:
		return nil, fmt.Errorf("barriers: unknown preset %q (want none, center-gap, or offset-mid)", name)
	}
}
