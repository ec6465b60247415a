package main

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/argonne-lcf/lbm-cfd/internal/decomp"
)

// InputParameters is the YAML-driven run configuration: physical constants
// the driver converts into simulation units, plus an optional barrier list
// read as plain segment specs rather than a named preset.
type InputParameters struct {
	Title string `yaml:"Title"`

	PhysicalDensity   float64 `yaml:"PhysicalDensity"`
	PhysicalSpeed     float64 `yaml:"PhysicalSpeed"`
	PhysicalLength    float64 `yaml:"PhysicalLength"`
	PhysicalViscosity float64 `yaml:"PhysicalViscosity"`
	PhysicalTime      float64 `yaml:"PhysicalTime"`
	PhysicalFreq      float64 `yaml:"PhysicalFreq"`

	Barriers []SegmentSpec `yaml:"Barriers,omitempty"`
}

// SegmentSpec is a YAML-friendly rendering of decomp.Segment: exactly one of
// the two orientations, picked by whether X1==X2 or Y1==Y2, the same
// disambiguation steer.go's signal-triggered reload and the original
// program's steering callback both use.
type SegmentSpec struct {
	X1 int `yaml:"X1"`
	Y1 int `yaml:"Y1"`
	X2 int `yaml:"X2"`
	Y2 int `yaml:"Y2"`
}

func (s SegmentSpec) toSegment() (decomp.Segment, error) {
	switch {
	case s.X1 == s.X2:
		return decomp.NewVertical(min(s.Y1, s.Y2), max(s.Y1, s.Y2), s.X1), nil
	case s.Y1 == s.Y2:
		return decomp.NewHorizontal(min(s.X1, s.X2), max(s.X1, s.X2), s.Y1), nil
	default:
		return decomp.Segment{}, fmt.Errorf("config: barrier segment (%d,%d)-(%d,%d) is neither horizontal nor vertical", s.X1, s.Y1, s.X2, s.Y2)
	}
}

// Segments converts every configured SegmentSpec into a decomp.Segment.
func (ip *InputParameters) Segments() ([]decomp.Segment, error) {
	segments := make([]decomp.Segment, 0, len(ip.Barriers))
	for _, s := range ip.Barriers {
		seg, err := s.toSegment()
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// Parse decodes YAML run parameters, the same Parse([]byte) error shape
// used for gocfd's own InputParameters.
func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Print reports the parsed configuration to stdout.
func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t\t= Title\n", ip.Title)
	fmt.Printf("%8.4f\t\t\t= physical density (kg/m^3)\n", ip.PhysicalDensity)
	fmt.Printf("%8.4f\t\t\t= physical speed (m/s)\n", ip.PhysicalSpeed)
	fmt.Printf("%8.4f\t\t\t= physical length (m)\n", ip.PhysicalLength)
	fmt.Printf("%8.4f\t\t\t= physical viscosity (Pa s)\n", ip.PhysicalViscosity)
	fmt.Printf("%8.4f\t\t\t= physical time (s)\n", ip.PhysicalTime)
	fmt.Printf("%8.4f\t\t\t= output frequency (s)\n", ip.PhysicalFreq)
	fmt.Printf("%d barrier segment(s) configured\n", len(ip.Barriers))
}

// DefaultParameters mirrors the original program's hard-coded corn-syrup
// pipe-flow scenario (simulate corn syrup at 25 C in a 2 m pipe, moving
// 0.75 m/s for 8 sec), used when no --config file is given.
func DefaultParameters() *InputParameters {
	return &InputParameters{
		Title:             "corn syrup pipe flow",
		PhysicalDensity:   1380.0,
		PhysicalSpeed:     0.75,
		PhysicalLength:    2.0,
		PhysicalViscosity: 1.3806,
		PhysicalTime:      8.0,
		PhysicalFreq:      0.25,
	}
}

// SimulationParameters are the derived, dimensionless quantities the engine
// actually runs on, converted from physical units the way
// runLbmCfdSimulation does in the original source.
type SimulationParameters struct {
	ReynoldsNumber float64
	SpeedScale     float64
	Speed          float64
	Viscosity      float64
	Dt             float64
}

// Convert derives simulation-unit parameters for a dimY x timeSteps run,
// following the original's dx = length/dimY, dt = time/timeSteps,
// speed_scale = dt/dx conversion chain exactly.
func (ip *InputParameters) Convert(dimY, timeSteps int) SimulationParameters {
	reynolds := (ip.PhysicalDensity * ip.PhysicalSpeed * ip.PhysicalLength) / ip.PhysicalViscosity

	dx := ip.PhysicalLength / float64(dimY)
	dt := ip.PhysicalTime / float64(timeSteps)
	speedScale := dt / dx

	return SimulationParameters{
		ReynoldsNumber: reynolds,
		SpeedScale:     speedScale,
		Speed:          speedScale * ip.PhysicalSpeed,
		Viscosity:      dt / (dx * dx * reynolds),
		Dt:             dt,
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
