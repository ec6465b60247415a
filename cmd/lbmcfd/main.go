// Command lbmcfd is the driver for the distributed D2Q9 lattice-Boltzmann
// core: it brings up the transport, converts physical run parameters into
// simulation units, drives the collide/exchange/stream/exchange/bounceback
// loop, and optionally renders a GIF and accepts steering signals. None of
// this reaches into the core's internals beyond the contract engine.Engine
// exposes.
package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/argonne-lcf/lbm-cfd/engine"
	"github.com/argonne-lcf/lbm-cfd/internal/gather"
	"github.com/argonne-lcf/lbm-cfd/transport"
)

var rootCmd = &cobra.Command{
	Use:   "lbmcfd",
	Short: "Distributed 2D lattice-Boltzmann CFD solver",
	Long:  "lbmcfd runs a D2Q9 lattice-Boltzmann fluid simulation decomposed across message-passing ranks.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntP("width", "W", 600, "global grid width")
	runCmd.Flags().IntP("height", "H", 240, "global grid height")
	runCmd.Flags().IntP("steps", "t", 20000, "number of time steps")
	runCmd.Flags().StringP("config", "c", "", "YAML input parameters file (defaults to the built-in corn-syrup pipe-flow scenario)")
	runCmd.Flags().String("barrier-preset", "center-gap", "barrier geometry preset: none, center-gap, offset-mid")
	runCmd.Flags().String("gif", "", "path to write a speed-field GIF to (empty disables rendering)")
	runCmd.Flags().Int("gif-frame-width", 1200, "GIF canvas width")
	runCmd.Flags().Int("gif-frame-height", 480, "GIF canvas height")
	runCmd.Flags().Int("gif-delay", 2, "GIF frame delay, in 1/100ths of a second")
	runCmd.Flags().String("steer-file", "", "YAML barrier file to reload on SIGUSR1 (empty disables steering)")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation to completion",
	RunE:  runLbmCfd,
}

func runLbmCfd(cmd *cobra.Command, args []string) error {
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	steps, _ := cmd.Flags().GetInt("steps")
	configPath, _ := cmd.Flags().GetString("config")
	barrierPresetName, _ := cmd.Flags().GetString("barrier-preset")
	gifPath, _ := cmd.Flags().GetString("gif")
	gifWidth, _ := cmd.Flags().GetInt("gif-frame-width")
	gifHeight, _ := cmd.Flags().GetInt("gif-frame-height")
	gifDelay, _ := cmd.Flags().GetInt("gif-delay")
	steerFile, _ := cmd.Flags().GetString("steer-file")

	comm, err := transport.Init()
	if err != nil {
		return fmt.Errorf("lbmcfd: %w", err)
	}
	defer comm.Finalize()

	params, err := loadParameters(configPath)
	if err != nil {
		comm.Abort(err)
	}

	sim := params.Convert(height, steps)

	if comm.Rank() == 0 {
		log.Printf("LBM-CFD> running with %d processes", comm.Size())
		log.Printf("LBM-CFD> resolution=%dx%d, time steps=%d", width, height, steps)
		log.Printf("LBM-CFD> speed: %.6f, viscosity: %.6f, reynolds: %.6f", sim.Speed, sim.Viscosity, sim.ReynoldsNumber)
		params.Print()
	}

	e, err := engine.New(width, height, sim.SpeedScale, comm)
	if err != nil {
		comm.Abort(err)
	}

	barrierSegments, err := barrierPreset(barrierPresetName, width, height)
	if err != nil {
		comm.Abort(err)
	}
	customSegments, err := params.Segments()
	if err != nil {
		comm.Abort(err)
	}
	e.InitBarrier(append(barrierSegments, customSegments...))
	e.InitFluid(params.PhysicalSpeed)

	var steer *steerer
	if steerFile != "" {
		steer = newSteerer(e, steerFile)
	}

	var recorder *frameRecorder
	if gifPath != "" && comm.Rank() == 0 {
		recorder = newFrameRecorder(gifWidth, gifHeight, width, height, gifDelay)
	}

	outputEvery := outputInterval(sim.Dt, params.PhysicalFreq, steps)

	for t := 0; t < steps; t++ {
		if t%outputEvery == 0 {
			if err := reportProgress(e, comm, t, steps, sim.Dt, params.PhysicalTime, recorder); err != nil {
				comm.Abort(err)
			}
		}

		e.Collide(sim.Viscosity)
		if err := e.ExchangeBoundaries(); err != nil {
			comm.Abort(err)
		}
		e.Stream()
		if err := e.ExchangeBoundaries(); err != nil {
			comm.Abort(err)
		}
		e.BounceBackStream()

		if steer != nil {
			steer.Poll()
		}
	}

	if recorder != nil {
		if err := recorder.Save(gifPath); err != nil {
			comm.Abort(err)
		}
		log.Printf("LBM-CFD> GIF saved to %s", gifPath)
	}

	return nil
}

func loadParameters(path string) (*InputParameters, error) {
	if path == "" {
		return DefaultParameters(), nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lbmcfd: failed to read config file: %w", err)
	}
	params := &InputParameters{}
	if err := params.Parse(data); err != nil {
		return nil, fmt.Errorf("lbmcfd: failed to parse config file: %w", err)
	}
	return params, nil
}

// outputInterval converts the configured physical output frequency into a
// time-step stride, at least 1.
func outputInterval(dt, physicalFreq float64, steps int) int {
	if physicalFreq <= 0 || dt <= 0 {
		return steps
	}
	interval := int(physicalFreq / dt)
	if interval < 1 {
		interval = 1
	}
	return interval
}

func reportProgress(e *engine.Engine, comm *transport.Comm, t, steps int, dt, physicalTime float64, recorder *frameRecorder) error {
	elapsed := float64(t) * dt
	if comm.Rank() == 0 {
		log.Printf("LBM-CFD> time: %.3f / %.3f, time step: %d / %d", elapsed, physicalTime, t, steps)
	}

	// Reduce the "is any rank unstable" flag rather than "is this rank
	// stable", so the max-reduce the transport exposes reports instability
	// if even one rank has gone unstable, not just if all of them have.
	unstable := boolToUint8(!e.CheckStability())
	anyUnstable, err := comm.ReduceMaxUint8(unstable)
	if err != nil {
		return err
	}
	if anyUnstable != 0 && comm.Rank() == 0 {
		log.Printf("LBM-CFD> Warning: simulation has become unstable (more time steps needed)")
	}

	if recorder != nil {
		e.ComputeSpeed()
		if err := e.GatherOnRoot(gather.Speed); err != nil {
			return err
		}
		if comm.Rank() == 0 {
			result := e.GatheredSpeed()
			recorder.AddFrame(result.Field, result.Barrier)
		}
	}

	return nil
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
