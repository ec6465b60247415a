package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/argonne-lcf/lbm-cfd/engine"
)

// steerer polls for SIGUSR1 and, on receipt, re-reads a barrier YAML file
// and replaces the engine's barrier set plus inflow speed -- a minimal
// stand-in for the original's Ascent steeringCallback, which does the same
// two calls (initBarrier + updateFluid) in response to a remote UI action.
type steerer struct {
	path  string
	sigCh chan os.Signal
	e     *engine.Engine
}

func newSteerer(e *engine.Engine, path string) *steerer {
	s := &steerer{
		path:  path,
		sigCh: make(chan os.Signal, 1),
		e:     e,
	}
	signal.Notify(s.sigCh, syscall.SIGUSR1)
	return s
}

// Poll is called once per step by the driver loop. It never blocks: it only
// acts if a signal has already arrived since the last call.
func (s *steerer) Poll() {
	select {
	case <-s.sigCh:
		if err := s.reload(); err != nil {
			log.Printf("lbmcfd: steering reload failed, keeping previous barrier set: %v", err)
		} else {
			log.Printf("lbmcfd: steering reload applied from %s", s.path)
		}
	default:
	}
}

func (s *steerer) reload() error {
	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("steer: %w", err)
	}

	var params InputParameters
	if err := params.Parse(data); err != nil {
		return fmt.Errorf("steer: %w", err)
	}

	segments, err := params.Segments()
	if err != nil {
		return fmt.Errorf("steer: %w", err)
	}

	s.e.InitBarrier(segments)
	s.e.UpdateFluid(params.PhysicalSpeed)
	return nil
}
