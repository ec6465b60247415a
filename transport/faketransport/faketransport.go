// Package faketransport is an in-process stand-in for transport.Transport
// that routes sends directly to the matching receiver's queue instead of
// going through a real MPI runtime. It exists so the core's multi-rank
// properties (halo correctness, gather round-trip, a two-rank engine step) can
// be exercised as ordinary single-process Go tests, per SPEC_FULL.md §8.
package faketransport

import (
	"fmt"
	"sync"
)

type key struct {
	from, to, tag int
}

// Network is the shared routing table a group of fake ranks send through.
// Create one Network per test and mint one *Comm per simulated rank with
// New.
type Network struct {
	mu      sync.Mutex
	cond    *sync.Cond
	size    int
	queues  map[key][][]float64
	bqueues map[key][][]bool

	reduceGen    int
	reduceVals   []uint8
	reduceResult uint8
}

// NewNetwork creates a routing table for a collective of size ranks.
func NewNetwork(size int) *Network {
	n := &Network{
		size:    size,
		queues:  make(map[key][][]float64),
		bqueues: make(map[key][][]bool),
	}
	n.cond = sync.NewCond(&n.mu)
	return n
}

// Comm is one rank's handle onto a shared Network.
type Comm struct {
	net  *Network
	rank int
}

// New mints the Comm for a given rank over the shared network.
func New(net *Network, rank int) *Comm {
	return &Comm{net: net, rank: rank}
}

func (c *Comm) Rank() int { return c.rank }
func (c *Comm) Size() int { return c.net.size }

func (c *Comm) Send(data []float64, dest, tag int) error {
	cp := append([]float64(nil), data...)
	n := c.net
	n.mu.Lock()
	k := key{from: c.rank, to: dest, tag: tag}
	n.queues[k] = append(n.queues[k], cp)
	n.cond.Broadcast()
	n.mu.Unlock()
	return nil
}

func (c *Comm) Receive(buf []float64, src, tag int) error {
	n := c.net
	n.mu.Lock()
	defer n.mu.Unlock()
	k := key{from: src, to: c.rank, tag: tag}
	for len(n.queues[k]) == 0 {
		n.cond.Wait()
	}
	msg := n.queues[k][0]
	n.queues[k] = n.queues[k][1:]
	if len(msg) != len(buf) {
		return fmt.Errorf("faketransport: message from rank %d tag %d has %d values, want %d", src, tag, len(msg), len(buf))
	}
	copy(buf, msg)
	return nil
}

func (c *Comm) SendRecv(sendData []float64, dest, sendTag int, recvBuf []float64, src, recvTag int) error {
	if err := c.Send(sendData, dest, sendTag); err != nil {
		return err
	}
	return c.Receive(recvBuf, src, recvTag)
}

func (c *Comm) SendBool(data []bool, dest, tag int) error {
	cp := append([]bool(nil), data...)
	n := c.net
	n.mu.Lock()
	k := key{from: c.rank, to: dest, tag: tag}
	n.bqueues[k] = append(n.bqueues[k], cp)
	n.cond.Broadcast()
	n.mu.Unlock()
	return nil
}

func (c *Comm) ReceiveBool(buf []bool, src, tag int) error {
	n := c.net
	n.mu.Lock()
	defer n.mu.Unlock()
	k := key{from: src, to: c.rank, tag: tag}
	for len(n.bqueues[k]) == 0 {
		n.cond.Wait()
	}
	msg := n.bqueues[k][0]
	n.bqueues[k] = n.bqueues[k][1:]
	if len(msg) != len(buf) {
		return fmt.Errorf("faketransport: message from rank %d tag %d has %d values, want %d", src, tag, len(msg), len(buf))
	}
	copy(buf, msg)
	return nil
}

// ReduceMaxUint8 is a generational barrier: every rank contributes its
// value for the current generation, the last arrival computes the max for
// everyone, and the generation counter advances so a later call cannot see
// stale contributions.
func (c *Comm) ReduceMaxUint8(local uint8) (uint8, error) {
	n := c.net
	n.mu.Lock()
	defer n.mu.Unlock()

	myGen := n.reduceGen
	if n.reduceVals == nil {
		n.reduceVals = make([]uint8, 0, n.size)
	}
	n.reduceVals = append(n.reduceVals, local)

	if len(n.reduceVals) == n.size {
		max := n.reduceVals[0]
		for _, v := range n.reduceVals[1:] {
			if v > max {
				max = v
			}
		}
		n.reduceResult = max
		n.reduceVals = nil
		n.reduceGen++
		n.cond.Broadcast()
		return max, nil
	}

	for n.reduceGen == myGen {
		n.cond.Wait()
	}
	return n.reduceResult, nil
}

func (c *Comm) Abort(reason error) {
	panic(fmt.Sprintf("faketransport: rank %d aborted: %v", c.rank, reason))
}
