// Package transport provides the point-to-point, tag-matched
// message-passing fabric the core's halo exchange and gather need, as a
// small interface over github.com/btracey/mpi. internal/halo and
// internal/gather depend only on the Transport interface so tests can
// substitute transport/faketransport instead of spinning up real MPI
// ranks.
package transport

import (
	"fmt"

	"github.com/btracey/mpi"
)

// Transport is the fabric contract the core's halo exchange and gather
// operations are built on: reliable, in-order, tag-matched point-to-point
// send/receive, plus the one collective (a max-reduction) the driver needs
// for cross-rank stability checks.
type Transport interface {
	Rank() int
	Size() int

	// Send blocks until data has been handed off to dest under tag.
	Send(data []float64, dest, tag int) error
	// Receive blocks until a matching send from src under tag has arrived,
	// and copies it into buf (which must be pre-sized by the caller).
	Receive(buf []float64, src, tag int) error
	// SendRecv performs a paired send and receive, mirroring MPI_Sendrecv:
	// send sendData to dest under sendTag, and receive into recvBuf from
	// src under recvTag.
	SendRecv(sendData []float64, dest, sendTag int, recvBuf []float64, src, recvTag int) error

	// SendBool/ReceiveBool are the boolean-payload equivalents, used only
	// by gather's barrier-mask transfer.
	SendBool(data []bool, dest, tag int) error
	ReceiveBool(buf []bool, src, tag int) error

	// ReduceMaxUint8 returns the maximum of local across all ranks, on
	// every rank (an all-reduce), standing in for MPI_Reduce(..., MAX, ...).
	ReduceMaxUint8(local uint8) (uint8, error)

	// Abort reports a fatal transport/configuration error and terminates
	// the collective. It does not return.
	Abort(reason error)
}

// Comm wraps github.com/btracey/mpi's package-level API (the library models
// a single global communicator, not an object) in the Transport interface.
type Comm struct {
	rank int
	size int
}

// Init initializes the underlying MPI runtime and returns this process's
// Comm. Init must be called exactly once per process, before any other
// transport call.
func Init() (*Comm, error) {
	if err := mpi.Init(); err != nil {
		return nil, fmt.Errorf("transport: mpi init failed: %w", err)
	}
	rank := mpi.Rank()
	if rank == -1 {
		return nil, fmt.Errorf("transport: mpi reported an invalid rank, initialization did not complete")
	}
	return &Comm{rank: rank, size: mpi.Size()}, nil
}

// Finalize shuts down the underlying MPI runtime. Callers should defer it
// immediately after a successful Init.
func (c *Comm) Finalize() {
	mpi.Finalize()
}

func (c *Comm) Rank() int { return c.rank }
func (c *Comm) Size() int { return c.size }

func (c *Comm) Send(data []float64, dest, tag int) error {
	if err := mpi.Send(data, dest, tag); err != nil {
		return fmt.Errorf("transport: send to rank %d tag %d failed: %w", dest, tag, err)
	}
	mpi.Wait(dest, tag)
	return nil
}

func (c *Comm) Receive(buf []float64, src, tag int) error {
	var payload []float64
	if err := mpi.Receive(&payload, src, tag); err != nil {
		return fmt.Errorf("transport: receive from rank %d tag %d failed: %w", src, tag, err)
	}
	if len(payload) != len(buf) {
		return fmt.Errorf("transport: receive from rank %d tag %d got %d values, want %d", src, tag, len(payload), len(buf))
	}
	copy(buf, payload)
	return nil
}

func (c *Comm) SendBool(data []bool, dest, tag int) error {
	if err := mpi.Send(data, dest, tag); err != nil {
		return fmt.Errorf("transport: send to rank %d tag %d failed: %w", dest, tag, err)
	}
	mpi.Wait(dest, tag)
	return nil
}

func (c *Comm) ReceiveBool(buf []bool, src, tag int) error {
	var payload []bool
	if err := mpi.Receive(&payload, src, tag); err != nil {
		return fmt.Errorf("transport: receive from rank %d tag %d failed: %w", src, tag, err)
	}
	if len(payload) != len(buf) {
		return fmt.Errorf("transport: receive from rank %d tag %d got %d values, want %d", src, tag, len(payload), len(buf))
	}
	copy(buf, payload)
	return nil
}

// SendRecv has no combined primitive in github.com/btracey/mpi, so it is
// composed from Send+Receive. This is safe without risking deadlock
// because every call site pairs a direction's send tag with the partner's
// matching receive tag (see internal/halo), the same fixed pairing the
// MPI_Sendrecv calls in the original source use.
func (c *Comm) SendRecv(sendData []float64, dest, sendTag int, recvBuf []float64, src, recvTag int) error {
	if err := c.Send(sendData, dest, sendTag); err != nil {
		return err
	}
	return c.Receive(recvBuf, src, recvTag)
}

// ReduceMaxUint8 implements an all-reduce over a single byte by gathering on
// rank 0 and broadcasting the result back out, since the wrapped library
// exposes no collective-reduce primitive.
const reduceTag = 1 << 20

func (c *Comm) ReduceMaxUint8(local uint8) (uint8, error) {
	if c.rank == 0 {
		max := local
		for src := 1; src < c.size; src++ {
			var v uint8
			if err := mpi.Receive(&v, src, reduceTag); err != nil {
				return 0, fmt.Errorf("transport: reduce receive from rank %d failed: %w", src, err)
			}
			if v > max {
				max = v
			}
		}
		for dest := 1; dest < c.size; dest++ {
			if err := mpi.Send(max, dest, reduceTag+1); err != nil {
				return 0, fmt.Errorf("transport: reduce broadcast to rank %d failed: %w", dest, err)
			}
			mpi.Wait(dest, reduceTag+1)
		}
		return max, nil
	}

	if err := mpi.Send(local, 0, reduceTag); err != nil {
		return 0, fmt.Errorf("transport: reduce send failed: %w", err)
	}
	mpi.Wait(0, reduceTag)
	var max uint8
	if err := mpi.Receive(&max, 0, reduceTag+1); err != nil {
		return 0, fmt.Errorf("transport: reduce broadcast receive failed: %w", err)
	}
	return max, nil
}

// Abort reports a fatal error and terminates every rank in the collective.
// Per the core's error-handling contract, transport failures, allocation
// failures and configuration failures are all unrecoverable.
func (c *Comm) Abort(reason error) {
	fmt.Printf("transport: rank %d aborting: %v\n", c.rank, reason)
	mpi.Finalize()
	panic(reason)
}
