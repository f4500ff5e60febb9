// Package transmit implements the transmission driver: the small state
// machine that pulls candidates from a mutation engine, paces them, and
// hands each one to a raw-socket sender, per §4.F.
//
// Grounded in the teacher's p2p/discover session loop (pull next
// message, act on its kind, continue) for the loop shape, and paced with
// golang.org/x/time/rate instead of a bare time.Sleep so the loop can
// unblock promptly when its context is canceled rather than oversleeping
// past a cancellation.
package transmit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lockoutlabs/bbuzz-go/internal/blog"
	"github.com/lockoutlabs/bbuzz-go/internal/telemetry"
	"github.com/lockoutlabs/bbuzz-go/mutate"
)

// Engine is the driver-facing pull contract a mutation engine satisfies.
type Engine interface {
	Get() (mutate.Result, error)
}

// Sender is the driver-facing contract a raw-socket protocol sender
// satisfies: bind, send, and tear down.
type Sender interface {
	Create(iface string) error
	Send(data []byte) error
	Kill() error
}

// defaultTimeout is the default pacing interval between sends: 100ms,
// §4.F's 0.1 seconds.
const defaultTimeout = 100 * time.Millisecond

// Driver holds the single pacing parameter the transmission loop uses.
type Driver struct {
	timeout time.Duration
	log     *blog.Logger
	stats   *telemetry.DriverStats
}

// New returns a Driver that paces sends by timeout. timeout <= 0 uses the
// default of 100ms (the spec's "0.1" seconds).
func New(timeout time.Duration) *Driver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Driver{
		timeout: timeout,
		log:     blog.Default().Component("transmit"),
		stats:   telemetry.NewDriverStats(),
	}
}

// Stats returns the driver's send/skip/terminal-reason counters for this
// run.
func (d *Driver) Stats() *telemetry.DriverStats { return d.stats }

// Fuzz runs the main loop to completion against ctx: pull the next
// candidate, act on its kind, and repeat, guaranteeing exactly one Kill
// call on every exit path (§4.F's "exactly one kill per fuzz").
func (d *Driver) Fuzz(ctx context.Context, engine Engine, sender Sender) error {
	runID := uuid.New()
	log := d.log.Run(runID.String())
	log.Info("fuzz run starting")

	limiter := rate.NewLimiter(rate.Every(d.timeout), 1)
	// Wait is only called after a send, so the first send never waits.
	// Draining the initial burst token makes that first Wait, like every
	// later one, pause a full interval instead of returning at once.
	limiter.Allow()

	defer func() {
		if err := sender.Kill(); err != nil {
			log.Error("kill failed", "error", err)
		} else {
			log.Info("fuzz run terminated, socket killed")
		}
	}()

	for {
		result, err := engine.Get()
		if err != nil {
			log.Error("engine returned an unrecoverable error, terminating", "error", err)
			d.stats.TerminatedOnError.Add(1)
			return err
		}

		switch result.Kind {
		case mutate.ResultEndOfStatic:
			d.stats.EndOfStaticCycles.Add(1)
			continue
		case mutate.ResultEndOfAll:
			log.Info("engine exhausted, fuzz run complete", "candidates_sent", d.stats.CandidatesSent.Load())
			d.stats.EndOfAll.Add(1)
			return nil
		case mutate.ResultPayload:
			if err := sender.Send(result.Bytes); err != nil {
				log.Error("send failed", "error", err)
				d.stats.TerminatedOnSendError.Add(1)
				return err
			}
			d.stats.CandidatesSent.Add(1)
			log.Candidate("candidate sent", int(d.stats.CandidatesSent.Load()), len(result.Bytes))
			if err := limiter.Wait(ctx); err != nil {
				log.Info("pacing canceled", "error", err)
				return err
			}
		}
	}
}
