package broadcast

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// job is one queued display request.
type job struct {
	v    interface{}
	opts DisplayOptions
}

// LoopConfig carries the channels a broadcast loop communicates over.
type LoopConfig struct {
	// Errors from individual sends; the loop keeps going after each one.
	// A nil ErrCh means errors are only logged.
	ErrCh chan error
	// Send a struct{} to stop the loop without draining the queue. Close
	// the Broadcaster instead to drain first.
	StopCh chan struct{}
}

// Queue enqueues a display request for the broadcast loop without blocking
// the caller. It returns an error when the queue is full, since user code
// producing display output faster than the host can take it should hear
// about that rather than stall.
func (b *Broadcaster) Queue(v interface{}, opts DisplayOptions) error {
	select {
	case b.queue <- job{v: v, opts: opts}:
		return nil
	default:
		return errors.New("the broadcast queue is full")
	}
}

// StartLoop drains the queue, formatting and sending each request in
// arrival order. It returns once the Broadcaster is closed and the queue is
// empty, or as soon as a struct{} arrives on the stop channel. Run it on
// its own goroutine.
func (b *Broadcaster) StartLoop(lc *LoopConfig) {
	for {
		select {
		case j, ok := <-b.queue:
			if !ok {
				return
			}
			_, _, err := b.Display(context.Background(), j.v, j.opts)
			if err == nil {
				continue
			}
			log.Error().Err(err).Msg("error broadcasting a queued display")
			if lc.ErrCh != nil {
				lc.ErrCh <- err
			}
		case <-lc.StopCh:
			return
		}
	}
}

// Close stops accepting new Queue calls and lets a running loop drain what's
// left. Callers must not Queue after Close.
func (b *Broadcaster) Close() {
	close(b.queue)
}
