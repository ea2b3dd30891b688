package memory

import (
	"context"
	"sync"

	"github.com/Iron-Ham/pulse/internal/envelope"
	"github.com/Iron-Ham/pulse/internal/errors"
	"github.com/Iron-Ham/pulse/internal/host"
)

type delivery struct {
	env    envelope.Envelope
	sender host.SenderInfo
	kind   host.Kind
	call   *call
}

type result struct {
	value any
	err   error
}

// call tracks the reply path of one send across every endpoint it was
// delivered to. It settles exactly once: on the first reply or failure, or
// with ErrNoResponse once every delivery finished without keeping the path
// open.
type call struct {
	once    sync.Once
	settled chan struct{}
	res     result

	mu      sync.Mutex
	pending int
	held    bool
}

var _ host.Responder = (*call)(nil)

func newCall(pending int) *call {
	return &call{
		settled: make(chan struct{}),
		pending: pending,
	}
}

// Reply implements host.Responder.
func (c *call) Reply(value any) {
	c.settle(result{value: value})
}

// Fail implements host.Responder.
func (c *call) Fail(err error) {
	if err == nil {
		err = errors.ErrNoResponse
	}
	c.settle(result{err: err})
}

func (c *call) settle(r result) {
	c.once.Do(func() {
		c.res = r
		close(c.settled)
	})
}

// finish records that one delivery ran all of its listeners.
func (c *call) finish(keepOpen bool) {
	c.mu.Lock()
	if keepOpen {
		c.held = true
	}
	c.pending--
	closed := c.pending <= 0 && !c.held
	c.mu.Unlock()

	if closed {
		c.settle(result{err: errors.ErrNoResponse})
	}
}

// watch fails the call if the receiving endpoint stops before it settles.
func (c *call) watch(done <-chan struct{}) {
	go func() {
		select {
		case <-done:
			c.settle(result{err: errors.ErrHubClosed})
		case <-c.settled:
		}
	}()
}

func (c *call) wait(ctx context.Context) (any, error) {
	select {
	case <-c.settled:
		return c.res.value, c.res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
