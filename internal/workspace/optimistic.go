package workspace

import (
	"context"
	"errors"
)

// mutation is a local change applied before the remote call it mirrors.
// apply and rollback run with the state lock held. apply reports false when
// the precondition does not hold; the operation is then a no-op. A nil
// rollback means the change has no cheap inverse and a failed call is
// corrected by refetching every list.
type mutation struct {
	apply    func() bool
	rollback func()
}

// optimistic applies m, runs remote without the lock, and on failure
// reports the error and either rolls back or resyncs.
func (c *Controller) optimistic(ctx context.Context, op string, m mutation, remote func(context.Context) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !m.apply() {
		c.mu.Unlock()
		return nil
	}
	rctx, cancel := c.deriveLocked(ctx)
	c.mu.Unlock()
	defer cancel()

	err := remote(rctx)
	if err == nil {
		return nil
	}
	c.reporter.Report(rctx, op, err)

	if m.rollback == nil {
		if rerr := c.resync(ctx); rerr != nil && !errors.Is(rerr, ErrClosed) && !errors.Is(rerr, ErrSuperseded) {
			c.logger.WithField("op", op).WithError(rerr).Warn("workspace.resync.failed")
		}
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		m.rollback()
	}
	return err
}
