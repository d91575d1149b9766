package prompt

import (
	"context"
	"errors"
	"time"
)

// ErrStartupDone is returned when RunStartup is called more than once.
var ErrStartupDone = errors.New("startup sequence already ran")

// StartupLine is appended to the transcript after Delay has elapsed.
type StartupLine struct {
	Text  string
	Delay time.Duration
}

// RunStartup plays the startup lines in order, each after its delay, then
// opens the key gate and emits LoadMOTD. If ctx ends first the gate stays
// closed and ctx.Err() is returned.
func (c *Controller) RunStartup(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrStartupDone
	}
	c.started = true
	enabled := c.opts.EnableStartupSequence
	lines := c.opts.Startup
	c.mu.Unlock()

	if !enabled {
		return nil
	}

	for i, line := range lines {
		if err := sleep(ctx, line.Delay); err != nil {
			c.log.Debugw("startup cancelled", "line", i)
			return err
		}
		c.transcript.Append(line.Text)
	}

	c.mu.Lock()
	c.loaded = true
	c.mu.Unlock()
	c.log.Debugw("startup complete", "lines", len(lines))
	c.notifier.Notify(Notification{Name: LoadMOTD})
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
