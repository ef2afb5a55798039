// Package gopool wraps panjf2000/ants into a non-global worker pool,
// adapted from the teacher's util/gopool/go_pool.go. The teacher keeps
// the pool behind package-level variables; this version hangs it off a
// *Pool value instead, since an embedded engine must not depend on
// process-wide state any more than the engine itself does.
package gopool

import (
	"errors"

	"github.com/panjf2000/ants/v2"

	"github.com/lybxkl/subengine/common/log"
)

// Pool submits fire-and-forget work (the $SYS observability publish)
// off the caller's goroutine, so a subscription mutation never blocks
// on that side effect.
type Pool struct {
	inner *ants.Pool
	size  int
	log   log.Logger
}

// New builds a pool sized to size, with a panic handler and an
// overload-backoff policy carried over from the teacher's
// InitServiceTaskPool almost unchanged.
func New(size int, logger log.Logger) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	p := &Pool{size: size, log: logger}
	inner, err := ants.NewPool(size,
		ants.WithPanicHandler(func(i interface{}) {
			p.log.Errorf("gopool: task panicked: %v", i)
		}),
		ants.WithMaxBlockingTasks(size*2),
	)
	if err != nil {
		return nil, err
	}
	p.inner = inner
	return p, nil
}

// Submit runs f on a pooled goroutine, rebooting or tuning the pool on
// the same two recoverable ants errors the teacher handles.
func (p *Pool) Submit(f func()) {
	p.dealErr(p.inner.Submit(f))
}

func (p *Pool) dealErr(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ants.ErrPoolClosed) {
		p.log.Errorf("gopool: pool closed, rebooting: %v", err)
		p.inner.Reboot()
		return
	}
	if errors.Is(err, ants.ErrPoolOverload) {
		newSize := int(float64(p.size) * 1.25)
		p.log.Errorf("gopool: pool overloaded, tuning to %d: %v", newSize, err)
		p.inner.Tune(newSize)
		return
	}
	p.log.Errorf("gopool: submit failed: %v", err)
}

// Close releases the underlying ants pool.
func (p *Pool) Close() error {
	p.inner.Release()
	return nil
}
