// Package schedule adapts the teacher's util/cron wrapper over
// robfig/cron/v3, trimmed of its delayed-will-message job type — this
// repo has no will-message concept — and kept for the one periodic job
// the demo command needs: flushing engine.Counters to the log.
package schedule

import (
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron.Cron with a name-addressable job table, the
// same shape as the teacher's ScheduleCron.
type Scheduler struct {
	cron *cron.Cron
	ids  sync.Map
}

// New builds a scheduler with second-resolution specs and panic
// recovery, matching ScheduleCron.initCron.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger))),
	}
}

func (s *Scheduler) AddFunc(spec, id string, fn func()) error {
	entryID, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return err
	}
	s.ids.Store(id, entryID)
	return nil
}

func (s *Scheduler) Remove(id string) {
	v, ok := s.ids.LoadAndDelete(id)
	if !ok {
		return
	}
	s.cron.Remove(v.(cron.EntryID))
}

func (s *Scheduler) Start() { s.cron.Start() }
func (s *Scheduler) Stop()  { s.cron.Stop() }
