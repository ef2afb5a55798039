package engine

import "go.uber.org/atomic"

// Counters is the §6 "Observability" surface: live counts an operator
// or the demo's periodic stats flush can read without taking the
// engine's main lock. Grounded on the teacher's Sign struct in
// service/v1/pipiline.go, which keeps connection-scoped counters as
// go.uber.org/atomic values read outside of any mutex.
type Counters struct {
	Subscriptions       atomic.Int64
	SharedSubscriptions atomic.Int64
}

func (c *Counters) subAdded(shared bool) {
	c.Subscriptions.Inc()
	if shared {
		c.SharedSubscriptions.Inc()
	}
}

func (c *Counters) subRemoved(shared bool) {
	c.Subscriptions.Dec()
	if shared {
		c.SharedSubscriptions.Dec()
	}
}
