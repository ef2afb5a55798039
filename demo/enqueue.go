package demo

import (
	"github.com/lybxkl/subengine/common/log"
	"github.com/lybxkl/subengine/engine"
)

// LoggingEnqueuer stands in for the outbound message queue the engine
// deliberately does not own: every resolved delivery decision is just
// logged, grounded on the teacher's service/v1/process.go lookSend
// loop logging each send attempt before handing it to the connection.
type LoggingEnqueuer struct {
	log log.Logger
}

func NewLoggingEnqueuer(logger log.Logger) *LoggingEnqueuer {
	return &LoggingEnqueuer{log: logger}
}

func (e *LoggingEnqueuer) Enqueue(clientID string, _ engine.StoredMessage, qos byte, packetID uint16, retained bool, subIdentifier uint32) engine.EnqueueResult {
	e.log.Infof("deliver -> client=%s qos=%d packetID=%d retained=%v subID=%d", clientID, qos, packetID, retained, subIdentifier)
	return engine.EnqueueOk
}

// LoggingPersistNotify logs subscription removals in place of the
// session-persistence layer §6 names but this engine does not own.
type LoggingPersistNotify struct {
	log log.Logger
}

func NewLoggingPersistNotify(logger log.Logger) *LoggingPersistNotify {
	return &LoggingPersistNotify{log: logger}
}

func (p *LoggingPersistNotify) SubscriptionRemoved(clientID string, filter []byte) {
	p.log.Infof("subscription removed -> client=%s filter=%s", clientID, filter)
}
