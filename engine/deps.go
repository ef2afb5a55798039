package engine

// Deps bundles every external collaborator the engine calls out to, per
// spec.md §6's outward interface table. An *Engine never reaches into a
// global singleton for any of these — the teacher's broker/core/face.go
// does exactly that, and §9 names it as the pattern this engine must
// not repeat.
type Deps struct {
	ACL           ACLChecker
	MidGen        MidGenerator
	Enqueue       Enqueuer
	Refs          RefCounter
	Retain        RetainStore
	PersistNotify PersistenceNotifier
}

// ACLChecker is consulted once per matched leaf during publish
// delivery, with AccessRead, mirroring the teacher's Acl.Pub
// (broker/core/auth/auth.go). SubAdd makes no ACL call.
type ACLChecker interface {
	Check(clientID string, topic []byte, access AccessType) Decision
}

// MidGenerator hands out packet identifiers for QoS 1/2 deliveries.
// internal/pkid provides the default implementation.
type MidGenerator interface {
	NextID(clientID string) (uint16, error)
}

// Enqueuer hands a resolved delivery to the outbound path the engine
// does not own (§1's Non-goals: "the outbound message queue"). §4.5
// names the subscription identifier as part of the enqueue call so it
// can be echoed back to the subscriber alongside the message.
type Enqueuer interface {
	Enqueue(clientID string, msg StoredMessage, qos byte, packetID uint16, retained bool, subIdentifier uint32) EnqueueResult
}

// RefCounter tracks a StoredMessage's fan-out reference count so the
// caller knows when it is safe to free the underlying payload.
type RefCounter interface {
	Inc(msg StoredMessage)
	Dec(msg StoredMessage)
}

// RetainStore is the retained-message hook from §6; the engine never
// reads or writes retained messages itself, only calls this on a
// retained publish and lets the session layer use RetainHandling to
// decide whether to replay on a fresh subscribe. tokenizedTopic is the
// already-split topic the engine used for matching, handed over so the
// store does not have to re-tokenize it; replace tells the store this
// call supersedes any previously retained message at topic.
type RetainStore interface {
	Store(topic []byte, msg StoredMessage, tokenizedTopic [][]byte, replace bool) RetainResult
}

// PersistenceNotifier is told about subscription-tree mutations that a
// session-persistence layer (outside this engine's scope) may need to
// mirror, per §6's subscription_deleted_notify hook.
type PersistenceNotifier interface {
	SubscriptionRemoved(clientID string, filter []byte)
}
