package demo

import (
	"github.com/lybxkl/subengine/engine"
	"github.com/lybxkl/subengine/internal/collection"
)

// RetainStore is a topic-keyed retained-message table, adapted from
// the teacher's memMessageStore.retainTable (broker/impl/store) down
// to the engine's narrower RetainStore.Store hook — this never exposes
// a lookup/replay path since that belongs to the session layer the
// engine does not own.
type RetainStore struct {
	table *collection.SafeMap
}

func NewRetainStore() *RetainStore {
	return &RetainStore{table: collection.NewSafeMap()}
}

func (r *RetainStore) Store(topic []byte, msg engine.StoredMessage, _ [][]byte, _ bool) engine.RetainResult {
	r.table.Set(string(topic), msg)
	return engine.RetainOk
}

func (r *RetainStore) Get(topic string) (engine.StoredMessage, bool) {
	return r.table.Get(topic)
}

// RefCounter is a process-wide counter keyed by the message handle
// itself; it exists only so the demo's Deps satisfies
// engine.RefCounter without the engine itself tracking reference
// counts (§1's Non-goals: "the outbound message queue" owns that).
type RefCounter struct {
	counts *collection.SafeMap
}

func NewRefCounter() *RefCounter {
	return &RefCounter{counts: collection.NewSafeMap()}
}

func (r *RefCounter) Inc(msg engine.StoredMessage) {
	key := msg
	if v, ok := r.counts.Get(key); ok {
		r.counts.Set(key, v.(int)+1)
	} else {
		r.counts.Set(key, 1)
	}
}

func (r *RefCounter) Dec(msg engine.StoredMessage) {
	key := msg
	if v, ok := r.counts.Get(key); ok {
		if v.(int) <= 1 {
			r.counts.Del(key)
		} else {
			r.counts.Set(key, v.(int)-1)
		}
	}
}
