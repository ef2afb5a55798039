// Package demo provides the default in-memory Deps implementations
// cmd/subengine-demo wires into an *engine.Engine: an allow-all ACL, a
// retained-message table, a sequential ref counter, a logging enqueuer
// and a logging persistence notifier. None of this is part of the
// engine's own scope — the protocol layer and real storage are
// explicitly outside it — but a runnable demo needs something to hand
// the engine as Deps.
package demo

import (
	"github.com/lybxkl/subengine/engine"
)

// AllowAllACL grants every access check, adapted from the teacher's
// broker/impl/auth.defaultAcl — a single always-true policy stood in
// for any real access control.
type AllowAllACL struct{}

func (AllowAllACL) Check(string, []byte, engine.AccessType) engine.Decision {
	return engine.Allow
}

// DenySet denies the configured (clientID, AccessType) pairs and
// allows everything else, for exercising the ACL-denial delivery path
// without a full access-control backend.
type DenySet struct {
	clients map[string]engine.AccessType
}

func NewDenySet() *DenySet {
	return &DenySet{clients: make(map[string]engine.AccessType)}
}

func (d *DenySet) Deny(clientID string, access engine.AccessType) {
	d.clients[clientID] = access
}

func (d *DenySet) Check(clientID string, _ []byte, access engine.AccessType) engine.Decision {
	if a, ok := d.clients[clientID]; ok && a == access {
		return engine.Deny
	}
	return engine.Allow
}
