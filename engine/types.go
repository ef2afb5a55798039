// Package engine implements the topic subscription engine: the
// hierarchical trie of subscription filters, wildcard + shared-group
// publish matching, and the per-delivery option resolution described in
// spec.md / SPEC_FULL.md. It has no knowledge of MQTT wire encoding,
// transport, or persistence — those are the external collaborators
// wired in through Deps.
package engine

// Client identifies a subscriber. The engine stores this reference
// directly (there is no Go analogue of a C weak pointer); callers must
// not mutate the ID after a client has subscribed.
type Client interface {
	// ID returns the client identifier used for no-local checks, leaf
	// de-duplication, and the per-client index sequence.
	ID() string
}

// RetainHandling controls whether a subscribe replays retained messages,
// mirroring the three modes named in SPEC_FULL.md §3.1. The engine
// itself does not act on this value — it is threaded through so the
// session layer can read it back off the leaf.
type RetainHandling byte

const (
	// RetainSendAlways replays retained messages on every subscribe.
	RetainSendAlways RetainHandling = iota
	// RetainSendIfNew replays only if the subscription did not already exist.
	RetainSendIfNew
	// RetainNever never replays retained messages for this subscription.
	RetainNever
)

// SubOptions is the leaf options bitfield from spec.md §3.
type SubOptions struct {
	Qos               byte
	NoLocal           bool
	RetainAsPublished bool
	RetainHandling    RetainHandling
	// SubIdentifier is a 28-bit integer; 0 means absent.
	SubIdentifier uint32
}

// SubSpec is the inward sub_add payload from spec.md §6.
type SubSpec struct {
	// Filter is the raw subscription filter, including any $share/<g>/
	// prefix.
	Filter []byte
	Options SubOptions
	// LegacyReplay selects the §4.4 "legacy protocol" return-value
	// behavior: Ok instead of AlreadyExists on an updating re-subscribe,
	// so the session layer knows to re-send retained messages.
	LegacyReplay bool
}

// AccessType names the kind of access an ACL check is guarding.
type AccessType byte

const (
	AccessRead AccessType = iota
	AccessWrite
)

// Decision is the outcome of an ACL check. Error is distinct from Deny
// per §4.5: a backend failure "propagates as a delivery error but does
// not abort matching of other leaves", whereas Deny skips the leaf
// silently — the two must be distinguishable at the call site.
type Decision byte

const (
	Allow Decision = iota
	Deny
	Error
)

// StoredMessage is an opaque handle to a published payload. The engine
// never inspects it; it only threads it through RefCounter, Enqueuer and
// RetainStore exactly as received.
type StoredMessage = interface{}

// EnqueueResult is the outward msg_enqueue_outgoing return value.
type EnqueueResult byte

const (
	EnqueueOk EnqueueResult = iota
	EnqueueDuplicateElided
	EnqueueError
)

// RetainResult is the outward retain_store return value from §6.
type RetainResult byte

const (
	RetainOk RetainResult = iota
	RetainError
)

// Result is the byte codes returned to session/protocol callers, from
// spec.md §6/§7. §6 distills sub_remove's outcome into both a top-level
// Result and a separate reason_out parameter (Success/NoSubscriptionExisted)
// describing the same two cases (whole path absent vs. leaf absent on
// an existing path); this engine collapses that into one Result value
// per call, the idiomatic Go shape, rather than threading an extra
// output parameter through every caller.
type Result byte

const (
	ResultOk Result = iota
	ResultAlreadyExists
	ResultNoSubscription
	ResultNoSubscribers
)
