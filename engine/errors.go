package engine

import "errors"

// Sentinel errors returned (possibly wrapped) by engine operations. ACL
// denial is deliberately not among them: it never surfaces as an error,
// only as a silent skip in the delivery decision (§7 of the core spec).
// An ACL backend Error, unlike a Deny, does surface through ErrDelivery,
// per §4.5's "Error propagates as a delivery error".
var (
	ErrInvalidTopic   = errors.New("engine: invalid topic filter")
	ErrNoSubscription = errors.New("engine: no matching subscription")
	ErrNoSubscribers  = errors.New("engine: no subscribers for topic")
	ErrOutOfMemory    = errors.New("engine: out of memory")
	ErrDelivery       = errors.New("engine: delivery failed")
	ErrRetainStore    = errors.New("engine: retain store failed")

	// ErrRateLimited is a SPEC_FULL addition (§3 domain stack): the
	// per-client SubAdd token bucket rejected this call. Not one of
	// the core error kinds, since rate limiting is an embedding
	// concern the distilled spec never mentions.
	ErrRateLimited = errors.New("engine: subscribe rate limit exceeded")
)

// opError wraps a sentinel with operation context, following the
// teacher's message.Code pattern: Error() stays human-readable while
// Unwrap lets callers errors.Is against the sentinel.
type opError struct {
	op     string
	filter string
	err    error
}

func (e *opError) Error() string {
	if e.filter == "" {
		return e.op + ": " + e.err.Error()
	}
	return e.op + " " + e.filter + ": " + e.err.Error()
}

func (e *opError) Unwrap() error { return e.err }

func wrapErr(op, filter string, err error) error {
	if err == nil {
		return nil
	}
	return &opError{op: op, filter: filter, err: err}
}
