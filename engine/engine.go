package engine

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/lybxkl/subengine/common/constant"
	"github.com/lybxkl/subengine/common/log"
	"github.com/lybxkl/subengine/internal/gopool"
)

const sysSubscribedTopicsPrefix = "$SYS/broker/subscribed_topics/"

// Engine is the topic subscription engine: one root trie, one
// per-client index, and the collaborators it calls out to. There is no
// package-level instance — the teacher's broker/core/face.go reaches
// through a process-wide singleton, which §9 names as the pattern this
// type must not repeat. Multiple *Engine values coexist freely, each
// with its own lock, root and Config.
type Engine struct {
	mu sync.RWMutex

	root    *node
	clients map[string]*clientRecord

	deps Deps
	cfg  Config

	limiter  *subLimiter
	counters Counters
	pool     *gopool.Pool
	log      log.Logger
}

// New builds an Engine. Every field of deps must be non-nil; a missing
// collaborator is a programmer error caught at construction, not a
// runtime condition the caller is meant to handle, matching the
// teacher's util.MustPanic convention for startup-only invariants.
func New(deps Deps, cfg Config, logger log.Logger) (*Engine, error) {
	if deps.ACL == nil || deps.MidGen == nil || deps.Enqueue == nil ||
		deps.Refs == nil || deps.Retain == nil || deps.PersistNotify == nil {
		panic("engine: Deps has a nil collaborator")
	}
	pool, err := gopool.New(cfg.WorkerPoolSize, logger)
	if err != nil {
		return nil, fmt.Errorf("engine: build worker pool: %w", err)
	}
	return &Engine{
		root:    newNode(nil),
		clients: make(map[string]*clientRecord),
		deps:    deps,
		cfg:     cfg,
		limiter: newSubLimiter(cfg.SubRatePerSec, cfg.SubRateBurst),
		pool:    pool,
		log:     logger,
	}, nil
}

// Counters exposes the engine's live subscription counts (§6
// Observability) for a caller such as internal/schedule's periodic
// flush job.
func (e *Engine) Counters() *Counters { return &e.counters }

// SubAdd implements §4.4's Subscribe and the sub_add row of §6's inward
// API table.
func (e *Engine) SubAdd(cl Client, spec SubSpec) (Result, error) {
	if !e.limiter.allow(cl.ID()) {
		return ResultOk, wrapErr("SubAdd", string(spec.Filter), ErrRateLimited)
	}

	filter := spec.Filter
	body := filter
	shareGroup := ""
	if isShareFilter(filter) {
		g, rest, err := splitShare(filter)
		if err != nil {
			return ResultOk, wrapErr("SubAdd", string(filter), err)
		}
		shareGroup, body = g, rest
	}

	lvls, err := levels(body, e.cfg.MaxFilterLen, e.cfg.MaxLevelLen)
	if err != nil {
		return ResultOk, wrapErr("SubAdd", string(filter), err)
	}

	opts := spec.Options
	if opts.Qos > constant.MaxQosAllowed {
		opts.Qos = constant.MaxQosAllowed
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	target := e.root.findOrCreatePath(lvls)

	var leaf *Leaf
	var created bool
	if shareGroup != "" {
		if target.shared == nil {
			target.shared = make(map[string]*sharedGroup)
		}
		g, ok := target.shared[shareGroup]
		if !ok {
			g = newSharedGroup(shareGroup, target)
			target.shared[shareGroup] = g
		}
		leaf, created = g.add(cl, filter, opts)
	} else {
		leaf, created = insertLeaf(target, cl, filter, opts)
	}

	if created {
		rec, ok := e.clients[cl.ID()]
		if !ok {
			rec = &clientRecord{}
			e.clients[cl.ID()] = rec
		}
		rec.add(leaf)
		e.counters.subAdded(shareGroup != "")
		e.publishSubscribedCount(target, lvls)
		return ResultOk, nil
	}

	if spec.LegacyReplay || e.cfg.LegacyRetainReplay {
		return ResultOk, nil
	}
	return ResultAlreadyExists, nil
}

// SubRemove implements §4.4's Unsubscribe and the sub_remove row of §6.
func (e *Engine) SubRemove(cl Client, filter []byte) (Result, error) {
	body := filter
	shareGroup := ""
	if isShareFilter(filter) {
		g, rest, err := splitShare(filter)
		if err != nil {
			return ResultOk, wrapErr("SubRemove", string(filter), err)
		}
		shareGroup, body = g, rest
	}

	lvls, err := levels(body, e.cfg.MaxFilterLen, e.cfg.MaxLevelLen)
	if err != nil {
		return ResultOk, wrapErr("SubRemove", string(filter), err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	target := e.root.findPath(lvls)
	if target == nil {
		return ResultNoSubscription, wrapErr("SubRemove", string(filter), ErrNoSubscription)
	}

	var leaf *Leaf
	if shareGroup != "" {
		g, ok := target.shared[shareGroup]
		if ok {
			leaf = g.remove(cl.ID())
			if leaf != nil && g.empty() {
				delete(target.shared, shareGroup)
			}
		}
	} else {
		leaf = removeLeaf(target, cl.ID())
	}
	if leaf == nil {
		return ResultNoSubscription, wrapErr("SubRemove", string(filter), ErrNoSubscription)
	}

	if rec, ok := e.clients[cl.ID()]; ok {
		rec.remove(leaf)
		if rec.empty() {
			delete(e.clients, cl.ID())
		}
	}

	e.counters.subRemoved(shareGroup != "")
	e.deps.PersistNotify.SubscriptionRemoved(cl.ID(), filter)
	e.publishSubscribedCount(target, lvls)
	collapseFrom(target)

	return ResultOk, nil
}

// MessagesQueue implements §4.5/§4.6's publish matcher and delivery
// decision, and the messages_queue row of §6.
func (e *Engine) MessagesQueue(sourceClientID string, topic []byte, qos byte, retain bool, stored StoredMessage) (Result, error) {
	lvls, err := publishLevels(topic, e.cfg.MaxFilterLen, e.cfg.MaxLevelLen)
	if err != nil {
		return ResultOk, wrapErr("MessagesQueue", string(topic), err)
	}
	sysTopic := isSysFilter(topic)

	e.deps.Refs.Inc(stored)
	defer e.deps.Refs.Dec(stored)

	e.mu.Lock()
	defer e.mu.Unlock()

	var results []matchResult
	match(e.root, lvls, sysTopic, &results)

	var retainErr error
	if retain {
		if e.deps.Retain.Store(topic, stored, lvls, true) == RetainError {
			retainErr = wrapErr("MessagesQueue", string(topic), ErrRetainStore)
		}
	}

	if len(results) == 0 {
		if retainErr != nil {
			return ResultOk, retainErr
		}
		return ResultNoSubscribers, nil
	}

	delivered, attempted := 0, 0
	rotated := make(map[*sharedGroup]bool, len(results))
	for _, r := range results {
		outcome := e.deliverOne(sourceClientID, topic, qos, retain, stored, r.leaf)
		if outcome != deliverySkipped {
			attempted++
		}
		if outcome == deliveredOK {
			delivered++
		}
		if g := r.leaf.group; g != nil && !rotated[g] {
			if outcome == deliveredOK || e.cfg.ShareRotateOnDeny {
				g.rotate()
			}
			rotated[g] = true
		}
	}

	if delivered == 0 && attempted > 0 {
		return ResultOk, ErrDelivery
	}
	if retainErr != nil {
		return ResultOk, retainErr
	}
	return ResultOk, nil
}

// Clean implements §4.7's Session cleanup and the clean_session row of
// §6: it walks the client's own index sequence rather than replaying a
// topic list handed in from outside, per the teacher's session layer
// needing to enumerate topics first — this engine already has the
// authoritative list.
func (e *Engine) Clean(cl Client) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, ok := e.clients[cl.ID()]
	if !ok {
		return nil
	}
	for _, l := range rec.slots {
		if l == nil {
			continue
		}
		var host *node
		if l.group != nil {
			l.group.remove(cl.ID())
			host = l.group.host
			if l.group.empty() && host != nil {
				delete(host.shared, l.group.name)
			}
		} else if l.host != nil {
			host = l.host
			removeLeaf(host, cl.ID())
		}
		e.counters.subRemoved(l.group != nil)
		e.deps.PersistNotify.SubscriptionRemoved(cl.ID(), l.Filter)
		if host != nil {
			collapseFrom(host)
		}
	}
	delete(e.clients, cl.ID())
	return nil
}

// ShareGroups enumerates every (topic path, [group names]) pair
// currently registered, a supplemented feature carried forward from
// the teacher's AllSubInfo (SPEC_FULL.md §3.1). Read-only, so it takes
// the engine's lock for reading rather than writing.
func (e *Engine) ShareGroups() map[string][]string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string][]string)
	walkShareGroups(e.root, nil, out)
	return out
}

func walkShareGroups(n *node, path [][]byte, out map[string][]string) {
	if len(n.shared) > 0 {
		names := make([]string, 0, len(n.shared))
		for name := range n.shared {
			names = append(names, name)
		}
		out[joinLevels(path)] = names
	}
	for key, child := range n.children {
		walkShareGroups(child, append(path, []byte(key)), out)
	}
}

type deliveryOutcome byte

const (
	deliveredOK deliveryOutcome = iota
	deliverySkipped
	deliveryFailed
)

// deliverOne runs §4.5's per-leaf delivery decision: no-local, ACL,
// QoS resolution, packet-ID allocation, retain-as-published, then
// enqueue. Grounded on service/v1/process.go's lookSend loop, which
// calls the stored per-subscriber callback with the resolved qos after
// the same sequence of checks.
func (e *Engine) deliverOne(sourceClientID string, topic []byte, pubQos byte, pubRetain bool, stored StoredMessage, l *Leaf) deliveryOutcome {
	if l.Options.NoLocal && sourceClientID != "" && l.Client.ID() == sourceClientID {
		return deliverySkipped
	}

	switch e.deps.ACL.Check(l.Client.ID(), topic, AccessRead) {
	case Deny:
		return deliverySkipped
	case Error:
		return deliveryFailed
	}

	effQos := resolveQos(pubQos, l.Options.Qos, e.cfg.UpgradeOutgoingQos)

	var mid uint16
	if effQos > 0 {
		id, err := e.deps.MidGen.NextID(l.Client.ID())
		if err != nil {
			return deliveryFailed
		}
		mid = id
	}

	retainOut := false
	if l.Options.RetainAsPublished {
		retainOut = pubRetain
	}

	switch e.deps.Enqueue.Enqueue(l.Client.ID(), stored, effQos, mid, retainOut, l.Options.SubIdentifier) {
	case EnqueueError:
		return deliveryFailed
	default:
		return deliveredOK
	}
}

// publishSubscribedCount submits the §6 Observability $SYS retained
// publish off the calling goroutine via internal/gopool, so a
// subscribe/unsubscribe call never blocks on it (§5 forbids blocking
// side effects inside a mutation).
func (e *Engine) publishSubscribedCount(target *node, lvls [][]byte) {
	count := len(target.subs)
	path := joinLevels(lvls)
	e.pool.Submit(func() {
		topic := []byte(sysSubscribedTopicsPrefix + path)
		e.deps.Retain.Store(topic, count, bytes.Split(topic, []byte{sep}), true)
	})
}

// joinLevels rebuilds a "/"-separated path from a level sequence
// through a pre-sized strings.Builder, resolving §9's "observed
// oddity" about the source's off-by-one buffer sizing per
// SPEC_FULL.md §1.2: capacity is sum(len(level)) + depth, not a
// separately tracked running offset.
func joinLevels(lvls [][]byte) string {
	total := len(lvls)
	for _, l := range lvls {
		total += len(l)
	}
	var b strings.Builder
	b.Grow(total)
	for i, l := range lvls {
		if i > 0 {
			b.WriteByte(sep)
		}
		b.Write(l)
	}
	return b.String()
}
