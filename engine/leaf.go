package engine

// Leaf is a single subscriber attached to a trie node, per spec.md §3's
// data model. host lets Clean locate the owning node of an ordinary
// leaf without a trie walk, and group is non-nil only for
// shared-subscription leaves (whose host is nil).
type Leaf struct {
	Client  Client
	Filter  []byte
	Options SubOptions

	host  *node
	group *sharedGroup
}

// clientRecord is the per-client index from §3: a sparse slice of the
// leaves that client currently owns. Slots are set nil on unsubscribe
// rather than compacted, so Clean can walk the slice once in O(n)
// without needing map iteration order to be stable. Grounded on the
// teacher's per-node parallel-slice scan in snode.sinsert/sremove,
// generalized from "scan for a duplicate subscriber" to "scan for a
// free slot to reuse".
type clientRecord struct {
	slots []*Leaf
}

func (r *clientRecord) add(l *Leaf) {
	for i, s := range r.slots {
		if s == nil {
			r.slots[i] = l
			return
		}
	}
	r.slots = append(r.slots, l)
}

func (r *clientRecord) remove(l *Leaf) {
	for i, s := range r.slots {
		if s == l {
			r.slots[i] = nil
			return
		}
	}
}

func (r *clientRecord) find(filter string) *Leaf {
	for _, s := range r.slots {
		if s != nil && string(s.Filter) == filter {
			return s
		}
	}
	return nil
}

func (r *clientRecord) empty() bool {
	for _, s := range r.slots {
		if s != nil {
			return false
		}
	}
	return true
}

// insertLeaf attaches leaf's client to n, updating an existing leaf's
// options in place if that client already subscribed via n (an
// updating re-subscribe per §4.4), or appending a new one. It reports
// whether the leaf was newly created.
func insertLeaf(n *node, cl Client, filter []byte, opts SubOptions) (leaf *Leaf, created bool) {
	for _, s := range n.subs {
		if s.Client.ID() == cl.ID() {
			s.Options = opts
			return s, false
		}
	}
	l := &Leaf{Client: cl, Filter: append([]byte(nil), filter...), Options: opts, host: n}
	n.subs = append(n.subs, l)
	return l, true
}

// removeLeaf detaches the leaf belonging to clientID from n, mirroring
// snode.sremove's slice-splice removal.
func removeLeaf(n *node, clientID string) *Leaf {
	for i, s := range n.subs {
		if s.Client.ID() == clientID {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return s
		}
	}
	return nil
}
