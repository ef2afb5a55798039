package engine

// sharedGroup holds the membership of one $share/<group>/ group rooted
// at a single trie node. Selection is a stable head-to-tail rotation
// instead of the teacher's rand.Intn pick (mem_share_topic.go's
// Subscribers path): §9's Design Notes call out the source's
// intrusive-list rotation as the behavior to match, and move-to-tail on
// a resizable slice is its direct equivalent.
type sharedGroup struct {
	name    string
	host    *node
	members []*Leaf
}

func newSharedGroup(name string, host *node) *sharedGroup {
	return &sharedGroup{name: name, host: host}
}

// add appends or, for an existing client, updates in place — mirroring
// insertLeaf's update-in-place behavior for ordinary leaves.
func (g *sharedGroup) add(cl Client, filter []byte, opts SubOptions) (leaf *Leaf, created bool) {
	for _, m := range g.members {
		if m.Client.ID() == cl.ID() {
			m.Options = opts
			return m, false
		}
	}
	l := &Leaf{Client: cl, Filter: append([]byte(nil), filter...), Options: opts, group: g}
	g.members = append(g.members, l)
	return l, true
}

func (g *sharedGroup) remove(clientID string) *Leaf {
	for i, m := range g.members {
		if m.Client.ID() == clientID {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return m
		}
	}
	return nil
}

func (g *sharedGroup) empty() bool { return len(g.members) == 0 }

// next returns the current head of the rotation without consuming a
// turn; rotate moves that head to the tail. Kept as two steps so the
// delivery decision in engine.go can run the ACL check before deciding
// whether this turn should be rotated at all.
func (g *sharedGroup) next() *Leaf {
	if len(g.members) == 0 {
		return nil
	}
	return g.members[0]
}

func (g *sharedGroup) rotate() {
	if len(g.members) < 2 {
		return
	}
	head := g.members[0]
	g.members = append(g.members[1:], head)
}
