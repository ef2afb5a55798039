package engine

// matchResult is one matched leaf produced by walking the trie for a
// publish; the per-leaf delivery decision is made afterwards by
// Engine.deliverOne.
type matchResult struct {
	leaf *Leaf
}

// match walks the trie from root for a publish topic split into lvls
// and collects every leaf (ordinary and, once per group, shared group
// head) whose filter matches it. Grounded structurally on
// memtopic.snode.smatch: the literal / "+" / "#" three-branch descent
// is carried over unchanged; this version collects *Leaf values
// directly instead of parallel subs/qos slices, and folds the
// shared-group rotation head in at the terminal step instead of
// needing a second pass over the result.
//
// sysTopic guards the root level only: a bare "#" or "+" child of root
// never absorbs a topic whose first level starts with "$", matching
// the invariant that system topics are excluded from root-level
// wildcard subscriptions. A filter that itself names "$sys" literally,
// or opens with "+"/"#" below a literal "$..." level, is unaffected —
// the guard applies once, at the top, not at every level.
func match(root *node, lvls [][]byte, sysTopic bool, out *[]matchResult) {
	if sysTopic {
		matchLevelNoRootWildcard(root, lvls, out)
		return
	}
	matchLevel(root, lvls, out)
}

// matchLevelNoRootWildcard runs exactly one level of matching without
// descending into root's "#"/"+" children, then continues with the
// ordinary recursive matcher for every deeper level.
func matchLevelNoRootWildcard(root *node, lvls [][]byte, out *[]matchResult) {
	if len(lvls) == 0 {
		collectTerminal(root, out)
		return
	}
	level := string(lvls[0])
	rest := lvls[1:]

	child, ok := root.children[level]
	if !ok {
		return
	}
	descend(child, rest, out)
}

// matchLevel is the ordinary recursive matcher, used below the root
// and, for non-system topics, at the root as well.
func matchLevel(n *node, lvls [][]byte, out *[]matchResult) {
	if len(lvls) == 0 {
		// §4.5 rule 4: terminal delivery only ever reads the current
		// node's own subs/shared — "+" is not implicitly terminal here,
		// only "#" is (rule 3, checked unconditionally below since "#"
		// matches zero or more trailing levels including none).
		collectTerminal(n, out)
		if mwc, ok := n.children[mwcKey]; ok {
			collectTerminal(mwc, out)
		}
		return
	}

	level := string(lvls[0])
	rest := lvls[1:]

	if level != swcKey && level != mwcKey {
		if lit, ok := n.children[level]; ok {
			descend(lit, rest, out)
		}
	}
	if swc, ok := n.children[swcKey]; ok {
		descend(swc, rest, out)
	}
	if mwc, ok := n.children[mwcKey]; ok {
		collectTerminal(mwc, out)
	}
}

// descend continues the recursive match on a child already selected by
// matchLevel, handling the "rest is empty" terminal case the same way
// the top-level call does.
func descend(n *node, rest [][]byte, out *[]matchResult) {
	if len(rest) == 0 {
		collectTerminal(n, out)
		if mwc, ok := n.children[mwcKey]; ok {
			collectTerminal(mwc, out)
		}
		return
	}
	matchLevel(n, rest, out)
}

var (
	mwcKey = string(mwc)
	swcKey = string(swc)
)

// collectTerminal gathers every ordinary leaf at n plus one leaf per
// shared group rooted at n — the rotation head, per §4.6.
func collectTerminal(n *node, out *[]matchResult) {
	for _, l := range n.subs {
		*out = append(*out, matchResult{leaf: l})
	}
	for _, g := range n.shared {
		if l := g.next(); l != nil {
			*out = append(*out, matchResult{leaf: l})
		}
	}
}

// resolveQos applies §4.5's min-or-upgrade rule: the delivered QoS is
// the minimum of the publish QoS and the subscriber's granted QoS,
// unless Config.UpgradeOutgoingQos asks the engine to hand the
// publisher's QoS through unchanged. Grounded on the teacher's
// matchQos, generalized into a standalone function instead of an
// inline slice filter so the upgrade switch has one place to live.
func resolveQos(pubQos, subQos byte, upgrade bool) byte {
	if upgrade {
		return pubQos
	}
	if pubQos < subQos {
		return pubQos
	}
	return subQos
}
