package engine

import (
	"bytes"
	"fmt"

	"github.com/lybxkl/subengine/common/constant"
)

var (
	mwc         = constant.MWC[0]
	swc         = constant.SWC[0]
	sep         = constant.SEP[0]
	sysMarker   = constant.SYS[0]
)

const (
	sharePrefix = constant.SharePrefix
)

// nextLevel peels the first topic level off filter, returning the
// level and the remainder. A bare "/" at position 0 yields an empty
// level, preserved as a zero-length slice rather than folded into the
// "+" wildcard key — the teacher's nextTopicLevel returns the literal
// "+" bytes for this case, which would collide an empty-level
// subscription with an actual wildcard subscription in the trie; §4.1's
// "preserving empty intermediate segments" requires the literal empty
// string instead, so this is a deliberate correction, not a port.
func nextLevel(filter []byte) (level, rest []byte, err error) {
	s := constant.StateCHR

	for i, c := range filter {
		switch c {
		case sep:
			if s == constant.StateMWC {
				return nil, nil, fmt.Errorf("%w: multi-level wildcard not at last level", ErrInvalidTopic)
			}
			return filter[:i], filter[i+1:], nil

		case mwc:
			if i != 0 {
				return nil, nil, fmt.Errorf("%w: '#' must occupy an entire level", ErrInvalidTopic)
			}
			s = constant.StateMWC

		case swc:
			if i != 0 {
				return nil, nil, fmt.Errorf("%w: '+' must occupy an entire level", ErrInvalidTopic)
			}
			s = constant.StateSWC

		default:
			if s == constant.StateMWC || s == constant.StateSWC {
				return nil, nil, fmt.Errorf("%w: '#'/'+' must occupy an entire level", ErrInvalidTopic)
			}
			s = constant.StateCHR
		}
	}

	return filter, nil, nil
}

// levels splits filter into its full sequence of levels, validating
// wildcard placement and the caller-supplied length bounds (§3
// invariant 6) as it goes. maxFilterLen/maxLevelLen come from the
// owning Engine's Config rather than a package-level default, so
// multiple *Engine values can run different limits in the same
// process.
func levels(filter []byte, maxFilterLen, maxLevelLen int) ([][]byte, error) {
	if len(filter) == 0 {
		return nil, fmt.Errorf("%w: empty filter", ErrInvalidTopic)
	}
	if maxFilterLen > 0 && len(filter) > maxFilterLen {
		return nil, fmt.Errorf("%w: filter too long", ErrInvalidTopic)
	}

	// rest stays non-nil as long as another level follows — including
	// one final empty level after a trailing separator ("a/" is two
	// levels, "a" and ""). Only nextLevel's no-separator-found path
	// returns a nil rest, which is what actually ends the loop; testing
	// len(rest) > 0 instead would silently drop that trailing empty
	// level.
	var out [][]byte
	rest := filter
	for rest != nil {
		var lvl []byte
		var err error
		lvl, rest, err = nextLevel(rest)
		if err != nil {
			return nil, err
		}
		if maxLevelLen > 0 && len(lvl) > maxLevelLen {
			return nil, fmt.Errorf("%w: level too long", ErrInvalidTopic)
		}
		out = append(out, lvl)
	}
	return out, nil
}

// publishLevels tokenizes a publish topic per §4.1's tokenize_publish:
// same level split as a filter, but "+"/"#" and the "$share/" prefix
// are rejected outright rather than treated as wildcard syntax.
func publishLevels(topic []byte, maxFilterLen, maxLevelLen int) ([][]byte, error) {
	if isShareFilter(topic) {
		return nil, fmt.Errorf("%w: cannot publish to a $share topic", ErrInvalidTopic)
	}
	lvls, err := levels(topic, maxFilterLen, maxLevelLen)
	if err != nil {
		return nil, err
	}
	for _, l := range lvls {
		if len(l) == 1 && (l[0] == mwc || l[0] == swc) {
			return nil, fmt.Errorf("%w: wildcards not allowed in a publish topic", ErrInvalidTopic)
		}
	}
	return lvls, nil
}

// isShareFilter reports whether filter opens with the "$share/" prefix.
func isShareFilter(filter []byte) bool {
	return bytes.HasPrefix(filter, []byte(sharePrefix))
}

// splitShare extracts the share group name and the underlying filter
// from a "$share/<group>/<filter>" subscription, grounded on the
// teacher's inline group-name scan in memtopic.Subscribe.
func splitShare(filter []byte) (group string, rest []byte, err error) {
	body := filter[len(sharePrefix):]
	idx := -1
	for i, b := range body {
		switch b {
		case sep:
			idx = i
		case mwc, swc:
			if idx == -1 {
				return "", nil, fmt.Errorf("%w: '+'/'#' not allowed in share group name", ErrInvalidTopic)
			}
		}
		if idx != -1 {
			break
		}
	}
	if idx <= 0 {
		return "", nil, fmt.Errorf("%w: malformed $share filter", ErrInvalidTopic)
	}
	if idx+1 >= len(body) {
		return "", nil, fmt.Errorf("%w: $share filter missing topic filter", ErrInvalidTopic)
	}
	return string(body[:idx]), body[idx+1:], nil
}

// isSysFilter reports whether a filter's first level starts with "$",
// the marker that excludes it from root-level "#"/"+" matches.
func isSysFilter(filter []byte) bool {
	return len(filter) > 0 && filter[0] == sysMarker
}
