// Package matcher implements a streaming Aho-Corasick multi-pattern
// matcher (spec §4.1 "C1"). Patterns are built into a trie with failure
// links (classic Aho-Corasick construction); matching is exposed as a
// Feed/Reset state machine so a caller can push a file's bytes through
// in arbitrary-sized chunks without ever holding the whole file in
// memory, and stop at the first match (spec §4.8 "first-hit-stop").
//
// No suitable third-party Aho-Corasick library in the retrieved pack
// exposes this streaming feed/reset contract (the one pack dependency
// offering an Aho-Corasick backend, coregx/ahocorasick, is a regex-engine
// strategy selector built around whole-input Match calls, not an
// incremental byte-feed API) so this is a from-scratch construction, the
// way the spec frames the matcher as core engineering rather than an
// external collaborator.
package matcher

// node is one trie state. Nodes live in a flat arena (Matcher.nodes) and
// are addressed by index rather than pointer, keeping the whole
// automaton as one contiguous allocation.
type node struct {
	children map[byte]int32
	fail     int32
	// patternIdx is the index of the pattern terminating at this node,
	// or -1 if this node is not a terminal state for any pattern. Since
	// the matcher only needs to know *that* something matched (spec
	// §4.1 "reports which pattern(s), if configured to do so, else just
	// that a match occurred"), this also absorbs the output-link chain
	// from suffix nodes that are themselves terminal.
	patternIdx int32
}

// Matcher is an immutable, built Aho-Corasick automaton. A single
// Matcher is safe for concurrent use by multiple goroutines each
// holding its own State, since Feed never mutates the Matcher.
type Matcher struct {
	nodes    []node
	patterns [][]byte
}

// State is an opaque position in the automaton. The zero State is the
// root, i.e. Reset's result — safe to use as a starting state without
// calling Reset.
type State int32

// New builds a matcher over the given patterns. Empty patterns are
// rejected; New with zero patterns returns a matcher that never matches.
func New(patterns [][]byte) (*Matcher, error) {
	m := &Matcher{
		nodes:    []node{newNode()}, // root at index 0
		patterns: append([][]byte(nil), patterns...),
	}
	for i, p := range patterns {
		if len(p) == 0 {
			return nil, errEmptyPattern
		}
		m.insert(p, int32(i))
	}
	m.buildFailureLinks()
	return m, nil
}

type matcherError string

func (e matcherError) Error() string { return string(e) }

const errEmptyPattern = matcherError("matcher: empty pattern not allowed")

func newNode() node {
	return node{children: make(map[byte]int32), fail: 0, patternIdx: -1}
}

func (m *Matcher) insert(pattern []byte, idx int32) {
	cur := int32(0)
	for _, b := range pattern {
		next, ok := m.nodes[cur].children[b]
		if !ok {
			m.nodes = append(m.nodes, newNode())
			next = int32(len(m.nodes) - 1)
			m.nodes[cur].children[b] = next
		}
		cur = next
	}
	m.nodes[cur].patternIdx = idx
}

// buildFailureLinks runs the standard BFS construction: every node's
// failure link points to the longest proper suffix of its prefix that is
// also a prefix of some pattern. A node inherits "is this a match" from
// its failure target so Feed only ever needs to look at the current
// node's own patternIdx after a single fail-chain compression pass below.
func (m *Matcher) buildFailureLinks() {
	queue := make([]int32, 0, len(m.nodes))

	root := &m.nodes[0]
	for b, child := range root.children {
		m.nodes[child].fail = 0
		queue = append(queue, child)
		_ = b
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for b, child := range m.nodes[cur].children {
			queue = append(queue, child)

			fail := m.nodes[cur].fail
			for fail != 0 {
				if next, ok := m.nodes[fail].children[b]; ok {
					fail = next
					break
				}
				fail = m.nodes[fail].fail
			}
			if fail == 0 {
				if next, ok := m.nodes[0].children[b]; ok && next != child {
					fail = next
				}
			}
			m.nodes[child].fail = fail

			// Output-chain compression: if our failure target is itself
			// a match (or chains to one), treat this node as matching
			// too, so Feed's single patternIdx check is sufficient.
			if m.nodes[child].patternIdx < 0 {
				m.nodes[child].patternIdx = m.nodes[fail].patternIdx
			}
		}
	}
}

func (m *Matcher) step(state int32, b byte) int32 {
	for {
		if next, ok := m.nodes[state].children[b]; ok {
			return next
		}
		if state == 0 {
			return 0
		}
		state = m.nodes[state].fail
	}
}

// Feed advances state by consuming data and reports whether any pattern
// was matched anywhere in the bytes fed so far (across this call and
// prior calls sharing the same state lineage). The returned state must
// be passed to the next Feed call over the same logical stream.
//
// matched, once true for a given call, does not need the caller to
// inspect which pattern hit (spec §4.8 scans just need "a match
// occurred"); MatchedPattern recovers the pattern index for callers that
// do care.
func (m *Matcher) Feed(state State, data []byte) (State, bool) {
	s := int32(state)
	matched := false
	for _, b := range data {
		s = m.step(s, b)
		if m.nodes[s].patternIdx >= 0 {
			matched = true
		}
	}
	return State(s), matched
}

// Reset returns the initial state for a new, independent stream.
func (m *Matcher) Reset() State { return 0 }

// MatchedPattern returns the pattern index terminating at state, or -1
// if state is not currently a match state.
func (m *Matcher) MatchedPattern(state State) int {
	return int(m.nodes[state].patternIdx)
}

// NumPatterns returns how many patterns this matcher was built with.
func (m *Matcher) NumPatterns() int { return len(m.patterns) }
