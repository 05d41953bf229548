package smaz

import (
	"cmp"
	"fmt"
	"slices"
)

const (
	noCode  = 0xFFFF // trieNode.code when no entry ends at the node
	rootIdx = 0      // the root is never a child, so 0 doubles as "no child"
)

// trieNode is one arena slot. Its children are edges[lo:hi], sorted by byte.
type trieNode struct {
	code   uint16
	lo, hi uint32
}

type trieEdge struct {
	b     byte
	child uint32
}

// Trie is a prefix tree over the entries of a codebook, used by the
// encoder for greedy longest-match lookup. All nodes live in one arena
// and reference their children by index. A Trie is immutable once built
// and may be shared between goroutines.
type Trie struct {
	root        [256]uint32 // dense child table for the root node
	nodes       []trieNode
	edges       []trieEdge
	fingerprint uint64
}

// BuildTrie builds the trie for cb. Every byte of an entry contributes one
// edge and the node reached by the final byte records the entry's code.
// It fails with ErrInvalidCodebook if cb is empty, holds more than 254
// entries, or two entries end on the same node.
//
// Construction is deterministic: equal codebooks give identical tries.
func BuildTrie(cb *Codebook) (*Trie, error) {
	if cb == nil || cb.Len() == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidCodebook)
	}
	if cb.Len() > maxCodes {
		return nil, fmt.Errorf("%w: %d entries, at most %d allowed", ErrInvalidCodebook, cb.Len(), maxCodes)
	}

	type buildNode struct {
		code uint16
		kids []trieEdge
	}
	nodes := make([]buildNode, 1, len(cb.dict)+1)
	nodes[rootIdx].code = noCode

	for code := range cb.Len() {
		entry := cb.entry(code)
		if len(entry) == 0 {
			return nil, fmt.Errorf("%w: entry %d is empty", ErrInvalidCodebook, code)
		}
		cur := uint32(rootIdx)
		for _, c := range entry {
			next := uint32(rootIdx)
			for _, e := range nodes[cur].kids {
				if e.b == c {
					next = e.child
					break
				}
			}
			if next == rootIdx {
				next = uint32(len(nodes))
				nodes = append(nodes, buildNode{code: noCode})
				nodes[cur].kids = append(nodes[cur].kids, trieEdge{b: c, child: next})
			}
			cur = next
		}
		if prev := nodes[cur].code; prev != noCode {
			return nil, fmt.Errorf("%w: entry %d %q duplicates entry %d", ErrInvalidCodebook, code, entry, prev)
		}
		nodes[cur].code = uint16(code)
	}

	// Freeze into the arena.
	t := &Trie{
		nodes:       make([]trieNode, len(nodes)),
		edges:       make([]trieEdge, 0, len(nodes)-1),
		fingerprint: cb.fingerprint,
	}
	for i, n := range nodes {
		slices.SortFunc(n.kids, func(a, b trieEdge) int { return cmp.Compare(a.b, b.b) })
		lo := uint32(len(t.edges))
		t.edges = append(t.edges, n.kids...)
		t.nodes[i] = trieNode{code: n.code, lo: lo, hi: uint32(len(t.edges))}
	}
	for _, e := range nodes[rootIdx].kids {
		t.root[e.b] = e.child
	}
	return t, nil
}

// Fingerprint returns the fingerprint of the codebook the trie was built from.
func (t *Trie) Fingerprint() uint64 { return t.fingerprint }

func (t *Trie) child(node uint32, c byte) uint32 {
	if node == rootIdx {
		return t.root[c]
	}
	n := t.nodes[node]
	for _, e := range t.edges[n.lo:n.hi] {
		if e.b >= c {
			if e.b == c {
				return e.child
			}
			break
		}
	}
	return rootIdx
}

// longestMatch returns the code and length of the longest entry that
// prefixes src, or n == 0 when no entry does. The walk continues past
// terminal nodes while children exist, remembering the best terminal seen.
func (t *Trie) longestMatch(src []byte) (code byte, n int) {
	node := uint32(rootIdx)
	for i, c := range src {
		node = t.child(node, c)
		if node == rootIdx {
			break
		}
		cur := t.nodes[node]
		if cur.code != noCode {
			code, n = byte(cur.code), i+1
		}
		if cur.lo == cur.hi {
			break
		}
	}
	return code, n
}
