package index

import "sort"

// TermDict maps terms to posting lists through a prefix tree. Nodes live in
// a flat arena addressed by int32 indices and edges are rune-keyed maps, so
// the structure has no recursive ownership and shared prefixes are stored
// once. Lookup cost is O(len(term)) independent of vocabulary size.
type TermDict struct {
	nodes []trieNode
	terms int
}

type trieNode struct {
	children map[rune]int32
	postings PostingList
	valued   bool
}

// NewTermDict creates a dictionary containing only the root node.
func NewTermDict() *TermDict {
	return &TermDict{nodes: []trieNode{{children: make(map[rune]int32)}}}
}

// Lookup returns the postings for an exact term match. Prefix-only paths do
// not count as matches.
func (d *TermDict) Lookup(term string) (PostingList, bool) {
	cur := int32(0)
	for _, r := range term {
		next, ok := d.nodes[cur].children[r]
		if !ok {
			return nil, false
		}
		cur = next
	}
	if !d.nodes[cur].valued {
		return nil, false
	}
	return d.nodes[cur].postings, true
}

// Upsert applies fn to the posting list stored at term, creating the path
// on first use.
func (d *TermDict) Upsert(term string, fn func(*PostingList)) {
	cur := int32(0)
	for _, r := range term {
		next, ok := d.nodes[cur].children[r]
		if !ok {
			next = int32(len(d.nodes))
			d.nodes = append(d.nodes, trieNode{children: make(map[rune]int32)})
			d.nodes[cur].children[r] = next
		}
		cur = next
	}
	node := &d.nodes[cur]
	if !node.valued {
		node.valued = true
		d.terms++
	}
	fn(&node.postings)
}

// Put replaces the posting list stored at term. Used by the persistence
// reader, which already has fully formed lists.
func (d *TermDict) Put(term string, postings PostingList) {
	d.Upsert(term, func(pl *PostingList) {
		*pl = postings
	})
}

// Terms returns the number of distinct terms.
func (d *TermDict) Terms() int {
	return d.terms
}

// Walk visits every (term, postings) pair in lexicographic term order. This
// is the stable iteration the persistence collaborator serialises from.
func (d *TermDict) Walk(fn func(term string, postings PostingList)) {
	d.walk(0, nil, fn)
}

func (d *TermDict) walk(cur int32, prefix []rune, fn func(string, PostingList)) {
	node := &d.nodes[cur]
	if node.valued {
		fn(string(prefix), node.postings)
	}
	edges := make([]rune, 0, len(node.children))
	for r := range node.children {
		edges = append(edges, r)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i] < edges[j] })
	for _, r := range edges {
		d.walk(node.children[r], append(prefix, r), fn)
	}
}
