// Package huffman builds prefix codes from a message's own symbol
// frequencies and encodes/decodes between text and bit sequences.
package huffman

import (
	"container/heap"
	"sort"
)

// Frequencies maps a symbol to its count in a message.
type Frequencies map[rune]int

// FrequencyTable counts the symbols of message in a single pass. Invalid
// UTF-8 bytes count as utf8.RuneError and do not round-trip.
func FrequencyTable(message string) Frequencies {
	freqs := make(Frequencies)
	for _, r := range message {
		freqs[r]++
	}
	return freqs
}

// Node is either a leaf holding one symbol or an internal node owning
// exactly two children.
type Node struct {
	Symbol rune
	Weight int
	Left   *Node
	Right  *Node

	order int
}

// IsLeaf indicates the node holds a symbol.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	return &Node{
		Symbol: n.Symbol,
		Weight: n.Weight,
		Left:   n.Left.clone(),
		Right:  n.Right.clone(),
		order:  n.order,
	}
}

// Tree owns the root of a Huffman tree. It is immutable once built.
type Tree struct {
	root *Node
}

// BuildTree repeatedly merges the two lowest-weight nodes until one remains.
// Ties are broken by creation order: leaves in ascending symbol order, then
// merged nodes in the order they were made. The first node taken becomes the
// left child.
func BuildTree(freqs Frequencies) (*Tree, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyTable
	}
	symbols := make([]rune, 0, len(freqs))
	for r, n := range freqs {
		if n < 0 {
			return nil, &NegativeFrequencyError{Symbol: r, Count: n}
		}
		symbols = append(symbols, r)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	q := make(nodeQueue, 0, len(symbols))
	for n, r := range symbols {
		q = append(q, &Node{Symbol: r, Weight: freqs[r], order: n})
	}
	heap.Init(&q)
	next := len(symbols)
	for q.Len() > 1 {
		left := heap.Pop(&q).(*Node)
		right := heap.Pop(&q).(*Node)
		heap.Push(&q, &Node{
			Weight: left.Weight + right.Weight,
			Left:   left,
			Right:  right,
			order:  next,
		})
		next++
	}
	return &Tree{root: q[0]}, nil
}

// Root returns the root node, nil for an empty tree.
func (t *Tree) Root() *Node {
	if t == nil {
		return nil
	}
	return t.root
}

// Clone returns a structurally identical tree sharing no nodes.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	return &Tree{root: t.root.clone()}
}

// Weight is the total symbol count the tree was built from.
func (t *Tree) Weight() int {
	if t.Root() == nil {
		return 0
	}
	return t.root.Weight
}

// Symbols lists the leaf symbols from left to right.
func (t *Tree) Symbols() []rune {
	var out []rune
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.IsLeaf() {
			out = append(out, n.Symbol)
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(t.Root())
	return out
}

// Depth returns the code length of symbol, false if the tree does not hold it.
func (t *Tree) Depth(symbol rune) (int, bool) {
	var find func(*Node, int) (int, bool)
	find = func(n *Node, depth int) (int, bool) {
		if n == nil {
			return 0, false
		}
		if n.IsLeaf() {
			if n.Symbol != symbol {
				return 0, false
			}
			if depth == 0 {
				return 1, true
			}
			return depth, true
		}
		if d, ok := find(n.Left, depth+1); ok {
			return d, true
		}
		return find(n.Right, depth+1)
	}
	return find(t.Root(), 0)
}

type nodeQueue []*Node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].Weight != q[j].Weight {
		return q[i].Weight < q[j].Weight
	}
	return q[i].order < q[j].order
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(*Node)) }

func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}
