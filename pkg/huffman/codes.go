package huffman

import (
	"strings"

	"github.com/robotalks/optolink/pkg/bits"
)

// CodeTable maps each symbol to its root-to-leaf path, false for left.
type CodeTable map[rune]bits.Seq

// NewCodeTable walks the tree and records the path to every leaf.
// A tree made of a single leaf assigns that symbol the code "0".
func NewCodeTable(t *Tree) (CodeTable, error) {
	root := t.Root()
	if root == nil {
		return nil, ErrEmptyTree
	}
	table := make(CodeTable)
	if root.IsLeaf() {
		table[root.Symbol] = bits.Seq{false}
		return table, nil
	}
	assign(root, nil, table)
	return table, nil
}

func assign(n *Node, path bits.Seq, table CodeTable) {
	if n.IsLeaf() {
		table[n.Symbol] = path.Clone()
		return
	}
	assign(n.Left, append(path, false), table)
	assign(n.Right, append(path, true), table)
}

// Encode concatenates the codes of message's symbols in order.
func Encode(message string, table CodeTable) (bits.Seq, error) {
	var out bits.Seq
	for n, r := range message {
		code, ok := table[r]
		if !ok {
			return nil, &UnknownSymbolError{Symbol: r, Offset: n}
		}
		out = append(out, code...)
	}
	return out, nil
}

// Decode walks the tree from the root, one bit per step, emitting a symbol at
// each leaf. Trailing bits which don't end on a leaf are dropped, so corrupted
// input decodes lossy rather than failing.
func Decode(seq bits.Seq, t *Tree) (string, error) {
	root := t.Root()
	if root == nil {
		return "", ErrEmptyTree
	}
	var b strings.Builder
	if root.IsLeaf() {
		for range seq {
			b.WriteRune(root.Symbol)
		}
		return b.String(), nil
	}
	node := root
	for _, bit := range seq {
		if bit {
			node = node.Right
		} else {
			node = node.Left
		}
		if node.IsLeaf() {
			b.WriteRune(node.Symbol)
			node = root
		}
	}
	return b.String(), nil
}
