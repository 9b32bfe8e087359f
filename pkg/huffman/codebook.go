package huffman

import (
	"github.com/robotalks/optolink/pkg/bits"
)

// Codebook bundles the tree and code table derived from one source message.
// Both ends of a link must hold codebooks built from the same message.
type Codebook struct {
	Tree  *Tree
	Table CodeTable
}

// NewCodebook builds the codebook for message.
func NewCodebook(message string) (*Codebook, error) {
	tree, err := BuildTree(FrequencyTable(message))
	if err != nil {
		return nil, err
	}
	return NewCodebookFromTree(tree)
}

// NewCodebookFromTree derives the code table from an existing tree.
func NewCodebookFromTree(tree *Tree) (*Codebook, error) {
	table, err := NewCodeTable(tree)
	if err != nil {
		return nil, err
	}
	return &Codebook{Tree: tree, Table: table}, nil
}

// Encode encodes message with the code table.
func (c *Codebook) Encode(message string) (bits.Seq, error) {
	return Encode(message, c.Table)
}

// Decode decodes seq with the tree.
func (c *Codebook) Decode(seq bits.Seq) (string, error) {
	return Decode(seq, c.Tree)
}

// Clone returns a codebook owning an independent copy of the tree.
func (c *Codebook) Clone() *Codebook {
	table := make(CodeTable, len(c.Table))
	for r, code := range c.Table {
		table[r] = code.Clone()
	}
	return &Codebook{Tree: c.Tree.Clone(), Table: table}
}
