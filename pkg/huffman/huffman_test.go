package huffman

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/optolink/pkg/bits"
)

func TestFrequencyTable(t *testing.T) {
	require.Equal(t, Frequencies{'a': 1, 'b': 2, 'c': 3}, FrequencyTable("abbccc"))
	require.Empty(t, FrequencyTable(""))
	require.Equal(t, Frequencies{'é': 2, ' ': 1}, FrequencyTable("é é"))
}

func TestBuildTreeMergeOrder(t *testing.T) {
	tree, err := BuildTree(FrequencyTable("abbccc"))
	require.NoError(t, err)
	root := tree.Root()
	require.Equal(t, 6, root.Weight)
	require.False(t, root.IsLeaf())

	// a(1)+b(2) merge first; c(3) ties with ab(3) and was created earlier.
	require.True(t, root.Left.IsLeaf())
	require.Equal(t, 'c', root.Left.Symbol)
	ab := root.Right
	require.Equal(t, 3, ab.Weight)
	require.Equal(t, 'a', ab.Left.Symbol)
	require.Equal(t, 'b', ab.Right.Symbol)

	table, err := NewCodeTable(tree)
	require.NoError(t, err)
	require.Equal(t, "0", table['c'].String())
	require.Equal(t, "10", table['a'].String())
	require.Equal(t, "11", table['b'].String())

	d, ok := tree.Depth('a')
	require.True(t, ok)
	require.Equal(t, 2, d)
	_, ok = tree.Depth('z')
	require.False(t, ok)
}

func TestBuildTreeDeterministic(t *testing.T) {
	msg := "the quick brown fox jumps over the lazy dog"
	first, err := NewCodebook(msg)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		cb, err := NewCodebook(msg)
		require.NoError(t, err)
		require.Equal(t, first.Table, cb.Table)
	}
}

func TestBuildTreeErrors(t *testing.T) {
	_, err := BuildTree(Frequencies{})
	require.Equal(t, ErrEmptyTable, err)

	_, err = BuildTree(Frequencies{'x': -1})
	require.Error(t, err)
	_, ok := err.(*NegativeFrequencyError)
	require.True(t, ok)

	_, err = NewCodeTable(nil)
	require.Equal(t, ErrEmptyTree, err)
	_, err = Decode(bits.Seq{true}, nil)
	require.Equal(t, ErrEmptyTree, err)
}

func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		msg  string
	}{
		{"scenario", "abbccc"},
		{"sentence", "This is the test message"},
		{"punctuation", "That other message was old and tired. Here's something fresh!!"},
		{"two symbols", "ab"},
		{"unicode", "üñíçødé ✓ symbols"},
		{"uniform", strings.Repeat("0123456789abcdef", 40)},
	}
	for _, tc := range testCases {
		msg := tc.msg
		t.Run(tc.name, func(t *testing.T) {
			tree, err := BuildTree(FrequencyTable(msg))
			require.NoError(t, err)
			table, err := NewCodeTable(tree)
			require.NoError(t, err)
			encoded, err := Encode(msg, table)
			require.NoError(t, err)
			decoded, err := Decode(encoded, tree)
			require.NoError(t, err)
			require.Equal(t, msg, decoded)
		})
	}
}

func TestSingleSymbol(t *testing.T) {
	cb, err := NewCodebook("aaaa")
	require.NoError(t, err)
	require.True(t, cb.Tree.Root().IsLeaf())
	require.Equal(t, "0", cb.Table['a'].String())

	encoded, err := cb.Encode("aaaa")
	require.NoError(t, err)
	require.Equal(t, "0000", encoded.String())

	decoded, err := cb.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, "aaaa", decoded)
}

func TestPrefixFree(t *testing.T) {
	cb, err := NewCodebook("mississippi river banks")
	require.NoError(t, err)
	for r1, c1 := range cb.Table {
		for r2, c2 := range cb.Table {
			if r1 == r2 {
				continue
			}
			require.False(t, strings.HasPrefix(c2.String(), c1.String()),
				"%q=%s is a prefix of %q=%s", r1, c1, r2, c2)
		}
	}
}

func TestCodeLengthMonotonic(t *testing.T) {
	msg := "aaaaaaaaaaaaaaaabbbbbbbbccccddde lorem ipsum dolor sit amet"
	freqs := FrequencyTable(msg)
	cb, err := NewCodebook(msg)
	require.NoError(t, err)
	for r1, f1 := range freqs {
		for r2, f2 := range freqs {
			if f1 > f2 {
				require.True(t, len(cb.Table[r1]) <= len(cb.Table[r2]),
					"%q(%d) code %s longer than %q(%d) code %s",
					r1, f1, cb.Table[r1], r2, f2, cb.Table[r2])
			}
		}
	}
}

func TestEncodeUnknownSymbol(t *testing.T) {
	cb, err := NewCodebook("abc")
	require.NoError(t, err)
	_, err = cb.Encode("abd")
	require.Error(t, err)
	unknown, ok := err.(*UnknownSymbolError)
	require.True(t, ok)
	require.Equal(t, 'd', unknown.Symbol)
	require.Equal(t, 2, unknown.Offset)
}

func TestDecodeTruncatesTrailingBits(t *testing.T) {
	cb, err := NewCodebook("abbccc")
	require.NoError(t, err)
	// c=0 a=10 b=11; the trailing "1" stops mid-path.
	decoded, err := cb.Decode(bits.MustParse("0 10 11 1"))
	require.NoError(t, err)
	require.Equal(t, "cab", decoded)
}

func TestClone(t *testing.T) {
	cb, err := NewCodebook("hello world")
	require.NoError(t, err)
	c := cb.Clone()
	require.Equal(t, cb.Table, c.Table)
	require.Equal(t, cb.Tree.Symbols(), c.Tree.Symbols())
	require.False(t, cb.Tree.Root() == c.Tree.Root())
	require.Equal(t, 11, c.Tree.Weight())

	encoded, err := cb.Encode("hello world")
	require.NoError(t, err)
	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, "hello world", decoded)
}
