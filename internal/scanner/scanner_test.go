package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sqlstudio/sqlcore/internal/rope"
)

func tokenTypes(t *testing.T, text string) []TokenType {
	t.Helper()
	scanned, err := ScanRope(rope.NewRope(text))
	require.NoError(t, err)
	var out []TokenType
	for _, tok := range scanned.Tokens {
		out = append(out, tok.Type)
	}
	return out
}

func TestScanSimpleSelect(t *testing.T) {
	scanned, err := ScanRope(rope.NewRope("select 1"))
	require.NoError(t, err)
	require.Len(t, scanned.Tokens, 3)
	require.Equal(t, ReservedWordToken, scanned.Tokens[0].Type)
	require.Equal(t, rope.Location{Offset: 0, Length: 6}, scanned.Tokens[0].Location)
	require.Equal(t, WhitespaceToken, scanned.Tokens[1].Type)
	require.Equal(t, IntegerLiteralToken, scanned.Tokens[2].Type)
	require.Equal(t, rope.Location{Offset: 7, Length: 1}, scanned.Tokens[2].Location)
}

func TestScanStringLiteralBackslashEscape(t *testing.T) {
	scanned, err := ScanRope(rope.NewRope(`select 'it''s \' fine'`))
	require.NoError(t, err)
	var lits []Token
	for _, tok := range scanned.Tokens {
		if tok.Type == StringLiteralToken {
			lits = append(lits, tok)
		}
	}
	require.Len(t, lits, 1)
}

func TestScanDollarQuotedString(t *testing.T) {
	text := "select $tag$ nested ' quote /* not a comment */ $tag$"
	types := tokenTypes(t, text)
	require.Contains(t, types, DollarQuotedStringToken)
	require.NotContains(t, types, UnterminatedStringErrorToken)
}

func TestScanNestedBlockComment(t *testing.T) {
	text := "/* outer /* inner */ still outer */ select 1"
	scanned, err := ScanRope(rope.NewRope(text))
	require.NoError(t, err)
	require.Equal(t, MultilineCommentToken, scanned.Tokens[0].Type)
	require.Equal(t, len("/* outer /* inner */ still outer */"), scanned.Tokens[0].Location.Length)
}

func TestScanUnterminatedBlockCommentFails(t *testing.T) {
	_, err := ScanRope(rope.NewRope("/* never closes"))
	require.Error(t, err)
}

func TestScanHexAndBitStrings(t *testing.T) {
	types := tokenTypes(t, "select x'1A2B', b'1010'")
	require.Contains(t, types, HexStringLiteralToken)
	require.Contains(t, types, BitStringLiteralToken)
}

func TestScanNamedParameters(t *testing.T) {
	types := tokenTypes(t, "select :name, $1")
	require.Contains(t, types, NamedParameterToken)
}

func TestScanQuotedIdentifier(t *testing.T) {
	types := tokenTypes(t, `select "My Column" from t`)
	require.Contains(t, types, QuotedIdentifierToken)
}

func TestScanLineBreaksTracked(t *testing.T) {
	scanned, err := ScanRope(rope.NewRope("select\n1"))
	require.NoError(t, err)
	require.Len(t, scanned.LineBreaks, 1)
	require.Equal(t, 6, scanned.LineBreaks[0].Offset)
}

func TestTokensNonOverlappingAndSorted(t *testing.T) {
	scanned, err := ScanRope(rope.NewRope("select a, b.c from t1 join t2 on t1.x = t2.y"))
	require.NoError(t, err)
	for i := 1; i < len(scanned.Tokens); i++ {
		prevEnd := scanned.Tokens[i-1].Location.Offset + scanned.Tokens[i-1].Location.Length
		require.LessOrEqual(t, prevEnd, scanned.Tokens[i].Location.Offset)
	}
}

// Typing "select\n1" one character at a time: the leading word flips from
// identifier to keyword once complete, the line break is tracked, and the
// literal token appears at its final offset.
func TestIncrementalTypingHighlightEvolution(t *testing.T) {
	r := rope.NewRope("")
	text := "select\n1"
	for i, ch := range text {
		r.InsertAt(i, string(ch))
		scanned, err := ScanRope(r)
		require.NoError(t, err)
		packed := scanned.Pack()

		switch i {
		case 2: // "sel"
			require.Equal(t, []TokenType{UnquotedIdentifierToken}, packed.Types)
		case 5: // "select"
			require.Equal(t, []TokenType{ReservedWordToken}, packed.Types)
			require.Equal(t, 6, packed.Lengths[0])
		case 6: // "select\n"
			require.Equal(t, []int{6}, packed.LineBreaks)
		case 7: // "select\n1"
			require.Equal(t, IntegerLiteralToken, packed.Types[len(packed.Types)-1])
			require.Equal(t, 7, packed.Offsets[len(packed.Offsets)-1])
		}
	}
}

func TestPosAt(t *testing.T) {
	scanned, err := ScanRope(rope.NewRope("select 1\nfrom t"))
	require.NoError(t, err)
	require.Equal(t, Pos{Line: 1, Col: 1}, scanned.PosAt(0))
	require.Equal(t, Pos{Line: 1, Col: 8}, scanned.PosAt(7))
	require.Equal(t, Pos{Line: 2, Col: 1}, scanned.PosAt(9))
	require.Equal(t, Pos{Line: 2, Col: 6}, scanned.PosAt(14))
}

func TestNameDictionaryReadsBack(t *testing.T) {
	scanned, err := ScanRope(rope.NewRope("select Foo from foo, bar"))
	require.NoError(t, err)
	// "Foo" and "foo" fold to one entry keeping the first spelling's span
	require.Len(t, scanned.NameDict, 2)
	first := scanned.NameDict[0]
	require.Equal(t, "Foo", scanned.Text[first.Offset:first.Offset+first.Length])
	require.Equal(t, "foo", scanned.FoldedName(0))
	require.Equal(t, "bar", scanned.FoldedName(1))
}

func TestKeywordSuffixesNonEmpty(t *testing.T) {
	suffixes := KeywordSuffixes()
	require.NotEmpty(t, suffixes)
	seen := make(map[string]struct{})
	for _, s := range suffixes {
		_, dup := seen[s]
		require.False(t, dup, "duplicate suffix %q", s)
		seen[s] = struct{}{}
	}
}
