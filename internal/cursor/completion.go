package cursor

import (
	"strings"

	"github.com/sqlstudio/sqlcore/internal/analyzer"
	"github.com/sqlstudio/sqlcore/internal/parser"
)

// Tag classifies a completion candidate for scoring and client-side icon
// selection.
type Tag int

const (
	TagKeyword Tag = iota
	TagTableName
	TagColumnName
	TagAlias
	TagPunctuation
)

// tagWeight is the base score contribution for a candidate's Tag; column
// and table names outrank bare keywords because they are far more often
// what a user is reaching for mid-statement.
var tagWeight = map[Tag]float64{
	TagTableName:   30,
	TagColumnName:  28,
	TagAlias:       20,
	TagKeyword:     10,
	TagPunctuation: 5,
}

// Locality records where a candidate's name was found relative to the
// cursor, feeding the scoring function's locality bonus.
type Locality int

const (
	LocalityCatalog Locality = iota
	LocalitySameScript
	LocalitySameStatement
)

var localityWeight = map[Locality]float64{
	LocalityCatalog:       0,
	LocalitySameScript:    5,
	LocalitySameStatement: 10,
}

// Completion is a single ranked candidate.
type Completion struct {
	Text string
	Tag  Tag
}

// Engine holds the precomputed keyword suffix trie; callers construct one
// engine and reuse it across Complete calls.
type Engine struct {
	trie *suffixTrie
}

// NewEngine builds a completion engine, seeding its keyword suffix trie.
func NewEngine() *Engine {
	return &Engine{trie: newSuffixTrie()}
}

// TrieSize reports the number of distinct keyword-suffix entries seeded
// into the engine.
func (e *Engine) TrieSize() int { return e.trie.Size() }

// Complete ranks up to k candidates for the partial token typed at
// offset, combining grammar-expected symbols (ParseUntil), names taken
// from script, and the keyword suffix trie. Only script is consulted for
// names: tables declared by other scripts in a catalog are not offered.
func (e *Engine) Complete(parsed *parser.ParsedScript, script *analyzer.AnalyzedScript, pos Position, typed string, k int) []Completion {
	heap := NewTopKHeap[Completion](k)
	typed = strings.ToLower(typed)

	for _, sym := range parser.ParseUntil(parsed.Scanned, pos.TokenID+1) {
		if sym.Literal != "" {
			heap.Insert(Completion{Text: sym.Literal, Tag: tagForLiteral(sym.Literal)}, score(sym.Literal, typed, TagKeyword, LocalitySameStatement))
			continue
		}
		tag := tagForClass(sym.Class)
		for _, name := range namesForClass(script, sym.Class) {
			locality := LocalitySameScript
			heap.Insert(Completion{Text: name, Tag: tag}, score(name, typed, tag, locality))
		}
	}

	if suffix, ok := e.trie.LongestMatch(typed); ok && suffix != "" {
		heap.Insert(Completion{Text: suffix, Tag: TagKeyword}, score(suffix, typed, TagKeyword, LocalityCatalog))
	}

	return heap.Sorted()
}

func tagForLiteral(lit string) Tag {
	if len(lit) > 0 && (lit[0] == '(' || lit[0] == ')' || lit[0] == '*' || lit[0] == ';') {
		return TagPunctuation
	}
	return TagKeyword
}

func tagForClass(class string) Tag {
	switch class {
	case "table-name":
		return TagTableName
	case "column-name":
		return TagColumnName
	case "alias":
		return TagAlias
	default:
		return TagKeyword
	}
}

// namesForClass gathers the names for a grammar class from the given
// script alone: its declared tables and their columns, and its table
// reference aliases. No catalog is searched.
func namesForClass(script *analyzer.AnalyzedScript, class string) []string {
	if script == nil {
		return nil
	}
	var out []string
	switch class {
	case "table-name":
		for _, t := range script.Tables {
			out = append(out, t.Name.Relation)
		}
		for _, ref := range script.TableRefs {
			if ref.Alias != "" {
				out = append(out, ref.Alias)
			}
		}
	case "column-name":
		for _, t := range script.Tables {
			for _, c := range t.Columns {
				out = append(out, c.Name)
			}
		}
	case "alias":
		for _, ref := range script.TableRefs {
			if ref.Alias != "" {
				out = append(out, ref.Alias)
			}
		}
	}
	return out
}

// score combines prefix match length, tag weight, and locality.
func score(candidate, typed string, tag Tag, locality Locality) float64 {
	prefix := commonPrefixLen(strings.ToLower(candidate), typed)
	return float64(prefix)*2 + tagWeight[tag] + localityWeight[locality]
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
