package scanner

import "sort"

// reservedWords is the ANSI/Postgres-flavored keyword set this scanner
// folds identifiers against: SELECT, CREATE TABLE/VIEW, set ops,
// window/frames, joins, intervals, extracts, trim.
var reservedWords = buildReservedWords()

func buildReservedWords() map[string]struct{} {
	words := []string{
		"select", "from", "where", "group", "by", "having", "order", "limit",
		"offset", "distinct", "all", "as", "asc", "desc", "nulls", "first",
		"last",
		"union", "intersect", "except",
		"join", "inner", "left", "right", "full", "outer", "cross", "on",
		"using", "lateral", "natural",
		"create", "table", "view", "column", "constraint", "primary", "key",
		"foreign", "references", "unique", "check", "default", "not", "null",
		"with", "recursive",
		"case", "when", "then", "else", "end",
		"and", "or", "in", "between", "like", "ilike", "is", "exists", "any",
		"some",
		"over", "partition", "window", "rows", "range", "groups", "preceding",
		"following", "current", "row", "unbounded",
		"interval", "extract", "trim", "leading", "trailing", "both",
		"cast", "true", "false", "insert", "update", "delete", "into",
		"values", "set", "returning",
		"array", "object",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// KeywordSuffixes returns every suffix of every reserved word,
// deduplicated: the seed corpus for the cursor package's keyword suffix
// trie.
func KeywordSuffixes() []string {
	seen := make(map[string]struct{})
	for w := range reservedWords {
		for i := 0; i < len(w); i++ {
			seen[w[i:]] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	return out
}

// Keywords returns a copy of the reserved-word list, sorted.
func Keywords() []string {
	out := make([]string, 0, len(reservedWords))
	for w := range reservedWords {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// IsReservedWord reports whether the lower-cased word w is a keyword.
func IsReservedWord(w string) bool {
	_, ok := reservedWords[w]
	return ok
}
