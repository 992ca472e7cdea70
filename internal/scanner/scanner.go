package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"

	"github.com/sqlstudio/sqlcore/internal/rope"
)

// Pos is a human-facing source position, used for error reporting.
// Line and Col are 1-based.
type Pos struct {
	Line, Col int
}

// Token is a single lexical unit: a span of source text plus its type.
type Token struct {
	Location rope.Location
	Type     TokenType
}

// PositionedError pairs a Location with a diagnostic message, the shape
// every stage of the pipeline collects its errors into: errors are data,
// not control flow.
type PositionedError struct {
	Location rope.Location
	Message  string
}

// ScannedScript is the output of a successful (or partially successful)
// scan: the token stream plus line-break/comment locations and the name
// dictionary editors and later stages consume.
type ScannedScript struct {
	Text         string
	Tokens       []Token
	LineBreaks   []rope.Location
	Comments     []rope.Location
	Errors       []PositionedError
	NameDict     []rope.Location // i-th entry's span within Text
	NameInterned []rope.Location // i-th entry's case-folded copy in Names
	Names        *rope.StringPool
	nameDictIdx  map[string]int
}

// internName returns the name dictionary index for the identifier at loc,
// adding a fresh entry pointing at its first occurrence if the (folded)
// name has not been seen yet. The folded spelling is interned into Names
// so later stages can read it without refolding the source span.
func (s *ScannedScript) internName(loc rope.Location) int {
	if s.nameDictIdx == nil {
		s.nameDictIdx = make(map[string]int)
		s.Names = rope.NewStringPool()
	}
	text := s.Text[loc.Offset : loc.Offset+loc.Length]
	key := strings.ToLower(text)
	if idx, ok := s.nameDictIdx[key]; ok {
		return idx
	}
	idx := len(s.NameDict)
	s.NameDict = append(s.NameDict, loc)
	s.NameInterned = append(s.NameInterned, s.Names.Intern(key))
	s.nameDictIdx[key] = idx
	return idx
}

// FoldedName reads back the interned case-folded spelling of the i-th
// dictionary entry.
func (s *ScannedScript) FoldedName(i int) string {
	return s.Names.Get(s.NameInterned[i])
}

// PosAt converts a byte offset into a line/column position using the
// recorded line-break locations.
func (s *ScannedScript) PosAt(offset int) Pos {
	line := 1
	lineStart := 0
	for _, lb := range s.LineBreaks {
		if lb.Offset >= offset {
			break
		}
		line++
		lineStart = lb.Offset + lb.Length
	}
	return Pos{Line: line, Col: offset - lineStart + 1}
}

// PackedHighlighting is the parallel-array output Pack produces: the shape
// editors consume directly for syntax highlighting.
type PackedHighlighting struct {
	Offsets     []int
	Lengths     []int
	Types       []TokenType
	LineBreaks  []int
}

// Pack produces parallel arrays of offsets, types, and line breaks.
func (s *ScannedScript) Pack() PackedHighlighting {
	out := PackedHighlighting{
		Offsets: make([]int, len(s.Tokens)),
		Lengths: make([]int, len(s.Tokens)),
		Types:   make([]TokenType, len(s.Tokens)),
	}
	for i, tok := range s.Tokens {
		out.Offsets[i] = tok.Location.Offset
		out.Lengths[i] = tok.Location.Length
		out.Types[i] = tok.Type
	}
	for _, lb := range s.LineBreaks {
		out.LineBreaks = append(out.LineBreaks, lb.Offset)
	}
	return out
}

// extKind distinguishes the two constructs that use extended (nestable)
// state tracking.
type extKind int

const (
	extNone extKind = iota
	extBlockComment
	extDollarQuote
)

// Scanner is a single-pass cursor over source text. extDepth/extBegin
// track nested balanced constructs (block comments, dollar-quoted
// strings): while extDepth > 0, ordinary tokenization is suspended until
// balance returns to zero.
type Scanner struct {
	input string
	pos   int

	startIndex int
	extDepth   int
	extBegin   int
	extKindVal extKind
	dollarTag  string
}

// NewScanner constructs a Scanner over a materialized copy of the rope's
// text (ScanRope below does the materialization).
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// ScanRope scans an entire rope end to end into a ScannedScript. Scanning
// succeeds (possibly with a non-empty Errors list) as long as the token
// stream stays well-formed enough to feed the parser; an unbalanced
// extended state at EOF is the one condition that fails the stage
// outright.
func ScanRope(r *rope.Rope) (*ScannedScript, error) {
	text := r.String()
	s := NewScanner(text)
	out := &ScannedScript{Text: text}

	for {
		start := s.pos
		tt := s.NextToken()
		loc := rope.Location{Offset: start, Length: s.pos - start}
		if tt == EOFToken {
			if s.extDepth > 0 {
				out.Errors = append(out.Errors, PositionedError{
					Location: rope.Location{Offset: s.extBegin, Length: len(text) - s.extBegin},
					Message:  "unterminated " + extName(s.extKindVal) + " at end of input",
				})
				return out, errScannerInputInvalid{}
			}
			break
		}
		out.Tokens = append(out.Tokens, Token{Location: loc, Type: tt})
		switch tt {
		case LineBreakToken:
			out.LineBreaks = append(out.LineBreaks, loc)
		case MultilineCommentToken, SinglelineCommentToken:
			out.Comments = append(out.Comments, loc)
		case UnquotedIdentifierToken, QuotedIdentifierToken:
			out.internName(loc)
		}
		if tt.IsError() {
			out.Errors = append(out.Errors, PositionedError{Location: loc, Message: "malformed token: " + tt.String()})
		}
	}
	return out, nil
}

func extName(k extKind) string {
	if k == extDollarQuote {
		return "dollar-quoted string"
	}
	return "block comment"
}

type errScannerInputInvalid struct{}

func (errScannerInputInvalid) Error() string { return "SCANNER_INPUT_INVALID" }

// Token returns the most recently scanned token's raw text.
func (s *Scanner) Token() string { return s.input[s.startIndex:s.pos] }

// TokenLower lower-folds the most recent token (used for keyword lookup;
// the original casing lives in the token's source span / name dictionary).
func (s *Scanner) TokenLower() string { return strings.ToLower(s.Token()) }

// NextToken scans and returns the next token, advancing the cursor past it.
func (s *Scanner) NextToken() TokenType {
	if s.extDepth > 0 {
		return s.continueExtended()
	}
	s.startIndex = s.pos
	if s.pos >= len(s.input) {
		return EOFToken
	}
	r, w := utf8.DecodeRuneInString(s.input[s.pos:])
	switch {
	case r == utf8.RuneError && w == 0:
		return EOFToken
	case r == utf8.RuneError && w == 1:
		s.pos++
		return NonUTF8ErrorToken
	case r == '\n':
		s.pos += w
		return LineBreakToken
	case unicode.IsSpace(r):
		return s.scanWhitespace()
	case r == '(':
		s.pos += w
		return LeftParenToken
	case r == ')':
		s.pos += w
		return RightParenToken
	case r == '[':
		s.pos += w
		return LeftBracketToken
	case r == ']':
		s.pos += w
		return RightBracketToken
	case r == ';':
		s.pos += w
		return SemicolonToken
	case r == ',':
		s.pos += w
		return CommaToken
	case r == '.':
		return s.scanDotOrNumber()
	case r == '\'':
		s.pos += w
		return s.scanStringLiteral()
	case r == '"':
		s.pos += w
		return s.scanQuotedIdentifier()
	case r == ':':
		return s.scanColonOrParam()
	case r == '$':
		return s.scanDollar()
	case r >= '0' && r <= '9':
		return s.scanNumber()
	case (r == 'x' || r == 'X') && s.peekIsQuote(w):
		s.pos += w
		s.pos += 1 // the quote
		return s.scanDelimitedLiteral('\'', HexStringLiteralToken)
	case (r == 'b' || r == 'B') && s.peekIsQuote(w):
		s.pos += w
		s.pos += 1
		return s.scanDelimitedLiteral('\'', BitStringLiteralToken)
	case r == '/' && s.peekRune(w) == '*':
		s.pos += w + 1
		return s.enterExtended(extBlockComment)
	case r == '-' && s.peekRune(w) == '-':
		s.pos += w + 1
		return s.scanLineComment()
	case xid.Start(r) || r == '_':
		return s.scanIdentifier()
	default:
		return s.scanOperator()
	}
}

func (s *Scanner) peekRune(afterWidth int) rune {
	r, _ := utf8.DecodeRuneInString(s.input[s.pos+afterWidth:])
	return r
}

func (s *Scanner) peekIsQuote(afterWidth int) bool {
	return s.pos+afterWidth < len(s.input) && s.input[s.pos+afterWidth] == '\''
}

func (s *Scanner) scanWhitespace() TokenType {
	for s.pos < len(s.input) {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if r == '\n' || !unicode.IsSpace(r) {
			break
		}
		s.pos += w
	}
	return WhitespaceToken
}

func (s *Scanner) scanDotOrNumber() TokenType {
	// '.' followed by a digit is a numeric literal like .5
	if s.pos+1 < len(s.input) && s.input[s.pos+1] >= '0' && s.input[s.pos+1] <= '9' {
		return s.scanNumber()
	}
	s.pos++
	return DotToken
}

func (s *Scanner) scanColonOrParam() TokenType {
	s.pos++ // ':'
	if s.pos < len(s.input) && s.input[s.pos] == ':' {
		s.pos++
		return OperatorToken // '::' cast operator
	}
	start := s.pos
	for s.pos < len(s.input) {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if s.pos == start && !(xid.Start(r) || r == '_') {
			break
		}
		if s.pos > start && !(xid.Continue(r) || r == '_') {
			break
		}
		s.pos += w
	}
	if s.pos == start {
		return ColonToken
	}
	return NamedParameterToken
}

// scanDollar handles named parameters ($1), dollar-quoted strings
// ($tag$...$tag$ / $$...$$); any other '$' is returned as a one-byte
// OtherToken.
func (s *Scanner) scanDollar() TokenType {
	start := s.pos
	s.pos++ // leading '$'
	if s.pos < len(s.input) && s.input[s.pos] >= '0' && s.input[s.pos] <= '9' {
		for s.pos < len(s.input) && s.input[s.pos] >= '0' && s.input[s.pos] <= '9' {
			s.pos++
		}
		return NamedParameterToken
	}
	// try to scan a dollar-quote tag: $tag$
	tagStart := s.pos
	for s.pos < len(s.input) {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if r == '$' {
			tag := s.input[tagStart:s.pos]
			s.pos++ // closing '$' of the opening delimiter
			s.dollarTag = tag
			return s.enterExtended(extDollarQuote)
		}
		if !(xid.Continue(r) || r == '_') {
			break
		}
		s.pos += w
	}
	s.pos = start + 1
	return OtherToken
}

func (s *Scanner) enterExtended(kind extKind) TokenType {
	s.extDepth = 1
	s.extBegin = s.startIndex
	s.extKindVal = kind
	return s.continueExtended()
}

// continueExtended advances through a block comment or dollar-quoted
// string, tracking nesting depth for block comments (dollar-quotes do not
// nest: a second "$tag$" with the same tag always closes).
func (s *Scanner) continueExtended() TokenType {
	switch s.extKindVal {
	case extBlockComment:
		return s.continueBlockComment()
	default:
		return s.continueDollarQuote()
	}
}

func (s *Scanner) continueBlockComment() TokenType {
	for s.pos < len(s.input) {
		if strings.HasPrefix(s.input[s.pos:], "/*") {
			s.pos += 2
			s.extDepth++
			continue
		}
		if strings.HasPrefix(s.input[s.pos:], "*/") {
			s.pos += 2
			s.extDepth--
			if s.extDepth == 0 {
				s.startIndex = s.extBegin
				return MultilineCommentToken
			}
			continue
		}
		if s.input[s.pos] == '\n' {
			s.pos++
			continue
		}
		_, w := utf8.DecodeRuneInString(s.input[s.pos:])
		s.pos += w
	}
	s.startIndex = s.extBegin
	return EOFToken
}

func (s *Scanner) continueDollarQuote() TokenType {
	closer := "$" + s.dollarTag + "$"
	for s.pos < len(s.input) {
		if strings.HasPrefix(s.input[s.pos:], closer) {
			s.pos += len(closer)
			s.extDepth = 0
			s.startIndex = s.extBegin
			return DollarQuotedStringToken
		}
		_, w := utf8.DecodeRuneInString(s.input[s.pos:])
		s.pos += w
	}
	s.startIndex = s.extBegin
	return EOFToken
}

func (s *Scanner) scanLineComment() TokenType {
	for s.pos < len(s.input) && s.input[s.pos] != '\n' {
		s.pos++
	}
	return SinglelineCommentToken
}

// scanStringLiteral assumes the opening ' has been consumed. Backslash is
// the escape character; a backslash followed by any rune, including ',
// does not end the literal.
func (s *Scanner) scanStringLiteral() TokenType {
	return s.scanBackslashEscaped('\'', StringLiteralToken, UnterminatedStringErrorToken)
}

func (s *Scanner) scanBackslashEscaped(end byte, tt, unterminated TokenType) TokenType {
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		if c == '\\' && s.pos+1 < len(s.input) {
			s.pos += 2
			continue
		}
		if c == end {
			// a doubled delimiter stays inside the literal
			if s.pos+1 < len(s.input) && s.input[s.pos+1] == end {
				s.pos += 2
				continue
			}
			s.pos++
			return tt
		}
		_, w := utf8.DecodeRuneInString(s.input[s.pos:])
		s.pos += w
	}
	return unterminated
}

func (s *Scanner) scanQuotedIdentifier() TokenType {
	return s.scanBackslashEscaped('"', QuotedIdentifierToken, UnterminatedQuotedIdentifierErrorToken)
}

func (s *Scanner) scanDelimitedLiteral(end byte, tt TokenType) TokenType {
	for s.pos < len(s.input) {
		if s.input[s.pos] == end {
			s.pos++
			return tt
		}
		_, w := utf8.DecodeRuneInString(s.input[s.pos:])
		s.pos += w
	}
	return UnterminatedStringErrorToken
}

func (s *Scanner) scanNumber() TokenType {
	isFloat := false
	for s.pos < len(s.input) {
		c := s.input[s.pos]
		switch {
		case c >= '0' && c <= '9':
			s.pos++
		case c == '.' && !isFloat:
			isFloat = true
			s.pos++
		case (c == 'e' || c == 'E') && s.pos+1 < len(s.input):
			isFloat = true
			s.pos++
			if s.pos < len(s.input) && (s.input[s.pos] == '+' || s.input[s.pos] == '-') {
				s.pos++
			}
		default:
			if isFloat {
				return NumericLiteralToken
			}
			return IntegerLiteralToken
		}
	}
	if isFloat {
		return NumericLiteralToken
	}
	return IntegerLiteralToken
}

func (s *Scanner) scanIdentifier() TokenType {
	for s.pos < len(s.input) {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if !(xid.Continue(r) || r == '_' || r == '$') {
			break
		}
		s.pos += w
	}
	word := s.TokenLower()
	if IsReservedWord(word) {
		return ReservedWordToken
	}
	return UnquotedIdentifierToken
}

var operatorRunes = "+-*/%=<>!|~^&"

func (s *Scanner) scanOperator() TokenType {
	for s.pos < len(s.input) && strings.ContainsRune(operatorRunes, rune(s.input[s.pos])) {
		s.pos++
	}
	if s.pos == s.startIndex {
		_, w := utf8.DecodeRuneInString(s.input[s.pos:])
		s.pos += w
		return UnexpectedCharacterToken
	}
	return OperatorToken
}

// SkipTrivia advances past whitespace/line-break/comment tokens and
// returns the first non-trivia token type encountered.
func (s *Scanner) SkipTrivia() TokenType {
	for {
		tt := s.NextToken()
		if !tt.IsTrivia() {
			return tt
		}
	}
}
