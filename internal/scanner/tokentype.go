package scanner

// TokenType is the closed set of lexical categories the scanner produces.
// Every token carries one of these so editors can drive syntax
// highlighting directly off the packed token arrays (see Pack).
type TokenType int

const (
	WhitespaceToken TokenType = iota + 1
	LineBreakToken

	LeftParenToken
	RightParenToken
	LeftBracketToken
	RightBracketToken
	SemicolonToken
	CommaToken
	DotToken
	ColonToken

	OperatorToken // +, -, *, /, =, <, >, <=, >=, <>, !=, ||, ::, etc.

	IntegerLiteralToken
	NumericLiteralToken
	StringLiteralToken
	HexStringLiteralToken
	BitStringLiteralToken
	DollarQuotedStringToken
	NamedParameterToken // :name or $n

	MultilineCommentToken
	SinglelineCommentToken

	ReservedWordToken
	UnquotedIdentifierToken
	QuotedIdentifierToken

	OtherToken

	UnterminatedStringErrorToken
	UnterminatedQuotedIdentifierErrorToken
	UnterminatedExtendedStateErrorToken
	NonUTF8ErrorToken
	UnexpectedCharacterToken

	EOFToken
)

var tokenToDescription = map[TokenType]string{
	WhitespaceToken:                        "whitespace",
	LineBreakToken:                         "line break",
	LeftParenToken:                         "(",
	RightParenToken:                        ")",
	LeftBracketToken:                       "[",
	RightBracketToken:                      "]",
	SemicolonToken:                         ";",
	CommaToken:                             ",",
	DotToken:                               ".",
	ColonToken:                             ":",
	OperatorToken:                          "operator",
	IntegerLiteralToken:                    "integer literal",
	NumericLiteralToken:                    "numeric literal",
	StringLiteralToken:                     "string literal",
	HexStringLiteralToken:                  "hex-string literal",
	BitStringLiteralToken:                  "bit-string literal",
	DollarQuotedStringToken:                "dollar-quoted literal",
	NamedParameterToken:                    "named parameter",
	MultilineCommentToken:                  "block comment",
	SinglelineCommentToken:                 "line comment",
	ReservedWordToken:                      "keyword",
	UnquotedIdentifierToken:                "identifier",
	QuotedIdentifierToken:                  "quoted identifier",
	OtherToken:                             "other",
	UnterminatedStringErrorToken:           "unterminated string literal",
	UnterminatedQuotedIdentifierErrorToken: "unterminated quoted identifier",
	UnterminatedExtendedStateErrorToken:    "unterminated comment or dollar-quoted string",
	NonUTF8ErrorToken:                      "invalid UTF-8",
	UnexpectedCharacterToken:               "unexpected character",
	EOFToken:                               "end of input",
}

func (t TokenType) String() string {
	if s, ok := tokenToDescription[t]; ok {
		return s
	}
	return "unknown token"
}

// IsError reports whether t is one of the malformed-token categories.
func (t TokenType) IsError() bool {
	switch t {
	case UnterminatedStringErrorToken, UnterminatedQuotedIdentifierErrorToken,
		UnterminatedExtendedStateErrorToken, NonUTF8ErrorToken, UnexpectedCharacterToken:
		return true
	default:
		return false
	}
}

// IsTrivia reports whether t should be skipped by SkipTrivia.
func (t TokenType) IsTrivia() bool {
	switch t {
	case WhitespaceToken, LineBreakToken, MultilineCommentToken, SinglelineCommentToken:
		return true
	default:
		return false
	}
}
