package query

import (
	"strings"
	"unicode"
)

// Token is one whitespace-separated unit of query text.
type Token struct {
	// Raw is the source text of the token, quotes included.
	Raw string
	// Pos is the byte offset of Raw in the input.
	Pos int
	// Text is the whole token with quotes removed and escapes resolved.
	Text string
	// Negated is set when the key is prefixed by '-' or '!'.
	Negated bool
	// Key is the candidate filter key, empty when the token is not key:value shaped.
	Key string
	// Values are the unquoted comma-separated values after the key.
	Values []string
}

// HasKey reports whether the token is shaped like key:value.
func (t Token) HasKey() bool { return t.Key != "" }

// Tokenize splits text into tokens. It never fails: an unterminated quote
// runs to the end of the input. Empty input yields an empty slice.
func Tokenize(text string) []Token {
	tokens := make([]Token, 0)
	start := -1
	inQuote, escaped := false, false

	for i, r := range text {
		switch {
		case escaped:
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case !inQuote && unicode.IsSpace(r):
			if start >= 0 {
				tokens = append(tokens, newToken(text[start:i], start))
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, newToken(text[start:], start))
	}
	return tokens
}

func newToken(raw string, pos int) Token {
	tok := Token{Raw: raw, Pos: pos, Text: unquote(raw)}

	keyPart, valuePart, ok := splitKey(raw)
	if !ok {
		return tok
	}
	negated := false
	if keyPart != "" && (keyPart[0] == '-' || keyPart[0] == '!') {
		negated = true
		keyPart = keyPart[1:]
	}
	keyPart = strings.TrimSpace(keyPart)
	if keyPart == "" {
		return tok
	}

	tok.Negated = negated
	tok.Key = keyPart
	tok.Values = splitValues(valuePart)
	return tok
}

// splitKey cuts raw at its first colon, unless a quote comes before it.
func splitKey(raw string) (key, value string, ok bool) {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '"':
			return "", "", false
		case ':':
			return raw[:i], raw[i+1:], true
		}
	}
	return "", "", false
}

// splitValues splits s on unquoted commas. Empty pieces are dropped.
func splitValues(s string) []string {
	values := make([]string, 0)
	start := 0
	inQuote, escaped := false, false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inQuote && c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case !inQuote && c == ',':
			values = appendValue(values, s[start:i])
			start = i + 1
		}
	}
	return appendValue(values, s[start:])
}

func appendValue(values []string, piece string) []string {
	if v := unquote(piece); v != "" {
		return append(values, v)
	}
	return values
}

// unquote drops quote characters and resolves \" and \\ inside quoted spans.
func unquote(s string) string {
	if !strings.ContainsRune(s, '"') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote && c == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\'):
			i++
			b.WriteByte(s[i])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
