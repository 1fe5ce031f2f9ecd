package query

import (
	"strings"
	"unicode"
)

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// ToQueryString renders clauses as canonical text without consulting a
// registry. Free text that looks like key:value is quoted so it stays free
// text when parsed back.
func ToQueryString(clauses []Clause) string {
	return serializer{}.render(clauses)
}

// ToQueryString renders clauses as canonical text. Filter keys are written in
// their registered spelling and values pass through ClauseToPhrase.
func (p *Parser) ToQueryString(clauses []Clause) string {
	return serializer{registry: p.registry}.render(clauses)
}

type serializer struct {
	registry *Registry
}

func (s serializer) render(clauses []Clause) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		parts = append(parts, s.clause(c))
	}
	return strings.Join(parts, " ")
}

func (s serializer) clause(c Clause) string {
	if !c.IsFilter() {
		return s.text(c.text)
	}

	key, values := c.key, c.values
	if f, ok := s.registry.Lookup(key); ok {
		key = f.Key
		if f.ClauseToPhrase != nil {
			values = f.ClauseToPhrase(c.Values())
		}
	}

	var b strings.Builder
	if c.negated {
		b.WriteByte('-')
	}
	b.WriteString(key)
	b.WriteByte(':')
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		if v == "" || needsQuote(v, true) {
			v = quote(v)
		}
		b.WriteString(v)
	}
	return b.String()
}

func (s serializer) text(t string) string {
	if t == "" || needsQuote(t, false) || s.filterShaped(t) {
		return quote(t)
	}
	return t
}

// filterShaped reports whether t would parse as a filter token.
func (s serializer) filterShaped(t string) bool {
	tok := newToken(t, 0)
	if !tok.HasKey() {
		return false
	}
	if s.registry == nil {
		return true
	}
	_, ok := s.registry.Lookup(tok.Key)
	return ok
}

func needsQuote(s string, inValue bool) bool {
	for _, r := range s {
		if unicode.IsSpace(r) || r == '"' || r == '\\' || (inValue && r == ',') {
			return true
		}
	}
	return false
}

func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}
