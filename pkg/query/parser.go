package query

// Parser turns query text into clauses using a filter registry.
// It is immutable and safe for concurrent use.
type Parser struct {
	registry *Registry
}

// NewParser creates a Parser. A nil registry treats every token as free text.
func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Registry returns the registry the parser consults.
func (p *Parser) Registry() *Registry { return p.registry }

// SearchFilters returns the recognized filters in registration order.
func (p *Parser) SearchFilters() []Filter { return p.registry.Filters() }

// ParseSearchQuery parses text into an ordered clause sequence.
//
// Unrecognized tokens become free text, one clause per token. When a
// non-repeatable filter key occurs more than once, the last occurrence wins
// and keeps its own position.
func (p *Parser) ParseSearchQuery(text string) []Clause {
	tokens := Tokenize(text)
	clauses := make([]Clause, 0, len(tokens))
	last := make(map[string]int)

	for _, tok := range tokens {
		c, ok := p.clauseFor(tok)
		if !ok {
			continue
		}
		if c.IsFilter() && !p.registry.repeatable(c.key) {
			last[c.key] = len(clauses)
		}
		clauses = append(clauses, c)
	}

	out := clauses[:0]
	for i, c := range clauses {
		if c.IsFilter() {
			if j, tracked := last[c.key]; tracked && j != i {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func (p *Parser) clauseFor(tok Token) (Clause, bool) {
	if tok.HasKey() {
		if f, ok := p.registry.Lookup(tok.Key); ok {
			values := tok.Values
			if f.PhraseToClause != nil {
				values = f.PhraseToClause(copyValues(values))
			}
			c := NewFilter(f.Key, values...)
			c.negated = tok.Negated
			return c, true
		}
	}
	if tok.Text == "" {
		return Clause{}, false
	}
	return NewFreeText(tok.Text), true
}
