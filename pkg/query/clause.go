package query

import (
	"strings"
)

// Kind tells filter clauses from free-text clauses.
type Kind int

const (
	// KindFreeText is a plain text search term.
	KindFreeText Kind = iota
	// KindFilter is a recognized key:values term.
	KindFilter
)

func (k Kind) String() string {
	switch k {
	case KindFilter:
		return "filter"
	case KindFreeText:
		return "text"
	default:
		return "unknown"
	}
}

// Clause is one atomic unit of a search query: a filter term or a free-text
// term. The zero Clause is an empty free-text term.
type Clause struct {
	kind    Kind
	key     string
	values  []string
	negated bool
	text    string
}

// NewFilter creates a filter clause. values may be empty ("present but unset").
func NewFilter(key string, values ...string) Clause {
	return Clause{kind: KindFilter, key: strings.TrimSpace(key), values: copyValues(values)}
}

// NewNegatedFilter creates a filter clause that excludes its values.
func NewNegatedFilter(key string, values ...string) Clause {
	c := NewFilter(key, values...)
	c.negated = true
	return c
}

// NewFreeText creates a free-text clause.
func NewFreeText(text string) Clause {
	return Clause{kind: KindFreeText, text: text}
}

// Kind returns the clause kind.
func (c Clause) Kind() Kind { return c.kind }

// IsFilter reports whether c is a filter clause.
func (c Clause) IsFilter() bool { return c.kind == KindFilter }

// IsFreeText reports whether c is a free-text clause.
func (c Clause) IsFreeText() bool { return c.kind == KindFreeText }

// Key returns the filter key ("" for free text).
func (c Clause) Key() string { return c.key }

// Values returns a copy of the filter values.
func (c Clause) Values() []string { return copyValues(c.values) }

// Negated reports whether the filter is negated.
func (c Clause) Negated() bool { return c.negated }

// Text returns the free text ("" for filters).
func (c Clause) Text() string { return c.text }

// Phrase returns the identifier that addresses c for removal.
func (c Clause) Phrase() Phrase {
	if c.IsFilter() {
		return FilterPhrase(c.key)
	}
	return TextPhrase(c.text)
}

// Equal reports whether c and o hold the same value.
func (c Clause) Equal(o Clause) bool {
	if c.kind != o.kind {
		return false
	}
	if c.kind == KindFreeText {
		return c.text == o.text
	}
	if c.key != o.key || c.negated != o.negated || len(c.values) != len(o.values) {
		return false
	}
	for i := range c.values {
		if c.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

// String renders c in canonical text form without consulting a registry.
func (c Clause) String() string {
	return serializer{}.clause(c)
}

// Equal reports whether two clause sequences hold the same values in the same order.
func Equal(a, b []Clause) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func copyValues(values []string) []string {
	return append(make([]string, 0, len(values)), values...)
}

// Phrase addresses one existing clause: a filter by key (case-insensitive) or
// a free-text clause by exact text. The zero Phrase addresses nothing.
type Phrase struct {
	kind  Kind
	key   string
	text  string
	valid bool
}

// FilterPhrase addresses the filter clause with the given key.
func FilterPhrase(key string) Phrase {
	key = strings.TrimSpace(key)
	if key == "" {
		return Phrase{}
	}
	return Phrase{kind: KindFilter, key: key, valid: true}
}

// TextPhrase addresses the free-text clause with exactly this text.
func TextPhrase(text string) Phrase {
	return Phrase{kind: KindFreeText, text: text, valid: true}
}

// IsZero reports whether p addresses nothing.
func (p Phrase) IsZero() bool { return !p.valid }

// Kind returns the kind of clause p addresses.
func (p Phrase) Kind() Kind { return p.kind }

// Key returns the addressed filter key.
func (p Phrase) Key() string { return p.key }

// Text returns the addressed free text.
func (p Phrase) Text() string { return p.text }

// Matches reports whether p addresses c.
func (p Phrase) Matches(c Clause) bool {
	if !p.valid || p.kind != c.kind {
		return false
	}
	if p.kind == KindFilter {
		return sameKey(p.key, c.key)
	}
	return p.text == c.text
}

// Update is a structured change to a clause sequence. Removals apply first.
type Update struct {
	ToAdd    []Clause
	ToRemove []Phrase
}

// IsEmpty reports whether u changes nothing.
func (u Update) IsEmpty() bool {
	return len(u.ToAdd) == 0 && len(u.ToRemove) == 0
}
