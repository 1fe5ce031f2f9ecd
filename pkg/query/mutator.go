package query

import (
	"slices"

	"github.com/huandu/go-clone"
)

// ApplyUpdate removes, then adds, clauses and returns the result as a new
// slice. Every filter key is treated as non-repeatable: adding a filter whose
// key is present (compared case-insensitively) replaces that clause in place,
// and the added clause keeps the caller's key spelling and values as given.
// Phrases that address nothing are ignored. Use (*Parser).ApplyUpdate to get
// registered spellings and normalized values.
func ApplyUpdate(clauses []Clause, update Update) []Clause {
	return mutator{}.apply(clauses, update)
}

// RemovePhrase removes the first clause p addresses.
func RemovePhrase(p Phrase, clauses []Clause) []Clause {
	return ApplyUpdate(clauses, Update{ToRemove: []Phrase{p}})
}

// AddClauses adds toAdd to clauses, replacing filters with the same key in place.
func AddClauses(toAdd, clauses []Clause) []Clause {
	return ApplyUpdate(clauses, Update{ToAdd: toAdd})
}

// ApplyUpdate is like the package-level ApplyUpdate, but honours the
// registry: keys are canonicalized, added values pass through PhraseToClause
// as if they had been typed, and clauses of a repeatable filter are appended
// unless an equal clause is already present.
func (p *Parser) ApplyUpdate(clauses []Clause, update Update) []Clause {
	return mutator{registry: p.registry}.apply(clauses, update)
}

// RemovePhrase removes the first clause ph addresses.
func (p *Parser) RemovePhrase(ph Phrase, clauses []Clause) []Clause {
	return p.ApplyUpdate(clauses, Update{ToRemove: []Phrase{ph}})
}

// AddClauses adds toAdd to clauses using the registry's repetition rules.
func (p *Parser) AddClauses(toAdd, clauses []Clause) []Clause {
	return p.ApplyUpdate(clauses, Update{ToAdd: toAdd})
}

type mutator struct {
	registry *Registry
}

func (m mutator) apply(clauses []Clause, update Update) []Clause {
	out := make([]Clause, 0, len(clauses)+len(update.ToAdd))
	if len(clauses) > 0 {
		out = append(out, clone.Clone(clauses).([]Clause)...)
	}

	for _, ph := range update.ToRemove {
		out = remove(out, ph)
	}
	for _, c := range update.ToAdd {
		out = m.add(out, clone.Clone(c).(Clause))
	}
	return out
}

func remove(clauses []Clause, ph Phrase) []Clause {
	i := slices.IndexFunc(clauses, ph.Matches)
	if i < 0 {
		return clauses
	}
	return slices.Delete(clauses, i, i+1)
}

func (m mutator) add(clauses []Clause, c Clause) []Clause {
	if !c.IsFilter() {
		return append(clauses, c)
	}

	if f, ok := m.registry.Lookup(c.key); ok {
		c.key = f.Key
		if f.PhraseToClause != nil {
			c.values = copyValues(f.PhraseToClause(c.Values()))
		}
		if f.Repeatable {
			if slices.ContainsFunc(clauses, c.Equal) {
				return clauses
			}
			return append(clauses, c)
		}
	}

	i := slices.IndexFunc(clauses, func(existing Clause) bool {
		return existing.IsFilter() && sameKey(existing.key, c.key)
	})
	if i < 0 {
		return append(clauses, c)
	}
	clauses[i] = c
	return clauses
}
