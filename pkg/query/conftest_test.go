package query

import (
	"strings"
	"testing"
)

func mapValues(values []string, fn func(string) string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fn(v)
	}
	return out
}

func lowerAll(values []string) []string { return mapValues(values, strings.ToLower) }

func upperAll(values []string) []string { return mapValues(values, strings.ToUpper) }

// newTestParser registers:
//   - status (alias state)
//   - name
//   - tag, repeatable
//   - level, stored lower-case and rendered upper-case
//   - label, repeatable, stored lower-case and rendered upper-case
func newTestParser(t *testing.T) *Parser {
	t.Helper()
	reg, err := NewRegistry(
		Filter{Key: "status", Aliases: []string{"state"}},
		Filter{Key: "name"},
		Filter{Key: "tag", Repeatable: true},
		Filter{Key: "level", PhraseToClause: lowerAll, ClauseToPhrase: upperAll},
		Filter{Key: "label", Repeatable: true, PhraseToClause: lowerAll, ClauseToPhrase: upperAll},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return NewParser(reg)
}

func assertClauses(t *testing.T, got, want []Clause) {
	t.Helper()
	if !Equal(got, want) {
		t.Fatalf("clauses mismatch:\ngot:  %s\nwant: %s", ToQueryString(got), ToQueryString(want))
	}
}
