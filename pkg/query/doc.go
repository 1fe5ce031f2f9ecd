// Package query implements the text query language of a search bar.
//
// Typed text is split into tokens, tokens become clauses, and clauses render
// back to canonical text that parses to the same clauses:
//
//	reg, err := query.NewRegistry(
//	    query.Filter{Key: "status", Aliases: []string{"state"}},
//	    query.Filter{Key: "tag", Repeatable: true},
//	)
//	p := query.NewParser(reg)
//	clauses := p.ParseSearchQuery(`status:active,pending name "John Smith"`)
//	clauses = p.ApplyUpdate(clauses, query.Update{
//	    ToRemove: []query.Phrase{query.TextPhrase("name")},
//	    ToAdd:    []query.Clause{query.NewFilter("status", "done")},
//	})
//	text := p.ToQueryString(clauses) // status:done "John Smith"
//
// A token of the form key:v1,v2 is a filter clause when key (or one of its
// aliases) is registered, compared case-insensitively. A leading '-' or '!'
// negates it. Everything else is free text. Double quotes group whitespace
// and commas; an unterminated quote runs to the end of the input.
//
// Clause slices are values: every function returns a new slice and never
// mutates its input. Registry and Parser are immutable and safe for
// concurrent use.
package query
