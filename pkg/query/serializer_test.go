package query

import "testing"

func TestToQueryString(t *testing.T) {
	tests := []struct {
		name    string
		clauses []Clause
		want    string
	}{
		{"nil", nil, ""},
		{"empty", []Clause{}, ""},
		{"filter", []Clause{NewFilter("status", "active", "pending")}, "status:active,pending"},
		{"quoted value", []Clause{NewFilter("name", "John Smith")}, `name:"John Smith"`},
		{"comma value", []Clause{NewFilter("name", "a,b", "c")}, `name:"a,b",c`},
		{"quote in value", []Clause{NewFilter("name", `say "hi"`)}, `name:"say \"hi\""`},
		{"empty values", []Clause{NewFilter("status")}, "status:"},
		{"negated", []Clause{NewNegatedFilter("status", "a")}, "-status:a"},
		{"free text", []Clause{NewFreeText("hello"), NewFreeText("world")}, "hello world"},
		{"free text with space", []Clause{NewFreeText("hello world")}, `"hello world"`},
		{"free text with backslash", []Clause{NewFreeText(`a\b`)}, `"a\\b"`},
		{"filter-shaped free text", []Clause{NewFreeText("foo:bar")}, `"foo:bar"`},
		{"leading colon", []Clause{NewFreeText(":foo")}, ":foo"},
		{"dash text", []Clause{NewFreeText("-x")}, "-x"},
		{"empty free text", []Clause{NewFreeText("")}, `""`},
		{
			"order preserved",
			[]Clause{NewFreeText("x"), NewFilter("status", "a"), NewFreeText("y")},
			"x status:a y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToQueryString(tt.clauses); got != tt.want {
				t.Errorf("ToQueryString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParser_ToQueryString(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name    string
		clauses []Clause
		want    string
	}{
		{"canonical key", []Clause{NewFilter("state", "a")}, "status:a"},
		{"clause to phrase", []Clause{NewFilter("level", "high")}, "level:HIGH"},
		{"unregistered filter-shaped text", []Clause{NewFreeText("foo:bar")}, "foo:bar"},
		{"registered filter-shaped text", []Clause{NewFreeText("status:x")}, `"status:x"`},
		{"negated registered text", []Clause{NewFreeText("-STATE:x")}, `"-STATE:x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ToQueryString(tt.clauses); got != tt.want {
				t.Errorf("ToQueryString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClause_String(t *testing.T) {
	if got := NewNegatedFilter("name", "John Smith").String(); got != `-name:"John Smith"` {
		t.Errorf("String() = %q", got)
	}
}

var roundTripInputs = []string{
	"",
	"hello world",
	"status:active,pending",
	`name:"John Smith" status:a`,
	"-status:a !tag:x tag:y",
	`"status:active"`,
	"foo:bar -foo:bar",
	`say "unterminated quote`,
	`"a\\b" c\d`,
	`name:"a,b",c`,
	`"say \"hi\""`,
	"level:HIGH",
	"status: name:",
	": - !",
	"héllo wörld",
	`tag:"x y" tag:"x y"`,
	"x status:a y STATE:b",
	`name:"  padded  "`,
}

func TestRoundTrip(t *testing.T) {
	p := newTestParser(t)

	for _, in := range roundTripInputs {
		t.Run(in, func(t *testing.T) {
			parsed := p.ParseSearchQuery(in)

			text := p.ToQueryString(parsed)
			reparsed := p.ParseSearchQuery(text)
			assertClauses(t, reparsed, parsed)
			if again := p.ToQueryString(reparsed); again != text {
				t.Errorf("not idempotent: %q then %q", text, again)
			}

			plain := ToQueryString(parsed)
			assertClauses(t, p.ParseSearchQuery(plain), parsed)
			if again := ToQueryString(p.ParseSearchQuery(plain)); again != plain {
				t.Errorf("not idempotent: %q then %q", plain, again)
			}
		})
	}
}

func TestRoundTrip_AfterMutation(t *testing.T) {
	p := newTestParser(t)
	clauses := p.ParseSearchQuery(`status:a "free phrase" tag:x label:foo level:low`)
	clauses = p.ApplyUpdate(clauses, Update{
		ToRemove: []Phrase{TextPhrase("free phrase")},
		ToAdd: []Clause{
			NewFilter("name", "Jane Doe", "x,y"),
			NewFreeText("a:b"),
			NewFilter("tag", "y"),
			NewFilter("level", "High"),
			NewFilter("label", "FOO"),
			NewFilter("LABEL", "Bar"),
		},
	})

	text := p.ToQueryString(clauses)
	if want := `status:a tag:x label:FOO level:HIGH name:"Jane Doe","x,y" a:b tag:y label:BAR`; text != want {
		t.Errorf("got %q, want %q", text, want)
	}
	assertClauses(t, p.ParseSearchQuery(text), clauses)
}
