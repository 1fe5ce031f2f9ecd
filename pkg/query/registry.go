package query

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/cases"
)

// Filter describes one recognized filter key.
//
// PhraseToClause and ClauseToPhrase convert values between their typed and
// stored forms. They must agree: PhraseToClause(ClauseToPhrase(v)) == v for
// any v PhraseToClause produced, otherwise text round-trips lose data.
type Filter struct {
	Key            string
	Aliases        []string
	Repeatable     bool
	PhraseToClause func(values []string) []string
	ClauseToPhrase func(values []string) []string
}

// Registry is the immutable set of recognized filters.
// A nil *Registry recognizes nothing.
type Registry struct {
	filters []Filter
	index   map[string]int
}

// NewRegistry validates filters and builds a Registry. Every problem found is
// reported at once, wrapped in ErrInvalidConfiguration.
func NewRegistry(filters ...Filter) (*Registry, error) {
	r := &Registry{
		filters: make([]Filter, 0, len(filters)),
		index:   make(map[string]int, len(filters)),
	}
	owners := make(map[string]string, len(filters))

	var merr *multierror.Error
	for _, f := range filters {
		f.Key = strings.TrimSpace(f.Key)
		if err := validateName(f.Key); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("filter key %q: %w", f.Key, err))
			continue
		}

		aliases := make([]string, 0, len(f.Aliases))
		names := []string{f.Key}
		for _, a := range f.Aliases {
			a = strings.TrimSpace(a)
			if err := validateName(a); err != nil {
				merr = multierror.Append(merr, fmt.Errorf("filter %q: alias %q: %w", f.Key, a, err))
				continue
			}
			aliases = append(aliases, a)
			names = append(names, a)
		}
		f.Aliases = aliases

		pos := len(r.filters)
		for _, name := range names {
			folded := foldKey(name)
			if owner, dup := owners[folded]; dup {
				merr = multierror.Append(merr,
					fmt.Errorf("filter %q: name %q already registered by filter %q", f.Key, name, owner))
				continue
			}
			owners[folded] = f.Key
			r.index[folded] = pos
		}
		r.filters = append(r.filters, f)
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. Meant for static
// filter sets declared in code.
func MustRegistry(filters ...Filter) *Registry {
	r, err := NewRegistry(filters...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup resolves a key or alias, case-insensitively.
func (r *Registry) Lookup(key string) (Filter, bool) {
	if r == nil {
		return Filter{}, false
	}
	i, ok := r.index[foldKey(key)]
	if !ok {
		return Filter{}, false
	}
	return r.filters[i], true
}

// Filters returns the registered filters in registration order.
func (r *Registry) Filters() []Filter {
	if r == nil {
		return []Filter{}
	}
	out := make([]Filter, len(r.filters))
	for i, f := range r.filters {
		f.Aliases = copyValues(f.Aliases)
		out[i] = f
	}
	return out
}

// Len returns the number of registered filters.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.filters)
}

func (r *Registry) repeatable(key string) bool {
	f, ok := r.Lookup(key)
	return ok && f.Repeatable
}

// validateName rejects names that could not survive a text round-trip.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("must not be empty")
	}
	if name[0] == '-' || name[0] == '!' {
		return fmt.Errorf("must not start with %q", name[0])
	}
	for _, r := range name {
		if unicode.IsSpace(r) || r == ':' || r == ',' || r == '"' || r == '\\' {
			return fmt.Errorf("must not contain %q", r)
		}
	}
	return nil
}

// foldKey normalizes a key for case-insensitive comparison.
// A Caser is stateful, so each call gets its own.
func foldKey(key string) string {
	return cases.Fold().String(strings.TrimSpace(key))
}

func sameKey(a, b string) bool {
	return foldKey(a) == foldKey(b)
}
