package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/querybar/pkg/query"
)

// Registry builds the filter registry from the filters section.
func (c *Config) Registry() (*query.Registry, error) {
	filters := make([]query.Filter, 0, len(c.Filters))
	for _, fc := range c.Filters {
		f := query.Filter{
			Key:        fc.Key,
			Aliases:    fc.Aliases,
			Repeatable: fc.Repeatable,
		}
		if len(fc.Values) > 0 {
			f.PhraseToClause = normalizeValues(fc.Values)
		}
		filters = append(filters, f)
	}

	reg, err := query.NewRegistry(filters...)
	if err != nil {
		return nil, fmt.Errorf("filters: %w", err)
	}
	return reg, nil
}

// normalizeValues maps typed values to their configured spelling.
// Configured spellings map to themselves, so ClauseToPhrase stays nil.
func normalizeValues(known []string) func([]string) []string {
	fold := cases.Fold()
	canonical := make(map[string]string, len(known))
	for _, v := range known {
		v = strings.TrimSpace(v)
		key := fold.String(v)
		if _, dup := canonical[key]; !dup {
			canonical[key] = v
		}
	}

	return func(values []string) []string {
		out := make([]string, len(values))
		for i, v := range values {
			if c, ok := canonical[cases.Fold().String(v)]; ok {
				out[i] = c
			} else {
				out[i] = v
			}
		}
		return out
	}
}
