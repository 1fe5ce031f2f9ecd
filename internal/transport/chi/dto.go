package chi

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/querybar/internal/domain"
	domhist "github.com/kailas-cloud/querybar/internal/domain/history"
	gen "github.com/kailas-cloud/querybar/internal/transport/generated"
	queryuc "github.com/kailas-cloud/querybar/internal/usecase/query"
	"github.com/kailas-cloud/querybar/pkg/query"
)

func clausesFromDTO(in []gen.Clause) ([]query.Clause, error) {
	out := make([]query.Clause, 0, len(in))
	for i, c := range in {
		qc, err := clauseFromDTO(c)
		if err != nil {
			return nil, fmt.Errorf("clause %d: %w", i, err)
		}
		out = append(out, qc)
	}
	return out, nil
}

func clauseFromDTO(c gen.Clause) (query.Clause, error) {
	switch c.Type {
	case gen.ClauseTypeFilter:
		if strings.TrimSpace(c.Key) == "" {
			return query.Clause{}, fmt.Errorf("filter key is required: %w", domain.ErrInvalidRequest)
		}
		if c.Negated {
			return query.NewNegatedFilter(c.Key, c.Values...), nil
		}
		return query.NewFilter(c.Key, c.Values...), nil
	case gen.ClauseTypeText:
		return query.NewFreeText(c.Text), nil
	default:
		return query.Clause{}, fmt.Errorf("unknown clause type %q: %w", c.Type, domain.ErrInvalidRequest)
	}
}

func clausesToDTO(in []query.Clause) []gen.Clause {
	out := make([]gen.Clause, len(in))
	for i, c := range in {
		out[i] = clauseToDTO(c)
	}
	return out
}

func clauseToDTO(c query.Clause) gen.Clause {
	if c.IsFilter() {
		return gen.Clause{
			Type:    gen.ClauseTypeFilter,
			Key:     c.Key(),
			Values:  c.Values(),
			Negated: c.Negated(),
		}
	}
	return gen.Clause{Type: gen.ClauseTypeText, Text: c.Text()}
}

func phrasesFromDTO(in []gen.Phrase) ([]query.Phrase, error) {
	out := make([]query.Phrase, 0, len(in))
	for i, p := range in {
		switch {
		case p.Key != nil && p.Text != nil:
			return nil, fmt.Errorf("phrase %d: key and text are mutually exclusive: %w", i, domain.ErrInvalidRequest)
		case p.Key != nil:
			ph := query.FilterPhrase(*p.Key)
			if ph.IsZero() {
				return nil, fmt.Errorf("phrase %d: key is blank: %w", i, domain.ErrInvalidRequest)
			}
			out = append(out, ph)
		case p.Text != nil:
			out = append(out, query.TextPhrase(*p.Text))
		default:
			return nil, fmt.Errorf("phrase %d: key or text is required: %w", i, domain.ErrInvalidRequest)
		}
	}
	return out, nil
}

func updateFromDTO(req gen.UpdateRequest) (queryuc.UpdateInput, error) {
	in := queryuc.UpdateInput{Query: req.Query}
	if req.SessionID != nil {
		in.SessionID = *req.SessionID
	}
	if req.Clauses != nil {
		clauses, err := clausesFromDTO(*req.Clauses)
		if err != nil {
			return queryuc.UpdateInput{}, fmt.Errorf("clauses: %w", err)
		}
		in.Clauses = clauses
	}

	toAdd, err := clausesFromDTO(req.ToAdd)
	if err != nil {
		return queryuc.UpdateInput{}, fmt.Errorf("to_add: %w", err)
	}
	toRemove, err := phrasesFromDTO(req.ToRemove)
	if err != nil {
		return queryuc.UpdateInput{}, fmt.Errorf("to_remove: %w", err)
	}
	in.Update = query.Update{ToAdd: toAdd, ToRemove: toRemove}
	return in, nil
}

func resultToDTO(res queryuc.Result) gen.QueryResponse {
	return gen.QueryResponse{Query: res.Query, Clauses: clausesToDTO(res.Clauses)}
}

func filtersToDTO(in []query.Filter) gen.FilterListResponse {
	items := make([]gen.Filter, len(in))
	for i, f := range in {
		aliases := f.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		items[i] = gen.Filter{Key: f.Key, Aliases: aliases, Repeatable: f.Repeatable}
	}
	return gen.FilterListResponse{Items: items}
}

func historyToDTO(in []domhist.Entry) gen.HistoryResponse {
	items := make([]gen.HistoryEntry, len(in))
	for i, e := range in {
		items[i] = gen.HistoryEntry{Query: e.Query(), SavedAt: e.SavedAt()}
	}
	return gen.HistoryResponse{Items: items}
}
