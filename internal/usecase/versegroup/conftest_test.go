package versegroup

import (
	"context"
	"sync"

	"github.com/bibdex/bibdex/internal/domain/batch"
	domdoc "github.com/bibdex/bibdex/internal/domain/document"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

type fakeVerse struct {
	id    int64
	text  string
	group int64
}

// fakeIndex is an in-memory verse index answering the two query shapes used by the service.
type fakeIndex struct {
	mu          sync.Mutex
	verses      []*fakeVerse
	refreshes   int
	searchErr   error
	updateErr   error
	pageQueries int
}

func (f *fakeIndex) Search(_ context.Context, _ string, body query.Map) (*result.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	clauses := body["query"].(query.Map)["bool"].(query.Map)
	size := body["size"].(int)

	var hits []result.Hit
	if _, ok := clauses["must"]; ok {
		// identical-text lookup
		must := clauses["must"].([]query.Map)[0]["match_phrase"].(query.Map)
		text := must[schema.VerseText].(string)
		self := clauses["must_not"].([]query.Map)[1]["term"].(query.Map)[schema.VerseID].(int64)
		for _, v := range f.verses {
			if v.group == 0 && v.text == text && v.id != self {
				hits = append(hits, hit(v))
			}
		}
	} else {
		f.pageQueries++
		after := clauses["filter"].([]query.Map)[0]["range"].(query.Map)[schema.VerseID].(query.Map)["gte"].(int64)
		for _, v := range f.verses {
			if v.group == 0 && v.id >= after {
				hits = append(hits, hit(v))
			}
		}
	}
	if len(hits) > size {
		hits = hits[:size]
	}
	return &result.Page{Total: int64(len(hits)), Hits: hits}, nil
}

func hit(v *fakeVerse) result.Hit {
	return result.Hit{
		ID:     itoa(v.id),
		Source: map[string]any{schema.VerseID: float64(v.id), schema.VerseText: v.text},
	}
}

func (f *fakeIndex) Update(_ context.Context, _ string, docs []domdoc.Document) ([]batch.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	out := make([]batch.Result, 0, len(docs))
	for _, d := range docs {
		for _, v := range f.verses {
			if itoa(v.id) == d.ID() {
				v.group = d.Fields()[schema.VerseGroup].(int64)
			}
		}
		out = append(out, batch.NewOK(d.ID()))
	}
	return out, nil
}

func (f *fakeIndex) Refresh(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return nil
}

func (f *fakeIndex) group(id int64) int64 {
	for _, v := range f.verses {
		if v.id == id {
			return v.group
		}
	}
	return -1
}
