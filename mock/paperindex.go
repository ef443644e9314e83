package mock

import (
	"sort"
	"strings"
	"sync"

	"github.com/readnet/readnet"
)

// PaperIndex is an in-memory index with the same contract as the bleve one:
// conjunctive filters, id order, pre-pagination total.
type PaperIndex struct {
	mu     sync.Mutex
	papers map[string]readnet.Paper
}

func (x *PaperIndex) Index(paper *readnet.Paper) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.papers == nil {
		x.papers = make(map[string]readnet.Paper)
	}
	x.papers[paper.ID] = *paper
	return nil
}

func (x *PaperIndex) Delete(id string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	delete(x.papers, id)
	return nil
}

func (x *PaperIndex) Search(params readnet.SearchParams) (readnet.SearchResults, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	var ids []string
	for id, paper := range x.papers {
		if matches(paper, params) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	total := uint64(len(ids))
	from := (params.Page - 1) * params.Limit
	if from >= len(ids) {
		ids = nil
	} else {
		ids = ids[from:]
		if len(ids) > params.Limit {
			ids = ids[:params.Limit]
		}
	}

	return readnet.SearchResults{
		IDs: ids,
		Pagination: readnet.Pagination{
			Total: total,
			Page:  params.Page,
			Limit: params.Limit,
		},
	}, nil
}

// Indexed reports whether a paper is present in the index.
func (x *PaperIndex) Indexed(id string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	_, ok := x.papers[id]
	return ok
}

func matches(paper readnet.Paper, params readnet.SearchParams) bool {
	if params.Q != "" {
		q := strings.ToLower(params.Q)
		found := strings.Contains(strings.ToLower(paper.Title), q) ||
			strings.Contains(strings.ToLower(paper.Abstract), q)
		for _, a := range paper.Authors {
			found = found || strings.Contains(strings.ToLower(a), q)
		}
		if !found {
			return false
		}
	}
	if params.Reader != "" && !paper.ReadBy(params.Reader) {
		return false
	}
	if params.Year != nil && (paper.Year == nil || *paper.Year != *params.Year) {
		return false
	}
	return true
}
