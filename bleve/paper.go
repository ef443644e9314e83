package bleve

import (
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/analysis/token/lowercase"
	"github.com/blevesearch/bleve/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/mapping"
	"github.com/blevesearch/bleve/search/query"

	"github.com/readnet/readnet"
)

// lowerKeyword indexes a field as a single lowercased term, so a wildcard
// query amounts to a case-insensitive substring match on the whole value.
const lowerKeyword = "lower_keyword"

// PaperIndex indexes papers in a bleve index for multi-criteria search.
type PaperIndex struct {
	index bleve.Index
}

// Open opens the index at path, creating it with the paper mapping when it
// does not exist yet.
func (s *PaperIndex) Open(path string) error {
	index, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		m, mErr := createMapping()
		if mErr != nil {
			return mErr
		}
		index, err = bleve.New(path, m)
	}
	if err != nil {
		return err
	}

	s.index = index
	return nil
}

func (s *PaperIndex) Close() error {
	if s.index == nil {
		return nil
	}

	return s.index.Close()
}

func (s *PaperIndex) Index(paper *readnet.Paper) error {
	data := map[string]interface{}{
		"title":    paper.Title,
		"abstract": paper.Abstract,
		"authors":  paper.Authors,
		"readers":  paper.Readers(),
	}
	if paper.Year != nil {
		data["year"] = float64(*paper.Year)
	}

	return s.index.Index(paper.ID, data)
}

func (s *PaperIndex) Delete(id string) error {
	return s.index.Delete(id)
}

// Search returns one page of matching paper ids plus the total number of
// matches. All given criteria must hold. Results are sorted by id, so
// pagination is stable across calls as long as the data does not move.
func (s *PaperIndex) Search(params readnet.SearchParams) (readnet.SearchResults, error) {
	q := andQ(
		query.NewMatchAllQuery(),
		searchKeyword(params.Q),
		searchReader(params.Reader),
		searchYear(params.Year),
	)

	searchRequest := bleve.NewSearchRequest(q)
	searchRequest.SortBy([]string{"_id"})

	if params.Limit > 0 {
		searchRequest.Size = params.Limit
	}
	if params.Page > 1 {
		searchRequest.From = (params.Page - 1) * searchRequest.Size
	}

	searchResults, err := s.index.Search(searchRequest)
	if err != nil {
		return readnet.SearchResults{}, err
	}

	ids := make([]string, len(searchResults.Hits))
	for i, hit := range searchResults.Hits {
		ids[i] = hit.ID
	}

	return readnet.SearchResults{
		IDs: ids,
		Pagination: readnet.Pagination{
			Total: searchResults.Total,
			Page:  params.Page,
			Limit: params.Limit,
		},
	}, nil
}

func andQ(qs ...query.Query) query.Query {
	ands := make([]query.Query, 0, len(qs))
	for _, q := range qs {
		if q != nil {
			ands = append(ands, q)
		}
	}

	if len(ands) == 0 {
		return nil
	}
	return query.NewConjunctionQuery(ands)
}

func orQ(qs ...query.Query) query.Query {
	ors := make([]query.Query, 0, len(qs))
	for _, q := range qs {
		if q != nil {
			ors = append(ors, q)
		}
	}

	if len(ors) == 0 {
		return nil
	}
	return query.NewDisjunctionQuery(ors)
}

// searchKeyword matches the keyword as a substring of the title, any author
// or the abstract. Wildcard queries are not analyzed at query time, the
// keyword is lowercased here to line up with the lowerKeyword terms.
func searchKeyword(keywordStr string) query.Query {
	if keywordStr == "" {
		return nil
	}

	wildcard := "*" + strings.ToLower(keywordStr) + "*"
	return orQ(
		wildcardQuery(wildcard, "title"),
		wildcardQuery(wildcard, "authors"),
		wildcardQuery(wildcard, "abstract"),
	)
}

func wildcardQuery(wildcard, field string) query.Query {
	q := query.NewWildcardQuery(wildcard)
	q.SetField(field)
	return q
}

// searchReader matches papers having at least one read by exactly this user.
func searchReader(reader string) query.Query {
	if reader == "" {
		return nil
	}

	q := query.NewTermQuery(reader)
	q.SetField("readers")
	return q
}

func searchYear(year *int) query.Query {
	if year == nil {
		return nil
	}

	y := float64(*year)
	inclusive := true
	q := query.NewNumericRangeInclusiveQuery(&y, &y, &inclusive, &inclusive)
	q.SetField("year")
	return q
}

func createMapping() (mapping.IndexMapping, error) {
	m := bleve.NewIndexMapping()

	err := m.AddCustomAnalyzer(lowerKeyword, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}

	substringField := bleve.NewTextFieldMapping()
	substringField.Analyzer = lowerKeyword

	// Readers are matched exactly, case included.
	readersField := bleve.NewTextFieldMapping()
	readersField.Analyzer = keyword.Name

	yearField := bleve.NewNumericFieldMapping()

	paperMapping := bleve.NewDocumentMapping()
	paperMapping.AddFieldMappingsAt("title", substringField)
	paperMapping.AddFieldMappingsAt("abstract", substringField)
	paperMapping.AddFieldMappingsAt("authors", substringField)
	paperMapping.AddFieldMappingsAt("readers", readersField)
	paperMapping.AddFieldMappingsAt("year", yearField)

	m.DefaultMapping = paperMapping
	return m, nil
}
