package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/errors"
	"github.com/readnet/readnet/reads"
	"github.com/readnet/readnet/users"
)

const (
	StatusAccepted  = "accepted"
	StatusDuplicate = "duplicate"
)

const (
	minYear  = 1900
	maxLimit = 50
)

// PaperService is the core of the read tracker: it validates input, stamps
// reads with the verified identity and a server-side timestamp, applies the
// duplicate policy inside the store mutation and keeps the search index in
// sync.
type PaperService struct {
	repository readnet.PaperRepository
	index      readnet.PaperIndex
	config     readnet.ConfigRepository
}

func NewPaperService(
	repo readnet.PaperRepository,
	index readnet.PaperIndex,
	config readnet.ConfigRepository,
) *PaperService {
	return &PaperService{
		repository: repo,
		index:      index,
		config:     config,
	}
}

// MarkResult is the outcome of a mark-read call. A duplicate is not an
// error: it comes back with StatusDuplicate and no paper.
type MarkResult struct {
	Status string         `json:"status"`
	Paper  *readnet.Paper `json:"paper,omitempty"`
}

// MarkRead records that user has read the paper identified by id, creating
// the paper with meta when it is unseen. The read's user always comes from
// the verified identity, never from the request payload.
func (s *PaperService) MarkRead(user users.User, id string, meta readnet.PaperMeta, notes string) (MarkResult, error) {
	if id == "" {
		return MarkResult{}, errors.New("paper id is required", errors.BadRequest())
	}
	if err := validateMeta(meta); err != nil {
		return MarkResult{}, err
	}

	cfg, err := s.config.Get()
	if err != nil {
		return MarkResult{}, err
	}

	read := readnet.Read{
		EntryID:   uuid.NewString(),
		User:      user.Name,
		Timestamp: time.Now().UTC(),
		Notes:     notes,
	}

	paper, err := s.repository.AppendRead(id, meta, read, reads.Guard(cfg, read))
	if reads.IsDuplicate(err) {
		return MarkResult{Status: StatusDuplicate}, nil
	}
	if err != nil {
		return MarkResult{}, err
	}

	if err := s.index.Index(&paper); err != nil {
		return MarkResult{}, err
	}

	return MarkResult{Status: StatusAccepted, Paper: &paper}, nil
}

// CheckResult reports whether a paper is known and whether the calling
// identity has read it. Reads are only included on request.
type CheckResult struct {
	Found      bool               `json:"found"`
	ReadStatus string             `json:"readStatus,omitempty"`
	Meta       *readnet.PaperMeta `json:"metadata,omitempty"`
	Reads      []readnet.Read     `json:"reads,omitempty"`
}

func (s *PaperService) Check(user users.User, id string, withReads bool) (CheckResult, error) {
	if id == "" {
		return CheckResult{}, errors.New("paper id is required", errors.BadRequest())
	}

	papers, err := s.repository.Get(id)
	if err != nil {
		return CheckResult{}, err
	} else if len(papers) == 0 {
		return CheckResult{Found: false}, nil
	}

	paper := papers[0]
	status := "unread"
	if paper.ReadBy(user.Name) {
		status = "read"
	}

	res := CheckResult{
		Found:      true,
		ReadStatus: status,
		Meta: &readnet.PaperMeta{
			Title:    paper.Title,
			Abstract: paper.Abstract,
			Authors:  paper.Authors,
			Year:     paper.Year,
		},
	}
	if withReads {
		res.Reads = paper.Reads
	}

	return res, nil
}

// RemoveRead removes one of the caller's own read entries.
func (s *PaperService) RemoveRead(user users.User, id, entryID string) (readnet.Paper, error) {
	return s.removeRead(id, entryID, user.Name)
}

// AdminRemoveRead removes a read entry regardless of its owner.
func (s *PaperService) AdminRemoveRead(id, entryID string) (readnet.Paper, error) {
	return s.removeRead(id, entryID, "")
}

func (s *PaperService) removeRead(id, entryID, scopeUser string) (readnet.Paper, error) {
	if id == "" || entryID == "" {
		return readnet.Paper{}, errors.New("paper id and entry id are required", errors.BadRequest())
	}

	paper, err := s.repository.RemoveRead(id, entryID, scopeUser)
	if err != nil {
		return readnet.Paper{}, err
	}

	if err := s.index.Index(&paper); err != nil {
		return readnet.Paper{}, err
	}

	return paper, nil
}

// SearchResults is one page of matching papers plus the total number of
// matches before pagination.
type SearchResults struct {
	Papers     []readnet.Paper    `json:"papers"`
	Pagination readnet.Pagination `json:"pagination"`
}

// Search runs a conjunctive filtered search. Clients derive display fields
// (latest read per user, relative times) from the raw reads themselves.
func (s *PaperService) Search(params readnet.SearchParams) (SearchResults, error) {
	if params.Page < 1 {
		return SearchResults{}, errors.New("page must be at least 1", errors.BadRequest())
	}
	if params.Limit < 1 || params.Limit > maxLimit {
		return SearchResults{}, errors.New(
			fmt.Sprintf("limit must be between 1 and %d", maxLimit),
			errors.BadRequest(),
		)
	}
	if params.Year != nil {
		if y := *params.Year; y < minYear || y > time.Now().Year() {
			return SearchResults{}, errors.New(
				fmt.Sprintf("year must be between %d and %d", minYear, time.Now().Year()),
				errors.BadRequest(),
			)
		}
	}

	res, err := s.index.Search(params)
	if err != nil {
		return SearchResults{}, err
	}

	papers, err := s.repository.Get(res.IDs...)
	if err != nil {
		return SearchResults{}, err
	}

	return SearchResults{
		Papers:     papers,
		Pagination: res.Pagination,
	}, nil
}

// Reindex rebuilds the search index from the store and returns the number of
// papers indexed.
func (s *PaperService) Reindex() (int, error) {
	papers, err := s.repository.List()
	if err != nil {
		return 0, err
	}

	for i := range papers {
		if err := s.index.Index(&papers[i]); err != nil {
			return i, err
		}
	}

	return len(papers), nil
}

func validateMeta(meta readnet.PaperMeta) error {
	if meta.Title == "" {
		return errors.New("title is required", errors.BadRequest())
	}
	if meta.Abstract == "" {
		return errors.New("abstract is required", errors.BadRequest())
	}
	if len(meta.Authors) == 0 {
		return errors.New("at least one author is required", errors.BadRequest())
	}
	for _, author := range meta.Authors {
		if author == "" {
			return errors.New("authors cannot be empty", errors.BadRequest())
		}
	}
	if meta.Year != nil {
		if y := *meta.Year; y < minYear || y > time.Now().Year() {
			return errors.New(
				fmt.Sprintf("year must be between %d and %d", minYear, time.Now().Year()),
				errors.BadRequest(),
			)
		}
	}
	return nil
}
