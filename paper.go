package readnet

import (
	"time"
)

// Paper is a tracked document. Its ID is supplied by the caller (a DOI, a
// canonical URL or a content hash) and is never regenerated: the first
// mark-read call for an unseen ID creates the paper, later calls only append
// to its reads.
type Paper struct {
	ID string `json:"id"`

	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Authors  []string `json:"authors"`
	Year     *int     `json:"year,omitempty"`

	// Reads are kept in arrival order.
	Reads []Read `json:"reads"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Read records that one identity has read the paper it is embedded in.
type Read struct {
	EntryID   string    `json:"entryId"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Notes     string    `json:"notes,omitempty"`
}

// PaperMeta is the metadata supplied with a mark-read call. It is only used
// when the call creates the paper; for an existing paper it is ignored.
type PaperMeta struct {
	Title    string   `json:"title"`
	Abstract string   `json:"abstract"`
	Authors  []string `json:"authors"`
	Year     *int     `json:"year,omitempty"`
}

// Readers returns the distinct users having at least one read on the paper.
func (p *Paper) Readers() []string {
	seen := make(map[string]struct{}, len(p.Reads))
	readers := make([]string, 0, len(p.Reads))
	for _, r := range p.Reads {
		if _, ok := seen[r.User]; ok {
			continue
		}
		seen[r.User] = struct{}{}
		readers = append(readers, r.User)
	}
	return readers
}

// ReadBy tells whether user has at least one read on the paper.
func (p *Paper) ReadBy(user string) bool {
	for _, r := range p.Reads {
		if r.User == user {
			return true
		}
	}
	return false
}

type Pagination struct {
	Total uint64 `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// SearchParams are the filters of a paper search. All provided filters must
// match (conjunction). Q matches title, authors and abstract; Reader matches
// papers having at least one read by that exact user; Year matches the
// publication year exactly.
type SearchParams struct {
	Q      string `json:"q"`
	Reader string `json:"reader"`
	Year   *int   `json:"year"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// SearchResults holds the ids of the matching papers for one page, plus the
// total number of matches before pagination.
type SearchResults struct {
	IDs        []string
	Pagination Pagination
}

// PaperRepository is the durable store of papers, keyed by ID.
type PaperRepository interface {
	// Get retrieves the papers for the given ids. Unknown ids are skipped.
	Get(ids ...string) ([]Paper, error)

	// List returns all papers.
	List() ([]Paper, error)

	// AppendRead creates the paper with meta if id is unknown, then runs
	// guard against the stored paper and appends read if the guard returns
	// nil. The whole sequence is a single atomic mutation: no other write
	// on the same paper can interleave between the guard and the append.
	AppendRead(id string, meta PaperMeta, read Read, guard func(Paper) error) (Paper, error)

	// RemoveRead removes the read entry matching entryID. A non-empty
	// scopeUser additionally requires the entry to belong to that user.
	// The lookup and the removal are one atomic mutation: of two
	// concurrent removals of the same entry, exactly one succeeds.
	RemoveRead(id, entryID, scopeUser string) (Paper, error)
}

// PaperIndex is the search index over papers.
type PaperIndex interface {
	Index(*Paper) error
	Delete(id string) error
	Search(SearchParams) (SearchResults, error)
}

// MarkRequest is a mark-read submission, as buffered by the extension when
// the backend is unreachable.
type MarkRequest struct {
	PaperID string    `json:"paperId"`
	Meta    PaperMeta `json:"meta"`
	Notes   string    `json:"notes,omitempty"`
}

// ReadQueue is the offline buffer contract of the browser extension: failed
// submissions are enqueued and drained once the backend is reachable again.
// Retrying is the queue's responsibility, the core never retries internally.
type ReadQueue interface {
	Enqueue(MarkRequest) error

	// Drain calls submit for each buffered request in enqueue order and
	// drops the ones for which submit returns nil.
	Drain(submit func(MarkRequest) error) error
}
