package reads

import (
	"fmt"
	"net/http"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/errors"
)

// Guard returns the duplicate check to run against the stored paper before
// appending candidate. With duplicate prevention off it accepts everything.
// With it on, it rejects a candidate whose (user, notes) pair matches an
// existing read, comparing notes exactly and case sensitively: the same user
// marking the paper again with different notes counts as a distinct reading
// session, not a duplicate.
//
// The guard never mutates anything, it is a pure decision over the stored
// reads, the candidate and the configuration. The repository runs it inside
// the write transaction so the decision and the append cannot be split by a
// concurrent writer.
func Guard(cfg readnet.Config, candidate readnet.Read) func(readnet.Paper) error {
	return func(paper readnet.Paper) error {
		if !cfg.PreventDuplicateReads {
			return nil
		}

		for _, r := range paper.Reads {
			if r.User == candidate.User && r.Notes == candidate.Notes {
				return errors.New(
					fmt.Sprintf("paper %s already marked read by %s", paper.ID, candidate.User),
					errors.Conflict(),
				)
			}
		}
		return nil
	}
}

// IsDuplicate tells whether err is a duplicate rejection. A duplicate is a
// defined policy outcome, not a failure: callers branch on it explicitly.
func IsDuplicate(err error) bool {
	return errors.Is(err, http.StatusConflict)
}
