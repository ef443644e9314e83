package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/errors"
)

var paperBucket = []byte("papers")

// PaperRepository stores papers in a bolt database, keyed by their external
// id. Bolt serializes write transactions, which is what makes the
// check-then-append in AppendRead and the conditional removal in RemoveRead
// atomic: no two writers ever interleave on the same paper.
type PaperRepository struct {
	Driver *Driver
}

// Get retrieves the papers for the given ids. Unknown ids are simply
// skipped.
func (r *PaperRepository) Get(ids ...string) ([]readnet.Paper, error) {
	papers := make([]readnet.Paper, 0, len(ids))
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(paperBucket)

		for _, id := range ids {
			data := bucket.Get([]byte(id))
			if data == nil {
				continue
			}

			var paper readnet.Paper
			if err := json.Unmarshal(data, &paper); err != nil {
				return err
			}
			papers = append(papers, paper)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return papers, nil
}

// List returns all the papers in the store, in key order.
func (r *PaperRepository) List() ([]readnet.Paper, error) {
	var papers []readnet.Paper

	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(paperBucket)

		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var paper readnet.Paper
			if err := json.Unmarshal(data, &paper); err != nil {
				return err
			}
			papers = append(papers, paper)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return papers, nil
}

// AppendRead appends read to the paper identified by id, creating the paper
// with meta first when the id is unknown. For an existing paper meta is
// ignored: the metadata written on creation is never overwritten. The guard
// runs against the stored paper inside the write transaction, so a rejection
// leaves the store untouched and two concurrent callers cannot both pass the
// same check.
func (r *PaperRepository) AppendRead(id string, meta readnet.PaperMeta, read readnet.Read, guard func(readnet.Paper) error) (readnet.Paper, error) {
	var paper readnet.Paper
	err := r.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(paperBucket)

		now := time.Now().UTC()
		data := bucket.Get([]byte(id))
		if data == nil {
			paper = readnet.Paper{
				ID:        id,
				Title:     meta.Title,
				Abstract:  meta.Abstract,
				Authors:   meta.Authors,
				Year:      meta.Year,
				CreatedAt: now,
			}
		} else {
			paper = readnet.Paper{}
			if err := json.Unmarshal(data, &paper); err != nil {
				return err
			}
		}

		if guard != nil {
			if err := guard(paper); err != nil {
				return err
			}
		}

		paper.Reads = append(paper.Reads, read)
		paper.UpdatedAt = now

		buf, err := json.Marshal(paper)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), buf)
	})
	if err != nil {
		return readnet.Paper{}, err
	}

	return paper, nil
}

// RemoveRead removes the read entry matching entryID from the paper
// identified by id. A non-empty scopeUser additionally requires the entry to
// belong to that user; an entry owned by someone else is reported as not
// found, exactly like a missing one. The whole lookup-and-remove runs in one
// write transaction: of two concurrent removals of the same entry only one
// can succeed, the other observes not found.
func (r *PaperRepository) RemoveRead(id, entryID, scopeUser string) (readnet.Paper, error) {
	var paper readnet.Paper
	err := r.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(paperBucket)

		data := bucket.Get([]byte(id))
		if data == nil {
			return errEntryNotFound(id, entryID)
		}
		if err := json.Unmarshal(data, &paper); err != nil {
			return err
		}

		index := -1
		for i, rd := range paper.Reads {
			if rd.EntryID == entryID && (scopeUser == "" || rd.User == scopeUser) {
				index = i
				break
			}
		}
		if index == -1 {
			return errEntryNotFound(id, entryID)
		}

		paper.Reads = append(paper.Reads[:index], paper.Reads[index+1:]...)
		paper.UpdatedAt = time.Now().UTC()

		buf, err := json.Marshal(paper)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(id), buf)
	})
	if err != nil {
		return readnet.Paper{}, err
	}

	return paper, nil
}

func errEntryNotFound(id, entryID string) error {
	return errors.New(fmt.Sprintf("no read entry %s on paper %s", entryID, id), errors.NotFound())
}
