package services

import (
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/bolt"
	"github.com/readnet/readnet/errors"
	"github.com/readnet/readnet/mock"
	"github.com/readnet/readnet/users"
)

func createService(t *testing.T) (*PaperService, *ConfigService, *mock.PaperIndex, func()) {
	tmpFile, err := os.CreateTemp("", "")
	if err != nil {
		t.Fatal("could not create tmp file:", err)
	}
	filename := tmpFile.Name()
	tmpFile.Close()

	driver := &bolt.Driver{}
	if err := driver.Open(filename); err != nil {
		os.Remove(filename)
		t.Fatal("could not open driver:", err)
	}

	index := &mock.PaperIndex{}
	configRepo := &bolt.ConfigRepository{Driver: driver}
	service := NewPaperService(&bolt.PaperRepository{Driver: driver}, index, configRepo)
	configService := NewConfigService(configRepo)

	return service, configService, index, func() {
		driver.Close()
		os.Remove(filename)
	}
}

func year(y int) *int { return &y }

var (
	alice = users.User{ID: 1, Name: "alice"}
	bob   = users.User{ID: 2, Name: "bob"}
)

func testMeta() readnet.PaperMeta {
	return readnet.PaperMeta{
		Title:    "Neural Nets",
		Abstract: "An introduction.",
		Authors:  []string{"Ada Lovelace"},
		Year:     year(2020),
	}
}

func TestPaperService_MarkRead(t *testing.T) {
	service, _, index, f := createService(t)
	defer f()

	res, err := service.MarkRead(alice, "p1", testMeta(), "first pass")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, res.Status)
	require.NotNil(t, res.Paper)
	require.Len(t, res.Paper.Reads, 1)

	read := res.Paper.Reads[0]
	assert.NotEmpty(t, read.EntryID)
	assert.Equal(t, "alice", read.User, "identity comes from the verified caller")
	assert.False(t, read.Timestamp.IsZero())
	assert.Equal(t, "first pass", read.Notes)

	// The index was brought up to date.
	assert.True(t, index.Indexed("p1"))

	// A second mark with different metadata appends without touching the
	// original metadata.
	other := readnet.PaperMeta{Title: "Changed", Abstract: "x", Authors: []string{"B"}}
	res, err = service.MarkRead(bob, "p1", other, "")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, res.Status)
	assert.Equal(t, "Neural Nets", res.Paper.Title)
	assert.Len(t, res.Paper.Reads, 2)
}

func TestPaperService_MarkRead_DuplicatePolicy(t *testing.T) {
	service, config, _, f := createService(t)
	defer f()

	res, err := service.MarkRead(alice, "p1", testMeta(), "x")
	require.NoError(t, err)
	require.Equal(t, StatusAccepted, res.Status)

	// Prevention on: the same (user, notes) pair is rejected as a
	// duplicate outcome, not an error, and nothing is appended.
	_, err = config.Set(readnet.Config{PreventDuplicateReads: true})
	require.NoError(t, err)

	res, err = service.MarkRead(alice, "p1", testMeta(), "x")
	require.NoError(t, err)
	assert.Equal(t, StatusDuplicate, res.Status)
	assert.Nil(t, res.Paper)

	check, err := service.Check(alice, "p1", true)
	require.NoError(t, err)
	assert.Len(t, check.Reads, 1)

	// Different notes are a distinct reading session.
	res, err = service.MarkRead(alice, "p1", testMeta(), "second pass")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, res.Status)

	// Prevention off: the exact duplicate is accepted again.
	_, err = config.Set(readnet.Config{PreventDuplicateReads: false})
	require.NoError(t, err)

	res, err = service.MarkRead(alice, "p1", testMeta(), "x")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, res.Status)
	assert.Len(t, res.Paper.Reads, 3)
}

func TestPaperService_MarkRead_ConcurrentDuplicate(t *testing.T) {
	service, config, _, f := createService(t)
	defer f()

	_, err := config.Set(readnet.Config{PreventDuplicateReads: true})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]MarkResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = service.MarkRead(alice, "p1", testMeta(), "same notes")
		}(i)
	}
	wg.Wait()

	accepted, duplicate := 0, 0
	for i := range results {
		require.NoError(t, errs[i])
		switch results[i].Status {
		case StatusAccepted:
			accepted++
		case StatusDuplicate:
			duplicate++
		}
	}
	assert.Equal(t, 1, accepted, "exactly one concurrent mark-read may win")
	assert.Equal(t, 1, duplicate)

	check, err := service.Check(alice, "p1", true)
	require.NoError(t, err)
	assert.Len(t, check.Reads, 1)
}

func TestPaperService_MarkRead_Validation(t *testing.T) {
	service, _, _, f := createService(t)
	defer f()

	tts := map[string]struct {
		id    string
		meta  readnet.PaperMeta
		notes string
	}{
		"missing id":      {id: "", meta: testMeta()},
		"missing title":   {id: "p1", meta: readnet.PaperMeta{Abstract: "a", Authors: []string{"A"}}},
		"missing authors": {id: "p1", meta: readnet.PaperMeta{Title: "T", Abstract: "a"}},
		"empty author":    {id: "p1", meta: readnet.PaperMeta{Title: "T", Abstract: "a", Authors: []string{""}}},
		"missing abstract": {
			id:   "p1",
			meta: readnet.PaperMeta{Title: "T", Authors: []string{"A"}},
		},
		"year too old": {
			id:   "p1",
			meta: readnet.PaperMeta{Title: "T", Abstract: "a", Authors: []string{"A"}, Year: year(1800)},
		},
		"year in the future": {
			id:   "p1",
			meta: readnet.PaperMeta{Title: "T", Abstract: "a", Authors: []string{"A"}, Year: year(2999)},
		},
	}

	for name, tt := range tts {
		_, err := service.MarkRead(alice, tt.id, tt.meta, tt.notes)
		require.Error(t, err, name)
		errors.AssertCode(t, err, http.StatusBadRequest)
	}

	// Nothing reached the store.
	check, err := service.Check(alice, "p1", false)
	require.NoError(t, err)
	assert.False(t, check.Found)
}

func TestPaperService_Check(t *testing.T) {
	service, _, _, f := createService(t)
	defer f()

	check, err := service.Check(alice, "p1", false)
	require.NoError(t, err)
	assert.False(t, check.Found)

	_, err = service.MarkRead(bob, "p1", testMeta(), "")
	require.NoError(t, err)

	// alice has not read it.
	check, err = service.Check(alice, "p1", false)
	require.NoError(t, err)
	assert.True(t, check.Found)
	assert.Equal(t, "unread", check.ReadStatus)
	require.NotNil(t, check.Meta)
	assert.Equal(t, "Neural Nets", check.Meta.Title)
	assert.Nil(t, check.Reads, "reads only come with the details flag")

	check, err = service.Check(bob, "p1", true)
	require.NoError(t, err)
	assert.Equal(t, "read", check.ReadStatus)
	assert.Len(t, check.Reads, 1)
}

func TestPaperService_RemoveRead(t *testing.T) {
	service, _, _, f := createService(t)
	defer f()

	resA, err := service.MarkRead(alice, "p1", testMeta(), "")
	require.NoError(t, err)
	resB, err := service.MarkRead(bob, "p1", testMeta(), "")
	require.NoError(t, err)

	entryA := resA.Paper.Reads[0].EntryID
	entryB := resB.Paper.Reads[1].EntryID

	// bob cannot remove alice's entry.
	_, err = service.RemoveRead(bob, "p1", entryA)
	require.Error(t, err)
	errors.AssertCode(t, err, http.StatusNotFound)

	paper, err := service.RemoveRead(alice, "p1", entryA)
	require.NoError(t, err)
	require.Len(t, paper.Reads, 1)
	assert.Equal(t, entryB, paper.Reads[0].EntryID)

	// Removing it again reports stale state.
	_, err = service.RemoveRead(alice, "p1", entryA)
	require.Error(t, err)
	errors.AssertCode(t, err, http.StatusNotFound)

	// An administrator removes anyone's entry.
	paper, err = service.AdminRemoveRead("p1", entryB)
	require.NoError(t, err)
	assert.Len(t, paper.Reads, 0)
}

func TestPaperService_Search(t *testing.T) {
	service, _, _, f := createService(t)
	defer f()

	metas := []struct {
		id   string
		meta readnet.PaperMeta
		user users.User
	}{
		{"p1", readnet.PaperMeta{Title: "Neural Nets", Abstract: "a", Authors: []string{"A"}, Year: year(2020)}, alice},
		{"p2", readnet.PaperMeta{Title: "Neural Nets", Abstract: "a", Authors: []string{"B"}, Year: year(2021)}, bob},
		{"p3", readnet.PaperMeta{Title: "Monte Carlo", Abstract: "a", Authors: []string{"C"}, Year: year(2020)}, alice},
	}
	for _, m := range metas {
		_, err := service.MarkRead(m.user, m.id, m.meta, "")
		require.NoError(t, err)
	}

	// Conjunction of keyword and year.
	res, err := service.Search(readnet.SearchParams{Q: "Neural", Year: year(2020), Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Papers, 1)
	assert.Equal(t, "p1", res.Papers[0].ID)
	assert.Equal(t, uint64(1), res.Pagination.Total)

	// Total is independent of the page size.
	res, err = service.Search(readnet.SearchParams{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Papers, 1)
	assert.Equal(t, uint64(3), res.Pagination.Total)

	res, err = service.Search(readnet.SearchParams{Page: 4, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, res.Papers, 0)
	assert.Equal(t, uint64(3), res.Pagination.Total)

	// Full paper documents come back, reads included.
	res, err = service.Search(readnet.SearchParams{Reader: "bob", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Papers, 1)
	assert.Len(t, res.Papers[0].Reads, 1)
}

func TestPaperService_Search_Validation(t *testing.T) {
	service, _, _, f := createService(t)
	defer f()

	tts := map[string]readnet.SearchParams{
		"page zero":          {Page: 0, Limit: 10},
		"negative page":      {Page: -1, Limit: 10},
		"limit zero":         {Page: 1, Limit: 0},
		"limit too high":     {Page: 1, Limit: 51},
		"year too old":       {Year: year(1800), Page: 1, Limit: 10},
		"year in the future": {Year: year(2999), Page: 1, Limit: 10},
	}

	for name, params := range tts {
		_, err := service.Search(params)
		require.Error(t, err, name)
		errors.AssertCode(t, err, http.StatusBadRequest)
	}
}

func TestPaperService_Reindex(t *testing.T) {
	service, _, index, f := createService(t)
	defer f()

	for _, id := range []string{"p1", "p2"} {
		_, err := service.MarkRead(alice, id, testMeta(), "")
		require.NoError(t, err)
	}

	// Wipe the index and rebuild it from the store.
	require.NoError(t, index.Delete("p1"))
	require.NoError(t, index.Delete("p2"))

	n, err := service.Reindex()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	res, err := service.Search(readnet.SearchParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, res.Papers, 2)
}
