package reads

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/readnet/readnet"
)

func TestGuard(t *testing.T) {
	existing := []readnet.Read{
		{EntryID: "r1", User: "alice", Notes: "great paper"},
		{EntryID: "r2", User: "bob", Notes: ""},
	}
	paper := readnet.Paper{ID: "p1", Reads: existing}

	tts := map[string]struct {
		prevent   bool
		candidate readnet.Read
		duplicate bool
	}{
		"prevention off accepts an exact duplicate": {
			prevent:   false,
			candidate: readnet.Read{User: "alice", Notes: "great paper"},
			duplicate: false,
		},
		"same user and notes is a duplicate": {
			prevent:   true,
			candidate: readnet.Read{User: "alice", Notes: "great paper"},
			duplicate: true,
		},
		"same user with different notes is accepted": {
			prevent:   true,
			candidate: readnet.Read{User: "alice", Notes: "second pass"},
			duplicate: false,
		},
		"notes comparison is case sensitive": {
			prevent:   true,
			candidate: readnet.Read{User: "alice", Notes: "Great Paper"},
			duplicate: false,
		},
		"different user is accepted": {
			prevent:   true,
			candidate: readnet.Read{User: "carol", Notes: "great paper"},
			duplicate: false,
		},
		"empty notes can be duplicated too": {
			prevent:   true,
			candidate: readnet.Read{User: "bob", Notes: ""},
			duplicate: true,
		},
	}

	for name, tt := range tts {
		guard := Guard(readnet.Config{PreventDuplicateReads: tt.prevent}, tt.candidate)
		err := guard(paper)

		if tt.duplicate {
			assert.Error(t, err, name)
			assert.True(t, IsDuplicate(err), name)
		} else {
			assert.NoError(t, err, name)
		}
	}
}

func TestGuard_EmptyPaper(t *testing.T) {
	guard := Guard(readnet.Config{PreventDuplicateReads: true}, readnet.Read{User: "alice"})
	assert.NoError(t, guard(readnet.Paper{ID: "p1"}))
}
