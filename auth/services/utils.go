package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/readnet/readnet/errors"
)

// errUserNotFound returns a 404 for when a user could not be found.
func errUserNotFound(id int) error {
	return errors.New(fmt.Sprintf("No user for id %d", id), errors.NotFound())
}

var errLoginIncorrect = errors.New("name or password incorrect", errors.Unauthorized())

// randToken draws size bytes from the system CSPRNG. The bytes end up
// salting credentials, so a short read is fatal rather than silently
// truncated.
func randToken(size int) string {
	b := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}
