package endpoints

import (
	"github.com/readnet/readnet/errors"
)

var errInvalidRequest = errors.New("invalid request", errors.BadRequest())
