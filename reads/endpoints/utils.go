package endpoints

import (
	"github.com/readnet/readnet/errors"
)

// Variables and functions for specific errors
var (
	errInvalidRequest = errors.New("invalid request", errors.BadRequest())
)
