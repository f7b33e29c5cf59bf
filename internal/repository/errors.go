package repository

import "errors"

// ErrNotFound is returned when a row lookup matches nothing. Handlers map it
// to 404; every other repository error surfaces as a generic 500.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when a user insert or update collides with
// an existing email address.
var ErrDuplicateEmail = errors.New("email already taken")
