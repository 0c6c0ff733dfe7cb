package memorystorage

import "errors"

// ErrDuplicateID is returned when inserting a record whose id is already stored.
var ErrDuplicateID = errors.New("duplicate user id")
