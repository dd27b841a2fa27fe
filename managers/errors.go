package managers

import "errors"

var (
	// ErrInvalidArgument reports a builder call that cannot produce a
	// valid statement, such as VALUES before columns or a page below 1.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoConnection is returned when a manager without an executor is
	// asked to render or execute.
	ErrNoConnection = errors.New("query is not bound to a connection")

	// ErrAliasStripping is returned when an UPDATE or DELETE uses table
	// aliases together with joins on a dialect that cannot keep them.
	ErrAliasStripping = errors.New("cannot strip table aliases from a statement with joins")
)
