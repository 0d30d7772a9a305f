package history

import "errors"

var (
	ErrStoreClosed   = errors.New("history store is closed")
	ErrUnknownDriver = errors.New("unknown history driver")
	ErrInvalidLimit  = errors.New("invalid query limit")
)
