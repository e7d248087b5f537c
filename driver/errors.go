package driver

import "errors"

var (
	// ErrEmptyDSN indicates the data source name has no database path.
	ErrEmptyDSN = errors.New("framesql driver: empty data source name")
)
