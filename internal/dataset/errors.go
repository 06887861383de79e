package dataset

import "errors"

// ErrInputAccess marks an unreadable or missing input source: absent dataset
// files, unknown tables, unknown columns.
var ErrInputAccess = errors.New("input access")
