package results

import "errors"

// ErrStorageAccess marks a results database that cannot be opened, read or
// rewritten. It aborts the enclosing persistence call with no partial write.
var ErrStorageAccess = errors.New("storage access")
