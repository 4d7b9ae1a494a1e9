package desktop

import "errors"

// ErrAppNotFound is returned by Launch when the application id is not in the catalog.
var ErrAppNotFound = errors.New("app not found")
