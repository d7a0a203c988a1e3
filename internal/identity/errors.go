package identity

import "errors"

// ErrMalformedURL marks a URL from the remote source that lacks the path
// segments a prefix needs. Callers treat it as a data-quality problem with
// that one item, never as something to retry.
var ErrMalformedURL = errors.New("url missing owner/repo/number path segments")
