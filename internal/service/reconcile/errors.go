package reconcile

import "errors"

// errFetchExhausted ends a pass quietly after the last retryable failure.
var errFetchExhausted = errors.New("pending fetch retries exhausted")
