package collector

import "errors"

// Upstream failure taxonomy. The market policy layer absorbs all three and
// degrades to a stale or synthetic result; they never reach API callers.
var (
	// ErrSourceUnavailable covers network errors, timeouts, and non-2xx
	// responses.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedResponse covers payloads that parse but do not carry the
	// expected shape, and empty result sets.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrRateLimited covers explicit provider quota or plan-restriction
	// signals, distinct from plain unavailability.
	ErrRateLimited = errors.New("rate limited")
)
