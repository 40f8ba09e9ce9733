package memory

import "errors"

// ErrMalformedResponse is returned when the oracle's reply contains no
// parseable JSON object, or the object fails to decode. The generation
// fails as a whole: nothing is persisted and the watermark does not move,
// so the batch stays eligible for a later retry.
var ErrMalformedResponse = errors.New("oracle response contained no parseable summary")
