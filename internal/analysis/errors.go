package analysis

import "errors"

var (
	// ErrUnknownKind is a configuration error: the request named a kind the
	// registry does not know. It fails the whole request, fast.
	ErrUnknownKind = errors.New("unknown analysis kind")

	// ErrContextMissing signals an on-demand request whose session has no
	// cached core context. The caller should re-run core analysis instead of
	// having the engine silently recompute expensive context.
	ErrContextMissing = errors.New("analysis context missing: run core analysis first")
)

// ReasonDeadlineExceeded annotates kinds that were still in flight when the
// request's deadline fired.
const ReasonDeadlineExceeded = "deadline exceeded"

// ReasonCanceled annotates kinds abandoned because the caller canceled the
// request (a closed connection rather than an elapsed deadline).
const ReasonCanceled = "request canceled"
