// Package gfmerr holds the sentinel error kinds shared by the gf, matrix,
// shard, engine and selftest packages and the CLI, so callers can classify a failure with
// errors.Is regardless of which layer produced it.
package gfmerr

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument covers bad CLI shape, N or M out of range, or
	// N+M exceeding the 250-shard ceiling.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingShards means fewer than N shards opened successfully
	// during decode.
	ErrMissingShards = errors.New("missing shards")

	// ErrSignatureMismatch means two opened shards disagree on
	// {numData, numParity, blocksizePo2}.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrMatrixSingular means Gauss-Jordan reduction hit a zero pivot
	// where the construction guarantees one should not exist.
	ErrMatrixSingular = errors.New("matrix singular")

	// ErrInternalInvariant marks a failed assertion of one of the
	// algorithmic invariants in the generator matrix or recovery plan.
	ErrInternalInvariant = errors.New("internal invariant violated")
)
