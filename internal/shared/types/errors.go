package types

import "errors"

var (
	// ErrCatalogueUnavailable means the reference dataset is missing or malformed.
	ErrCatalogueUnavailable = errors.New("reference catalogue unavailable")

	// ErrMalformedInput marks a raw record that lacks required fields.
	ErrMalformedInput = errors.New("malformed input record")

	// ErrUnknownReference marks a join key with no catalogue row.
	ErrUnknownReference = errors.New("unknown catalogue reference")

	// ErrIncompleteCostSeries means the cost series is not exactly six months.
	ErrIncompleteCostSeries = errors.New("incomplete cost series")

	// ErrAssessment signals an internal invariant violation, usually a
	// catalogue that does not match this engine version.
	ErrAssessment = errors.New("assessment error")

	ErrInvalidConfig = errors.New("invalid assessment configuration")
	ErrAuthorization = errors.New("authorization check failed")
)
