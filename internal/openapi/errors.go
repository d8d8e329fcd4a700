package openapi

import "errors"

var (
	// Loading errors
	ErrDecode      = errors.New("failed to decode document")
	ErrEmptyInput  = errors.New("document is empty")
	ErrUnsupported = errors.New("unsupported document format")

	// Reference errors
	ErrMalformedReference  = errors.New("malformed reference")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrReferenceCycle      = errors.New("reference cycle detected")
)
