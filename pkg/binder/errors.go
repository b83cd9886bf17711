package binder

import "errors"

var (
	ErrBinderNotApplicable = errors.New("binder not applicable")
	ErrFailedToParseJSON   = errors.New("failed to parse JSON request body")
	ErrFailedToParseForm   = errors.New("failed to parse form data")
)
