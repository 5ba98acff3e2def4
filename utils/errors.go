package utils

import "errors"

var (
	ErrEmptyKeyword        = errors.New("keyword cannot be empty")
	ErrUnsupportedCategory = errors.New("unsupported product category")
	ErrUnknownProbe        = errors.New("unknown diagnostics probe")
)
