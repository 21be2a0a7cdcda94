package report

import "errors"

var (
	ErrInvalidPolicy    = errors.New("report: invalid policy")
	ErrHierarchyMissing = errors.New("report: hierarchy is required")
)
