package handler

import (
	"context"
	"errors"

	"github.com/ogurasousui/orgreport/internal/adapters/source/csvfile"
	"github.com/ogurasousui/orgreport/internal/core/employee"
	"github.com/ogurasousui/orgreport/internal/core/hierarchy"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, hierarchy.ErrInvalidInput),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidFirstName),
		errors.Is(err, employee.ErrInvalidLastName),
		errors.Is(err, employee.ErrInvalidSalary),
		errors.Is(err, employee.ErrInvalidManagerID),
		errors.Is(err, csvfile.ErrMissingColumns),
		errors.Is(err, csvfile.ErrMalformedRecord):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, hierarchy.ErrEmployeeNotFound),
		errors.Is(err, hierarchy.ErrCircularHierarchy),
		errors.Is(err, hierarchy.ErrChainTooLong):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
