package employee

import "errors"

var (
	ErrInvalidID        = errors.New("employee: invalid id")
	ErrInvalidFirstName = errors.New("employee: invalid first name")
	ErrInvalidLastName  = errors.New("employee: invalid last name")
	ErrInvalidSalary    = errors.New("employee: invalid salary")
	ErrInvalidManagerID = errors.New("employee: invalid manager id")
)
