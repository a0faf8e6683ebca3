package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks request validation failures. Handlers map it to 400;
// any other error is a server fault.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
