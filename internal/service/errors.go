package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrForbidden        = errors.New("forbidden")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Entity-specific errors.
var (
	ErrTicketNotFound      = fmt.Errorf("%w: problem not found", ErrNotFound)
	ErrInstructionNotFound = fmt.Errorf("%w: instruction not found", ErrNotFound)
	ErrAdminNotFound       = fmt.Errorf("%w: administrator not found", ErrNotFound)
	ErrAdminExists         = fmt.Errorf("%w: administrator already exists", ErrConflict)
	ErrLastAdmin           = fmt.Errorf("%w: cannot remove the last administrator", ErrInvalidOperation)
	ErrInvalidStatus       = fmt.Errorf("%w: unknown problem status", ErrInvalidOperation)
	ErrInvalidCategory     = fmt.Errorf("%w: unknown problem category", ErrInvalidOperation)
	ErrInvalidEmail        = fmt.Errorf("%w: email is required", ErrInvalidOperation)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrLoginDisabled       = fmt.Errorf("%w: password login is not configured", ErrInvalidOperation)
)
