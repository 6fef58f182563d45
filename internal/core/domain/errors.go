package domain

import (
	"errors"
	"fmt"
)

// Виды ошибок. REST-слой выбирает HTTP-статус по ним через errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Конкретные ошибки, которые возвращают Use Cases.
var (
	ErrAgreementNotFound       = fmt.Errorf("%w: agreement not found", ErrNotFound)
	ErrParentAgreementNotFound = fmt.Errorf("%w: parent agreement not found", ErrNotFound)
	ErrPropertyNotFound        = fmt.Errorf("%w: property not found", ErrNotFound)
	ErrTenantNotFound          = fmt.Errorf("%w: tenant not found", ErrNotFound)
	ErrLandlordNotFound        = fmt.Errorf("%w: landlord not found", ErrNotFound)
	ErrUserNotFound            = fmt.Errorf("%w: user not found", ErrNotFound)

	ErrPropertyNotAvailable = fmt.Errorf("%w: property is not available", ErrConflict)
	ErrAgreementNotPending  = fmt.Errorf("%w: agreement is no longer pending", ErrConflict)
	ErrEmailInUse           = fmt.Errorf("%w: email already in use", ErrConflict)

	ErrNotAgreementParty          = fmt.Errorf("%w: user is not a party of the agreement", ErrForbidden)
	ErrNotCounterpart             = fmt.Errorf("%w: only an agreement counterpart can perform such operation", ErrForbidden)
	ErrNotOwner                   = fmt.Errorf("%w: only an owner of agreement can perform such operation", ErrForbidden)
	ErrTenantRoleRequired         = fmt.Errorf("%w: only tenants can propose agreements", ErrForbidden)
	ErrTenantMismatch             = fmt.Errorf("%w: agreement tenant must be the acting user", ErrForbidden)
	ErrPropertyNotOwnedByLandlord = fmt.Errorf("%w: property is not owned by the landlord", ErrForbidden)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrTokenInvalid       = fmt.Errorf("%w: invalid jwt token", ErrUnauthorized)

	ErrInvalidInterval = fmt.Errorf("%w: unknown totals interval", ErrValidation)
)

// validationError оборачивает текст в ErrValidation.
func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
