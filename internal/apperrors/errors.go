package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but does not own the resource.
var ErrForbidden = errors.New("forbidden")

// ErrInsufficientFunds indicates a transfer would overdraw the source account.
var ErrInsufficientFunds = errors.New("insufficient balance")

// ErrRateResolution indicates no exchange rate provider could serve the requested pair.
var ErrRateResolution = errors.New("exchange rate resolution failed")

// ErrInternal indicates an unexpected failure that should not be exposed to callers.
var ErrInternal = errors.New("internal error")
