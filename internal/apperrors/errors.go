package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotOwner indicates that the caller does not own the entity it tried to mutate.
var ErrNotOwner = errors.New("caller is not the owner")

// ErrConflict indicates that a conditional write lost a version race.
// Services retry on it internally; it should not normally escape a facade.
var ErrConflict = errors.New("version conflict")

// ErrContention is returned once bounded retries on ErrConflict are exhausted.
// The caller decides whether to resubmit.
var ErrContention = errors.New("write contention, retries exhausted")

// ErrInsufficientBalance indicates the buyer cannot afford the listed price.
var ErrInsufficientBalance = errors.New("insufficient balance")
