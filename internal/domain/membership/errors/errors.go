// Package errors contains domain-specific errors for the membership domain
package errors

import (
	pkgerrors "github.com/Lucxx50/BotLucasAllan/pkg/errors"
)

// Domain errors for membership operations
var (
	ErrUnauthorized       = pkgerrors.NewUnauthorizedError("Unauthorized")
	ErrMalformedPayload   = pkgerrors.NewValidationError("malformed JSON payload")
	ErrMissingEvent       = pkgerrors.NewValidationError("missing required field: event")
	ErrMissingEmail       = pkgerrors.NewValidationError("missing required field: user_email")
	ErrMissingExpiryDate  = pkgerrors.NewValidationError("missing required field: expiry_date")
	ErrInvalidExpiryDate  = pkgerrors.NewValidationError("expiry_date must be YYYY-MM-DD")
	ErrEmptyEmail         = pkgerrors.NewValidationError("email cannot be empty")
	ErrSubscriberNotFound = pkgerrors.NewNotFoundError("subscriber not found")
	ErrNotAdmin           = pkgerrors.NewPermissionError("admin only")
)
