// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package params

import (
	"github.com/juju/errors"
)

// Error is the type of error returned by any call to the controller API.
type Error struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code"`
	Info    map[string]interface{} `json:"info,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

// ErrorCode implements rpc.ErrorCoder.
func (e Error) ErrorCode() string {
	return e.Code
}

// The Code constants hold error codes for well known errors.
const (
	CodeNotFound          = "not found"
	CodeUserNotFound      = "user not found"
	CodeUnauthorized      = "unauthorized access"
	CodeLoginExpired      = "login expired"
	CodeNoCreds           = "no credentials provided"
	CodeStopped           = "stopped"
	CodeDead              = "dead"
	CodeNotImplemented    = "not implemented"
	CodeAlreadyExists     = "already exists"
	CodeNotSupported      = "not supported"
	CodeNotValid          = "not valid"
	CodeBadRequest        = "bad request"
	CodeForbidden         = "forbidden"
	CodeUpgradeInProgress = "upgrade in progress"
	CodeRetry             = "retry"
)

// ErrCode returns the error code associated with
// the given error, or the empty string if there
// is none.
func ErrCode(err error) string {
	type ErrorCoder interface {
		ErrorCode() string
	}
	switch err := errors.Cause(err).(type) {
	case ErrorCoder:
		return err.ErrorCode()
	default:
		return ""
	}
}

// IsCodeNotFound reports whether err carries the not found code.
func IsCodeNotFound(err error) bool {
	return ErrCode(err) == CodeNotFound
}

// IsCodeUnauthorized reports whether err carries the unauthorized code.
func IsCodeUnauthorized(err error) bool {
	return ErrCode(err) == CodeUnauthorized
}

// IsCodeStopped reports whether err carries the stopped code. The
// controller sends it when an AllWatcher has been stopped.
func IsCodeStopped(err error) bool {
	return ErrCode(err) == CodeStopped
}

// TranslateWellKnownError translates well known wire error codes into a
// github.com/juju/errors error that matches the error code.
func TranslateWellKnownError(err error) error {
	code := ErrCode(err)
	switch code {
	case CodeNotFound:
		return errors.NewNotFound(err, "")
	case CodeUserNotFound:
		return errors.NewUserNotFound(err, "")
	case CodeUnauthorized, CodeNoCreds, CodeLoginExpired:
		return errors.NewUnauthorized(err, "")
	case CodeNotImplemented:
		return errors.NewNotImplemented(err, "")
	case CodeAlreadyExists:
		return errors.NewAlreadyExists(err, "")
	case CodeNotSupported:
		return errors.NewNotSupported(err, "")
	case CodeNotValid:
		return errors.NewNotValid(err, "")
	case CodeBadRequest:
		return errors.NewBadRequest(err, "")
	case CodeForbidden:
		return errors.NewForbidden(err, "")
	}
	return err
}
