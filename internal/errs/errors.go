package errs

import (
	"errors"
	"net/http"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody  = Error("invalid request body")
	ErrInvalidParams       = Error("invalid params")
	ErrUnauthorized        = Error("unauthorized")
	ErrPermissionDenied    = Error("permission denied")
	ErrUserNotFound        = Error("user not found")
	ErrRecipientNotFound   = Error("recipient not found")
	ErrClientNotFound      = Error("client not found")
	ErrMessageNotFound     = Error("message not found")
	ErrSelfMessaging       = Error("sender and recipient must differ")
	ErrEmptyMessage        = Error("message needs content or an attachment")
	ErrFileTooLarge        = Error("too large")
	ErrUnsupportedFileType = Error("unsupported type")
	ErrNoFileUploaded      = Error("no file uploaded")
	ErrUnableToOpenFile    = Error("unable to open uploaded file")
	ErrUnableToUploadFile  = Error("unable to upload file")
	ErrNoAdminAccount      = Error("no admin account configured")
	ErrMultipleAdmins      = Error("more than one admin account configured")
)

// HttpStatus maps the error taxonomy onto transport status codes:
// unauthenticated 401, permission denied 403, not found 404,
// invalid argument 400.
func HttpStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrRecipientNotFound),
		errors.Is(err, ErrClientNotFound), errors.Is(err, ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRequestBody), errors.Is(err, ErrInvalidParams),
		errors.Is(err, ErrSelfMessaging), errors.Is(err, ErrEmptyMessage),
		errors.Is(err, ErrFileTooLarge), errors.Is(err, ErrUnsupportedFileType),
		errors.Is(err, ErrNoFileUploaded):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
