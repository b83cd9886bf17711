package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError carries a status code and a user-facing message.
type HTTPError struct {
	Code    int
	Message string
}

func (e HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrUnauthorized        = HTTPError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Message: "Not found"}
	ErrConflict            = HTTPError{Code: http.StatusConflict, Message: "Conflict"}
	ErrUnprocessableEntity = HTTPError{Code: http.StatusUnprocessableEntity, Message: "Validation failed"}
	ErrTooManyRequests     = HTTPError{Code: http.StatusTooManyRequests, Message: "Too many requests"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Message: "An error occurred processing your request"}
	ErrBadGateway          = HTTPError{Code: http.StatusBadGateway, Message: "Upstream service failed"}
)
