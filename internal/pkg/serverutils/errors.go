package serverutils

import (
	"github.com/gofiber/fiber/v2"
)

// Error is the client-facing failure type. Code decides the HTTP
// status; Message is safe to return to the client (provider detail
// stays in the server log).
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	return e.Message
}

func NewError(code int, message string) Error {
	return Error{Code: code, Message: message}
}

func ErrInvalidInput(message string) Error {
	return NewError(fiber.StatusBadRequest, message)
}

func ErrNotFound(message string) Error {
	return NewError(fiber.StatusNotFound, message)
}

func ErrSessionExpired() Error {
	return NewError(fiber.StatusForbidden, "Session expired. Please upload the PDF again.")
}

func ErrPayloadTooLarge(message string) Error {
	return NewError(fiber.StatusRequestEntityTooLarge, message)
}

func ErrUnsupportedMediaType(message string) Error {
	return NewError(fiber.StatusUnsupportedMediaType, message)
}

func ErrUpstreamUnavailable(message string) Error {
	return NewError(fiber.StatusBadGateway, message)
}
