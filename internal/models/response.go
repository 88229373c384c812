package models

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Response is the standard API envelope.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// PagedResponse is the envelope for list endpoints. Total/page/pages are
// always present so clients can render pagination even for empty results.
type PagedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Total   int64  `json:"total"`
	Page    int    `json:"page"`
	Pages   int    `json:"pages"`
	Data    any    `json:"data"`
}

// RespondSuccess writes a success envelope with the given HTTP status.
func RespondSuccess(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// RespondPage writes a success envelope carrying pagination metadata.
func RespondPage(c *fiber.Ctx, message string, data any, total int64, page, pages int) error {
	return c.Status(fiber.StatusOK).JSON(PagedResponse{
		Status:  "success",
		Message: message,
		Total:   total,
		Page:    page,
		Pages:   pages,
		Data:    data,
	})
}

// errorResponse is the failure envelope. Code carries the machine-readable
// error class alongside the human-readable message.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RespondWithError writes a failure envelope with an explicit HTTP status.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	resp := errorResponse{Status: "failed"}

	var appErr *AppError
	if errors.As(err, &appErr) {
		resp.Message = appErr.Message
		resp.Code = appErr.Code
	} else {
		resp.Message = err.Error()
	}

	return c.Status(status).JSON(resp)
}

// RespondError writes a failure envelope, deriving the HTTP status from the
// error's code.
func RespondError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, HTTPStatus(err), err)
}
