package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// Response is the uniform JSON envelope every endpoint answers with.
type Response struct {
	Message    string      `json:"message"`
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Data       any         `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Validation any         `json:"validation,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page     int `json:"page"`
	NextPage int `json:"next_page"`
	PageSize int `json:"page_size"`
}

func ok(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Message:    message,
		Status:     "success",
		StatusCode: fiber.StatusOK,
		Data:       data,
	})
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Message:    message,
		Status:     "success",
		StatusCode: fiber.StatusCreated,
		Data:       data,
	})
}

func okPage(c *fiber.Ctx, message string, data any, page, pageSize int) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Message:    message,
		Status:     "success",
		StatusCode: fiber.StatusOK,
		Data:       data,
		Pagination: &Pagination{
			Page:     page,
			NextPage: page + 1,
			PageSize: pageSize,
		},
	})
}

func validationFailed(c *fiber.Ctx, details any) error {
	return c.Status(fiber.StatusBadRequest).JSON(Response{
		Message:    "Invalid Request Payload",
		Status:     "Error",
		StatusCode: fiber.StatusBadRequest,
		Validation: details,
	})
}

// fail maps a core error onto the envelope. Rich errors carry their own HTTP
// code; anything else is an internal fault reported without detail.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		status = statusFor(richErr)
		message = richErr.Message
	}

	if status >= fiber.StatusInternalServerError {
		message = "internal server error"
	}

	return c.Status(status).JSON(Response{
		Message:    message,
		Status:     "Error",
		StatusCode: status,
	})
}

func statusFor(richErr *errors.Error) int {
	if richErr.Code > 0 {
		return richErr.Code
	}

	switch richErr.Category {
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
