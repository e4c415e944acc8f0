package serverutils

import (
	"errors"

	"vox-tutor-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts every error escaping a handler into a
// structured JSON body with a success flag. Unrecognized errors are
// logged with full detail and surfaced as a generic 500.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		var apiErr Error
		if errors.As(err, &apiErr) {
			return c.Status(apiErr.Code).JSON(fiber.Map{
				"success": false,
				"message": apiErr.Message,
			})
		}

		var valErr ValidationError
		if errors.As(err, &valErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "validation failed",
				"errors":  valErr.Fields,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"success": false,
				"message": fiberErr.Message,
			})
		}

		log.Error("http", "unhandled request error", map[string]interface{}{
			"path":   c.Path(),
			"method": c.Method(),
			"error":  err.Error(),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Server Error",
		})
	}
}
