package handlers

import (
	"database/sql"
	"errors"

	"tvicladmin/internal/listing"
	"tvicladmin/internal/platform"
	"tvicladmin/internal/services"
	"tvicladmin/internal/wizard"

	"github.com/gofiber/fiber/v2"
)

func jsonOK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"data": data})
}

func jsonErr(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// fail maps service errors to a status and body. Validation batches and
// unknown fields are client errors; platform errors pass their status through.
func fail(c *fiber.Ctx, err error) error {
	var batch *wizard.BatchError
	var apiErr *platform.APIError
	switch {
	case errors.Is(err, services.ErrDraftNotFound), errors.Is(err, sql.ErrNoRows):
		return jsonErr(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrNotOwner):
		return jsonErr(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, listing.ErrUnknownField):
		return jsonErr(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &batch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":    batch.Error(),
			"rejected": batch.Rejected,
		})
	case errors.As(err, &apiErr):
		return jsonErr(c, apiErr.Status, apiErr.Message)
	case errors.Is(err, platform.ErrUnauthorized):
		return jsonErr(c, fiber.StatusBadGateway, "platform session expired")
	default:
		return jsonErr(c, fiber.StatusInternalServerError, "internal error")
	}
}
