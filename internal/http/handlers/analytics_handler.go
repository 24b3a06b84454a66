package handlers

import (
	"tvicladmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AnalyticsHandler struct {
	Analytics *services.AnalyticsService
}

func (h *AnalyticsHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.Analytics.Dashboard(c.Context(), queryValues(c))
	if err != nil {
		return fail(c, err)
	}
	return jsonOK(c, dash)
}

func (h *AnalyticsHandler) Slice(c *fiber.Ctx) error {
	data, err := h.Analytics.Slice(c.Context(), c.Params("slice"), queryValues(c))
	if err != nil {
		return fail(c, err)
	}
	return jsonOK(c, data)
}
