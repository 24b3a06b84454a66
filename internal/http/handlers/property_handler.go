package handlers

import (
	"net/url"

	"tvicladmin/internal/log"
	"tvicladmin/internal/services"

	"github.com/gofiber/fiber/v2"
)

type PropertyHandler struct {
	Props *services.PropertyService
}

func queryValues(c *fiber.Ctx) url.Values {
	q := url.Values{}
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		q.Add(string(k), string(v))
	})
	return q
}

func (h *PropertyHandler) Search(c *fiber.Ctx) error {
	res, err := h.Props.Search(c.Context(), queryValues(c))
	if err != nil {
		return fail(c, err)
	}
	return jsonOK(c, res)
}

func (h *PropertyHandler) Get(c *fiber.Ctx) error {
	data, err := h.Props.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return jsonOK(c, data)
}

func (h *PropertyHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Props.Delete(c.Context(), id); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "property.delete", map[string]any{"property": id})
	return jsonOK(c, fiber.Map{"deleted": true})
}

func (h *PropertyHandler) Restore(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Props.Restore(c.Context(), id); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "property.restore", map[string]any{"property": id})
	return jsonOK(c, fiber.Map{"restored": true})
}

func (h *PropertyHandler) Verify(c *fiber.Ctx) error {
	id := c.Params("id")
	var req struct {
		Verified bool `json:"verified"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "bad request body")
	}
	if err := h.Props.Verify(c.Context(), id, req.Verified); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "property.verify", map[string]any{"property": id, "verified": req.Verified})
	return jsonOK(c, fiber.Map{"verified": req.Verified})
}
