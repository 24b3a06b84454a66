package handlers

import (
	"tvicladmin/internal/domain"
	"tvicladmin/internal/listing"
	"tvicladmin/internal/log"
	"tvicladmin/internal/services"
	"tvicladmin/internal/validate"
	"tvicladmin/internal/wizard"

	"github.com/gofiber/fiber/v2"
)

type WizardHandler struct {
	Wizards *services.WizardService
}

// wizardView is what every mutating wizard endpoint returns, so the caller
// always holds the current draft, step, errors and category layout.
func wizardView(w *wizard.Wizard) fiber.Map {
	cats := w.Categories()
	progress := make(map[string]string, len(cats))
	for _, cat := range cats {
		progress[cat.ID] = w.CategoryProgress(cat)
	}
	return fiber.Map{
		"draft":      w.Draft(),
		"step":       w.Step(),
		"errors":     w.Errors(),
		"categories": cats,
		"progress":   progress,
		"complete":   w.Complete(),
	}
}

// loadWizard pulls the wizard for the draft named in the route, checking
// ownership.
func loadWizard(c *fiber.Ctx, svc *services.WizardService) (*wizard.Wizard, string, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return nil, "", services.ErrDraftNotFound
	}
	c.Locals("draftid", id)
	u := c.Locals("user").(*domain.User)
	w, err := svc.Load(id, u.ID)
	return w, id, err
}

func (h *WizardHandler) load(c *fiber.Ctx) (*wizard.Wizard, string, error) {
	return loadWizard(c, h.Wizards)
}

func (h *WizardHandler) Create(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	rec, w, err := h.Wizards.CreateDraft(u.ID)
	if err != nil {
		log.Error(c, "draft.create", err, nil)
		return fail(c, err)
	}
	c.Locals("draftid", rec.ID)
	log.Audit(c, "draft.create", map[string]any{"draft": rec.ID})
	view := wizardView(w)
	view["id"] = rec.ID
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": view})
}

func (h *WizardHandler) List(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	recs, err := h.Wizards.List(u.ID)
	if err != nil {
		return fail(c, err)
	}
	out := make([]fiber.Map, 0, len(recs))
	for _, r := range recs {
		out = append(out, fiber.Map{"id": r.ID, "step": r.Step, "createdAt": r.CreatedAt, "updatedAt": r.UpdatedAt})
	}
	return jsonOK(c, out)
}

func (h *WizardHandler) Get(c *fiber.Ctx) error {
	w, _, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	return jsonOK(c, wizardView(w))
}

type fieldChangeRequest struct {
	Path    string `json:"path"`
	Value   any    `json:"value"`
	Op      string `json:"op"`
	Checked bool   `json:"checked"`
}

func (h *WizardHandler) PatchField(c *fiber.Ctx) error {
	w, id, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	var req fieldChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "bad request body")
	}
	path, err := listing.ParsePath(req.Path)
	if err != nil {
		return jsonErr(c, fiber.StatusBadRequest, err.Error())
	}
	op := listing.OpSet
	switch req.Op {
	case "", "set":
	case "toggle":
		op = listing.OpToggle
	case "append":
		op = listing.OpAppend
	default:
		return jsonErr(c, fiber.StatusBadRequest, "unknown op "+req.Op)
	}
	ch := listing.FieldChange{Path: path, Value: req.Value, Op: op, Checked: req.Checked}
	if err := w.ApplyField(ch); err != nil {
		return fail(c, err)
	}
	if err := h.Wizards.Persist(id, w); err != nil {
		log.Error(c, "draft.save", err, nil)
		return fail(c, err)
	}
	return jsonOK(c, wizardView(w))
}

func (h *WizardHandler) Advance(c *fiber.Ctx) error {
	w, id, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	res := w.Advance()
	if err := h.Wizards.Persist(id, w); err != nil {
		return fail(c, err)
	}
	view := wizardView(w)
	view["valid"] = res.Valid
	return jsonOK(c, view)
}

func (h *WizardHandler) Back(c *fiber.Ctx) error {
	w, id, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	w.Back()
	if err := h.Wizards.Persist(id, w); err != nil {
		return fail(c, err)
	}
	return jsonOK(c, wizardView(w))
}

// Reset restarts the wizard in place: defaults back, files released, step 1.
func (h *WizardHandler) Reset(c *fiber.Ctx) error {
	w, id, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	w.Reset()
	if err := h.Wizards.Persist(id, w); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "draft.reset", nil)
	return jsonOK(c, wizardView(w))
}

func (h *WizardHandler) Discard(c *fiber.Ctx) error {
	w, id, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Wizards.Discard(id, w); err != nil {
		return fail(c, err)
	}
	log.Audit(c, "draft.discard", nil)
	return jsonOK(c, fiber.Map{"deleted": true})
}

func (h *WizardHandler) AddContact(c *fiber.Ctx) error {
	return h.mutate(c, func(w *wizard.Wizard) error {
		w.AddContact()
		return nil
	})
}

func (h *WizardHandler) RemoveContact(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "bad index")
	}
	return h.mutate(c, func(w *wizard.Wizard) error { return w.RemoveContact(idx) })
}

func (h *WizardHandler) AddPaymentPlan(c *fiber.Ctx) error {
	return h.mutate(c, func(w *wizard.Wizard) error {
		w.AddPaymentPlan()
		return nil
	})
}

func (h *WizardHandler) RemovePaymentPlan(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "bad index")
	}
	return h.mutate(c, func(w *wizard.Wizard) error { return w.RemovePaymentPlan(idx) })
}

// PrefillContact copies the logged-in operator into the first contact slot.
// contactRole maps an operator account role onto a listing contact role so a
// prefilled contact passes validation.
func contactRole(role string) string {
	if role == "ADMIN" {
		return "Owner"
	}
	return "Agent"
}

func (h *WizardHandler) PrefillContact(c *fiber.Ctx) error {
	u := c.Locals("user").(*domain.User)
	return h.mutate(c, func(w *wizard.Wizard) error {
		w.PrefillContact(listing.Contact{
			Name:  u.Name,
			Phone: u.Phone,
			Email: u.Email,
			Role:  contactRole(u.Role),
		})
		return nil
	})
}

func (h *WizardHandler) Submit(c *fiber.Ctx) error {
	w, id, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	if !w.Complete() || w.Step() != wizard.LastStep {
		return jsonErr(c, fiber.StatusConflict, "draft is not ready to submit")
	}
	created, err := h.Wizards.Submit(c.Context(), id, w)
	if err != nil {
		log.Error(c, "draft.submit", err, nil)
		return fail(c, err)
	}
	log.Audit(c, "draft.submit", map[string]any{"draft": id})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": created})
}

func (h *WizardHandler) mutate(c *fiber.Ctx, fn func(*wizard.Wizard) error) error {
	w, id, err := h.load(c)
	if err != nil {
		return fail(c, err)
	}
	if err := fn(w); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, err.Error())
	}
	if err := h.Wizards.Persist(id, w); err != nil {
		return fail(c, err)
	}
	return jsonOK(c, wizardView(w))
}
